package usecase

import (
	"context"

	"dictation/internal/modules/lesson/domain"
	"dictation/internal/modules/lesson/dto"
	lessonin "dictation/internal/modules/lesson/port/in"
	"dictation/internal/modules/lesson/service"
)

type Interactor struct {
	svc *service.LoaderService
}

func NewInteractor(svc *service.LoaderService) lessonin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) LoadIndex(ctx context.Context) (dto.IndexOutput, error) {
	index, err := i.svc.LoadIndex(ctx)
	if err != nil {
		return dto.IndexOutput{}, err
	}
	return toIndexOutput(index), nil
}

func (i *Interactor) LoadUnit(ctx context.Context, input dto.LoadUnitInput) (dto.UnitOutput, error) {
	unit, err := i.svc.LoadUnit(ctx, input.UnitID)
	if err != nil {
		return dto.UnitOutput{}, err
	}
	return dto.UnitOutput{
		ID:          unit.ID,
		Title:       unit.Title,
		Description: unit.Description,
		Words:       toItemOutputs(unit, domain.KindWords),
		Sentences:   toItemOutputs(unit, domain.KindSentences),
	}, nil
}

func (i *Interactor) Resolve(ctx context.Context, input dto.ResolveInput) (string, error) {
	return i.svc.Resolve(ctx, input.Requested)
}

func (i *Interactor) Upload(ctx context.Context, input dto.UploadInput) (dto.UnitRefOutput, error) {
	ref, err := i.svc.Upload(ctx, input.Payload)
	if err != nil {
		return dto.UnitRefOutput{}, err
	}
	return toRefOutput(ref), nil
}

func toIndexOutput(index domain.Index) dto.IndexOutput {
	out := dto.IndexOutput{Units: make([]dto.UnitRefOutput, 0, len(index.Units))}
	for _, ref := range index.Units {
		out.Units = append(out.Units, toRefOutput(ref))
	}
	return out
}

func toRefOutput(ref domain.UnitRef) dto.UnitRefOutput {
	return dto.UnitRefOutput{
		ID:             ref.ID,
		Title:          ref.Title,
		Description:    ref.Description,
		DataURL:        ref.DataURL,
		WordsCount:     ref.WordsCount,
		SentencesCount: ref.SentencesCount,
		Difficulty:     ref.Difficulty,
		Created:        ref.Created,
		Uploaded:       ref.IsUpload(),
	}
}

func toItemOutputs(unit domain.Unit, kind domain.Kind) []dto.ItemOutput {
	items := unit.Items(kind)
	out := make([]dto.ItemOutput, 0, len(items))
	for idx, item := range items {
		out = append(out, dto.ItemOutput{
			ID:          item.ID,
			Kind:        string(kind),
			Position:    idx + 1,
			English:     item.English,
			Translation: item.Translation,
			Audio:       item.Audio,
			Hint:        item.Hint,
		})
	}
	return out
}
