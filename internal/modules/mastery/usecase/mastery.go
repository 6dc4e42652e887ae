package usecase

import (
	"context"

	"dictation/internal/modules/mastery/domain"
	"dictation/internal/modules/mastery/dto"
	masteryin "dictation/internal/modules/mastery/port/in"
	"dictation/internal/modules/mastery/service"
)

type Interactor struct {
	svc *service.MasteryService
}

func NewInteractor(svc *service.MasteryService) masteryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Stars(ctx context.Context, input dto.IDsInput) (dto.StarsOutput, error) {
	stars, err := i.svc.Stars(ctx, input.IDs)
	if err != nil {
		return dto.StarsOutput{}, err
	}
	out := dto.StarsOutput{Max: domain.Max, Items: make(map[string]dto.StarOutput, len(stars))}
	for id, count := range stars {
		out.Items[id] = dto.StarOutput{ID: id, Stars: count, Label: domain.Label(count)}
	}
	return out, nil
}

func (i *Interactor) Increment(ctx context.Context, id string) (dto.StarOutput, error) {
	stars, changed, err := i.svc.Increment(ctx, id)
	if err != nil {
		return dto.StarOutput{}, err
	}
	return dto.StarOutput{ID: id, Stars: stars, Label: domain.Label(stars), Changed: changed}, nil
}

func (i *Interactor) Decrement(ctx context.Context, id string) (dto.StarOutput, error) {
	stars, changed, err := i.svc.Decrement(ctx, id)
	if err != nil {
		return dto.StarOutput{}, err
	}
	return dto.StarOutput{ID: id, Stars: stars, Label: domain.Label(stars), Changed: changed}, nil
}

func (i *Interactor) Ensure(ctx context.Context, input dto.IDsInput) error {
	return i.svc.Ensure(ctx, input.IDs)
}

func (i *Interactor) Reset(ctx context.Context, input dto.IDsInput) error {
	return i.svc.Reset(ctx, input.IDs)
}

func (i *Interactor) Summary(ctx context.Context, input dto.IDsInput) (dto.SummaryOutput, error) {
	summary, err := i.svc.Summary(ctx, input.IDs)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	return dto.SummaryOutput{
		Total:    summary.Total,
		Mastered: summary.Mastered,
		Review:   summary.Review,
		Percent:  summary.Percent,
	}, nil
}

func (i *Interactor) Snapshot(ctx context.Context) (map[string]int, error) {
	return i.svc.Snapshot(ctx)
}

func (i *Interactor) Replace(ctx context.Context, input dto.ReplaceInput) error {
	return i.svc.Replace(ctx, input.Stars)
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}
