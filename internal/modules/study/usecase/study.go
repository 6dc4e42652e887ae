package usecase

import (
	"context"

	masterydto "dictation/internal/modules/mastery/dto"
	statsdto "dictation/internal/modules/stats/dto"
	"dictation/internal/modules/study/domain"
	"dictation/internal/modules/study/dto"
	studyin "dictation/internal/modules/study/port/in"
	"dictation/internal/modules/study/service"
)

type Interactor struct {
	svc *service.StudyService
}

func NewInteractor(svc *service.StudyService) studyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.WorkspaceOutput, error) {
	view, err := i.svc.Open(ctx, input.UnitID, input.Visit)
	if err != nil {
		return dto.WorkspaceOutput{}, err
	}
	return toWorkspaceOutput(view), nil
}

func (i *Interactor) Reload(ctx context.Context) (dto.WorkspaceOutput, error) {
	view, err := i.svc.Reload(ctx)
	if err != nil {
		return dto.WorkspaceOutput{}, err
	}
	return toWorkspaceOutput(view), nil
}

func (i *Interactor) Current(ctx context.Context) (dto.WorkspaceOutput, error) {
	view, err := i.svc.Current(ctx)
	if err != nil {
		return dto.WorkspaceOutput{}, err
	}
	return toWorkspaceOutput(view), nil
}

func (i *Interactor) SelectTab(ctx context.Context, kind string) (dto.WorkspaceOutput, error) {
	view, err := i.svc.SelectTab(ctx, domain.Kind(kind))
	if err != nil {
		return dto.WorkspaceOutput{}, err
	}
	return toWorkspaceOutput(view), nil
}

func (i *Interactor) Flip(ctx context.Context, itemID string) (dto.FlipOutput, error) {
	result, err := i.svc.Flip(ctx, itemID)
	if err != nil {
		return dto.FlipOutput{}, err
	}
	return dto.FlipOutput{Card: toCardOutput(result.Card), AudioErr: result.AudioErr}, nil
}

func (i *Interactor) MarkCorrect(ctx context.Context, itemID string) (dto.MarkOutput, error) {
	result, err := i.svc.MarkCorrect(ctx, itemID)
	if err != nil {
		return dto.MarkOutput{}, err
	}
	return toMarkOutput(result), nil
}

func (i *Interactor) MarkReview(ctx context.Context, itemID string) (dto.MarkOutput, error) {
	result, err := i.svc.MarkReview(ctx, itemID)
	if err != nil {
		return dto.MarkOutput{}, err
	}
	return toMarkOutput(result), nil
}

func (i *Interactor) Play(ctx context.Context, itemID string) (dto.PlayOutput, error) {
	out, err := i.svc.Play(ctx, itemID)
	if err != nil {
		return dto.PlayOutput{}, err
	}
	return dto.PlayOutput{Control: out.Control, Outcome: out.Outcome}, nil
}

func (i *Interactor) ResetTab(ctx context.Context, input dto.ResetTabInput) error {
	return i.svc.ResetTab(ctx, domain.Kind(input.Kind), input.Confirmed)
}

func (i *Interactor) ResetAll(ctx context.Context, confirmed bool) error {
	return i.svc.ResetAll(ctx, confirmed)
}

func (i *Interactor) Tick(ctx context.Context) error {
	return i.svc.Tick(ctx)
}

func (i *Interactor) Overview(ctx context.Context) (dto.OverviewOutput, error) {
	overview, err := i.svc.Overview(ctx)
	if err != nil {
		return dto.OverviewOutput{}, err
	}
	out := dto.OverviewOutput{
		UnitID:    overview.UnitID,
		Title:     overview.Title,
		Words:     toSummary(overview.Words),
		Sentences: toSummary(overview.Sentences),
		Overall:   toSummary(overview.Overall),
		Unit:      toUnitStats(overview.Unit),
		All:       make([]dto.UnitStatsOutput, 0, len(overview.All)),
	}
	for _, entry := range overview.All {
		out.All = append(out.All, toUnitStats(entry))
	}
	return out, nil
}

func (i *Interactor) Close(ctx context.Context) error {
	return i.svc.Close(ctx)
}

func toWorkspaceOutput(view service.View) dto.WorkspaceOutput {
	return dto.WorkspaceOutput{
		UnitID:      view.UnitID,
		Title:       view.Title,
		Description: view.Description,
		Tab:         string(view.Tab),
		Words:       toCardOutputs(view.Words),
		Sentences:   toCardOutputs(view.Sentences),
		Playing:     view.Playing,
	}
}

func toCardOutputs(cards []domain.Card) []dto.CardOutput {
	out := make([]dto.CardOutput, 0, len(cards))
	for _, card := range cards {
		out = append(out, toCardOutput(card))
	}
	return out
}

func toCardOutput(card domain.Card) dto.CardOutput {
	return dto.CardOutput{
		ID:             card.ID,
		Kind:           string(card.Kind),
		Position:       card.Position,
		NumberKey:      card.NumberKey,
		English:        card.English,
		Translation:    card.Translation,
		Hint:           card.Hint,
		Audio:          card.Audio,
		Stars:          card.Stars,
		MaxStars:       card.MaxStars,
		LabelKey:       card.LabelKey,
		Flipped:        card.Flipped,
		Playing:        card.Playing,
		CorrectEnabled: card.CorrectEnabled,
		ReviewEnabled:  card.ReviewEnabled,
	}
}

func toMarkOutput(result service.MarkResult) dto.MarkOutput {
	return dto.MarkOutput{Card: toCardOutput(result.Card), Changed: result.Changed, Overall: toSummary(result.Overall)}
}

func toSummary(in masterydto.SummaryOutput) dto.SummaryOutput {
	return dto.SummaryOutput{Total: in.Total, Mastered: in.Mastered, Review: in.Review, Percent: in.Percent}
}

func toUnitStats(in statsdto.UnitStatsOutput) dto.UnitStatsOutput {
	return dto.UnitStatsOutput(in)
}
