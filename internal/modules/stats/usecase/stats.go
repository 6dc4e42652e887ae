package usecase

import (
	"context"

	"dictation/internal/modules/stats/domain"
	"dictation/internal/modules/stats/dto"
	statsin "dictation/internal/modules/stats/port/in"
	"dictation/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RecordVisit(ctx context.Context, unitID string) (dto.UnitStatsOutput, error) {
	record, err := i.svc.RecordVisit(ctx, unitID)
	if err != nil {
		return dto.UnitStatsOutput{}, err
	}
	return toOutput(unitID, record, true), nil
}

func (i *Interactor) Touch(ctx context.Context, unitID string) (dto.UnitStatsOutput, error) {
	record, err := i.svc.Touch(ctx, unitID)
	if err != nil {
		return dto.UnitStatsOutput{}, err
	}
	return toOutput(unitID, record, true), nil
}

func (i *Interactor) AccrueTime(ctx context.Context, input dto.AccrueInput) (dto.UnitStatsOutput, error) {
	record, ok, err := i.svc.AccrueTime(ctx, input.UnitID, input.Minutes)
	if err != nil {
		return dto.UnitStatsOutput{}, err
	}
	return toOutput(input.UnitID, record, ok), nil
}

func (i *Interactor) SetMastery(ctx context.Context, input dto.SetMasteryInput) error {
	return i.svc.SetMastery(ctx, input.UnitID, input.Percent)
}

func (i *Interactor) Get(ctx context.Context, unitID string) (dto.UnitStatsOutput, error) {
	record, ok, err := i.svc.Get(ctx, unitID)
	if err != nil {
		return dto.UnitStatsOutput{}, err
	}
	return toOutput(unitID, record, ok), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.UnitStatsOutput, error) {
	entries, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitStatsOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toOutput(entry.UnitID, entry.UnitStats, true))
	}
	return out, nil
}

func (i *Interactor) Snapshot(ctx context.Context) (map[string]dto.Record, error) {
	book, err := i.svc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]dto.Record, len(book))
	for id, record := range book {
		out[id] = dto.Record(record)
	}
	return out, nil
}

func (i *Interactor) Replace(ctx context.Context, input dto.ReplaceInput) error {
	book := make(domain.Book, len(input.Records))
	for id, record := range input.Records {
		book[id] = domain.UnitStats(record)
	}
	return i.svc.Replace(ctx, book)
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func toOutput(unitID string, record domain.UnitStats, found bool) dto.UnitStatsOutput {
	return dto.UnitStatsOutput{
		UnitID:       unitID,
		TotalTime:    record.TotalTime,
		LastAccessed: record.LastAccessed,
		Sessions:     record.Sessions,
		Mastery:      record.Mastery,
		Found:        found,
	}
}
