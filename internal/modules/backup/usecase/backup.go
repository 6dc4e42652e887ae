package usecase

import (
	"context"

	"dictation/internal/modules/backup/domain"
	"dictation/internal/modules/backup/dto"
	backupin "dictation/internal/modules/backup/port/in"
	"dictation/internal/modules/backup/service"
)

type Interactor struct {
	svc *service.BackupService
}

func NewInteractor(svc *service.BackupService) backupin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, bundle, err := i.svc.Export(ctx, input.Path)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	out := toImportOutput(path, bundle)
	return dto.ExportOutput{Path: path, Stars: out.Stars, Units: out.Units, ExportDate: bundle.ExportDate}, nil
}

func (i *Interactor) Inspect(ctx context.Context, path string) (dto.ImportOutput, error) {
	bundle, err := i.svc.Inspect(ctx, path)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	return toImportOutput(path, bundle), nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error) {
	bundle, err := i.svc.Import(ctx, input.Path, input.Confirmed)
	out := toImportOutput(input.Path, bundle)
	if err != nil {
		return out, err
	}
	out.Applied = true
	return out, nil
}

func toImportOutput(path string, bundle domain.Bundle) dto.ImportOutput {
	out := dto.ImportOutput{Path: path, ExportDate: bundle.ExportDate, Version: bundle.Version}
	if bundle.StarData != nil {
		out.HasStars = true
		out.Stars = len(*bundle.StarData)
	}
	if bundle.LearningStats != nil {
		out.HasStats = true
		out.Units = len(*bundle.LearningStats)
	}
	return out
}
