package service

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"dictation/internal/modules/backup/domain"
	backupout "dictation/internal/modules/backup/port/out"
	masterydto "dictation/internal/modules/mastery/dto"
	masteryin "dictation/internal/modules/mastery/port/in"
	statsdto "dictation/internal/modules/stats/dto"
	statsin "dictation/internal/modules/stats/port/in"
	"dictation/internal/platform/clock"
	apperrors "dictation/internal/platform/errors"
)

type BackupService struct {
	clock   clock.Clock
	mastery masteryin.Usecase
	stats   statsin.Usecase
	archive backupout.Archive
	logger  hclog.Logger
}

func NewBackupService(clock clock.Clock, mastery masteryin.Usecase, stats statsin.Usecase, archive backupout.Archive, logger hclog.Logger) *BackupService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &BackupService{clock: clock, mastery: mastery, stats: stats, archive: archive, logger: logger}
}

// Export writes both stored maps to path; an empty path or a directory gets the dated default name.
func (s *BackupService) Export(ctx context.Context, path string) (string, domain.Bundle, error) {
	stars, err := s.mastery.Snapshot(ctx)
	if err != nil {
		return "", domain.Bundle{}, err
	}
	records, err := s.stats.Snapshot(ctx)
	if err != nil {
		return "", domain.Bundle{}, err
	}
	stats := make(map[string]domain.StatsRecord, len(records))
	for unitID, record := range records {
		stats[unitID] = domain.StatsRecord(record)
	}
	now := s.clock.Now()
	bundle := domain.NewBundle(stars, stats, now)
	payload, err := bundle.Marshal()
	if err != nil {
		return "", domain.Bundle{}, err
	}
	written, err := s.archive.Write(ctx, path, payload, domain.FileName(now))
	if err != nil {
		return "", domain.Bundle{}, err
	}
	s.logger.Info("backup exported", "path", written, "stars", len(stars), "units", len(stats))
	return written, bundle, nil
}

// Inspect parses a backup without applying it.
func (s *BackupService) Inspect(ctx context.Context, path string) (domain.Bundle, error) {
	raw, err := s.archive.Read(ctx, path)
	if err != nil {
		return domain.Bundle{}, err
	}
	return domain.Parse(raw)
}

// Import overwrites each section present in the file. Nothing changes unless the file parses and confirmed is set.
func (s *BackupService) Import(ctx context.Context, path string, confirmed bool) (domain.Bundle, error) {
	bundle, err := s.Inspect(ctx, path)
	if err != nil {
		s.logger.Warn("backup import rejected", "path", path, "error", err)
		return domain.Bundle{}, err
	}
	if !confirmed {
		return bundle, fmt.Errorf("%w: importing overwrites existing progress", apperrors.ErrConfirmationRequired)
	}
	if bundle.StarData != nil {
		if err := s.mastery.Replace(ctx, masterydto.ReplaceInput{Stars: *bundle.StarData}); err != nil {
			return domain.Bundle{}, err
		}
	}
	if bundle.LearningStats != nil {
		records := make(map[string]statsdto.Record, len(*bundle.LearningStats))
		for unitID, record := range *bundle.LearningStats {
			records[unitID] = statsdto.Record(record)
		}
		if err := s.stats.Replace(ctx, statsdto.ReplaceInput{Records: records}); err != nil {
			return domain.Bundle{}, err
		}
	}
	s.logger.Info("backup imported", "path", path, "stars", bundle.StarData != nil, "stats", bundle.LearningStats != nil)
	return bundle, nil
}
