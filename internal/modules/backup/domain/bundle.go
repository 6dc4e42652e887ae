package domain

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "dictation/internal/platform/errors"
)

const (
	Version       = "1.0"
	FilePrefix    = "english-dictation-backup-"
	FileExtension = ".json"
	dayLayout     = "2006-01-02"
)

type StatsRecord struct {
	TotalTime    float64   `json:"totalTime"`
	LastAccessed time.Time `json:"lastAccessed"`
	Sessions     int       `json:"sessions"`
	Mastery      int       `json:"mastery"`
}

// Bundle is the export file. A nil section was absent from an imported file and is left alone.
type Bundle struct {
	StarData      *map[string]int         `json:"starData,omitempty"`
	LearningStats *map[string]StatsRecord `json:"learningStats,omitempty"`
	ExportDate    string                  `json:"exportDate"`
	Version       string                  `json:"version"`
}

func NewBundle(stars map[string]int, stats map[string]StatsRecord, exportedAt time.Time) Bundle {
	if stars == nil {
		stars = map[string]int{}
	}
	if stats == nil {
		stats = map[string]StatsRecord{}
	}
	return Bundle{
		StarData:      &stars,
		LearningStats: &stats,
		ExportDate:    exportedAt.UTC().Format(time.RFC3339),
		Version:       Version,
	}
}

func (b Bundle) Marshal() ([]byte, error) {
	payload, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return payload, nil
}

func Parse(raw []byte) (Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("%w: backup file: %v", apperrors.ErrInvalidInput, err)
	}
	return bundle, nil
}

// FileName is the default export name for the given day.
func FileName(day time.Time) string {
	return FilePrefix + day.UTC().Format(dayLayout) + FileExtension
}
