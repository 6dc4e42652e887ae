package dto

import "time"

type UnitStatsOutput struct {
	UnitID       string
	TotalTime    float64
	LastAccessed time.Time
	Sessions     int
	Mastery      int
	Found        bool
}

type AccrueInput struct {
	UnitID  string
	Minutes float64
}

type SetMasteryInput struct {
	UnitID  string
	Percent int
}

// Record mirrors one stored entry for bulk export and import.
type Record struct {
	TotalTime    float64   `json:"totalTime"`
	LastAccessed time.Time `json:"lastAccessed"`
	Sessions     int       `json:"sessions"`
	Mastery      int       `json:"mastery"`
}

type ReplaceInput struct {
	Records map[string]Record
}
