package domain

import (
	"sort"
	"time"
)

// UnitStats is the usage record of one unit. TotalTime is in minutes and never decreases.
type UnitStats struct {
	TotalTime    float64   `json:"totalTime"`
	LastAccessed time.Time `json:"lastAccessed"`
	Sessions     int       `json:"sessions"`
	Mastery      int       `json:"mastery"`
}

// Book maps unit id to its record.
type Book map[string]UnitStats

// Visit creates the record when missing, stamps it and counts one more session.
func (b Book) Visit(unitID string, now time.Time) UnitStats {
	record := b[unitID]
	record.LastAccessed = now
	record.Sessions++
	b[unitID] = record
	return record
}

// Touch creates the record when missing and stamps it without counting a session.
func (b Book) Touch(unitID string, now time.Time) UnitStats {
	record := b[unitID]
	record.LastAccessed = now
	b[unitID] = record
	return record
}

// Accrue adds study minutes to an existing record only.
func (b Book) Accrue(unitID string, minutes float64) (UnitStats, bool) {
	record, ok := b[unitID]
	if !ok || minutes <= 0 {
		return record, false
	}
	record.TotalTime += minutes
	b[unitID] = record
	return record, true
}

// SetMastery records the latest aggregate mastery of a unit that already has a record.
func (b Book) SetMastery(unitID string, percent int) (UnitStats, bool) {
	record, ok := b[unitID]
	if !ok || record.Mastery == percent {
		return record, false
	}
	record.Mastery = percent
	b[unitID] = record
	return record, true
}

func (b Book) Clone() Book {
	out := make(Book, len(b))
	for id, record := range b {
		out[id] = record
	}
	return out
}

// Normalize repairs imported records: negative time, sessions and mastery become zero, mastery caps at 100.
func (b Book) Normalize() {
	for id, record := range b {
		if record.TotalTime < 0 {
			record.TotalTime = 0
		}
		if record.Sessions < 0 {
			record.Sessions = 0
		}
		if record.Mastery < 0 {
			record.Mastery = 0
		}
		if record.Mastery > 100 {
			record.Mastery = 100
		}
		b[id] = record
	}
}

type Entry struct {
	UnitID string
	UnitStats
}

// Entries lists records sorted by unit id.
func (b Book) Entries() []Entry {
	out := make([]Entry, 0, len(b))
	for id, record := range b {
		out = append(out, Entry{UnitID: id, UnitStats: record})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out
}
