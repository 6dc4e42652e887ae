package dto

import "time"

type OpenInput struct {
	UnitID string
	Visit  bool
}

type CardOutput struct {
	ID             string
	Kind           string
	Position       int
	NumberKey      string
	English        string
	Translation    string
	Hint           string
	Audio          string
	Stars          int
	MaxStars       int
	LabelKey       string
	Flipped        bool
	Playing        bool
	CorrectEnabled bool
	ReviewEnabled  bool
}

type SummaryOutput struct {
	Total    int
	Mastered int
	Review   int
	Percent  int
}

type UnitStatsOutput struct {
	UnitID       string
	TotalTime    float64
	LastAccessed time.Time
	Sessions     int
	Mastery      int
	Found        bool
}

type WorkspaceOutput struct {
	UnitID      string
	Title       string
	Description string
	Tab         string
	Words       []CardOutput
	Sentences   []CardOutput
	Playing     string
}

type OverviewOutput struct {
	UnitID    string
	Title     string
	Words     SummaryOutput
	Sentences SummaryOutput
	Overall   SummaryOutput
	Unit      UnitStatsOutput
	All       []UnitStatsOutput
}

type FlipOutput struct {
	Card     CardOutput
	AudioErr error
}

type MarkOutput struct {
	Card    CardOutput
	Changed bool
	Overall SummaryOutput
}

type PlayOutput struct {
	Control string
	Outcome string
}

type ResetTabInput struct {
	Kind      string
	Confirmed bool
}
