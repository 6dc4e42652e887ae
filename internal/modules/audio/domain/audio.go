package domain

import "strings"

type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StatePlaying State = "playing"
)

// Outcome tells a caller what a playback request did.
type Outcome string

const (
	OutcomeRequested Outcome = "requested"
	OutcomeStopped   Outcome = "stopped"
	OutcomeDropped   Outcome = "dropped"
)

type EventKind string

const (
	EventStarted  EventKind = "started"
	EventReleased EventKind = "released"
)

// Event reports a control changing hands. Err is set when a released playback failed.
type Event struct {
	Control string
	Kind    EventKind
	Err     error
}

type Voice struct {
	Lang   string
	Rate   float64
	Volume float64
	Pitch  float64
}

// DefaultVoice is British English, slightly slower than normal speech.
var DefaultVoice = Voice{Lang: "en-GB", Rate: 0.85, Volume: 1.0, Pitch: 1.0}

// Silent is the same voice at zero volume, used to wake an engine up.
func (v Voice) Silent() Voice {
	v.Volume = 0
	return v
}

type Utterance struct {
	Text  string
	Voice Voice
}

// Request asks for Key to be spoken on behalf of Control. Text falls back to Key.
type Request struct {
	Key     string
	Text    string
	Control string
}

func (r Request) SpokenText() string {
	if strings.TrimSpace(r.Text) == "" {
		return r.Key
	}
	return r.Text
}

type Snapshot struct {
	State   State
	Control string
}

type EngineInfo struct {
	Name         string
	Kind         string
	Version      string
	Available    bool
	Capabilities []string
}
