package out

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"dictation/internal/modules/audio/domain"
	audioout "dictation/internal/modules/audio/port/out"
	apperrors "dictation/internal/platform/errors"
)

// baseWordsPerMinute is the speaking rate that Voice.Rate 1.0 maps to.
const baseWordsPerMinute = 175

// ExecEngine speaks through a local text-to-speech command.
type ExecEngine struct {
	binary string
}

// NewExecEngine uses command when set, else the first speech command found on PATH for this OS.
func NewExecEngine(command string) audioout.Engine {
	if command != "" {
		if path, err := exec.LookPath(command); err == nil {
			return &ExecEngine{binary: path}
		}
		return &ExecEngine{}
	}
	return &ExecEngine{binary: detect()}
}

func detect() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"say", "espeak-ng", "espeak"}
	case "linux", "freebsd", "openbsd":
		candidates = []string{"espeak-ng", "espeak", "spd-say"}
	default:
		return ""
	}
	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}

func (e *ExecEngine) Available() bool {
	return e.binary != ""
}

func (e *ExecEngine) Speak(ctx context.Context, utterance domain.Utterance, started func()) error {
	if !e.Available() {
		return apperrors.ErrSpeechUnavailable
	}
	cmd := exec.CommandContext(ctx, e.binary, Args(filepath.Base(e.binary), utterance)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", filepath.Base(e.binary), err)
	}
	if started != nil {
		started()
	}
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", filepath.Base(e.binary), err)
	}
	return nil
}

func (e *ExecEngine) Describe(context.Context) (domain.EngineInfo, error) {
	name := "none"
	if e.binary != "" {
		name = filepath.Base(e.binary)
	}
	return domain.EngineInfo{Name: name, Kind: "exec", Available: e.Available()}, nil
}

// Args builds the command line for a known speech command.
func Args(command string, utterance domain.Utterance) []string {
	voice := utterance.Voice
	wpm := strconv.Itoa(int(math.Round(baseWordsPerMinute * voice.Rate)))
	switch strings.TrimSuffix(command, ".exe") {
	case "say":
		args := []string{"-r", wpm, "--"}
		if voice.Volume <= 0 {
			return append(args, "[[volm 0]]"+utterance.Text)
		}
		return append(args, utterance.Text)
	case "spd-say":
		return []string{
			"-w",
			"-l", language(voice.Lang),
			"-r", strconv.Itoa(scale(voice.Rate)),
			"-i", strconv.Itoa(int(math.Round(voice.Volume*200 - 100))),
			"-p", strconv.Itoa(scale(voice.Pitch)),
			"--", utterance.Text,
		}
	default:
		return []string{
			"-v", strings.ToLower(voice.Lang),
			"-s", wpm,
			"-a", strconv.Itoa(int(math.Round(voice.Volume * 100))),
			"-p", strconv.Itoa(int(math.Round(voice.Pitch * 50))),
			"--", utterance.Text,
		}
	}
}

// scale maps a 1.0-centred multiplier onto speech-dispatcher's -100..100 range.
func scale(v float64) int {
	n := int(math.Round((v - 1) * 100))
	if n < -100 {
		return -100
	}
	if n > 100 {
		return 100
	}
	return n
}

func language(tag string) string {
	lang, _, _ := strings.Cut(strings.ToLower(tag), "-")
	return lang
}
