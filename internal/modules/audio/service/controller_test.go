package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dictation/internal/modules/audio/domain"
	apperrors "dictation/internal/platform/errors"
)

type fakeEngine struct {
	available bool
	fail      error
	linger    time.Duration

	mu        sync.Mutex
	active    int
	maxActive int
	spoken    []domain.Utterance
}

func (f *fakeEngine) Available() bool { return f.available }

func (f *fakeEngine) Speak(ctx context.Context, utterance domain.Utterance, started func()) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, utterance)
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()
	if f.fail != nil {
		return f.fail
	}
	if started != nil {
		started()
	}
	<-ctx.Done()
	time.Sleep(f.linger)
	return ctx.Err()
}

func (f *fakeEngine) Describe(context.Context) (domain.EngineInfo, error) {
	return domain.EngineInfo{Name: "fake", Kind: "test", Available: f.available}, nil
}

func (f *fakeEngine) snapshot() (int, []domain.Utterance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxActive, append([]domain.Utterance(nil), f.spoken...)
}

func awaitEvent(t *testing.T, c *Controller, control string, kind domain.EventKind) domain.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-c.Events():
			if event.Control == control && event.Kind == kind {
				return event
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s %s", control, kind)
		}
	}
}

func TestSameControlTwiceStops(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true}
	c := NewController(engine, Options{})
	ctx := context.Background()

	outcome, err := c.Request(ctx, domain.Request{Key: "w1.mp3", Text: "cat", Control: "w1"})
	if err != nil || outcome != domain.OutcomeRequested {
		t.Fatalf("first request: %s %v", outcome, err)
	}
	awaitEvent(t, c, "w1", domain.EventStarted)
	if snap := c.Snapshot(); snap.State != domain.StatePlaying || snap.Control != "w1" {
		t.Fatalf("expected playing w1, got %+v", snap)
	}

	outcome, err = c.Request(ctx, domain.Request{Key: "w1.mp3", Text: "cat", Control: "w1"})
	if err != nil || outcome != domain.OutcomeStopped {
		t.Fatalf("second request should stop: %s %v", outcome, err)
	}
	released := awaitEvent(t, c, "w1", domain.EventReleased)
	if released.Err != nil {
		t.Fatalf("a stop is not an error: %v", released.Err)
	}
	if snap := c.Snapshot(); snap.State != domain.StateIdle {
		t.Fatalf("expected idle, got %+v", snap)
	}
	if _, spoken := engine.snapshot(); len(spoken) != 1 {
		t.Fatalf("no second utterance may start, got %d", len(spoken))
	}
}

func TestSameControlWhilePendingStops(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true}
	c := NewController(engine, Options{SpeakDelay: time.Second})
	ctx := context.Background()

	if _, err := c.Request(ctx, domain.Request{Key: "k", Control: "w1"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if snap := c.Snapshot(); snap.State != domain.StatePending {
		t.Fatalf("expected pending, got %+v", snap)
	}
	if outcome, _ := c.Request(ctx, domain.Request{Key: "k", Control: "w1"}); outcome != domain.OutcomeStopped {
		t.Fatalf("expected stop while pending, got %s", outcome)
	}
	awaitEvent(t, c, "w1", domain.EventReleased)
	if _, spoken := engine.snapshot(); len(spoken) != 0 {
		t.Fatalf("engine must not be reached, got %d", len(spoken))
	}
}

func TestDifferentControlHandsOver(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true}
	c := NewController(engine, Options{Grace: time.Millisecond})
	ctx := context.Background()

	if _, err := c.Request(ctx, domain.Request{Key: "w1.mp3", Text: "cat", Control: "w1"}); err != nil {
		t.Fatalf("request w1: %v", err)
	}
	awaitEvent(t, c, "w1", domain.EventStarted)
	outcome, err := c.Request(ctx, domain.Request{Key: "w2.mp3", Text: "dog", Control: "w2"})
	if err != nil || outcome != domain.OutcomeRequested {
		t.Fatalf("request w2: %s %v", outcome, err)
	}
	awaitEvent(t, c, "w2", domain.EventStarted)

	maxActive, spoken := engine.snapshot()
	if maxActive != 1 {
		t.Fatalf("exactly one playback may be active, saw %d", maxActive)
	}
	if len(spoken) != 2 || spoken[1].Text != "dog" {
		t.Fatalf("unexpected utterances: %+v", spoken)
	}
	if snap := c.Snapshot(); snap.Control != "w2" {
		t.Fatalf("w2 should own the engine, got %+v", snap)
	}
	if !c.Stop("w2") {
		t.Fatalf("stop w2 should succeed")
	}
	if c.Stop("w2") {
		t.Fatalf("second stop should be a no-op")
	}
}

func TestRequestsDuringStopAreDropped(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true}
	c := NewController(engine, Options{Grace: 300 * time.Millisecond})
	ctx := context.Background()

	if _, err := c.Request(ctx, domain.Request{Key: "a", Control: "w1"}); err != nil {
		t.Fatalf("request w1: %v", err)
	}
	awaitEvent(t, c, "w1", domain.EventStarted)

	handover := make(chan domain.Outcome, 1)
	go func() {
		outcome, _ := c.Request(ctx, domain.Request{Key: "b", Control: "w2"})
		handover <- outcome
	}()
	awaitEvent(t, c, "w1", domain.EventReleased)

	if outcome, err := c.Request(ctx, domain.Request{Key: "c", Control: "w3"}); err != nil || outcome != domain.OutcomeDropped {
		t.Fatalf("expected dropped, got %s %v", outcome, err)
	}
	if outcome := <-handover; outcome != domain.OutcomeRequested {
		t.Fatalf("handover should proceed, got %s", outcome)
	}
	awaitEvent(t, c, "w2", domain.EventStarted)
	c.Stop("")
}

func TestRequestsWhileStoppingSameControlAreDropped(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true, linger: 300 * time.Millisecond}
	c := NewController(engine, Options{Grace: time.Millisecond})
	ctx := context.Background()

	if _, err := c.Request(ctx, domain.Request{Key: "a", Control: "w1"}); err != nil {
		t.Fatalf("request w1: %v", err)
	}
	awaitEvent(t, c, "w1", domain.EventStarted)

	stopped := make(chan domain.Outcome, 1)
	go func() {
		outcome, _ := c.Request(ctx, domain.Request{Key: "a", Control: "w1"})
		stopped <- outcome
	}()
	time.Sleep(50 * time.Millisecond)

	if outcome, err := c.Request(ctx, domain.Request{Key: "b", Control: "w2"}); err != nil || outcome != domain.OutcomeDropped {
		t.Fatalf("request while w1 winds down should be dropped, got %s %v", outcome, err)
	}
	if outcome := <-stopped; outcome != domain.OutcomeStopped {
		t.Fatalf("expected stop, got %s", outcome)
	}
	if maxActive, spoken := engine.snapshot(); maxActive != 1 || len(spoken) != 1 {
		t.Fatalf("one utterance at a time: max=%d spoken=%d", maxActive, len(spoken))
	}

	if _, err := c.Request(ctx, domain.Request{Key: "b", Control: "w2"}); err != nil {
		t.Fatalf("request after stop: %v", err)
	}
	awaitEvent(t, c, "w2", domain.EventStarted)

	done := make(chan bool, 1)
	go func() { done <- c.Stop("") }()
	time.Sleep(50 * time.Millisecond)
	if outcome, _ := c.Request(ctx, domain.Request{Key: "c", Control: "w3"}); outcome != domain.OutcomeDropped {
		t.Fatalf("request during Stop should be dropped, got %s", outcome)
	}
	if !<-done {
		t.Fatalf("stop should report the halted playback")
	}
}

func TestUnavailableEngineReleasesControl(t *testing.T) {
	t.Parallel()
	c := NewController(&fakeEngine{}, Options{})
	_, err := c.Request(context.Background(), domain.Request{Key: "w1.mp3", Control: "w1"})
	if !errors.Is(err, apperrors.ErrSpeechUnavailable) {
		t.Fatalf("expected speech unavailable, got %v", err)
	}
	released := awaitEvent(t, c, "w1", domain.EventReleased)
	if !errors.Is(released.Err, apperrors.ErrSpeechUnavailable) {
		t.Fatalf("release should carry the failure, got %v", released.Err)
	}
	if snap := c.Snapshot(); snap.State != domain.StateIdle {
		t.Fatalf("expected idle, got %+v", snap)
	}
}

func TestEngineErrorReleasesControl(t *testing.T) {
	t.Parallel()
	boom := errors.New("device busy")
	c := NewController(&fakeEngine{available: true, fail: boom}, Options{})
	if _, err := c.Request(context.Background(), domain.Request{Key: "s1.mp3", Control: "s1"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	released := awaitEvent(t, c, "s1", domain.EventReleased)
	if !errors.Is(released.Err, boom) {
		t.Fatalf("expected engine error, got %v", released.Err)
	}
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if snap := c.Snapshot(); snap.State != domain.StateIdle {
		t.Fatalf("expected idle, got %+v", snap)
	}
}

func TestTextFallsBackToKeyAndVoiceIsFixed(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true}
	c := NewController(engine, Options{})
	if _, err := c.Request(context.Background(), domain.Request{Key: "unknown.mp3", Control: "x"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	awaitEvent(t, c, "x", domain.EventStarted)
	c.Stop("x")
	_, spoken := engine.snapshot()
	if len(spoken) != 1 || spoken[0].Text != "unknown.mp3" {
		t.Fatalf("expected raw key, got %+v", spoken)
	}
	if spoken[0].Voice != domain.DefaultVoice {
		t.Fatalf("unexpected voice %+v", spoken[0].Voice)
	}
}

func TestWarmUpIsSilent(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{available: true}
	c := NewController(engine, Options{})
	start := time.Now()
	c.WarmUp(context.Background())
	if time.Since(start) > time.Second {
		t.Fatalf("warm up must be abandoned quickly")
	}
	_, spoken := engine.snapshot()
	if len(spoken) != 1 || spoken[0].Text != "" || spoken[0].Voice.Volume != 0 {
		t.Fatalf("unexpected warm up utterance: %+v", spoken)
	}
	if snap := c.Snapshot(); snap.State != domain.StateIdle {
		t.Fatalf("warm up must not take a control")
	}
}

func TestRequestRequiresControl(t *testing.T) {
	t.Parallel()
	c := NewController(&fakeEngine{available: true}, Options{})
	if _, err := c.Request(context.Background(), domain.Request{Key: "k"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
