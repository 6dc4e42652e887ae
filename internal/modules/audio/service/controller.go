package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"dictation/internal/modules/audio/domain"
	audioout "dictation/internal/modules/audio/port/out"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/id"
)

const (
	DefaultGrace      = 100 * time.Millisecond
	DefaultSpeakDelay = 50 * time.Millisecond
	warmUpWindow      = 100 * time.Millisecond
	eventBuffer       = 32
)

type Options struct {
	Voice      domain.Voice
	Grace      time.Duration
	SpeakDelay time.Duration
	Logger     hclog.Logger
	IDs        id.Generator
}

// Controller lets at most one control own the speech engine.
//
// A request for the control that already owns the engine stops it. A request
// for another control stops the owner, waits the grace interval and then
// starts; requests arriving during that stop are dropped.
type Controller struct {
	engine audioout.Engine
	voice  domain.Voice
	grace  time.Duration
	delay  time.Duration
	logger hclog.Logger
	ids    id.Generator
	events chan domain.Event

	mu       sync.Mutex
	stopping bool
	current  *playback
}

type playback struct {
	id      string
	control string
	playing bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewController(engine audioout.Engine, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.IDs == nil {
		opts.IDs = id.RandomHex{}
	}
	if opts.Voice == (domain.Voice{}) {
		opts.Voice = domain.DefaultVoice
	}
	if opts.Grace < 0 {
		opts.Grace = 0
	}
	if opts.SpeakDelay < 0 {
		opts.SpeakDelay = 0
	}
	return &Controller{
		engine: engine,
		voice:  opts.Voice,
		grace:  opts.Grace,
		delay:  opts.SpeakDelay,
		logger: opts.Logger,
		ids:    opts.IDs,
		events: make(chan domain.Event, eventBuffer),
	}
}

func (c *Controller) Events() <-chan domain.Event {
	return c.events
}

func (c *Controller) Request(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	req.Control = strings.TrimSpace(req.Control)
	if req.Control == "" {
		return "", fmt.Errorf("%w: playback control is required", apperrors.ErrInvalidInput)
	}

	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		c.logger.Debug("request dropped while stopping", "control", req.Control)
		return domain.OutcomeDropped, nil
	}
	if current := c.current; current != nil {
		c.current = nil
		c.stopping = true
		c.mu.Unlock()
		c.halt(current)
		if current.control == req.Control {
			c.endStop()
			return domain.OutcomeStopped, nil
		}
		err := sleep(ctx, c.grace)
		c.mu.Lock()
		c.stopping = false
		if err != nil {
			c.mu.Unlock()
			return "", err
		}
	}

	if !c.engine.Available() {
		c.mu.Unlock()
		err := apperrors.ErrSpeechUnavailable
		c.logger.Warn("speech engine unavailable", "control", req.Control)
		c.emit(domain.Event{Control: req.Control, Kind: domain.EventReleased, Err: err})
		return "", err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	pb := &playback{id: c.ids.New(), control: req.Control, cancel: cancel, done: make(chan struct{})}
	c.current = pb
	c.mu.Unlock()
	c.logger.Debug("playback requested", "playback", pb.id, "control", pb.control)

	go c.run(runCtx, pb, domain.Utterance{Text: req.SpokenText(), Voice: c.voice})
	return domain.OutcomeRequested, nil
}

// Stop halts the given control if it owns the engine; an empty control halts whichever does.
func (c *Controller) Stop(control string) bool {
	c.mu.Lock()
	current := c.current
	if current == nil || (control != "" && current.control != control) {
		c.mu.Unlock()
		return false
	}
	c.current = nil
	c.stopping = true
	c.mu.Unlock()
	c.halt(current)
	c.endStop()
	return true
}

// Wait blocks until the current playback, if any, has been released.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return nil
	}
	select {
	case <-current.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WarmUp speaks an empty silent utterance and abandons it shortly after. Failures are ignored.
func (c *Controller) WarmUp(ctx context.Context) {
	if !c.engine.Available() {
		return
	}
	warmCtx, cancel := context.WithTimeout(ctx, warmUpWindow)
	defer cancel()
	if err := c.engine.Speak(warmCtx, domain.Utterance{Voice: c.voice.Silent()}, nil); err != nil && warmCtx.Err() == nil {
		c.logger.Debug("warm up failed", "error", err)
	}
}

func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.current == nil:
		return domain.Snapshot{State: domain.StateIdle}
	case c.current.playing:
		return domain.Snapshot{State: domain.StatePlaying, Control: c.current.control}
	default:
		return domain.Snapshot{State: domain.StatePending, Control: c.current.control}
	}
}

func (c *Controller) Engine(ctx context.Context) (domain.EngineInfo, error) {
	return c.engine.Describe(ctx)
}

func (c *Controller) run(ctx context.Context, pb *playback, utterance domain.Utterance) {
	defer close(pb.done)
	var err error
	if sleepErr := sleep(ctx, c.delay); sleepErr == nil {
		err = c.engine.Speak(ctx, utterance, func() { c.markPlaying(pb) })
	}
	if ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		c.logger.Warn("speech failed", "playback", pb.id, "control", pb.control, "error", err)
	}
	c.mu.Lock()
	if c.current == pb {
		c.current = nil
	}
	c.mu.Unlock()
	pb.cancel()
	c.emit(domain.Event{Control: pb.control, Kind: domain.EventReleased, Err: err})
}

func (c *Controller) markPlaying(pb *playback) {
	c.mu.Lock()
	owned := c.current == pb
	if owned {
		pb.playing = true
	}
	c.mu.Unlock()
	if owned {
		c.emit(domain.Event{Control: pb.control, Kind: domain.EventStarted})
	}
}

// halt cancels pb and waits for the engine to go quiet. Callers hold the stopping flag.
func (c *Controller) halt(pb *playback) {
	pb.cancel()
	<-pb.done
}

func (c *Controller) endStop() {
	c.mu.Lock()
	c.stopping = false
	c.mu.Unlock()
}

// emit never blocks; a full buffer drops the oldest event.
func (c *Controller) emit(event domain.Event) {
	for {
		select {
		case c.events <- event:
			return
		default:
		}
		select {
		case <-c.events:
		default:
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
