package usecase

import (
	"context"
	"sync"

	"dictation/internal/modules/audio/domain"
	"dictation/internal/modules/audio/dto"
	audioin "dictation/internal/modules/audio/port/in"
	"dictation/internal/modules/audio/service"
)

type Interactor struct {
	ctrl *service.Controller

	eventsOnce sync.Once
	events     chan dto.EventOutput
}

func NewInteractor(ctrl *service.Controller) audioin.Usecase {
	return &Interactor{ctrl: ctrl}
}

func (i *Interactor) Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error) {
	outcome, err := i.ctrl.Request(ctx, domain.Request{Key: input.Key, Text: input.Text, Control: input.Control})
	if err != nil {
		return dto.PlayOutput{Control: input.Control}, err
	}
	return dto.PlayOutput{Control: input.Control, Outcome: string(outcome)}, nil
}

func (i *Interactor) Stop(_ context.Context, control string) (bool, error) {
	return i.ctrl.Stop(control), nil
}

func (i *Interactor) Wait(ctx context.Context) error {
	return i.ctrl.Wait(ctx)
}

func (i *Interactor) WarmUp(ctx context.Context) {
	i.ctrl.WarmUp(ctx)
}

func (i *Interactor) Status(context.Context) dto.StatusOutput {
	snapshot := i.ctrl.Snapshot()
	return dto.StatusOutput{State: string(snapshot.State), Control: snapshot.Control}
}

// Events relays controller events. Only one consumer should read them.
func (i *Interactor) Events() <-chan dto.EventOutput {
	i.eventsOnce.Do(func() {
		i.events = make(chan dto.EventOutput, cap(i.ctrl.Events()))
		go func() {
			for event := range i.ctrl.Events() {
				i.events <- dto.EventOutput{Control: event.Control, Kind: string(event.Kind), Err: event.Err}
			}
		}()
	})
	return i.events
}

func (i *Interactor) Engine(ctx context.Context) (dto.EngineOutput, error) {
	info, err := i.ctrl.Engine(ctx)
	if err != nil {
		return dto.EngineOutput{}, err
	}
	return dto.EngineOutput{
		Name:         info.Name,
		Kind:         info.Kind,
		Version:      info.Version,
		Available:    info.Available,
		Capabilities: info.Capabilities,
	}, nil
}
