package main

import (
	"context"
	"os"
	"time"

	"github.com/hashicorp/go-plugin"

	audioout "dictation/internal/modules/audio/adapter/out"
	speechrpc "dictation/internal/modules/audio/adapter/out/rpc"
	"dictation/internal/modules/audio/domain"
	audioport "dictation/internal/modules/audio/port/out"
)

type server struct {
	engine audioport.Engine
}

func (s *server) GetMetadata(ctx context.Context, _ *speechrpc.Empty) (*speechrpc.Metadata, error) {
	info, err := s.engine.Describe(ctx)
	if err != nil {
		return nil, err
	}
	return &speechrpc.Metadata{
		Name:         "espeak:" + info.Name,
		Version:      "1.0.0",
		Available:    info.Available,
		Capabilities: []string{"speak", "voice_params"},
	}, nil
}

func (s *server) Speak(ctx context.Context, in *speechrpc.SpeakRequest) (*speechrpc.SpeakResponse, error) {
	started := time.Now()
	err := s.engine.Speak(ctx, domain.Utterance{
		Text: in.Text,
		Voice: domain.Voice{
			Lang:   in.Lang,
			Rate:   in.Rate,
			Volume: in.Volume,
			Pitch:  in.Pitch,
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return &speechrpc.SpeakResponse{DurationMS: time.Since(started).Milliseconds()}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: speechrpc.HandshakeConfig,
		Plugins:         speechrpc.PluginMap(&server{engine: audioout.NewExecEngine(os.Getenv("DICTATION_ESPEAK_COMMAND"))}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
