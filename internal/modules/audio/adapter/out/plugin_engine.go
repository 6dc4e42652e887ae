package out

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	speechrpc "dictation/internal/modules/audio/adapter/out/rpc"
	"dictation/internal/modules/audio/domain"
	audioout "dictation/internal/modules/audio/port/out"
	apperrors "dictation/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginEngine speaks through a go-plugin speech binary. The plugin process starts on first use
// and lives until Close.
type PluginEngine struct {
	binary string
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    speechrpc.SpeechPluginClient
}

func NewPluginEngine(binary string, logger hclog.Logger) *PluginEngine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginEngine{binary: binary, logger: logger}
}

var _ audioout.Engine = (*PluginEngine)(nil)

func (e *PluginEngine) Available() bool {
	if e.binary == "" {
		return false
	}
	info, err := os.Stat(e.binary)
	return err == nil && !info.IsDir()
}

func (e *PluginEngine) Speak(ctx context.Context, utterance domain.Utterance, started func()) error {
	client, err := e.connect()
	if err != nil {
		return err
	}
	if started != nil {
		started()
	}
	_, err = client.Speak(ctx, &speechrpc.SpeakRequest{
		Text:   utterance.Text,
		Lang:   utterance.Voice.Lang,
		Rate:   utterance.Voice.Rate,
		Volume: utterance.Voice.Volume,
		Pitch:  utterance.Voice.Pitch,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("plugin speak: %w", err)
	}
	return nil
}

func (e *PluginEngine) Describe(ctx context.Context) (domain.EngineInfo, error) {
	if !e.Available() {
		return domain.EngineInfo{Name: e.binary, Kind: "plugin"}, nil
	}
	client, err := e.connect()
	if err != nil {
		return domain.EngineInfo{}, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.EngineInfo{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.EngineInfo{
		Name:         meta.Name,
		Kind:         "plugin",
		Version:      meta.Version,
		Available:    meta.Available,
		Capabilities: meta.Capabilities,
	}, nil
}

func (e *PluginEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.rpc = nil
	}
	return nil
}

func (e *PluginEngine) connect() (speechrpc.SpeechPluginClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rpc != nil && e.client != nil && !e.client.Exited() {
		return e.rpc, nil
	}
	if !e.Available() {
		return nil, fmt.Errorf("%w: plugin %q not found", apperrors.ErrSpeechUnavailable, e.binary)
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  speechrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          speechrpc.PluginMap(nil),
		Cmd:              exec.Command(e.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           e.logger,
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start speech plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(speechrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense speech plugin: %w", err)
	}
	typed, ok := raw.(speechrpc.SpeechPluginClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("speech plugin rpc client type mismatch")
	}
	e.client = client
	e.rpc = typed
	return typed, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
