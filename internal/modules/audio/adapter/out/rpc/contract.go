package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "speech"
	serviceName       = "dictation.speech.v1.SpeechPlugin"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodSpeak       = "/" + serviceName + "/Speak"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "DICTATION_SPEECH_PLUGIN",
	MagicCookieValue: "dictation",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Available    bool     `json:"available"`
	Capabilities []string `json:"capabilities"`
}

type SpeakRequest struct {
	Text   string  `json:"text"`
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Volume float64 `json:"volume"`
	Pitch  float64 `json:"pitch"`
}

type SpeakResponse struct {
	DurationMS int64 `json:"duration_ms"`
}

type SpeechPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Speak(ctx context.Context, in *SpeakRequest) (*SpeakResponse, error)
}

type SpeechPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Speak(ctx context.Context, in *SpeakRequest) (*SpeakResponse, error)
}

type speechPluginClient struct {
	conn *grpc.ClientConn
}

func NewSpeechPluginClient(conn *grpc.ClientConn) SpeechPluginClient {
	return &speechPluginClient{conn: conn}
}

func (c *speechPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *speechPluginClient) Speak(ctx context.Context, in *SpeakRequest) (*SpeakResponse, error) {
	out := &SpeakResponse{}
	if err := c.conn.Invoke(ctx, methodSpeak, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterSpeechPluginServer(server grpc.ServiceRegistrar, impl SpeechPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SpeechPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Speak",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &SpeakRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Speak(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSpeak}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*SpeakRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Speak(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "speech-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SpeechPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSpeechPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSpeechPluginClient(conn), nil
}

func PluginMap(impl SpeechPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
