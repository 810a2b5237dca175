// Package pb holds the wire messages and service descriptors for the order
// traffic RPCs. Messages are encoded as protobuf (proto3) so the services
// interoperate with any protoc-generated client or server.
package pb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	_ "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/protoadapt"
)

// CodecName replaces the default gRPC codec, so no call option is needed.
const CodecName = "proto"

type wireMessage interface {
	appendWire(b []byte) []byte
	unmarshalWire(b []byte) error
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(wireMessage); ok {
		return m.appendWire(nil), nil
	}
	if m := messageV2Of(v); m != nil {
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("pb: failed to marshal, message is %T, want wire message or proto.Message", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(wireMessage); ok {
		return m.unmarshalWire(data)
	}
	if m := messageV2Of(v); m != nil {
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("pb: failed to unmarshal, message is %T, want wire message or proto.Message", v)
}

func (codec) Name() string { return CodecName }

func messageV2Of(v any) proto.Message {
	switch v := v.(type) {
	case protoadapt.MessageV1:
		return protoadapt.MessageV2Of(v)
	case protoadapt.MessageV2:
		return v
	}
	return nil
}

// The blank import above guarantees grpc's own proto codec registers first.
func init() {
	encoding.RegisterCodec(codec{})
}
