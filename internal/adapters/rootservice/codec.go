package rootservice

import (
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype both sides of the socket speak.
const CodecName = "msgpack"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(codec{})
}
