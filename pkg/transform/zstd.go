package transform

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoder and zstdDecoder are shared by every call. Both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("transform: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("transform: zstd decoder initialization failed: " + err.Error())
	}

	Register(&ZstdCodec{})
}

// ZstdCodec implements Zstandard compression at the default level.
type ZstdCodec struct{}

func (c *ZstdCodec) Name() string { return "zstd" }

func (c *ZstdCodec) Encode(src []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(src, nil)
	if len(compressed) >= len(src) {
		return nil, ErrIncompressible
	}
	return compressed, nil
}

func (c *ZstdCodec) Decode(src []byte, originalLen int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(src, make([]byte, 0, originalLen))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if len(result) != originalLen {
		return nil, fmt.Errorf("zstd decode: got %d bytes, expected %d", len(result), originalLen)
	}
	return result, nil
}
