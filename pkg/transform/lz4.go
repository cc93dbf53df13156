package transform

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

func init() {
	Register(&LZ4Codec{})
}

// LZ4Codec implements block-mode LZ4 compression.
type LZ4Codec struct{}

func (c *LZ4Codec) Name() string { return "lz4" }

func (c *LZ4Codec) Encode(src []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(src))
	dst := make([]byte, bound)

	written, err := lz4.CompressBlock(src, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 encode: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible.
	if written == 0 || written >= len(src) {
		return nil, ErrIncompressible
	}

	return dst[:written], nil
}

func (c *LZ4Codec) Decode(src []byte, originalLen int) ([]byte, error) {
	dst := make([]byte, originalLen)
	read, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decode: %w", err)
	}
	if read != originalLen {
		return nil, fmt.Errorf("lz4 decode: got %d bytes, expected %d", read, originalLen)
	}
	return dst, nil
}
