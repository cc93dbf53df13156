package transform

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

func init() {
	// Register GZIP codec on package init
	Register(&GzipCodec{})
}

// GzipCodec implements GZIP compression
type GzipCodec struct{}

func (c *GzipCodec) Name() string { return "gzip" }

// Encode compresses data using GZIP
func (c *GzipCodec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(src); err != nil {
		gw.Close()
		return nil, fmt.Errorf("writing gzip data: %w", err)
	}

	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}

	if buf.Len() >= len(src) {
		return nil, ErrIncompressible
	}

	return buf.Bytes(), nil
}

// Decode decompresses GZIP data
func (c *GzipCodec) Decode(src []byte, originalLen int) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("reading gzip data: %w", err)
	}

	if len(data) != originalLen {
		return nil, fmt.Errorf("gzip decode: got %d bytes, expected %d", len(data), originalLen)
	}

	return data, nil
}
