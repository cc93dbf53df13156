package transform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

func init() {
	Register(&Bzip2Codec{})
}

// Bzip2Codec implements BZIP2 compression
type Bzip2Codec struct{}

func (c *Bzip2Codec) Name() string { return "bzip2" }

// Encode compresses data using BZIP2
func (c *Bzip2Codec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer

	bw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 writer: %w", err)
	}

	if _, err := bw.Write(src); err != nil {
		bw.Close()
		return nil, fmt.Errorf("writing bzip2 data: %w", err)
	}

	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("closing bzip2 writer: %w", err)
	}

	if buf.Len() >= len(src) {
		return nil, ErrIncompressible
	}

	return buf.Bytes(), nil
}

// Decode decompresses BZIP2 data
func (c *Bzip2Codec) Decode(src []byte, originalLen int) ([]byte, error) {
	br, err := bzip2.NewReader(bytes.NewReader(src), &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 reader: %w", err)
	}
	defer br.Close()

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("reading bzip2 data: %w", err)
	}

	if len(data) != originalLen {
		return nil, fmt.Errorf("bzip2 decode: got %d bytes, expected %d", len(data), originalLen)
	}

	return data, nil
}
