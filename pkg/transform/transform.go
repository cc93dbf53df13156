// Package transform provides the payload codecs an archive may apply to
// stored resources. An archive records one codec name for all of its
// transformed entries; decode always verifies the recovered length
// against the recorded original length.
package transform

import (
	"errors"
	"fmt"
)

// Codec is a reversible byte-stream transform.
type Codec interface {
	// Name returns the identifier recorded in the archive config.
	Name() string

	// Encode transforms source bytes into stored bytes. Compressing
	// codecs return ErrIncompressible when the output would not be
	// smaller than the input; the caller then stores the bytes raw.
	Encode(src []byte) ([]byte, error)

	// Decode reverses Encode. originalLen is the pre-transform length
	// recorded at packaging time; a result of any other length is an
	// error, never a silent truncation.
	Decode(src []byte, originalLen int) ([]byte, error)
}

var (
	ErrUnknownCodec = errors.New("unknown transform codec")

	// ErrIncompressible is returned by compressing codecs for data
	// that does not shrink.
	ErrIncompressible = errors.New("data is incompressible")
)

// IsIncompressible reports whether err is the incompressible signal.
func IsIncompressible(err error) bool {
	return errors.Is(err, ErrIncompressible)
}

// Registry maps codec names to implementations
var Registry = make(map[string]Codec)

// Register registers a codec implementation
func Register(c Codec) {
	Registry[c.Name()] = c
}

// Get retrieves a codec by name
func Get(name string) (Codec, error) {
	c, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Known reports whether a codec name is registered.
func Known(name string) bool {
	_, ok := Registry[name]
	return ok
}

func init() {
	Register(&NoneCodec{})
}

// NoneCodec is the identity transform. Packaging with it stores every
// payload raw.
type NoneCodec struct{}

func (c *NoneCodec) Name() string { return "none" }

func (c *NoneCodec) Encode(src []byte) ([]byte, error) {
	return nil, ErrIncompressible
}

func (c *NoneCodec) Decode(src []byte, originalLen int) ([]byte, error) {
	if len(src) != originalLen {
		return nil, fmt.Errorf("raw payload: size %d does not match expected %d", len(src), originalLen)
	}
	return src, nil
}
