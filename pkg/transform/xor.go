package transform

import "fmt"

func init() {
	Register(&XorCodec{})
}

// xorKey repeats over the whole payload. Digits of π.
var xorKey = []byte{3, 1, 4, 1, 5, 9, 2, 6}

// XorCodec obfuscates payloads with a repeating XOR key. It hides
// resource content from naive string scans of the packaged binary; it
// is not encryption. Length-preserving, so entries stay transformed
// even when compression would have bailed out.
type XorCodec struct{}

func (c *XorCodec) Name() string { return "xor" }

func (c *XorCodec) Encode(src []byte) ([]byte, error) {
	return xorBytes(src), nil
}

func (c *XorCodec) Decode(src []byte, originalLen int) ([]byte, error) {
	if len(src) != originalLen {
		return nil, fmt.Errorf("xor decode: got %d bytes, expected %d", len(src), originalLen)
	}
	// XOR is its own inverse
	return xorBytes(src), nil
}

func xorBytes(data []byte) []byte {
	result := make([]byte, len(data))
	for i := range data {
		result[i] = data[i] ^ xorKey[i%len(xorKey)]
	}
	return result
}
