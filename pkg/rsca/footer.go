package rsca

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Footer is the fixed-size trailer at the very end of a packaged
// executable. It is the only structure read without prior knowledge of
// any offset: readers seek to filesize-FooterSize unconditionally.
//
// Layout (little-endian):
//
//	[0:8]   magic "RSCA" + 📦 bytes
//	[8:12]  format version (uint32)
//	[12:20] table offset (uint64)
//	[20:28] table length (uint64)
type Footer struct {
	Version     uint32
	TableOffset uint64
	TableLength uint64
}

// Pack serializes the footer to its fixed 28-byte form.
func (f *Footer) Pack() []byte {
	buf := make([]byte, FooterSize)

	copy(buf[0:8], Magic)
	binary.LittleEndian.PutUint32(buf[8:12], f.Version)
	binary.LittleEndian.PutUint64(buf[12:20], f.TableOffset)
	binary.LittleEndian.PutUint64(buf[20:28], f.TableLength)

	return buf
}

// Unpack deserializes the footer from bytes. A magic mismatch returns
// ErrNoArchive: the binary is a bare template, not a broken archive.
func (f *Footer) Unpack(data []byte) error {
	if len(data) != FooterSize {
		return fmt.Errorf("%w: invalid footer size: %d", ErrCorruptArchive, len(data))
	}

	if !bytes.Equal(data[0:8], Magic) {
		return ErrNoArchive
	}

	f.Version = binary.LittleEndian.Uint32(data[8:12])
	f.TableOffset = binary.LittleEndian.Uint64(data[12:20])
	f.TableLength = binary.LittleEndian.Uint64(data[20:28])

	if f.Version != FormatVersion {
		return fmt.Errorf("%w: got version %d, expected %d", ErrUnsupportedFormat, f.Version, FormatVersion)
	}

	return nil
}
