// Package rsca implements the RSCA packaged-executable format
// This file contains tests for footer packing/unpacking
package rsca

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
)

// TestFooterPacking tests serializing footers into their fixed 28-byte form
func TestFooterPacking(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "footer_test",
		Level: hclog.Trace,
	})

	testCases := []struct {
		name   string
		footer Footer
	}{
		{
			name:   "empty archive",
			footer: Footer{Version: FormatVersion},
		},
		{
			name:   "small archive",
			footer: Footer{Version: FormatVersion, TableOffset: 4096, TableLength: 61},
		},
		{
			name:   "archive beyond 4GiB",
			footer: Footer{Version: FormatVersion, TableOffset: 9_876_543_210, TableLength: 1 << 20},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Testing footer packing",
				"test", tc.name,
				"table_offset", tc.footer.TableOffset,
			)

			packed := tc.footer.Pack()

			logger.Debug("📦 Packed footer",
				"bytes", len(packed),
			)

			if len(packed) != FooterSize {
				t.Fatalf("Pack() returned %d bytes, want %d", len(packed), FooterSize)
			}
			if !bytes.Equal(packed[0:8], Magic) {
				t.Errorf("Pack() magic = % x, want % x", packed[0:8], Magic)
			}
			if got := binary.LittleEndian.Uint32(packed[8:12]); got != tc.footer.Version {
				t.Errorf("packed version = %d, want %d", got, tc.footer.Version)
			}
			if got := binary.LittleEndian.Uint64(packed[12:20]); got != tc.footer.TableOffset {
				t.Errorf("packed table offset = %d, want %d", got, tc.footer.TableOffset)
			}
			if got := binary.LittleEndian.Uint64(packed[20:28]); got != tc.footer.TableLength {
				t.Errorf("packed table length = %d, want %d", got, tc.footer.TableLength)
			}

			logger.Info("✅ Test passed", "test", tc.name)
		})
	}
}

// TestFooterRoundTrip tests that packing and unpacking are inverses
func TestFooterRoundTrip(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "footer_test",
		Level: hclog.Trace,
	})

	testCases := []Footer{
		{Version: FormatVersion, TableOffset: 0, TableLength: 0},
		{Version: FormatVersion, TableOffset: 128, TableLength: 57},
		{Version: FormatVersion, TableOffset: 1<<40 + 7, TableLength: 1 << 16},
	}

	for _, original := range testCases {
		logger.Info("🔄 Testing footer round-trip",
			"table_offset", original.TableOffset,
			"table_length", original.TableLength,
		)

		packed := original.Pack()

		var decoded Footer
		if err := decoded.Unpack(packed); err != nil {
			t.Fatalf("Unpack() failed: %v", err)
		}

		if decoded != original {
			t.Errorf("round-trip: got %+v, want %+v", decoded, original)
		}

		logger.Info("✅ Round-trip successful")
	}
}

// TestFooterUnpackRejections tests the failure taxonomy of Unpack
func TestFooterUnpackRejections(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "footer_test",
		Level: hclog.Trace,
	})

	futureVersion := (&Footer{Version: FormatVersion + 1, TableOffset: 64, TableLength: 32}).Pack()

	textTail := make([]byte, FooterSize)
	copy(textTail, "just some trailing bytes, no")

	testCases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "buffer too short",
			data:    make([]byte, FooterSize-1),
			wantErr: ErrCorruptArchive,
		},
		{
			name:    "buffer too long",
			data:    make([]byte, FooterSize+1),
			wantErr: ErrCorruptArchive,
		},
		{
			name:    "zero bytes where magic should be",
			data:    make([]byte, FooterSize),
			wantErr: ErrNoArchive,
		},
		{
			name:    "ordinary file tail",
			data:    textTail,
			wantErr: ErrNoArchive,
		},
		{
			name:    "magic present but future version",
			data:    futureVersion,
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🔬 Testing footer rejection",
				"test", tc.name,
				"bytes", len(tc.data),
			)

			var footer Footer
			err := footer.Unpack(tc.data)

			if err == nil {
				t.Fatalf("Unpack() succeeded, want %v", tc.wantErr)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Unpack() error = %v, want %v", err, tc.wantErr)
			}

			logger.Info("✅ Rejected as expected", "error", err)
		})
	}
}
