// Package rsca implements the RSCA packaged-executable format
// This file contains tests for the resource table encode/decode/validate cycle
package rsca

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/respack/respack/pkg/launch"
)

// TestTableRoundTrip tests encoding and decoding a full table
func TestTableRoundTrip(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "table_test",
		Level: hclog.Trace,
	})

	original := &Table{
		Resources: []ResourceEntry{
			{
				Name:           "app.bin",
				PayloadOffset:  4096,
				PayloadLength:  900,
				OriginalLength: 2048,
				Transformed:    true,
				Main:           true,
				Checksum:       "sha256:0000000000000000000000000000000000000000000000000000000000000000",
			},
			{
				Name:           "notes.txt",
				PayloadOffset:  5000,
				PayloadLength:  13,
				OriginalLength: 13,
			},
		},
		Config: ArchiveConfig{
			ExtractionPath:   "%APPDATA%/MyApp",
			WindowState:      launch.WindowMinimized,
			RequestElevation: true,
			Transform:        "gzip",
			MainArgs:         "--serve --port 8080",
		},
	}

	logger.Info("🧪 Encoding table", "resources", len(original.Resources))

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	// The table region is a gzip stream; anything else at the recorded
	// offset means the archive is damaged.
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		t.Errorf("Encode() output does not start with a gzip header: % x", data[:2])
	}

	logger.Debug("📜 Encoded table", "bytes", len(data))

	decoded := &Table{}
	if err := decoded.Decode(data); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", decoded, original)
	}

	if idx := decoded.MainIndex(); idx != 0 {
		t.Errorf("MainIndex() = %d, want 0", idx)
	}
	if total := decoded.TotalOriginalSize(); total != 2048+13 {
		t.Errorf("TotalOriginalSize() = %d, want %d", total, 2048+13)
	}

	logger.Info("✅ Round-trip successful")
}

// TestTableDecodeCorrupt tests that damaged table bytes are rejected
func TestTableDecodeCorrupt(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "table_test",
		Level: hclog.Trace,
	})

	valid, err := (&Table{Config: ArchiveConfig{ExtractionPath: "x"}}).Encode()
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "not a gzip stream", data: []byte(`{"resources":[]}`)},
		{name: "truncated gzip stream", data: valid[:len(valid)-4]},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🔬 Decoding damaged table", "test", tc.name, "bytes", len(tc.data))

			err := (&Table{}).Decode(tc.data)
			if !errors.Is(err, ErrCorruptArchive) {
				t.Errorf("Decode() error = %v, want ErrCorruptArchive", err)
			}

			logger.Info("✅ Rejected as expected", "error", err)
		})
	}
}

// TestTableValidate tests the structural invariants of a decoded table
func TestTableValidate(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "table_test",
		Level: hclog.Trace,
	})

	const tableOffset = 10_000

	entry := func(name string, offset, length uint64) ResourceEntry {
		return ResourceEntry{
			Name:           name,
			PayloadOffset:  offset,
			PayloadLength:  length,
			OriginalLength: length,
		}
	}

	testCases := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{
			name: "valid two entries",
			table: Table{
				Resources: []ResourceEntry{entry("a.txt", 100, 50), entry("b.txt", 152, 50)},
				Config:    ArchiveConfig{ExtractionPath: "out"},
			},
		},
		{
			name: "empty resource list",
			table: Table{
				Config: ArchiveConfig{ExtractionPath: "out"},
			},
		},
		{
			name: "duplicate names differing only in case",
			table: Table{
				Resources: []ResourceEntry{entry("Data.bin", 100, 10), entry("data.BIN", 112, 10)},
				Config:    ArchiveConfig{ExtractionPath: "out"},
			},
			wantErr: true,
		},
		{
			name: "two main entries",
			table: Table{
				Resources: []ResourceEntry{
					{Name: "a", PayloadOffset: 100, PayloadLength: 4, OriginalLength: 4, Main: true},
					{Name: "b", PayloadOffset: 108, PayloadLength: 4, OriginalLength: 4, Main: true},
				},
				Config: ArchiveConfig{ExtractionPath: "out"},
			},
			wantErr: true,
		},
		{
			name: "payload escapes into the table region",
			table: Table{
				Resources: []ResourceEntry{entry("a", tableOffset-10, 11)},
				Config:    ArchiveConfig{ExtractionPath: "out"},
			},
			wantErr: true,
		},
		{
			name: "payload range overflows uint64",
			table: Table{
				Resources: []ResourceEntry{entry("a", ^uint64(0)-4, 8)},
				Config:    ArchiveConfig{ExtractionPath: "out"},
			},
			wantErr: true,
		},
		{
			name: "raw entry with stored and original sizes disagreeing",
			table: Table{
				Resources: []ResourceEntry{
					{Name: "a", PayloadOffset: 100, PayloadLength: 10, OriginalLength: 20},
				},
				Config: ArchiveConfig{ExtractionPath: "out"},
			},
			wantErr: true,
		},
		{
			name: "transformed entry with differing sizes is fine",
			table: Table{
				Resources: []ResourceEntry{
					{Name: "a", PayloadOffset: 100, PayloadLength: 10, OriginalLength: 20, Transformed: true},
				},
				Config: ArchiveConfig{ExtractionPath: "out"},
			},
		},
		{
			name: "entry name with path separator",
			table: Table{
				Resources: []ResourceEntry{entry("../escape.txt", 100, 4)},
				Config:    ArchiveConfig{ExtractionPath: "out"},
			},
			wantErr: true,
		},
		{
			name: "empty extraction path",
			table: Table{
				Resources: []ResourceEntry{entry("a", 100, 4)},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Validating table", "test", tc.name)

			err := tc.table.Validate(tableOffset)

			if tc.wantErr {
				if err == nil {
					t.Fatal("Validate() succeeded, want error")
				}
				if !errors.Is(err, ErrCorruptArchive) {
					t.Errorf("Validate() error = %v, want ErrCorruptArchive", err)
				}
				logger.Info("✅ Rejected as expected", "error", err)
			} else {
				if err != nil {
					t.Errorf("Validate() failed: %v", err)
				}
				logger.Info("✅ Accepted")
			}
		})
	}
}

// TestValidateDisplayName tests the extraction filename rules
func TestValidateDisplayName(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "table_test",
		Level: hclog.Trace,
	})

	testCases := []struct {
		name    string
		wantErr bool
	}{
		{name: "app.exe"},
		{name: "data file with spaces.txt"},
		{name: "UPPER.BIN"},
		{name: "dotted.tar.gz"},
		{name: ".hidden"},
		{name: "", wantErr: true},
		{name: "a/b.txt", wantErr: true},
		{name: `a\b.txt`, wantErr: true},
		{name: ".", wantErr: true},
		{name: "..", wantErr: true},
		{name: "nul", wantErr: true},
		{name: "CON", wantErr: true},
		{name: "con.txt", wantErr: true},
		{name: "LPT1.log", wantErr: true},
		{name: "Com9", wantErr: true},
		{name: "consort.txt"},
		{name: "aux_data.bin"},
	}

	for _, tc := range testCases {
		label := tc.name
		if label == "" {
			label = "(empty)"
		}
		t.Run(label, func(t *testing.T) {
			logger.Debug("🏷️ Checking display name", "name", tc.name)

			err := ValidateDisplayName(tc.name)
			if tc.wantErr && err == nil {
				t.Errorf("ValidateDisplayName(%q) succeeded, want error", tc.name)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("ValidateDisplayName(%q) failed: %v", tc.name, err)
			}
		})
	}
}
