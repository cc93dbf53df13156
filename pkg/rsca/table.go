package rsca

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/respack/respack/pkg/launch"
)

// ResourceEntry describes one packaged file.
type ResourceEntry struct {
	// Name is the filename recreated on extraction. Flat names only.
	Name string `json:"name"`
	// PayloadOffset and PayloadLength locate the stored bytes as an
	// absolute range within the packaged file.
	PayloadOffset uint64 `json:"offset"`
	PayloadLength uint64 `json:"size"`
	// OriginalLength is the byte count before any transform.
	OriginalLength uint64 `json:"original_size"`
	// Transformed entries run through the archive codec's inverse
	// before reaching disk.
	Transformed bool `json:"transformed,omitempty"`
	// Main marks the entry launched after extraction.
	Main bool `json:"main,omitempty"`
	// Checksum is "sha256:<hex>" over the stored bytes. Empty skips
	// verification.
	Checksum string `json:"checksum,omitempty"`
}

// ArchiveConfig is the packaging-time and run-time policy, stored once
// per archive.
type ArchiveConfig struct {
	ExtractionPath   string             `json:"extraction_path"`
	WindowState      launch.WindowState `json:"window_state"`
	RequestElevation bool               `json:"request_elevation,omitempty"`
	// Transform names the codec shared by every transformed entry.
	Transform string `json:"transform,omitempty"`
	// MainArgs is an optional shell-style argument string for the
	// main entry.
	MainArgs string `json:"main_args,omitempty"`
}

// Table is the metadata table serialized between the payload region and
// the footer: every resource entry in caller order, then the config.
type Table struct {
	Resources []ResourceEntry `json:"resources"`
	Config    ArchiveConfig   `json:"config"`
}

// Encode serializes the table as gzipped JSON.
func (t *Table) Encode() ([]byte, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding table: %w", err)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		gw.Close()
		return nil, fmt.Errorf("compressing table: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("compressing table: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode deserializes a table. Any failure is a corrupt archive: the
// gzip stream carries its own CRC, so a truncated or bit-flipped table
// region cannot decode silently.
func (t *Table) Decode(data []byte) error {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: table not readable: %v", ErrCorruptArchive, err)
	}
	defer gr.Close()

	raw, err := io.ReadAll(gr)
	if err != nil {
		return fmt.Errorf("%w: table truncated: %v", ErrCorruptArchive, err)
	}

	if err := json.Unmarshal(raw, t); err != nil {
		return fmt.Errorf("%w: table not decodable: %v", ErrCorruptArchive, err)
	}

	return nil
}

// MainIndex returns the index of the main entry, or -1.
func (t *Table) MainIndex() int {
	for i := range t.Resources {
		if t.Resources[i].Main {
			return i
		}
	}
	return -1
}

// TotalOriginalSize sums the pre-transform sizes of all entries.
func (t *Table) TotalOriginalSize() uint64 {
	var total uint64
	for i := range t.Resources {
		total += t.Resources[i].OriginalLength
	}
	return total
}

// Validate checks the structural invariants a reader relies on. Every
// violation means the table cannot be trusted, so everything wraps
// ErrCorruptArchive.
func (t *Table) Validate(tableOffset uint64) error {
	seen := make(map[string]string, len(t.Resources))
	mains := 0

	for i := range t.Resources {
		entry := &t.Resources[i]

		if err := ValidateDisplayName(entry.Name); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorruptArchive, i, err)
		}

		lower := strings.ToLower(entry.Name)
		if prev, dup := seen[lower]; dup {
			return fmt.Errorf("%w: duplicate display name %q (conflicts with %q)", ErrCorruptArchive, entry.Name, prev)
		}
		seen[lower] = entry.Name

		end := entry.PayloadOffset + entry.PayloadLength
		if end < entry.PayloadOffset || end > tableOffset {
			return fmt.Errorf("%w: entry %q payload range [%d, %d) escapes the payload region",
				ErrCorruptArchive, entry.Name, entry.PayloadOffset, end)
		}

		if !entry.Transformed && entry.PayloadLength != entry.OriginalLength {
			return fmt.Errorf("%w: entry %q is raw but stored size %d differs from original %d",
				ErrCorruptArchive, entry.Name, entry.PayloadLength, entry.OriginalLength)
		}

		if entry.Main {
			mains++
		}
	}

	if mains > 1 {
		return fmt.Errorf("%w: %d entries marked main", ErrCorruptArchive, mains)
	}

	if t.Config.ExtractionPath == "" {
		return fmt.Errorf("%w: empty extraction path", ErrCorruptArchive)
	}

	return nil
}

// windowsReservedNames are filenames the OS reserves regardless of
// extension. Archives routinely extract on Windows hosts, so these are
// rejected at packaging time everywhere.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

func isWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}

// ValidateDisplayName checks a single display name against the naming
// rules: non-empty, no path separators, no dot traversal, no reserved
// device names.
func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("empty display name")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("display name %q contains a path separator", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("display name %q is a directory reference", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("display name contains a NUL byte")
	}
	if isWindowsReservedName(name) {
		return fmt.Errorf("display name %q is a reserved device name", name)
	}
	return nil
}
