package rsca

// Core format constants that never change.
// For defaults and configuration, see defaults.go

var (
	// Magic identifying a packaged executable: "RSCA" + 📦 as bytes.
	// The emoji bytes keep the sequence out of ordinary text sections.
	Magic = []byte{'R', 'S', 'C', 'A', 0xF0, 0x9F, 0x93, 0xA6}
)

const (
	// Format version - immutable
	FormatVersion = 1

	// Fixed wire sizes - readers depend on these never moving
	MagicSize  = 8
	FooterSize = 28 // magic (8) + version (4) + table offset (8) + table length (8)

	// Payloads are 8-byte aligned within the file
	PayloadAlignment = 8
)

// Version is the tool version reported by both binaries. Independent
// of FormatVersion, which only moves on a wire-incompatible change.
const Version = "1.0.0"
