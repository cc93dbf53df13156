package rsca

// =================================
// File permissions defaults
// =================================
const (
	FilePerms       = 0o644 // Extracted resources
	ExecutablePerms = 0o755 // Extracted main entry and builder output
	DirPerms        = 0o755 // Extraction directory
	TempFilePerms   = 0o600 // Builder staging file
)

// =================================
// Extraction defaults
// =================================
const (
	// Extraction target when the project manifest names none.
	DefaultExtractionDir = "rc_extracted"
)

// =================================
// Transform defaults
// =================================
const (
	DefaultTransform = "gzip"
)

// =================================
// Environment variables
// =================================
const (
	// EnvStubCLI switches a packaged executable into inspection mode.
	EnvStubCLI = "RESPACK_STUB_CLI"
	// EnvStubBin names the template binary for builds that pass no
	// --stub-bin flag and no manifest template.
	EnvStubBin = "RESPACK_STUB_BIN"
)
