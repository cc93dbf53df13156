package rsca

// Checksum strings use the prefixed format "algorithm:hexvalue"
// (e.g., "sha256:c0ffee123..."). Archives are written with sha256;
// the prefix keeps the door open for other algorithms without a table
// format change.

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ChecksumBytes calculates the prefixed sha256 checksum of data.
func ChecksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// VerifyChecksum verifies data against a prefixed checksum string.
func VerifyChecksum(data []byte, checksumStr string) error {
	parts := strings.SplitN(checksumStr, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("%w: invalid checksum format %q", ErrCorruptArchive, checksumStr)
	}

	algo, expected := parts[0], parts[1]
	if algo != "sha256" {
		return fmt.Errorf("%w: unknown checksum algorithm %q", ErrUnsupportedFormat, algo)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != strings.ToLower(expected) {
		return fmt.Errorf("%w: checksum mismatch, expected %s", ErrCorruptArchive, checksumStr)
	}

	return nil
}
