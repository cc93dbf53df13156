package selfexe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	p, err := Path()
	if err != nil {
		t.Fatalf("Path() failed: %v", err)
	}

	if !filepath.IsAbs(p) {
		t.Errorf("Path() = %q, want an absolute path", p)
	}

	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat %q: %v", p, err)
	}
	if !info.Mode().IsRegular() {
		t.Errorf("Path() points at %v, want a regular file", info.Mode())
	}

	// Already symlink-free, so resolving again changes nothing.
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", p, err)
	}
	if resolved != p {
		t.Errorf("Path() = %q still resolves to %q", p, resolved)
	}
}

func TestDir(t *testing.T) {
	p, err := Path()
	if err != nil {
		t.Fatalf("Path() failed: %v", err)
	}

	d, err := Dir()
	if err != nil {
		t.Fatalf("Dir() failed: %v", err)
	}

	if d != filepath.Dir(p) {
		t.Errorf("Dir() = %q, want %q", d, filepath.Dir(p))
	}

	info, err := os.Stat(d)
	if err != nil {
		t.Fatalf("stat %q: %v", d, err)
	}
	if !info.IsDir() {
		t.Errorf("Dir() = %q is not a directory", d)
	}
}
