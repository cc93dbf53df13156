package rsca

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveExtractionDir turns an extraction path spec into an absolute
// directory: environment placeholders are expanded, separators are
// normalized to the host's, and a relative result is anchored at the
// stub binary's directory. Never the current working directory, which
// is whatever the launching shell or shortcut happened to set.
//
// Both %NAME% and $NAME/${NAME} placeholder styles expand, against the
// full host environment. A placeholder naming an unset variable is an
// error; substituting an empty string would silently retarget the
// extraction at a surprising top-level path.
func ResolveExtractionDir(spec string, exeDir string) (string, error) {
	expanded, err := expandPlaceholders(spec)
	if err != nil {
		return "", err
	}

	// Archives are routinely authored on Windows; their separators
	// must resolve on any host.
	path := filepath.FromSlash(strings.ReplaceAll(expanded, `\`, "/"))

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	return filepath.Join(exeDir, path), nil
}

// expandPlaceholders substitutes environment variables in a single
// pass. Substituted values are taken literally, never re-expanded.
func expandPlaceholders(spec string) (string, error) {
	var b strings.Builder

	for i := 0; i < len(spec); {
		switch spec[i] {
		case '%':
			rest := spec[i+1:]
			end := strings.IndexByte(rest, '%')
			if end < 0 {
				// No closing percent: literal.
				b.WriteByte('%')
				i++
				continue
			}
			if end == 0 {
				// "%%" is a literal percent.
				b.WriteByte('%')
				i += 2
				continue
			}
			val, err := lookupPlaceholder(rest[:end])
			if err != nil {
				return "", err
			}
			b.WriteString(val)
			i += end + 2

		case '$':
			if i+1 < len(spec) && spec[i+1] == '{' {
				rest := spec[i+2:]
				end := strings.IndexByte(rest, '}')
				if end <= 0 {
					b.WriteByte('$')
					i++
					continue
				}
				val, err := lookupPlaceholder(rest[:end])
				if err != nil {
					return "", err
				}
				b.WriteString(val)
				i += end + 3
				continue
			}

			j := i + 1
			for j < len(spec) && isEnvNameByte(spec[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte('$')
				i++
				continue
			}
			val, err := lookupPlaceholder(spec[i+1 : j])
			if err != nil {
				return "", err
			}
			b.WriteString(val)
			i = j

		default:
			b.WriteByte(spec[i])
			i++
		}
	}

	return b.String(), nil
}

func lookupPlaceholder(name string) (string, error) {
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("%w: environment variable %q is not set", ErrPathResolution, name)
	}
	return val, nil
}

func isEnvNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
