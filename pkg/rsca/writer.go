package rsca

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/respack/respack/pkg/launch"
	"github.com/respack/respack/pkg/peres"
	"github.com/respack/respack/pkg/transform"
)

// Source names one file to package: where it is read from, the display
// name it extracts as, and whether it is the main entry.
type Source struct {
	Path string
	Name string
	Main bool
}

// WriteOptions carries every input of a build.
type WriteOptions struct {
	// TemplatePath is the stub binary the archive is appended to.
	TemplatePath string
	// OutputPath receives the packaged executable.
	OutputPath string
	// IconPath, when set, is a .ico embedded into the template's PE
	// resources before anything is appended. Requires a PE template.
	IconPath string
	Sources  []Source
	Config   ArchiveConfig
}

// WriteArchive builds one packaged executable:
// [template][payloads][table][footer]. All writing goes through a
// temporary file next to the output; the output path either receives
// the complete archive or is left untouched.
func WriteArchive(logger hclog.Logger, opts WriteOptions) error {
	if err := validateWriteOptions(opts); err != nil {
		return err
	}

	codec, err := transform.Get(opts.Config.Transform)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	logger.Info("📦 Loading template", "path", opts.TemplatePath)
	templateData, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateRead, err)
	}
	logger.Debug("✅ Template loaded", "size", len(templateData))

	if opts.IconPath != "" {
		icoData, err := os.ReadFile(opts.IconPath)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSourceRead, opts.IconPath, err)
		}
		logger.Info("🎨 Embedding icon into template", "path", opts.IconPath)
		// The icon rewrite moves PE sections around, so it must happen
		// before any archive bytes are appended.
		templateData, err = peres.EmbedIcon(templateData, icoData, logger)
		if err != nil {
			return fmt.Errorf("%w: icon requires a PE template: %v", ErrValidation, err)
		}
	}

	table := &Table{Config: opts.Config}
	payloads := make([][]byte, 0, len(opts.Sources))
	offset := int64(len(templateData))

	for _, src := range opts.Sources {
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSourceRead, src.Path, err)
		}

		stored := data
		transformed := false
		encoded, err := codec.Encode(data)
		switch {
		case err == nil:
			stored = encoded
			transformed = true
		case transform.IsIncompressible(err):
			logger.Debug("⏭️ Storing raw", "name", src.Name, "size", len(data))
		default:
			return fmt.Errorf("%w: encoding %s: %v", ErrWrite, src.Name, err)
		}

		offset = AlignOffset(offset, PayloadAlignment)
		table.Resources = append(table.Resources, ResourceEntry{
			Name:           src.Name,
			PayloadOffset:  uint64(offset),
			PayloadLength:  uint64(len(stored)),
			OriginalLength: uint64(len(data)),
			Transformed:    transformed,
			Main:           src.Main,
			Checksum:       ChecksumBytes(stored),
		})
		payloads = append(payloads, stored)
		offset += int64(len(stored))

		logger.Info("🗜️ Packed resource", "name", src.Name,
			"original", len(data), "stored", len(stored), "transformed", transformed)
	}

	tableData, err := table.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	footer := &Footer{
		Version:     FormatVersion,
		TableOffset: uint64(offset),
		TableLength: uint64(len(tableData)),
	}

	if err := writeOutput(logger, opts.OutputPath, templateData, payloads, tableData, footer); err != nil {
		return err
	}

	logger.Info("✅ Archive written",
		"output", opts.OutputPath,
		"resources", len(payloads),
		"transform", opts.Config.Transform,
		"size", offset+int64(len(tableData))+FooterSize)
	return nil
}

func validateWriteOptions(opts WriteOptions) error {
	if opts.TemplatePath == "" {
		return fmt.Errorf("%w: template path must not be empty", ErrValidation)
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("%w: output path must not be empty", ErrValidation)
	}
	if opts.Config.ExtractionPath == "" {
		return fmt.Errorf("%w: extraction path must not be empty", ErrValidation)
	}
	if opts.Config.WindowState > launch.WindowHidden {
		return fmt.Errorf("%w: unknown window state %d", ErrValidation, opts.Config.WindowState)
	}
	if !transform.Known(opts.Config.Transform) {
		return fmt.Errorf("%w: unknown transform %q", ErrValidation, opts.Config.Transform)
	}

	seen := make(map[string]string, len(opts.Sources))
	mains := 0
	for _, src := range opts.Sources {
		if src.Path == "" {
			return fmt.Errorf("%w: resource %q has no source path", ErrValidation, src.Name)
		}
		if err := ValidateDisplayName(src.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		lower := strings.ToLower(src.Name)
		if prev, dup := seen[lower]; dup {
			return fmt.Errorf("%w: duplicate display name %q (conflicts with %q)", ErrValidation, src.Name, prev)
		}
		seen[lower] = src.Name
		if src.Main {
			mains++
		}
	}
	if mains > 1 {
		return fmt.Errorf("%w: %d resources marked main, at most one allowed", ErrValidation, mains)
	}

	return nil
}

// writeOutput assembles the archive in a temporary file and atomically
// renames it over the output path. A partial archive never lands on the
// output path.
func writeOutput(logger hclog.Logger, outputPath string, template []byte, payloads [][]byte, tableData []byte, footer *Footer) error {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, os.FileMode(DirPerms)); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrWrite, outputDir, err)
	}

	tempPath := outputPath + ".tmp"
	if err := writeArchiveFile(logger, tempPath, template, payloads, tableData, footer); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Chmod(tempPath, os.FileMode(ExecutablePerms)); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := atomicReplace(tempPath, outputPath, logger); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}

func writeArchiveFile(logger hclog.Logger, path string, template []byte, payloads [][]byte, tableData []byte, footer *Footer) error {
	logger.Debug("💾 Creating output file", "path", path)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(TempFilePerms))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer out.Close()

	logger.Debug("✍️ Writing template", "size", len(template))
	if _, err := out.Write(template); err != nil {
		return fmt.Errorf("%w: writing template: %v", ErrWrite, err)
	}
	pos := int64(len(template))

	for i, payload := range payloads {
		aligned := AlignOffset(pos, PayloadAlignment)
		if aligned > pos {
			padding := make([]byte, aligned-pos)
			if _, err := out.Write(padding); err != nil {
				return fmt.Errorf("%w: writing padding: %v", ErrWrite, err)
			}
			pos = aligned
		}

		logger.Debug("✍️ Writing payload", "index", i, "offset", pos, "size", len(payload))
		if _, err := out.Write(payload); err != nil {
			return fmt.Errorf("%w: writing payload %d: %v", ErrWrite, i, err)
		}
		pos += int64(len(payload))
	}

	logger.Debug("📜 Writing resource table", "offset", pos, "size", len(tableData))
	if _, err := out.Write(tableData); err != nil {
		return fmt.Errorf("%w: writing table: %v", ErrWrite, err)
	}

	logger.Debug("🪄 Writing footer", "table_offset", footer.TableOffset, "table_length", footer.TableLength)
	if _, err := out.Write(footer.Pack()); err != nil {
		return fmt.Errorf("%w: writing footer: %v", ErrWrite, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrWrite, path, err)
	}
	return nil
}

// AlignOffset rounds offset up to the next multiple of alignment.
// Alignment must be a power of two.
func AlignOffset(offset int64, alignment int64) int64 {
	return (offset + alignment - 1) & ^(alignment - 1)
}
