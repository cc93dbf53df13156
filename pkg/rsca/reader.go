package rsca

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/respack/respack/pkg/transform"
)

// Reader reads packaged executables. The footer and table are parsed
// once and cached; payloads are read on demand. A Reader never writes
// to the archive.
type Reader struct {
	archivePath string
	file        *os.File
	size        int64
	footer      *Footer
	table       *Table
	logger      hclog.Logger
}

// NewReader creates a reader for the file at archivePath.
func NewReader(archivePath string) *Reader {
	return NewReaderWithLogger(archivePath, hclog.NewNullLogger())
}

// NewReaderWithLogger creates a reader with a custom logger.
func NewReaderWithLogger(archivePath string, logger hclog.Logger) *Reader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reader{
		archivePath: archivePath,
		logger:      logger,
	}
}

// Open opens the backing file. Reading methods open lazily, so calling
// Open directly is optional.
func (r *Reader) Open() error {
	if r.file != nil {
		return nil
	}

	file, err := os.Open(r.archivePath)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	r.file = file
	r.size = info.Size()
	return nil
}

// Close closes the backing file.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Path returns the path the reader was created for.
func (r *Reader) Path() string {
	return r.archivePath
}

// ReadFooter reads and parses the fixed-size footer from end-of-file.
// A file too small to hold a footer, or one whose trailing bytes carry
// no magic, is a bare template: ErrNoArchive.
func (r *Reader) ReadFooter() (*Footer, error) {
	if r.footer != nil {
		return r.footer, nil
	}

	if err := r.Open(); err != nil {
		return nil, err
	}

	if r.size < FooterSize {
		return nil, fmt.Errorf("%w: file is only %d bytes", ErrNoArchive, r.size)
	}

	data := make([]byte, FooterSize)
	if _, err := r.file.ReadAt(data, r.size-FooterSize); err != nil {
		return nil, fmt.Errorf("reading footer: %w", err)
	}

	footer := &Footer{}
	if err := footer.Unpack(data); err != nil {
		return nil, err
	}

	r.logger.Debug("Found footer", "version", footer.Version,
		"table_offset", footer.TableOffset, "table_length", footer.TableLength,
		"file_size", r.size)

	r.footer = footer
	return footer, nil
}

// ReadTable reads, decodes, and validates the metadata table. Any
// archive that passes here has in-bounds payload ranges, valid unique
// display names, at most one main entry, and a transform this build
// knows how to invert.
func (r *Reader) ReadTable() (*Table, error) {
	if r.table != nil {
		return r.table, nil
	}

	footer, err := r.ReadFooter()
	if err != nil {
		return nil, err
	}

	limit := uint64(r.size - FooterSize)
	if footer.TableOffset > limit || footer.TableLength > limit-footer.TableOffset {
		return nil, fmt.Errorf("%w: table range [%d, +%d) escapes the file",
			ErrCorruptArchive, footer.TableOffset, footer.TableLength)
	}

	data := make([]byte, footer.TableLength)
	if _, err := r.file.ReadAt(data, int64(footer.TableOffset)); err != nil {
		return nil, fmt.Errorf("%w: reading table: %v", ErrCorruptArchive, err)
	}

	table := &Table{}
	if err := table.Decode(data); err != nil {
		return nil, err
	}

	if err := table.Validate(footer.TableOffset); err != nil {
		return nil, err
	}

	if anyTransformed(table) && !transform.Known(table.Config.Transform) {
		return nil, fmt.Errorf("%w: unknown transform %q", ErrUnsupportedFormat, table.Config.Transform)
	}

	r.logger.Debug("Parsed resource table", "resources", len(table.Resources),
		"transform", table.Config.Transform, "extraction_path", table.Config.ExtractionPath)

	r.table = table
	return table, nil
}

// ReadResource returns the original bytes of the i-th entry: payload
// read, checksum verified, transform inverted.
func (r *Reader) ReadResource(i int) ([]byte, error) {
	table, err := r.ReadTable()
	if err != nil {
		return nil, err
	}

	if i < 0 || i >= len(table.Resources) {
		return nil, fmt.Errorf("resource index %d out of range [0, %d)", i, len(table.Resources))
	}
	entry := &table.Resources[i]

	stored := make([]byte, entry.PayloadLength)
	if _, err := r.file.ReadAt(stored, int64(entry.PayloadOffset)); err != nil {
		return nil, fmt.Errorf("reading payload of %q: %w", entry.Name, err)
	}

	if entry.Checksum != "" {
		if err := VerifyChecksum(stored, entry.Checksum); err != nil {
			return nil, fmt.Errorf("resource %q: %w", entry.Name, err)
		}
	}

	if !entry.Transformed {
		return stored, nil
	}

	codec, err := transform.Get(table.Config.Transform)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	data, err := codec.Decode(stored, int(entry.OriginalLength))
	if err != nil {
		return nil, fmt.Errorf("%w: resource %q does not decode: %v", ErrCorruptArchive, entry.Name, err)
	}

	return data, nil
}

func anyTransformed(table *Table) bool {
	for i := range table.Resources {
		if table.Resources[i].Transformed {
			return true
		}
	}
	return false
}
