// Package project loads the builder's JSON project manifest and turns
// it into archive write options.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/respack/respack/pkg/launch"
	"github.com/respack/respack/pkg/rsca"
	"github.com/respack/respack/pkg/transform"
)

// ResourceRef is one entry of the manifest's resources list. In JSON
// it is either a bare string (the display name becomes the basename)
// or an object {"source": ..., "name": ...}.
type ResourceRef struct {
	Source string `json:"source"`
	Name   string `json:"name,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (r *ResourceRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Source = s
		r.Name = ""
		return nil
	}

	type plain ResourceRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ResourceRef(p)
	return nil
}

// DisplayName is the name the resource extracts as.
func (r *ResourceRef) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return filepath.Base(r.Source)
}

// Manifest is a respack project file.
type Manifest struct {
	Name           string        `json:"name,omitempty"`
	Template       string        `json:"template,omitempty"`
	Output         string        `json:"output,omitempty"`
	Icon           string        `json:"icon,omitempty"`
	ExtractionPath string        `json:"extraction_path,omitempty"`
	WindowState    string        `json:"window_state,omitempty"`
	RunAsAdmin     bool          `json:"run_as_admin,omitempty"`
	Transform      string        `json:"transform,omitempty"`
	Main           string        `json:"main,omitempty"`
	MainArgs       string        `json:"main_args,omitempty"`
	Resources      []ResourceRef `json:"resources"`
}

// Load reads and parses a manifest. Relative paths inside the manifest
// (template, icon, output, resource sources) are anchored at the
// manifest's own directory, so a project builds the same from any
// working directory. Defaults are applied before validation.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading project %s: %v", rsca.ErrValidation, path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing project %s: %v", rsca.ErrValidation, path, err)
	}

	m.applyDefaults()

	baseDir := filepath.Dir(path)
	m.Template = anchor(baseDir, m.Template)
	m.Icon = anchor(baseDir, m.Icon)
	m.Output = anchor(baseDir, m.Output)
	for i := range m.Resources {
		m.Resources[i].Source = anchor(baseDir, m.Resources[i].Source)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Output == "" {
		m.Output = "packed.exe"
	}
	if m.ExtractionPath == "" {
		m.ExtractionPath = rsca.DefaultExtractionDir
	}
	if m.WindowState == "" {
		m.WindowState = "normal"
	}
	if m.Transform == "" {
		m.Transform = rsca.DefaultTransform
	}
}

// Validate checks everything checkable without touching the
// filesystem. Missing files surface later from the writer.
func (m *Manifest) Validate() error {
	if _, err := launch.ParseWindowState(m.WindowState); err != nil {
		return fmt.Errorf("%w: %v", rsca.ErrValidation, err)
	}
	if !transform.Known(m.Transform) {
		return fmt.Errorf("%w: unknown transform %q", rsca.ErrValidation, m.Transform)
	}

	for i := range m.Resources {
		if m.Resources[i].Source == "" {
			return fmt.Errorf("%w: resource %d has no source", rsca.ErrValidation, i)
		}
		if err := rsca.ValidateDisplayName(m.Resources[i].DisplayName()); err != nil {
			return fmt.Errorf("%w: resource %d: %v", rsca.ErrValidation, i, err)
		}
	}

	if m.Main != "" && m.mainIndex() < 0 {
		return fmt.Errorf("%w: main %q does not name a resource", rsca.ErrValidation, m.Main)
	}
	if m.Main == "" && m.MainArgs != "" {
		return fmt.Errorf("%w: main_args set but no main resource named", rsca.ErrValidation)
	}

	return nil
}

func (m *Manifest) mainIndex() int {
	if m.Main == "" {
		return -1
	}
	for i := range m.Resources {
		if strings.EqualFold(m.Resources[i].DisplayName(), m.Main) {
			return i
		}
	}
	return -1
}

// ToWriteOptions assembles the writer inputs. templateOverride and
// outputOverride come from CLI flags and win over the manifest; the
// template falls back to the EnvStubBin environment variable last.
func (m *Manifest) ToWriteOptions(templateOverride, outputOverride string) (rsca.WriteOptions, error) {
	template := templateOverride
	if template == "" {
		template = m.Template
	}
	if template == "" {
		template = os.Getenv(rsca.EnvStubBin)
	}
	if template == "" {
		return rsca.WriteOptions{}, fmt.Errorf(
			"%w: template binary must be given via --stub-bin, the manifest, or %s",
			rsca.ErrValidation, rsca.EnvStubBin)
	}

	output := outputOverride
	if output == "" {
		output = m.Output
	}

	state, err := launch.ParseWindowState(m.WindowState)
	if err != nil {
		return rsca.WriteOptions{}, fmt.Errorf("%w: %v", rsca.ErrValidation, err)
	}

	mainIdx := m.mainIndex()
	sources := make([]rsca.Source, len(m.Resources))
	for i := range m.Resources {
		sources[i] = rsca.Source{
			Path: m.Resources[i].Source,
			Name: m.Resources[i].DisplayName(),
			Main: i == mainIdx,
		}
	}

	return rsca.WriteOptions{
		TemplatePath: template,
		OutputPath:   output,
		IconPath:     m.Icon,
		Sources:      sources,
		Config: rsca.ArchiveConfig{
			ExtractionPath:   m.ExtractionPath,
			WindowState:      state,
			RequestElevation: m.RunAsAdmin,
			Transform:        m.Transform,
			MainArgs:         m.MainArgs,
		},
	}, nil
}

// anchor resolves p against base when p is relative. Empty stays
// empty.
func anchor(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
