// Package manifest renders the selected artifact set for the report engine
// and writes it to stdout or to a locked output file.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/harrison/gcovfind/internal/artifact"
	"github.com/harrison/gcovfind/internal/discovery"
	"github.com/harrison/gcovfind/internal/filelock"
	"github.com/harrison/gcovfind/internal/filter"
)

// Manifest is the hand-off document consumed by the report engine.
type Manifest struct {
	RunID     string              `json:"run_id" yaml:"run_id"`
	Root      string              `json:"root" yaml:"root"`
	Counts    Counts              `json:"counts" yaml:"counts"`
	Artifacts []artifact.Artifact `json:"artifacts" yaml:"artifacts"`

	// Digests maps listed paths to their content digest; filled by AddDigests.
	Digests map[string]string `json:"digests,omitempty" yaml:"digests,omitempty"`

	// sources holds the on-disk path behind each entry of Artifacts.
	sources []string
}

// Counts summarizes the selection.
type Counts struct {
	Discovered          int `json:"discovered" yaml:"discovered"`
	Selected            int `json:"selected" yaml:"selected"`
	Accumulated         int `json:"accumulated" yaml:"accumulated"`
	InstrumentationOnly int `json:"instrumentation_only" yaml:"instrumentation_only"`
}

// New builds a manifest from a discovery result.
// When all is false only artifacts passing fs are listed. When relative is
// true, paths below the root are listed relative to it.
func New(res *discovery.Result, fs *filter.Set, all, relative bool) *Manifest {
	selected := res.Artifacts()
	if !all {
		selected = res.Filtered(fs)
	}

	m := &Manifest{
		RunID:     uuid.NewString(),
		Artifacts: make([]artifact.Artifact, 0, len(selected)),
		sources:   make([]string, 0, len(selected)),
		Counts: Counts{
			Discovered: res.Len(),
			Selected:   len(selected),
		},
	}
	if fs != nil {
		m.Root = fs.Root()
	}

	for _, a := range selected {
		switch a.Kind {
		case artifact.Accumulated:
			m.Counts.Accumulated++
		case artifact.InstrumentationOnly:
			m.Counts.InstrumentationOnly++
		}
		m.sources = append(m.sources, a.Path)
		if relative && fs != nil {
			a.Path = fs.Relative(a.Path)
		}
		m.Artifacts = append(m.Artifacts, a)
	}
	return m
}

// Paths returns the listed artifact paths in order.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.Artifacts))
	for i, a := range m.Artifacts {
		out[i] = a.Path
	}
	return out
}

// Render encodes the manifest as text, json or yaml.
// The text form is one path per line, for piping into other tools.
func (m *Manifest) Render(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text":
		var buf bytes.Buffer
		for _, p := range m.Paths() {
			buf.WriteString(p)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
}

// Write renders the manifest and sends it to path, or to w when path is empty.
// File output is written atomically while holding path's lock file.
func (m *Manifest) Write(w io.Writer, path, format string) error {
	data, err := m.Render(format)
	if err != nil {
		return err
	}
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
