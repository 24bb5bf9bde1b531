// Package manifest records what a build produced. The manifest is
// written next to the build output as indented JSON and is the contract
// downstream packaging steps read instead of globbing the output tree.
package manifest

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// Version identifies the manifest schema.
const Version = 1

// Manifest describes one build's outputs.
type Manifest struct {
	Version     int             `json:"version"`
	BuildID     string          `json:"buildId"`
	GeneratedAt string          `json:"generatedAt"`
	Output      string          `json:"output"`
	Assets      []Record        `json:"assets"`
	Wrappers    []WrapperRecord `json:"wrappers,omitempty"`
	Stats       Stats           `json:"stats"`
}

// Record describes one built asset.
type Record struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Kind     string   `json:"kind"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	HasAlpha bool     `json:"hasAlpha"`
	Levels   []Level  `json:"levels,omitempty"`
	Files    []string `json:"files,omitempty"`
	Bytes    int64    `json:"bytes"`
}

// Level describes one emitted mipmap level.
type Level struct {
	Level  int    `json:"level"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
}

// WrapperRecord describes one packaged wrapper.
type WrapperRecord struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
	Bytes int64  `json:"bytes"`
}

// Stats aggregates build totals.
type Stats struct {
	Assets int   `json:"assets"`
	Files  int   `json:"files"`
	Bytes  int64 `json:"bytes"`
}

// New creates an empty manifest for a build into output.
func New(output string) *Manifest {
	return &Manifest{
		Version:     Version,
		BuildID:     uuid.New().String(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Output:      output,
		Assets:      []Record{},
	}
}

// Add appends an asset record and folds it into the stats.
func (m *Manifest) Add(r Record) {
	m.Assets = append(m.Assets, r)
	m.Stats.Assets++
	m.Stats.Files += len(r.Files)
	m.Stats.Bytes += r.Bytes
}

// AddWrapper appends a wrapper record and folds it into the stats.
func (m *Manifest) AddWrapper(w WrapperRecord) {
	m.Wrappers = append(m.Wrappers, w)
	m.Stats.Files += w.Files
	m.Stats.Bytes += w.Bytes
}

// Sort orders assets and wrappers by name so the manifest is
// reproducible regardless of build scheduling.
func (m *Manifest) Sort() {
	slices.SortFunc(m.Assets, func(a, b Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	slices.SortFunc(m.Wrappers, func(a, b WrapperRecord) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Write sorts the manifest and stores it as indented JSON at path.
func (m *Manifest) Write(path string) error {
	m.Sort()
	data, err := sonic.ConfigStd.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write: %w", err)
	}
	return nil
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read: %w", err)
	}
	var m Manifest
	if err := sonic.ConfigStd.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	return &m, nil
}
