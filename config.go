package assetpipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/simforge/assetpipe/internal/wrapper"
)

// ErrInvalidConfig is returned for configs that cannot drive a build.
var ErrInvalidConfig = errors.New("assetpipe: invalid config")

// Asset kinds.
const (
	KindImage     = "image"     // single data-URL module
	KindMipmap    = "mipmap"    // full mipmap chain module
	KindThumbnail = "thumbnail" // fixed-size preview renditions
)

// WrapperSpec describes one static tree to package alongside the built
// assets. It is an alias of the packaging spec so configs can be built
// in code as well as loaded from YAML.
type WrapperSpec = wrapper.Spec

// Asset is one entry in the build config.
type Asset struct {
	// Name identifies the asset in generated modules and the manifest.
	// Empty means the base name of Source.
	Name string `yaml:"name"`

	// Source is the image file to build.
	Source string `yaml:"source"`

	// Kind selects the outputs: mipmap, image, or thumbnail.
	// Empty means image.
	Kind string `yaml:"kind"`
}

// BuildConfig drives a batch build.
type BuildConfig struct {
	// Output is the directory the build writes into.
	Output string `yaml:"output"`

	// Quality is the JPEG quality for encoded levels, 1 to 100.
	Quality int `yaml:"quality"`

	// MaxLevel caps the mipmap chain. Negative means unbounded.
	MaxLevel int `yaml:"maxLevel"`

	// Workers bounds concurrent asset builds. Zero picks a worker per
	// logical CPU.
	Workers int `yaml:"workers"`

	// Thumbnails lists rendition sizes for thumbnail assets. An explicit
	// empty list disables them.
	Thumbnails []Size `yaml:"thumbnails"`

	Assets   []Asset       `yaml:"assets"`
	Wrappers []WrapperSpec `yaml:"wrappers"`
}

// DefaultBuildConfig returns the baseline config a YAML file or CLI
// flags are laid over.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Quality:    DefaultQuality,
		MaxLevel:   DefaultMaxLevel,
		Thumbnails: slices.Clone(DefaultThumbnailSizes),
	}
}

// LoadConfig reads, defaults, and validates a YAML build config.
// Unknown keys are rejected.
func LoadConfig(path string) (BuildConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("assetpipe: open config: %w", err)
	}
	defer f.Close()

	cfg := DefaultBuildConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return BuildConfig{}, fmt.Errorf("assetpipe: parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return BuildConfig{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills the per-asset fields the config may omit.
func (c *BuildConfig) ApplyDefaults() {
	for i := range c.Assets {
		a := &c.Assets[i]
		if a.Kind == "" {
			a.Kind = KindImage
		}
		if a.Name == "" {
			a.Name = filepath.Base(a.Source)
		}
	}
}

// Validate checks the config for contradictions before a build starts.
func (c *BuildConfig) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: quality %d out of range [1, 100]", ErrInvalidConfig, c.Quality)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Workers)
	}
	seen := make(map[string]bool, len(c.Assets))
	hasThumbAsset := false
	for _, a := range c.Assets {
		if a.Source == "" {
			return fmt.Errorf("%w: asset %q has no source", ErrInvalidConfig, a.Name)
		}
		switch a.Kind {
		case KindImage, KindMipmap:
		case KindThumbnail:
			hasThumbAsset = true
		default:
			return fmt.Errorf("%w: asset %q has unknown kind %q", ErrInvalidConfig, a.Name, a.Kind)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate asset name %q", ErrInvalidConfig, a.Name)
		}
		seen[a.Name] = true
	}
	if hasThumbAsset && len(c.Thumbnails) == 0 {
		return fmt.Errorf("%w: thumbnail assets but no thumbnail sizes", ErrInvalidConfig)
	}
	for _, s := range c.Thumbnails {
		if s.Width < 1 || s.Height < 1 {
			return fmt.Errorf("%w: thumbnail size %dx%d is not positive", ErrInvalidConfig, s.Width, s.Height)
		}
	}
	for _, w := range c.Wrappers {
		if w.Source == "" {
			return fmt.Errorf("%w: wrapper %q has no source", ErrInvalidConfig, w.Name)
		}
	}
	return nil
}
