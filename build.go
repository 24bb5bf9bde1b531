package assetpipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simforge/assetpipe/internal/cache"
	"github.com/simforge/assetpipe/internal/manifest"
	"github.com/simforge/assetpipe/internal/modulegen"
	"github.com/simforge/assetpipe/internal/parallel"
	"github.com/simforge/assetpipe/internal/pix"
	"github.com/simforge/assetpipe/internal/wrapper"
)

// ErrNoAssets is returned when a build config names nothing to build.
var ErrNoAssets = errors.New("assetpipe: no assets to build")

// Manifest is the build record written to manifest.json, aliased so
// callers can name the type Build returns.
type Manifest = manifest.Manifest

// builder carries the shared state of one Build call.
type builder struct {
	cfg     BuildConfig
	man     *manifest.Manifest
	mu      sync.Mutex // guards man
	sources *cache.Cache[string, *pix.Buffer]
	pool    *pix.Pool
	workers *parallel.WorkerPool
}

// Build runs the full batch: every asset renders its outputs into
// cfg.Output, wrappers are packaged, and the manifest is written last.
// The first failure cancels remaining work and no manifest is written.
func Build(ctx context.Context, cfg BuildConfig) (*Manifest, error) {
	// Defaults are applied to a copy so the caller's slice stays untouched.
	cfg.Assets = slices.Clone(cfg.Assets)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Assets) == 0 && len(cfg.Wrappers) == 0 {
		return nil, ErrNoAssets
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return nil, fmt.Errorf("assetpipe: create output: %w", err)
	}

	log := Logger()
	log.Info("build started",
		"output", cfg.Output,
		"assets", len(cfg.Assets),
		"wrappers", len(cfg.Wrappers))
	if _, err := os.Stat(filepath.Join(cfg.Output, "manifest.json")); err == nil {
		log.Warn("overwriting previous build", "output", cfg.Output)
	}

	b := &builder{
		cfg:     cfg,
		man:     manifest.New(cfg.Output),
		sources: cache.New[string, *pix.Buffer](0),
		pool:    pix.NewPool(8),
		workers: parallel.NewWorkerPool(cfg.Workers),
	}
	defer b.workers.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveWorkers(cfg.Workers))

	for _, asset := range cfg.Assets {
		g.Go(func() error {
			return b.buildAsset(ctx, asset)
		})
	}
	for _, spec := range cfg.Wrappers {
		g.Go(func() error {
			return b.packageWrapper(ctx, spec)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := b.man.Write(filepath.Join(cfg.Output, "manifest.json")); err != nil {
		return nil, err
	}

	log.Info("build finished",
		"assets", b.man.Stats.Assets,
		"files", b.man.Stats.Files,
		"bytes", b.man.Stats.Bytes)
	return b.man, nil
}

// resolveWorkers maps the config's Workers field to a concrete limit.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// buildAsset renders one asset's outputs and records them.
// Sources are decoded through a shared cache, so an image referenced by
// several assets decodes once per build.
func (b *builder) buildAsset(ctx context.Context, asset Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Mipmap and image sources dispatch strictly on the file suffix;
	// thumbnail sources accept any registered format, webp included.
	// The suffix gate runs before the shared cache so a rejected source
	// errors identically whether or not another asset already decoded it.
	if asset.Kind != KindThumbnail && !pix.KnownExt(asset.Source) {
		return fmt.Errorf("%w: %s", pix.ErrUnsupportedFormat, asset.Source)
	}
	src, err := b.sources.GetOrCreate(asset.Source, func() (*pix.Buffer, error) {
		return pix.LoadImage(asset.Source)
	})
	if err != nil {
		return err
	}

	var rec manifest.Record
	switch asset.Kind {
	case KindMipmap:
		rec, err = b.buildMipmap(ctx, asset, src)
	case KindImage:
		rec, err = b.buildImage(ctx, asset, src)
	case KindThumbnail:
		rec, err = b.buildThumbnails(ctx, asset, src)
	default:
		err = fmt.Errorf("%w: asset %q has unknown kind %q", ErrInvalidConfig, asset.Name, asset.Kind)
	}
	if err != nil {
		return err
	}

	Logger().Debug("asset built",
		"name", asset.Name,
		"kind", asset.Kind,
		"files", len(rec.Files),
		"bytes", rec.Bytes)

	b.mu.Lock()
	b.man.Add(rec)
	b.mu.Unlock()
	return nil
}

// newRecord fills the fields every asset kind shares.
func (b *builder) newRecord(asset Asset, src *pix.Buffer) manifest.Record {
	w, h := src.Bounds()
	return manifest.Record{
		Name:     asset.Name,
		Source:   asset.Source,
		Kind:     asset.Kind,
		Width:    w,
		Height:   h,
		HasAlpha: !src.Opaque(),
	}
}

// levelFormat names the encoding behind a level's chosen URL.
func levelFormat(lv *MipmapLevel) string {
	if lv.URL != lv.PNGURL {
		return "jpeg"
	}
	return "png"
}

func (b *builder) buildMipmap(ctx context.Context, asset Asset, src *pix.Buffer) (manifest.Record, error) {
	levels, err := GenerateMipmapsFrom(ctx, src, MipmapOptions{
		MaxLevel:  b.cfg.MaxLevel,
		Quality:   b.cfg.Quality,
		Allocator: b.pool.Get,
	})
	if err != nil {
		return manifest.Record{}, err
	}

	rec := b.newRecord(asset, src)
	gen := make([]modulegen.Level, len(levels))
	for i, lv := range levels {
		gen[i] = modulegen.Level{Width: lv.Width, Height: lv.Height, URL: lv.URL}
		rec.Levels = append(rec.Levels, manifest.Level{
			Level:  lv.Level,
			Width:  lv.Width,
			Height: lv.Height,
			Format: levelFormat(lv),
			Bytes:  len(lv.Buffer),
		})
		rec.Bytes += int64(len(lv.Buffer))
	}

	file := modulegen.FileName(asset.Name)
	module := modulegen.MipmapModule(modulegen.ExportName(asset.Name), gen)
	if err := b.writeFile(file, []byte(module)); err != nil {
		return manifest.Record{}, err
	}
	rec.Files = []string{file}
	return rec, nil
}

func (b *builder) buildImage(ctx context.Context, asset Asset, src *pix.Buffer) (manifest.Record, error) {
	// A single-image module is a chain capped at level 0.
	levels, err := GenerateMipmapsFrom(ctx, src, MipmapOptions{
		MaxLevel: 0,
		Quality:  b.cfg.Quality,
	})
	if err != nil {
		return manifest.Record{}, err
	}
	lv := levels[0]

	rec := b.newRecord(asset, src)
	rec.Levels = []manifest.Level{{
		Level:  0,
		Width:  lv.Width,
		Height: lv.Height,
		Format: levelFormat(lv),
		Bytes:  len(lv.Buffer),
	}}
	rec.Bytes = int64(len(lv.Buffer))

	file := modulegen.FileName(asset.Name)
	module := modulegen.ImageModule(modulegen.ExportName(asset.Name), lv.URL)
	if err := b.writeFile(file, []byte(module)); err != nil {
		return manifest.Record{}, err
	}
	rec.Files = []string{file}
	return rec, nil
}

// buildThumbnails renders every configured size through the shared
// worker pool, recycling destination buffers between renditions.
func (b *builder) buildThumbnails(ctx context.Context, asset Asset, src *pix.Buffer) (manifest.Record, error) {
	sizes := b.cfg.Thumbnails
	outs := make([][]byte, len(sizes))
	errs := make([]error, len(sizes))

	tasks := make([]func(), len(sizes))
	for i, size := range sizes {
		tasks[i] = func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			dst := b.pool.Get(size.Width, size.Height)
			if dst == nil {
				errs[i] = pix.ErrInvalidDimensions
				return
			}
			RenderThumbnail(dst, src)
			data, err := dst.PNGBytes()
			b.pool.Put(dst)
			if err != nil {
				errs[i] = err
				return
			}
			outs[i] = data
		}
	}
	b.workers.ExecuteAll(tasks)

	for i, err := range errs {
		if err != nil {
			return manifest.Record{}, fmt.Errorf("assetpipe: thumbnail %s %dx%d: %w",
				asset.Name, sizes[i].Width, sizes[i].Height, err)
		}
	}

	rec := b.newRecord(asset, src)
	base := modulegen.ExportName(asset.Name)
	for i, size := range sizes {
		file := fmt.Sprintf("%s_%dx%d.png", base, size.Width, size.Height)
		if err := b.writeFile(file, outs[i]); err != nil {
			return manifest.Record{}, err
		}
		rec.Files = append(rec.Files, file)
		rec.Bytes += int64(len(outs[i]))
		rec.Levels = append(rec.Levels, manifest.Level{
			Level:  i,
			Width:  size.Width,
			Height: size.Height,
			Format: "png",
			Bytes:  len(outs[i]),
		})
	}
	return rec, nil
}

func (b *builder) packageWrapper(ctx context.Context, spec wrapper.Spec) error {
	rep, err := wrapper.Package(ctx, spec, b.cfg.Output)
	if err != nil {
		return err
	}

	Logger().Debug("wrapper packaged",
		"name", rep.Name,
		"files", rep.Files,
		"bytes", rep.Bytes)

	b.mu.Lock()
	b.man.AddWrapper(manifest.WrapperRecord{Name: rep.Name, Files: rep.Files, Bytes: rep.Bytes})
	b.mu.Unlock()
	return nil
}

// writeFile writes one output file under the build directory.
func (b *builder) writeFile(name string, data []byte) error {
	path := filepath.Join(b.cfg.Output, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("assetpipe: write %s: %w", name, err)
	}
	return nil
}
