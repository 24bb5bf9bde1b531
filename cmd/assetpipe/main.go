// Command assetpipe builds simulation image assets: mipmap chains,
// image modules, thumbnails, and packaged wrappers. Builds are driven
// by a YAML config, or by a single input file with -in.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/simforge/assetpipe"
)

var (
	config   = flag.String("config", "", "YAML build config")
	in       = flag.String("in", "", "single image to build (alternative to -config)")
	out      = flag.String("out", "build", "output directory")
	kind     = flag.String("kind", assetpipe.KindMipmap, "asset kind for -in: mipmap, image, or thumbnail")
	maxLevel = flag.Int("max-level", assetpipe.DefaultMaxLevel, "mipmap level cap, negative for unbounded")
	quality  = flag.Int("quality", assetpipe.DefaultQuality, "JPEG quality, 1 to 100")
	workers  = flag.Int("workers", 0, "concurrent asset builds, 0 for one per CPU")
	verbose  = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	assetpipe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	cfg, err := buildConfig()
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	man, err := assetpipe.Build(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("built %d assets, %d files, %d bytes in %s",
		man.Stats.Assets, man.Stats.Files, man.Stats.Bytes, cfg.Output)
}

// buildConfig assembles the build config from -config or -in, laying
// explicitly set flags over the file.
func buildConfig() (assetpipe.BuildConfig, error) {
	if *config != "" && *in != "" {
		return assetpipe.BuildConfig{}, errors.New("-config and -in are mutually exclusive")
	}

	if *config != "" {
		cfg, err := assetpipe.LoadConfig(*config)
		if err != nil {
			return assetpipe.BuildConfig{}, err
		}
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "out":
				cfg.Output = *out
			case "max-level":
				cfg.MaxLevel = *maxLevel
			case "quality":
				cfg.Quality = *quality
			case "workers":
				cfg.Workers = *workers
			}
		})
		return cfg, nil
	}

	if *in == "" {
		return assetpipe.BuildConfig{}, errors.New("one of -config or -in is required")
	}

	cfg := assetpipe.DefaultBuildConfig()
	cfg.Output = *out
	cfg.MaxLevel = *maxLevel
	cfg.Quality = *quality
	cfg.Workers = *workers
	cfg.Assets = []assetpipe.Asset{{
		Name:   filepath.Base(*in),
		Source: *in,
		Kind:   *kind,
	}}
	return cfg, nil
}
