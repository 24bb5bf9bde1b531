// Package wrapper packages standalone wrapper directories into the build
// output. A wrapper is a directory of static files (HTML shells, helper
// scripts, styling) copied as a tree, with literal token rewrites applied
// to text files on the way through.
package wrapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotDirectory is returned when a wrapper source is not a directory.
var ErrNotDirectory = errors.New("wrapper: source is not a directory")

// Spec describes one wrapper to package.
type Spec struct {
	// Name is the output directory name.
	// Empty means the base name of Source.
	Name string `yaml:"name"`

	// Source is the directory to copy.
	Source string `yaml:"source"`

	// Exclude lists glob patterns matched against slash-separated paths
	// relative to Source and against bare base names. A matching
	// directory is skipped whole.
	Exclude []string `yaml:"exclude"`

	// Rewrites maps literal tokens to replacement text, applied to text
	// files (HTML, JS, CSS, JSON, Markdown).
	Rewrites map[string]string `yaml:"rewrites"`
}

// Report summarizes a packaged wrapper.
type Report struct {
	Name  string // resolved wrapper name
	Files int    // files written
	Bytes int64  // bytes written
}

// textSuffixes lists file suffixes eligible for token rewriting.
var textSuffixes = map[string]bool{
	".css":  true,
	".html": true,
	".js":   true,
	".json": true,
	".md":   true,
}

// Package copies spec.Source into destRoot under the wrapper's name and
// reports what was written. Text files go through the spec's rewrites;
// everything else is copied byte for byte. On error the report is zero.
func Package(ctx context.Context, spec Spec, destRoot string) (Report, error) {
	info, err := os.Stat(spec.Source)
	if err != nil {
		return Report{}, fmt.Errorf("wrapper: stat source: %w", err)
	}
	if !info.IsDir() {
		return Report{}, fmt.Errorf("%w: %s", ErrNotDirectory, spec.Source)
	}

	name := spec.Name
	if name == "" {
		name = filepath.Base(spec.Source)
	}
	dest := filepath.Join(destRoot, name)

	var rw *strings.Replacer
	if len(spec.Rewrites) > 0 {
		rw = newReplacer(spec.Rewrites)
	}

	rep := Report{Name: name}
	err = filepath.WalkDir(spec.Source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(spec.Source, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(dest, 0o755)
		}

		skip, err := excluded(spec.Exclude, rel, d.Name())
		if err != nil {
			return err
		}
		if skip {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		var n int64
		if rw != nil && textSuffixes[strings.ToLower(filepath.Ext(p))] {
			n, err = rewriteFile(p, target, rw)
		} else {
			n, err = copyFile(p, target)
		}
		if err != nil {
			return err
		}
		rep.Files++
		rep.Bytes += n
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("wrapper: package %s: %w", name, err)
	}
	return rep, nil
}

// excluded reports whether rel matches any exclude pattern. Patterns
// match the slash-separated relative path or the bare base name.
func excluded(patterns []string, rel, base string) (bool, error) {
	slashRel := filepath.ToSlash(rel)
	for _, pat := range patterns {
		ok, err := path.Match(pat, slashRel)
		if err != nil {
			return false, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
		if ok {
			return true, nil
		}
		ok, err = path.Match(pat, base)
		if err != nil {
			return false, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// newReplacer builds a single-pass replacer from the rewrite map.
// Longer tokens sort first so a token never shadows one it prefixes.
func newReplacer(rewrites map[string]string) *strings.Replacer {
	keys := slices.SortedFunc(maps.Keys(rewrites), func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, rewrites[k])
	}
	return strings.NewReplacer(pairs...)
}

// rewriteFile copies a text file with token rewrites applied.
func rewriteFile(src, dst string, rw *strings.Replacer) (int64, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, err
	}
	out := rw.Replace(string(data))
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

// copyFile copies src to dst without loading it into memory.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
