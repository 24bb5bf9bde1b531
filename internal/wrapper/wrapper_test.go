package wrapper

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"testing"
)

// writeTree creates a wrapper source directory from relative paths.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s) error = %v", p, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", p, err)
		}
	}
	return root
}

func readOut(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestPackageCopiesTree(t *testing.T) {
	src := writeTree(t, map[string]string{
		"index.html":   "<title>{{TITLE}}</title>",
		"js/loader.js": "const title = '{{TITLE}}';",
		"img/logo.png": "\x89PNG{{TITLE}}",
	})
	dst := t.TempDir()

	spec := Spec{
		Name:     "play",
		Source:   src,
		Rewrites: map[string]string{"{{TITLE}}": "Gravity Lab"},
	}
	rep, err := Package(context.Background(), spec, dst)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if rep.Name != "play" {
		t.Errorf("Report.Name = %q, want %q", rep.Name, "play")
	}
	if rep.Files != 3 {
		t.Errorf("Report.Files = %d, want 3", rep.Files)
	}

	got := readOut(t, filepath.Join(dst, "play", "index.html"))
	if want := "<title>Gravity Lab</title>"; got != want {
		t.Errorf("index.html = %q, want %q", got, want)
	}
	got = readOut(t, filepath.Join(dst, "play", "js", "loader.js"))
	if want := "const title = 'Gravity Lab';"; got != want {
		t.Errorf("loader.js = %q, want %q", got, want)
	}

	// Binary files are copied byte for byte, tokens included.
	got = readOut(t, filepath.Join(dst, "play", "img", "logo.png"))
	if want := "\x89PNG{{TITLE}}"; got != want {
		t.Errorf("logo.png = %q, want %q", got, want)
	}

	var wantBytes int64
	for _, rel := range []string{"index.html", "js/loader.js", "img/logo.png"} {
		info, err := os.Stat(filepath.Join(dst, "play", filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("Stat(%s) error = %v", rel, err)
		}
		wantBytes += info.Size()
	}
	if rep.Bytes != wantBytes {
		t.Errorf("Report.Bytes = %d, want %d", rep.Bytes, wantBytes)
	}
}

func TestPackageExcludes(t *testing.T) {
	src := writeTree(t, map[string]string{
		"index.html":          "ok",
		"README.md":           "skip",
		"node_modules/dep.js": "skip",
		"js/app.js":           "ok",
	})
	dst := t.TempDir()

	spec := Spec{
		Name:    "w",
		Source:  src,
		Exclude: []string{"node_modules", "*.md"},
	}
	rep, err := Package(context.Background(), spec, dst)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if rep.Files != 2 {
		t.Errorf("Report.Files = %d, want 2", rep.Files)
	}
	for _, rel := range []string{"README.md", "node_modules"} {
		if _, err := os.Stat(filepath.Join(dst, "w", rel)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Stat(%s) error = %v, want not exist", rel, err)
		}
	}
}

func TestPackageDefaultName(t *testing.T) {
	src := writeTree(t, map[string]string{"a.txt": "x"})
	dst := t.TempDir()

	rep, err := Package(context.Background(), Spec{Source: src}, dst)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if want := filepath.Base(src); rep.Name != want {
		t.Errorf("Report.Name = %q, want %q", rep.Name, want)
	}
	if _, err := os.Stat(filepath.Join(dst, filepath.Base(src), "a.txt")); err != nil {
		t.Errorf("Stat() error = %v", err)
	}
}

// TestPackageTokenPrefix verifies that a token that prefixes a longer
// token does not clip it.
func TestPackageTokenPrefix(t *testing.T) {
	src := writeTree(t, map[string]string{
		"a.js": "{{NAME}} and {{NAME_FULL}}",
	})
	dst := t.TempDir()

	spec := Spec{
		Name:   "w",
		Source: src,
		Rewrites: map[string]string{
			"{{NAME}}":      "short",
			"{{NAME_FULL}}": "long",
		},
	}
	if _, err := Package(context.Background(), spec, dst); err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	got := readOut(t, filepath.Join(dst, "w", "a.js"))
	if want := "short and long"; got != want {
		t.Errorf("a.js = %q, want %q", got, want)
	}
}

func TestPackageNotDirectory(t *testing.T) {
	src := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Package(context.Background(), Spec{Name: "w", Source: src}, t.TempDir())
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Package() error = %v, want ErrNotDirectory", err)
	}
}

func TestPackageMissingSource(t *testing.T) {
	src := filepath.Join(t.TempDir(), "gone")
	_, err := Package(context.Background(), Spec{Name: "w", Source: src}, t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Package() error = %v, want not exist", err)
	}
}

func TestPackageBadPattern(t *testing.T) {
	src := writeTree(t, map[string]string{"a.txt": "x"})
	spec := Spec{Name: "w", Source: src, Exclude: []string{"["}}

	_, err := Package(context.Background(), spec, t.TempDir())
	if !errors.Is(err, path.ErrBadPattern) {
		t.Errorf("Package() error = %v, want ErrBadPattern", err)
	}
}

func TestPackageContextCanceled(t *testing.T) {
	src := writeTree(t, map[string]string{"a.txt": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Package(ctx, Spec{Name: "w", Source: src}, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Package() error = %v, want context.Canceled", err)
	}
}
