// Package modulegen renders JavaScript asset modules. Each built asset
// becomes an ES module that embeds its data URLs, so simulations import
// images the same way they import code.
package modulegen

import (
	"fmt"
	"strings"
)

// Level is one mipmap level as it appears in a generated module,
// finest first.
type Level struct {
	Width  int
	Height int
	URL    string
}

// header is prepended to every generated module.
const header = "// Generated by assetpipe. Do not edit.\n"

// ImageModule renders a module that exports an HTMLImageElement whose
// src is the given data URL.
func ImageModule(name, url string) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "const %s = new Image();\n", name)
	fmt.Fprintf(&sb, "%s.src = '%s';\n", name, url)
	fmt.Fprintf(&sb, "export default %s;\n", name)
	return sb.String()
}

// MipmapModule renders a module that exports an array of mipmap levels.
// Each level carries its pixel size and a data URL.
func MipmapModule(name string, levels []Level) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "const %s = [\n", name)
	for _, lv := range levels {
		fmt.Fprintf(&sb, "  { width: %d, height: %d, url: '%s' },\n", lv.Width, lv.Height, lv.URL)
	}
	sb.WriteString("];\n")
	fmt.Fprintf(&sb, "export default %s;\n", name)
	return sb.String()
}
