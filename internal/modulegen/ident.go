package modulegen

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExportName derives a JavaScript identifier from an asset file name.
// The extension is dropped, separator-split words are camel-cased, and
// a leading digit is guarded with an underscore:
//
//	battery-icon.png -> batteryIcon
//	3d_view.jpg      -> _3dView
func ExportName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "_"
	}

	var sb strings.Builder
	first, size := utf8.DecodeRuneInString(words[0])
	sb.WriteRune(unicode.ToLower(first))
	sb.WriteString(words[0][size:])

	title := cases.Title(language.Und)
	for _, w := range words[1:] {
		sb.WriteString(title.String(w))
	}

	out := sb.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// FileName derives the generated module file name for an asset. The
// source extension is folded into the name so two assets differing only
// by format cannot collide:
//
//	battery-icon.png -> batteryIcon_png.js
func FileName(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	base := ExportName(name)
	if ext == "" {
		return base + ".js"
	}
	return base + "_" + ext + ".js"
}
