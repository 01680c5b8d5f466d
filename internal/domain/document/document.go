// Package document converts uploaded résumés into plain text.
package document

import (
	"fmt"
	"strings"
)

// Supported résumé extensions.
const (
	ExtPDF  = "pdf"
	ExtDOCX = "docx"
	ExtTXT  = "txt"
)

type extractor func(data []byte) (string, error)

var extractors = map[string]extractor{ //nolint:gochecknoglobals // read-only dispatch table
	ExtPDF:  extractPDF,
	ExtDOCX: extractDOCX,
	ExtTXT:  extractTXT,
}

// ExtensionOf returns the lower-cased final dot-segment of name. A name
// without a dot is returned lower-cased as a whole.
func ExtensionOf(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// Supported reports whether ext (an extension or a file name) can be
// extracted.
func Supported(ext string) bool {
	_, ok := extractors[ExtensionOf(ext)]
	return ok
}

// ExtractText converts data to text according to ext, which may be a bare
// extension or a file name. Errors are *Error values.
func ExtractText(data []byte, ext string) (string, error) {
	ext = ExtensionOf(ext)
	fn, ok := extractors[ext]
	if !ok {
		return "", &Error{Ext: ext, Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)}
	}

	text, err := fn(data)
	if err != nil {
		return "", &Error{Ext: ext, Err: err}
	}
	return text, nil
}
