package document

import (
	"bytes"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals // constant byte sequence

func extractTXT(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", ErrUndecodableText
	}
	return string(data), nil
}
