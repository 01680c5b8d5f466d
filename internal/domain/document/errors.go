package document

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for text extraction.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUndecodableText   = errors.New("text is not valid UTF-8")
	ErrMalformedDocument = errors.New("malformed document")
)

// Error is an extraction failure for a document of extension Ext.
type Error struct {
	Ext string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %q: %v", e.Ext, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
