package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for catalog loading.
var (
	ErrFileNotFound      = errors.New("catalog file not found")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrUnreadable        = errors.New("catalog file unreadable")
	ErrMissingColumn     = errors.New("missing column")
	ErrInvalidRow        = errors.New("invalid row")
	ErrEmptyCatalog      = errors.New("catalog has no postings")
)

// Error describes a catalog load failure. Column and Row are set when the
// failure concerns a specific column or 1-based data row.
type Error struct {
	Path   string
	Column string
	Row    int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("catalog")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Column != "" {
		fmt.Fprintf(&b, ": %s", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " (row %d)", e.Row)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
