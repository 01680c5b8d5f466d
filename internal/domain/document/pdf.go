package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource yields the text of 1-based pages.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(i int) (string, error) {
	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func extractPDF(data []byte) (text string, err error) {
	// The parser panics on some corrupt inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrMalformedDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return joinPages(pdfPages{r: r}), nil
}

// joinPages concatenates page texts in order. A page that fails contributes
// an empty string.
func joinPages(src pageSource) string {
	var b strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		b.WriteString(pageText(src, i))
	}
	return b.String()
}

func pageText(src pageSource, i int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	t, err := src.PageText(i)
	if err != nil {
		return ""
	}
	return t
}
