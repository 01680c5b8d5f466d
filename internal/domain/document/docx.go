package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	defer func() { _ = r.Close() }()

	text, err := paragraphText(r.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return text, nil
}

// paragraphText walks WordprocessingML and returns the text of every w:p in
// document order, one paragraph per line.
func paragraphText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		open       []*strings.Builder
		inText     bool
		runs       int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "r":
				runs++
			case "t":
				inText = true
			case "tab":
				// w:tab outside a run is a tab-stop definition in w:pPr.
				if runs > 0 {
					write(open, "\t")
				}
			case "br", "cr":
				if runs > 0 {
					write(open, "\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if n := len(open); n > 0 {
					paragraphs = append(paragraphs, open[n-1].String())
					open = open[:n-1]
				}
			case "r":
				if runs > 0 {
					runs--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				write(open, string(t))
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func write(open []*strings.Builder, s string) {
	if n := len(open); n > 0 {
		open[n-1].WriteString(s)
	}
}
