package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/cvmatch/internal/domain/model"
)

// Catalog column headers.
const (
	ColumnTitle       = "Job Title"
	ColumnSkills      = "skills"
	ColumnRegion      = "Governorate"
	ColumnLevel       = "professional level"
	ColumnLevelLegacy = "professional Level"
)

const (
	skillSeparator = ","
	utf8BOM        = "\uFEFF"
)

// Load reads a catalog from a .csv or .xlsx file. The first row is the
// header. Any missing column or invalid row fails the whole load.
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Path: path, Err: ErrFileNotFound}
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}

	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}

	postings, err := parseRecords(records)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return New(postings...), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReader(f)
	if b, _ := br.Peek(len(utf8BOM)); string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

// parseRecords validates the header and turns each data row into a posting.
func parseRecords(records [][]string) ([]model.JobPosting, error) {
	if len(records) == 0 {
		return nil, &Error{Err: ErrEmptyCatalog}
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	idx := make(map[string]int, 4)
	for _, col := range []string{ColumnTitle, ColumnSkills, ColumnRegion} {
		i, ok := columns[col]
		if !ok {
			return nil, &Error{Column: col, Err: ErrMissingColumn}
		}
		idx[col] = i
	}
	level, ok := columns[ColumnLevel]
	if !ok {
		if level, ok = columns[ColumnLevelLegacy]; !ok {
			return nil, &Error{Column: ColumnLevel, Err: ErrMissingColumn}
		}
	}

	postings := make([]model.JobPosting, 0, len(records)-1)
	for n, row := range records[1:] {
		if blank(row) {
			continue
		}
		rowNum := n + 1

		p := model.JobPosting{
			Title:          cell(row, idx[ColumnTitle]),
			Region:         cell(row, idx[ColumnRegion]),
			SeniorityLevel: cell(row, level),
			RequiredSkills: splitSkills(cell(row, idx[ColumnSkills])),
		}
		switch {
		case p.Title == "":
			return nil, &Error{Column: ColumnTitle, Row: rowNum, Err: ErrInvalidRow}
		case len(p.RequiredSkills) == 0:
			return nil, &Error{Column: ColumnSkills, Row: rowNum, Err: ErrInvalidRow}
		case p.Region == "":
			return nil, &Error{Column: ColumnRegion, Row: rowNum, Err: ErrInvalidRow}
		case p.SeniorityLevel == "":
			return nil, &Error{Column: ColumnLevel, Row: rowNum, Err: ErrInvalidRow}
		}
		postings = append(postings, p)
	}

	if len(postings) == 0 {
		return nil, &Error{Err: ErrEmptyCatalog}
	}
	return postings, nil
}

func splitSkills(field string) []string {
	parts := strings.Split(field, skillSeparator)
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
