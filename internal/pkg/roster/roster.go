// Package roster parses bulk-upload CSV files and produces the downloadable
// blank template. Column names match the form circulated to instructors, so
// they are treated as part of the wire format.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names of the upload form. ColStudentRef accepts either the numeric
// student ID or the ASUrite alias in a single column.
const (
	ColPosition     = "Position"
	ColFultonFellow = "FultonFellow"
	ColWeeklyHours  = "WeeklyHours"
	ColStudentRef   = "Student_ID (ID number OR ASUrite accepted)"
	ColClassNum     = "ClassNum"
)

// Header lists the template columns in order
var Header = []string{ColPosition, ColFultonFellow, ColWeeklyHours, ColStudentRef, ColClassNum}

var requiredColumns = []string{ColPosition, ColWeeklyHours, ColStudentRef, ColClassNum}

var ErrEmptyFile = errors.New("roster file has no header row")

// RowError reports a problem with a specific data row. Index is the 1-based
// CSV line number, so the first data row after the header is index 2.
type RowError struct {
	Index int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: field %q: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Row is one parsed and field-validated upload row
type Row struct {
	Index        int    // CSV line number (header = 1)
	Position     string // upper-cased
	FultonFellow string // defaults to "No" when blank or absent
	WeeklyHours  int
	StudentRef   string // numeric ID or alias, discriminated by IsNumericRef
	ClassNum     string
}

// IsNumericRef reports whether the student reference should resolve by exact
// numeric ID rather than case-insensitive alias: true when every character is
// a digit.
func (r Row) IsNumericRef() bool {
	if r.StudentRef == "" {
		return false
	}
	for _, c := range r.StudentRef {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Template returns the blank upload form: the header row only.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	w.Flush()
	return buf.Bytes()
}

// Parse reads the CSV stream and returns the validated rows. Any malformed
// or incomplete row aborts parsing with a *RowError; a missing required
// header column fails before any row is read.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Excel exports prepend a UTF-8 BOM to the first cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	cell := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []Row
	for index := 2; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RowError{Index: index, Err: err}
		}

		row := Row{
			Index:        index,
			Position:     strings.ToUpper(cell(record, ColPosition)),
			FultonFellow: cell(record, ColFultonFellow),
			StudentRef:   cell(record, ColStudentRef),
			ClassNum:     cell(record, ColClassNum),
		}
		if row.FultonFellow == "" {
			row.FultonFellow = "No"
		}

		for _, col := range requiredColumns {
			if cell(record, col) == "" {
				return nil, &RowError{Index: index, Field: col, Err: errors.New("missing required field")}
			}
		}

		hours, err := strconv.Atoi(cell(record, ColWeeklyHours))
		if err != nil {
			return nil, &RowError{Index: index, Field: ColWeeklyHours, Err: fmt.Errorf("not a whole number: %q", cell(record, ColWeeklyHours))}
		}
		row.WeeklyHours = hours

		rows = append(rows, row)
	}

	return rows, nil
}
