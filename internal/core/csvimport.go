package core

// csvimport.go turns a CSV stream into person candidates.
//
// Every data record yields either a PersonCreateModel or a skip reason; a
// bad record never stops the stream. Only a read error on the underlying
// stream is fatal.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVColumns is the import header, in default column order.
var CSVColumns = []string{"firstName", "lastName", "address", "color"}

// columnIndex maps each of the four fields to its position in a record.
type columnIndex struct {
	firstName, lastName, address, color int
}

var defaultColumns = columnIndex{firstName: 0, lastName: 1, address: 2, color: 3}

// csvRecord is one data record read from the stream. Exactly one of
// Model and Err is meaningful.
type csvRecord struct {
	Line  int
	Model PersonCreateModel
	Err   error
}

// recordFunc receives each data record. Returning an error stops the read.
type recordFunc func(rec csvRecord) error

// readCSV streams r and calls fn for every non-blank data record.
// A leading header row is consumed and decides the column order.
func readCSV(r io.Reader, fn recordFunc) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	cols := defaultColumns
	seenFirst := false

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			seenFirst = true
			if err := fn(csvRecord{Line: parseErr.StartLine, Err: fmt.Errorf("malformed csv: %w", parseErr.Err)}); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: read csv: %w", ErrInvalidUpload, err)
		}

		if isEmptyRow(row) {
			continue
		}
		line, _ := reader.FieldPos(0)

		if !seenFirst {
			seenFirst = true
			if idx, ok := headerColumns(row); ok {
				cols = idx
				continue
			}
		}

		model, perr := parseRecord(row, cols)
		if err := fn(csvRecord{Line: line, Model: model, Err: perr}); err != nil {
			return err
		}
	}
}

// headerColumns reports whether row is the import header and, if so, where
// each column sits. Column names match case-insensitively in any order.
func headerColumns(row []string) (columnIndex, bool) {
	if len(row) != len(CSVColumns) {
		return columnIndex{}, false
	}

	pos := make(map[string]int, len(row))
	for i, cell := range row {
		pos[strings.ToLower(CleanCell(cell))] = i
	}

	var idx columnIndex
	targets := []*int{&idx.firstName, &idx.lastName, &idx.address, &idx.color}
	for i, name := range CSVColumns {
		p, ok := pos[strings.ToLower(name)]
		if !ok {
			return columnIndex{}, false
		}
		*targets[i] = p
	}
	return idx, true
}

// parseRecord builds and validates a candidate from one record.
func parseRecord(row []string, cols columnIndex) (PersonCreateModel, error) {
	if len(row) != len(CSVColumns) {
		return PersonCreateModel{}, fmt.Errorf("expected %d fields, got %d", len(CSVColumns), len(row))
	}

	colorCell := CleanCell(row[cols.color])
	color, err := ParseColor(colorCell)
	if err != nil {
		return PersonCreateModel{}, err
	}

	return Validate(PersonCreateModel{
		FirstName: CleanCell(row[cols.firstName]),
		LastName:  CleanCell(row[cols.lastName]),
		Address:   CleanCell(row[cols.address]),
		Color:     color,
	})
}

// CleanCell removes common CSV artifacts from a cell value:
// surrounding whitespace, the Excel formula wrapper (="...") and
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
