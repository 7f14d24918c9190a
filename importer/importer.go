// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/livepoll/models"
)

// QuestionHeader is the required first header cell
const QuestionHeader = "Question"

var (
	ErrUnsupportedFormat     = errors.New("unsupported file format (use .xlsx or .csv)")
	ErrMissingQuestionColumn = errors.New(`first column header must be "Question"`)
	ErrEmptyWorkbook         = errors.New("workbook has no sheets")
)

// Row is one importable question
type Row struct {
	Line     int      `json:"line"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// RowError is a row that was not imported
type RowError struct {
	Line     int    `json:"line"`
	Question string `json:"question"`
	Reason   string `json:"reason"`
}

type Result struct {
	Rows    []Row      `json:"rows"`
	Skipped []RowError `json:"skipped"`
}

// Parse reads a spreadsheet and returns its importable rows.
// The format is chosen from the file name extension.
func Parse(r io.Reader, filename string) (Result, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	case ".csv":
		records, err = readCSV(r)
	default:
		return Result{}, ErrUnsupportedFormat
	}
	if err != nil {
		return Result{}, err
	}

	return FromRecords(records)
}

// FromRecords applies the import rules to raw cells. records[0] is the header.
func FromRecords(records [][]string) (Result, error) {
	if len(records) == 0 || len(records[0]) == 0 || cleanCell(records[0][0]) != QuestionHeader {
		return Result{}, ErrMissingQuestionColumn
	}

	res := Result{Rows: []Row{}, Skipped: []RowError{}}
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header

		if len(record) == 0 {
			continue
		}
		question := cleanCell(record[0])
		if question == "" {
			// Blank rows are common at the end of sheets
			continue
		}

		options := make([]string, 0, len(record)-1)
		for _, cell := range record[1:] {
			if c := cleanCell(cell); c != "" {
				options = append(options, c)
			}
		}

		if len(options) < models.MinOptions {
			res.Skipped = append(res.Skipped, RowError{
				Line:     line,
				Question: question,
				Reason:   fmt.Sprintf("needs at least %d options, has %d", models.MinOptions, len(options)),
			})
			continue
		}

		res.Rows = append(res.Rows, Row{Line: line, Question: question, Options: options})
	}

	return res, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
