// Package importer decodes uploaded roster files (CSV or XLSX) into rows for
// bulk import. It only maps columns; uniqueness and persistence are the
// roster service's job.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/csesnitw/MessApp-server/internal/roster"
)

var (
	// ErrUnsupported rejects file types other than .csv and .xlsx.
	ErrUnsupported = errors.New("unsupported file type, use .csv or .xlsx")
	// ErrMissingColumns means the header row lacks rollNo or mess.
	ErrMissingColumns = errors.New("header must include rollNo and mess columns")
)

// Decode dispatches on the uploaded filename's extension.
func Decode(filename string, r io.Reader) ([]roster.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return DecodeCSV(r)
	case ".xlsx":
		return DecodeXLSX(r)
	default:
		return nil, ErrUnsupported
	}
}

// DecodeCSV reads a delimited roster table. The first record is the header.
func DecodeCSV(r io.Reader) ([]roster.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromTable(records)
}

// DecodeXLSX reads the first sheet of a spreadsheet as a roster table.
func DecodeXLSX(r io.Reader) ([]roster.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingColumns
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	return fromTable(records)
}

type columns struct {
	roll, name, email, mess int
}

func fromTable(records [][]string) ([]roster.Row, error) {
	if len(records) == 0 {
		return nil, ErrMissingColumns
	}
	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]roster.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := roster.Row{
			RollNo: cell(rec, cols.roll),
			Name:   cell(rec, cols.name),
			Email:  cell(rec, cols.email),
			Mess:   cell(rec, cols.mess),
		}
		if row.RollNo == "" && row.Name == "" && row.Mess == "" {
			continue // blank trailing line
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapHeader matches column names loosely: "Roll No", "rollNo" and "roll_no"
// all bind to the roll column.
func mapHeader(header []string) (columns, error) {
	cols := columns{roll: -1, name: -1, email: -1, mess: -1}
	for i, h := range header {
		switch normalize(h) {
		case "rollno", "roll", "id":
			cols.roll = i
		case "name", "studentname":
			cols.name = i
		case "email":
			cols.email = i
		case "mess", "messname":
			cols.mess = i
		}
	}
	if cols.roll < 0 || cols.mess < 0 {
		return cols, ErrMissingColumns
	}
	return cols, nil
}

func normalize(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
