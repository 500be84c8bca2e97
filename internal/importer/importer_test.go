package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV(t *testing.T) {
	csvData := "rollNo,name,mess,email\n" +
		"CS21B001,Asha,MessA,cs21b001@student.nitw.ac.in\n" +
		"CS21B002,Binod,MessB,\n" +
		",,,\n"

	rows, err := DecodeCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank line dropped)", len(rows))
	}
	if rows[0].RollNo != "CS21B001" || rows[0].Name != "Asha" || rows[0].Mess != "MessA" {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[0].Email != "cs21b001@student.nitw.ac.in" {
		t.Fatalf("row 0 email = %q", rows[0].Email)
	}
	if rows[1].Email != "" {
		t.Fatalf("row 1 email = %q, want empty", rows[1].Email)
	}
}

func TestDecodeCSVLooseHeaders(t *testing.T) {
	csvData := "Roll No,Student Name,Mess Name\nCS21B001,Asha,MessA\n"
	rows, err := DecodeCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].RollNo != "CS21B001" || rows[0].Mess != "MessA" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestDecodeCSVMissingColumns(t *testing.T) {
	if _, err := DecodeCSV(strings.NewReader("name,email\nAsha,a@b\n")); err != ErrMissingColumns {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if _, err := DecodeCSV(strings.NewReader("")); err != ErrMissingColumns {
		t.Fatalf("empty file err = %v, want ErrMissingColumns", err)
	}
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, rec := range [][]interface{}{
		{"rollNo", "name", "mess"},
		{"CS21B001", "Asha", "MessA"},
		{"CS21B002", "Binod", "MessA"},
	} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	rows, err := Decode("roster.xlsx", &buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1].RollNo != "CS21B002" || rows[1].Mess != "MessA" {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	if _, err := Decode("roster.pdf", strings.NewReader("x")); err != ErrUnsupported {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}
