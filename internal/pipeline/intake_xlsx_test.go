package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func priceListXLSX() []byte {
	return mkXLSX([][]any{
		{"AWEI BANGLADESH"},
		{"SL", "MODEL", "TYPE", "COLOR", "RP", "MRP"},
		{1, "QT-10", "Earbuds", "Black", 1200, 1500},
		{2, "HF-T20", "Headphone", "White", 1800, 2200},
	})
}

func TestParseXLSXDocument(t *testing.T) {
	doc, err := NewXLSXDocument(priceListXLSX())
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseDocument(doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d", len(parsed.Rows))
	}
	if parsed.Rows[0].BaseName != "QT-10" || parsed.Rows[0].SalePrice != 1500 {
		t.Fatalf("row = %+v", parsed.Rows[0])
	}
}

func TestParseXLSXMultipleSheets(t *testing.T) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)
	_ = f.SetSheetName(first, "Earbuds")
	_, _ = f.NewSheet("Speakers")

	put := func(sheet string, rows [][]any) {
		for r, row := range rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
	}
	put("Earbuds", [][]any{
		{"MODEL", "TYPE", "RP", "MRP"},
		{"QT-10", "Earbuds", 1200, 1500},
	})
	put("Speakers", [][]any{
		{"MODEL", "TYPE", "RP", "MRP"},
		{"Y-331", "Speaker", 2500, 2900},
	})
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)

	doc, err := NewXLSXDocument(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseDocument(doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d", len(parsed.Rows))
	}
	if parsed.Stats.Pages != 2 {
		t.Fatalf("stats = %+v", parsed.Stats)
	}
}
