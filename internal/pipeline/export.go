package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"pricebook/internal"
)

var exportHeaders = []string{
	"document", "base_name", "brand_name", "product_type", "model_number",
	"color", "variants", "vendor_name", "retail_price", "sale_price",
}

// ExportProductsToCSV writes products with the canonical columns first and
// the sorted extra-column union appended.
func ExportProductsToCSV(products []internal.ProductRow, extraColumns []string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, exportHeaders...), extraColumns...)); err != nil {
		return err
	}

	for _, p := range products {
		record := []string{
			p.Document, p.BaseName, p.BrandName, p.ProductType, p.ModelNumber,
			p.Color, p.Variants, p.VendorName,
			formatPrice(p.RetailPrice), formatPrice(p.SalePrice),
		}
		for _, col := range extraColumns {
			record = append(record, p.ExtraFields[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportProductsToXLSX(products []internal.ProductRow, extraColumns []string, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := append(append([]string{}, exportHeaders...), extraColumns...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range products {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, p.Document)
		set(2, p.BaseName)
		set(3, p.BrandName)
		set(4, p.ProductType)
		set(5, p.ModelNumber)
		set(6, p.Color)
		set(7, p.Variants)
		set(8, p.VendorName)
		set(9, p.RetailPrice)
		set(10, p.SalePrice)
		for j, col := range extraColumns {
			set(11+j, p.ExtraFields[col])
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func formatPrice(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

// ExtraColumnsUnion merges per-document column lists into one sorted export
// schema.
func ExtraColumnsUnion(docs []internal.DocumentRow) []string {
	set := map[string]struct{}{}
	for _, doc := range docs {
		for _, col := range doc.AllColumns {
			set[col] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for col := range set {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}
