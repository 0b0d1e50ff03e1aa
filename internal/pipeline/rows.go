package pipeline

import (
	"strings"

	"pricebook/internal"
	"pricebook/internal/util"
)

// alignRow makes a ragged data row match the header width: missing trailing
// cells become empty strings, and overflow cells are merged into the last
// column so no text is silently truncated.
func alignRow(cells []string, width int) []string {
	out := make([]string, width)
	copy(out, cells)
	if len(cells) > width && width > 0 {
		merged := append([]string{out[width-1]}, cells[width:]...)
		out[width-1] = CleanCell(strings.Join(merged, " "))
	}
	return out
}

// isFooterRow reports whether a row is vendor boilerplate that terminates
// data accumulation for its table. Everything below it is ignored.
func isFooterRow(cells []string, opts Options) bool {
	joined := strings.ToLower(strings.Join(cleanRow(cells), " "))
	for _, phrase := range opts.FooterPhrases {
		if strings.Contains(joined, phrase) {
			return true
		}
	}
	return false
}

// buildRow translates an aligned data row into a ParsedRow and its
// deduplication key. ok is false when the row fails the validity gate;
// such rows are dropped without an error channel by design.
func buildRow(cells []string, m ColumnMapping, opts Options) (internal.ParsedRow, string, bool) {
	clean := cleanRow(cells)
	value := func(f internal.Field) string {
		return mergeDuplicates(clean, m.Fields[f])
	}

	model := value(internal.FieldModel)
	productType := value(internal.FieldType)
	retailText := value(internal.FieldRetailPrice)
	saleText := value(internal.FieldSalePrice)
	retail, retailOK := util.ParsePrice(retailText, opts.Locale)
	sale, saleOK := util.ParsePrice(saleText, opts.Locale)

	key := model + "|" + productType + "|" + saleText + "|" + retailText

	if !validRow(model, productType, retail, retailOK, sale, saleOK, opts) {
		return internal.ParsedRow{}, key, false
	}

	row := internal.ParsedRow{
		BaseName:    model,
		BrandName:   value(internal.FieldBrand),
		ProductType: productType,
		ModelNumber: value(internal.FieldModelNumber),
		Color:       value(internal.FieldColor),
		Variants:    value(internal.FieldVariants),
		VendorName:  value(internal.FieldVendor),
	}
	if retailOK {
		row.RetailPrice = retail
	}
	if saleOK {
		row.SalePrice = sale
	}

	for _, extra := range m.Extras {
		if extra.Position >= len(clean) {
			continue
		}
		if v := clean[extra.Position]; v != "" {
			if row.ExtraFields == nil {
				row.ExtraFields = map[string]string{}
			}
			row.ExtraFields[extra.Name] = v
		}
	}

	return row, key, true
}

// validRow is the acceptance gate: a usable model name, a product type, and
// at least one positive price.
func validRow(model, productType string, retail float64, retailOK bool, sale float64, saleOK bool, opts Options) bool {
	if len([]rune(model)) < opts.MinModelLen {
		return false
	}
	upper := strings.ToUpper(model)
	for _, junk := range opts.ModelJunk {
		if upper == junk {
			return false
		}
	}
	if productType == "" {
		return false
	}
	return (retailOK && retail > 0) || (saleOK && sale > 0)
}
