package pipeline

import (
	"pricebook/internal"
	"pricebook/internal/config"
	"pricebook/internal/util"
)

// Options carries every tunable of the extraction engine. The dictionaries
// are plain data so vendor quirks can be accommodated without touching
// control flow.
type Options struct {
	// Strategies are tried in order on every page; a failing strategy
	// contributes no candidates.
	Strategies []Strategy

	// HeaderScanWindow bounds how deep into a table the header detector
	// looks. Headers sit near the top; scanning further risks promoting a
	// data row that happens to contain keyword substrings.
	HeaderScanWindow int
	// MinHeaderScore is the minimum keyword-hit count for an eligible row.
	MinHeaderScore int
	// GateAll must all appear in a row's joined text for it to be header
	// eligible; GateAny requires at least one hit.
	GateAll []string
	GateAny []string
	// ScoreKeywords rank eligible rows; the highest hit count wins, earliest
	// position breaking ties.
	ScoreKeywords []string
	// HeaderFixups is a replacer pair list applied before keyword matching.
	HeaderFixups []string

	// MaxHeaderCell caps synthesized header names.
	MaxHeaderCell int
	// Placeholders are header tokens replaced by COL_<position>.
	Placeholders []string

	// Synonyms maps normalized vendor spellings to canonical fields.
	Synonyms map[string]internal.Field
	// ExcludeExact and ExcludeContains drop a column and its data entirely.
	ExcludeExact    []string
	ExcludeContains []string

	// FooterPhrases end row accumulation for a table when matched.
	FooterPhrases []string

	Locale util.NumberLocale

	// MinModelLen and ModelJunk guard the row validity gate.
	MinModelLen int
	ModelJunk   []string
}

func DefaultOptions() Options {
	return Options{
		Strategies:       DefaultStrategies(),
		HeaderScanWindow: 15,
		MinHeaderScore:   2,
		GateAll:          []string{"TYPE"},
		GateAny:          []string{"RP", "MRP"},
		ScoreKeywords:    []string{"MODEL", "TYPE", "RP", "MRP", "COLOR", "COLOUR", "FEATURE", "WARRANTY", "MOP"},
		HeaderFixups:     []string{"S/L", "SL", "MODEL NO.", "MODEL NO", "MODEL#", "MODEL"},
		MaxHeaderCell:    60,
		Placeholders:     []string{"-", "_"},
		Synonyms:         defaultSynonyms(),
		ExcludeExact:     []string{"sl no", "s l no", "sl", "sn", "serial", "serial no", "mod", "header"},
		ExcludeContains:  []string{"photo", "image", "picture", "img", "company name"},
		FooterPhrases:    []string{"official distributor", "price list"},
		Locale:           util.DefaultLocale(),
		MinModelLen:      2,
		ModelJunk:        []string{"MODEL", "MOD", "EL", "MODEL PHOTOS"},
	}
}

// OptionsFromConfig applies the env-tunable knobs on top of the engine
// defaults. The dictionaries stay data-driven here and can be replaced
// programmatically when a vendor needs it.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	if cfg.HeaderScanWindow > 0 {
		opts.HeaderScanWindow = cfg.HeaderScanWindow
	}
	if cfg.MinHeaderScore > 0 {
		opts.MinHeaderScore = cfg.MinHeaderScore
	}
	if cfg.MaxHeaderCell > 0 {
		opts.MaxHeaderCell = cfg.MaxHeaderCell
	}
	if cfg.DecimalSep != "" {
		opts.Locale.DecimalSep = cfg.DecimalSep
	}
	opts.Locale.ThousandsSep = cfg.ThousandsSep
	if len(cfg.FooterPhrases) > 0 {
		opts.FooterPhrases = cfg.FooterPhrases
	}
	if len(cfg.GateAllKeywords) > 0 {
		opts.GateAll = cfg.GateAllKeywords
	}
	if len(cfg.GateAnyKeywords) > 0 {
		opts.GateAny = cfg.GateAnyKeywords
	}
	return opts
}

func defaultSynonyms() map[string]internal.Field {
	return map[string]internal.Field{
		"model":        internal.FieldModel,
		"model no":     internal.FieldModel,
		"model name":   internal.FieldModel,
		"product name": internal.FieldModel,
		"product":      internal.FieldModel,
		"item name":    internal.FieldModel,
		"item":         internal.FieldModel,
		"name":         internal.FieldModel,

		"model number": internal.FieldModelNumber,
		"sku":          internal.FieldModelNumber,

		"brand":        internal.FieldBrand,
		"brand name":   internal.FieldBrand,
		"manufacturer": internal.FieldBrand,

		"type":         internal.FieldType,
		"types":        internal.FieldType,
		"product type": internal.FieldType,
		"category":     internal.FieldType,
		"categories":   internal.FieldType,

		"retail price": internal.FieldRetailPrice,
		"retail":       internal.FieldRetailPrice,
		"rp":           internal.FieldRetailPrice,
		"price":        internal.FieldRetailPrice,
		"cost":         internal.FieldRetailPrice,

		"sale price":    internal.FieldSalePrice,
		"sale":          internal.FieldSalePrice,
		"mrp":           internal.FieldSalePrice,
		"selling price": internal.FieldSalePrice,
		"market price":  internal.FieldSalePrice,

		"color":   internal.FieldColor,
		"colour":  internal.FieldColor,
		"colors":  internal.FieldColor,
		"colours": internal.FieldColor,

		"variant":    internal.FieldVariants,
		"variants":   internal.FieldVariants,
		"variation":  internal.FieldVariants,
		"variations": internal.FieldVariants,
		"options":    internal.FieldVariants,
		"mop":        internal.FieldVariants,

		"vendor":        internal.FieldVendor,
		"vendor name":   internal.FieldVendor,
		"supplier":      internal.FieldVendor,
		"supplier name": internal.FieldVendor,
	}
}
