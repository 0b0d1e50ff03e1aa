package internal

// Field is a canonical product attribute recognized in vendor price lists.
type Field string

const (
	FieldModel       Field = "MODEL"
	FieldBrand       Field = "BRAND"
	FieldType        Field = "TYPE"
	FieldRetailPrice Field = "RETAIL_PRICE"
	FieldSalePrice   Field = "SALE_PRICE"
	FieldModelNumber Field = "MODEL_NUMBER"
	FieldColor       Field = "COLOR"
	FieldVariants    Field = "VARIANTS"
	FieldVendor      Field = "VENDOR"
)

// ParsedRow is one accepted product record recovered from a price list.
// BaseName and ProductType are always non-empty; at least one of the two
// prices is positive.
type ParsedRow struct {
	BaseName    string
	BrandName   string
	ProductType string
	ModelNumber string
	Color       string
	Variants    string
	VendorName  string
	RetailPrice float64
	SalePrice   float64
	ExtraFields map[string]string
}

// ParseStats are the aggregate per-document counters. Invalid rows are
// dropped silently by design; these counts are the only trace they leave.
type ParseStats struct {
	Pages          int
	Tables         int
	HeadersFound   int
	RowsSeen       int
	RowsAccepted   int
	RowsInvalid    int
	RowsDuplicate  int
	RowsPastFooter int
}

// ParsedDocument is the result of parsing one source document.
type ParsedDocument struct {
	Rows []ParsedRow
	// AllColumns is the sorted union of vendor-specific extra column names
	// that carried at least one non-empty value.
	AllColumns []string
	Stats      ParseStats
}

type DocumentRow struct {
	ID         int
	Filename   string
	FileHash   string
	VendorName string
	TotalRows  int
	AllColumns []string
	UploadedAt string
}

type ProductRow struct {
	ID         int
	DocumentID int
	Document   string
	ParsedRow
	CreatedAt string
}

// IngestResult is what one document contributes to a batch: either a row
// count plus discovered extra columns, or a failure reason. A failing file
// never aborts its siblings.
type IngestResult struct {
	Filename   string
	DocumentID int
	Rows       int
	AllColumns []string
	Skipped    bool
	Err        error
}
