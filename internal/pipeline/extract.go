package pipeline

// Strategy names one geometric table-extraction configuration of the layout
// engine. Vertical and Horizontal follow the engine's vocabulary: ruling
// lines or text alignment.
type Strategy struct {
	Name       string
	Vertical   string
	Horizontal string
}

func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "lines", Vertical: "lines", Horizontal: "lines"},
		{Name: "text", Vertical: "text", Horizontal: "text"},
	}
}

// Page is one page of a source document. ExtractTables may fail for a given
// strategy; the caller treats that as "this strategy found nothing".
type Page interface {
	ExtractTables(s Strategy) ([][][]string, error)
}

// Document is a handle over an already-opened source document.
type Document interface {
	Pages() []Page
}

// Candidate is one strategy's raw extraction of a page region. Several
// candidates commonly describe the same physical table through different
// cell splits; row-level deduplication absorbs the overlap downstream.
type Candidate struct {
	Strategy string
	Rows     [][]string
}

// ExtractCandidates runs every strategy on the page in priority order and
// concatenates their tables. A strategy error never fails the page.
func ExtractCandidates(page Page, strategies []Strategy) []Candidate {
	var out []Candidate
	for _, s := range strategies {
		tables, err := page.ExtractTables(s)
		if err != nil {
			continue
		}
		for _, rows := range tables {
			if !hasContent(rows) {
				continue
			}
			out = append(out, Candidate{Strategy: s.Name, Rows: rows})
		}
	}
	return out
}

func hasContent(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if CleanCell(cell) != "" {
				return true
			}
		}
	}
	return false
}
