package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/xuri/excelize/v2"

	"pricebook/internal/pdfio"
)

// Source is one parseable document extracted from an uploaded file. A plain
// PDF yields one source; an .eml can yield several (attachments plus an HTML
// body table).
type Source struct {
	Name string
	Doc  Document
}

// OpenFile opens an uploaded file by extension and returns its document
// sources plus a cleanup function releasing engine handles and temp files.
func OpenFile(path string) ([]Source, func(), error) {
	name := filepath.Base(path)
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, ".pdf"):
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if err := pdfio.ProbeTextLayer(content); err != nil {
			return nil, nil, err
		}
		doc, err := pdfio.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return []Source{{Name: name, Doc: engineDocument{doc}}}, doc.Close, nil

	case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		doc, err := NewXLSXDocument(content)
		if err != nil {
			return nil, nil, err
		}
		return []Source{{Name: name, Doc: doc}}, func() {}, nil

	case strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm"):
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		doc, err := NewHTMLDocument(content)
		if err != nil {
			return nil, nil, err
		}
		return []Source{{Name: name, Doc: doc}}, func() {}, nil

	case strings.HasSuffix(lower, ".eml"):
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		return openMailSources(name, content)

	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", name)
	}
}

// openMailSources unpacks a vendor mail: price-list attachments and, when
// present, HTML body tables all feed the same engine. An attachment that
// fails to open is skipped; the mail as a whole still contributes whatever
// opened.
func openMailSources(name string, raw []byte) ([]Source, func(), error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("read mail %s: %w", name, err)
	}

	var sources []Source
	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		lower := strings.ToLower(filename)

		switch {
		case strings.HasSuffix(lower, ".pdf"):
			if err := pdfio.ProbeTextLayer(att.Content); err != nil {
				continue
			}
			tmp, err := os.CreateTemp("", "pricebook-*.pdf")
			if err != nil {
				continue
			}
			tmpPath := tmp.Name()
			_, werr := tmp.Write(att.Content)
			_ = tmp.Close()
			if werr != nil {
				_ = os.Remove(tmpPath)
				continue
			}
			doc, err := pdfio.Open(tmpPath)
			if err != nil {
				_ = os.Remove(tmpPath)
				continue
			}
			cleanups = append(cleanups, doc.Close, func() { _ = os.Remove(tmpPath) })
			sources = append(sources, Source{Name: name + "/" + filename, Doc: engineDocument{doc}})

		case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
			doc, err := NewXLSXDocument(att.Content)
			if err != nil {
				continue
			}
			sources = append(sources, Source{Name: name + "/" + filename, Doc: doc})
		}
	}

	if env.HTML != "" {
		if doc, err := NewHTMLDocument([]byte(env.HTML)); err == nil && len(doc.Pages()) > 0 {
			sources = append(sources, Source{Name: name + "/body", Doc: doc})
		}
	}

	if len(sources) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("mail %s carries no parseable price list", name)
	}
	return sources, cleanup, nil
}

// engineDocument wires the geometric layout engine into the document
// contract, translating strategy settings on the way down.
type engineDocument struct {
	doc *pdfio.Document
}

func (d engineDocument) Pages() []Page {
	enginePages := d.doc.Pages()
	pages := make([]Page, 0, len(enginePages))
	for _, pg := range enginePages {
		pages = append(pages, enginePage{pg: pg})
	}
	return pages
}

type enginePage struct {
	pg *pdfio.Page
}

func (p enginePage) ExtractTables(s Strategy) ([][][]string, error) {
	return p.pg.ExtractTables(s.Vertical, s.Horizontal)
}

// staticDocument serves pre-extracted tables (spreadsheets, HTML) through
// the same interface as the geometric engine. Every strategy sees the same
// tables; row deduplication absorbs the repetition like it does for
// overlapping PDF strategies.
type staticDocument struct {
	pages []Page
}

func (d *staticDocument) Pages() []Page { return d.pages }

type staticPage struct {
	tables [][][]string
}

func (p *staticPage) ExtractTables(Strategy) ([][][]string, error) {
	return p.tables, nil
}

// NewXLSXDocument maps one workbook onto the document contract: each sheet
// becomes a page holding a single table candidate.
func NewXLSXDocument(content []byte) (Document, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := &staticDocument{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		doc.pages = append(doc.pages, &staticPage{tables: [][][]string{rows}})
	}
	return doc, nil
}

// NewHTMLDocument collects every <table> into one page of candidates.
func NewHTMLDocument(content []byte) (Document, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var tables [][][]string
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > 0 {
			tables = append(tables, rows)
		}
	})

	doc := &staticDocument{}
	if len(tables) > 0 {
		doc.pages = append(doc.pages, &staticPage{tables: tables})
	}
	return doc, nil
}
