// Package pdfio adapts the pdfplumber layout engine behind a small surface.
// The geometric work (cell positions, line detection) belongs to the engine;
// this package only routes strategy settings and raw cell grids.
package pdfio

import (
	"fmt"
	"strings"

	pdfplumber "github.com/allieus/pdfplumber-go"
)

type tablePage interface {
	ExtractTables(opts ...pdfplumber.TableExtractionOption) []pdfplumber.Table
}

type Document struct {
	pages     []*Page
	closeFunc func()
}

// Open loads a PDF and exposes its pages. Pages the engine cannot open are
// skipped; a document with zero readable pages still opens and simply yields
// no tables.
func Open(path string) (*Document, error) {
	doc, err := pdfplumber.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	d := &Document{closeFunc: func() { doc.Close() }}
	for i := 0; i < doc.PageCount(); i++ {
		pg, err := doc.GetPage(i)
		if err != nil {
			continue
		}
		var tp tablePage = pg
		d.pages = append(d.pages, &Page{pg: tp})
	}
	return d, nil
}

func (d *Document) Pages() []*Page { return d.pages }

func (d *Document) Close() {
	if d.closeFunc != nil {
		d.closeFunc()
	}
}

type Page struct {
	pg tablePage
}

// ExtractTables runs one geometric strategy over the page and returns the
// raw cell grids it finds.
func (p *Page) ExtractTables(vertical, horizontal string) ([][][]string, error) {
	vertical = strings.TrimSpace(vertical)
	horizontal = strings.TrimSpace(horizontal)
	if vertical == "" || horizontal == "" {
		return nil, fmt.Errorf("empty vertical/horizontal strategy setting")
	}

	tables := p.pg.ExtractTables(pdfplumber.WithTableStrategy(vertical, horizontal))
	out := make([][][]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Rows)
	}
	return out, nil
}
