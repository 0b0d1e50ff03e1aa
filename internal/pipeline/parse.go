package pipeline

import (
	"errors"
	"fmt"

	"pricebook/internal"
)

var (
	ErrNoTables = errors.New("no tables extracted")
	ErrNoHeader = errors.New("no header row found")
	ErrNoRows   = errors.New("no valid product rows")
)

// headerState is the current header carried across tables and pages of one
// document. It is replaced whenever a table brings its own header row.
type headerState struct {
	names   []string
	mapping ColumnMapping
}

// ParseDocument runs the whole pipeline over one document: candidate
// extraction, header detection with carry-forward, row building, validity
// screening, deduplication and schema merging. The fold state lives entirely
// inside this call, so different documents can be parsed concurrently.
//
// Invalid rows are dropped silently; the stats on the result are their only
// trace. The returned error is terminal: the document yielded no tables, no
// header anywhere, or no acceptable rows.
func ParseDocument(doc Document, opts Options) (*internal.ParsedDocument, error) {
	out := &internal.ParsedDocument{}
	seen := map[string]struct{}{}
	var current *headerState

	for _, page := range doc.Pages() {
		out.Stats.Pages++
		for _, cand := range ExtractCandidates(page, opts.Strategies) {
			out.Stats.Tables++
			current = consumeTable(cand.Rows, current, opts, seen, out)
		}
	}

	out.Stats.RowsAccepted = len(out.Rows)
	out.AllColumns = finalizeColumns(out.Rows)

	switch {
	case out.Stats.Tables == 0:
		return nil, fmt.Errorf("could not parse document: %w", ErrNoTables)
	case out.Stats.HeadersFound == 0:
		return nil, fmt.Errorf("could not parse document: %w", ErrNoHeader)
	case len(out.Rows) == 0:
		return nil, fmt.Errorf("could not parse document: %w", ErrNoRows)
	}
	return out, nil
}

// consumeTable folds one table candidate into the accumulated result and
// returns the header to carry forward. A table without a detectable header
// reuses the current one (multi-page tables repeat their header only on the
// first page); with no header established yet it contributes nothing.
func consumeTable(rows [][]string, current *headerState, opts Options, seen map[string]struct{}, out *internal.ParsedDocument) *headerState {
	start := 0
	if idx := findHeaderRow(rows, opts); idx >= 0 {
		names := stableHeader(rows[idx], opts)
		current = &headerState{names: names, mapping: buildColumnMapping(names, opts)}
		out.Stats.HeadersFound++
		start = idx + 1
	} else if current == nil {
		return nil
	}

	data := rows[start:]
	for i := 0; i < len(data); i++ {
		if isFooterRow(data[i], opts) {
			out.Stats.RowsPastFooter += len(data) - i
			break
		}
		out.Stats.RowsSeen++

		cells := alignRow(data[i], len(current.names))
		row, key, ok := buildRow(cells, current.mapping, opts)
		if !ok {
			out.Stats.RowsInvalid++
			continue
		}
		if _, dup := seen[key]; dup {
			out.Stats.RowsDuplicate++
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return current
}
