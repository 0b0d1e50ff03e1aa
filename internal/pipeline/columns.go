package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"pricebook/internal"
)

var reSynthesizedCol = regexp.MustCompile(`^col_\d+(_\d+)?$`)

// ColumnMapping relates stable header positions to canonical fields and
// vendor-specific extra columns. Several positions may feed the same
// canonical field (split or duplicated headers); the first non-empty value
// wins when rows are built.
type ColumnMapping struct {
	Fields map[internal.Field][]int
	Extras []ExtraColumn
}

// ExtraColumn is a non-canonical column preserved verbatim. Its name is
// unique within one header (stableHeader guarantees that).
type ExtraColumn struct {
	Name     string
	Position int
}

func buildColumnMapping(header []string, opts Options) ColumnMapping {
	m := ColumnMapping{Fields: map[internal.Field][]int{}}
	for i, name := range header {
		field, extra, drop := mapColumn(name, opts)
		if drop {
			continue
		}
		if field != "" {
			m.Fields[field] = append(m.Fields[field], i)
			continue
		}
		m.Extras = append(m.Extras, ExtraColumn{Name: extra, Position: i})
	}
	return m
}

// mapColumn classifies one stable header name. It returns either a canonical
// field, or the cleaned name to keep as an extra column, or drop=true for an
// excluded column whose data is discarded entirely.
//
// A canonical match always beats the extra-column path, so a column named
// "MODEL" can never shadow the canonical model mapping.
func mapColumn(name string, opts Options) (field internal.Field, extra string, drop bool) {
	norm := normalizeColumnName(name)
	if isExcludedColumn(norm, opts) {
		return "", "", true
	}

	if f, ok := opts.Synonyms[norm]; ok {
		return f, "", false
	}
	// Contains fallback: "MODEL NO 2026" still lands on the model field.
	// Longest synonym first keeps the fallback deterministic.
	for _, syn := range synonymKeys(opts.Synonyms) {
		if strings.Contains(norm, syn) {
			return opts.Synonyms[syn], "", false
		}
	}

	return "", CleanCell(name), false
}

func isExcludedColumn(norm string, opts Options) bool {
	if norm == "" || reSynthesizedCol.MatchString(norm) {
		return true
	}
	// Split-header debris: fragments too short to be a real column name,
	// unless the fragment is itself a known synonym ("RP").
	if len([]rune(norm)) < 3 {
		if _, ok := opts.Synonyms[norm]; !ok {
			return true
		}
	}
	for _, pattern := range opts.ExcludeExact {
		if norm == pattern {
			return true
		}
	}
	for _, pattern := range opts.ExcludeContains {
		if strings.Contains(norm, pattern) {
			return true
		}
	}
	return false
}

func synonymKeys(synonyms map[string]internal.Field) []string {
	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
