package pipeline

import (
	"sort"

	"pricebook/internal"
)

// mergeDuplicates resolves several header positions feeding one canonical
// field: duplicates are scanned left to right and the first non-empty value
// wins. A later empty column never overwrites an earlier value.
func mergeDuplicates(clean []string, positions []int) string {
	for _, pos := range positions {
		if pos >= 0 && pos < len(clean) && clean[pos] != "" {
			return clean[pos]
		}
	}
	return ""
}

// finalizeColumns returns the sorted union of extra column names across all
// accepted rows. Rows only carry non-empty extra values, so a column that is
// empty everywhere never reaches the output schema.
func finalizeColumns(rows []internal.ParsedRow) []string {
	set := map[string]struct{}{}
	for _, row := range rows {
		for name := range row.ExtraFields {
			set[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
