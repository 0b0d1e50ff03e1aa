package pipeline

import (
	"fmt"
	"strings"
)

// findHeaderRow scans the first Options.HeaderScanWindow rows and returns
// the position of the best header candidate, or -1.
//
// A row is eligible only if its joined uppercase text contains every GateAll
// keyword and at least one GateAny keyword. Among eligible rows the highest
// ScoreKeywords hit count wins; the earliest row wins ties.
func findHeaderRow(rows [][]string, opts Options) int {
	limit := len(rows)
	if opts.HeaderScanWindow > 0 && limit > opts.HeaderScanWindow {
		limit = opts.HeaderScanWindow
	}
	fixups := strings.NewReplacer(opts.HeaderFixups...)

	best, bestScore := -1, 0
	for i := 0; i < limit; i++ {
		joined := fixups.Replace(strings.ToUpper(strings.Join(cleanRow(rows[i]), " ")))
		if !containsAll(joined, opts.GateAll) || !containsAny(joined, opts.GateAny) {
			continue
		}

		score := 0
		for _, kw := range opts.ScoreKeywords {
			if strings.Contains(joined, kw) {
				score++
			}
		}
		if score >= opts.MinHeaderScore && score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// stableHeader turns a raw header row into a list of names that are always
// non-empty and unique: empty or placeholder cells become COL_<position>,
// names are capped at MaxHeaderCell runes, and exact collisions get _2, _3,
// ... suffixes in order of appearance. The column mapper depends on this.
func stableHeader(cells []string, opts Options) []string {
	names := make([]string, 0, len(cells))
	used := map[string]bool{}

	for i, raw := range cells {
		name := CleanCell(raw)
		if name == "" || isPlaceholder(name, opts) {
			name = fmt.Sprintf("COL_%d", i+1)
		}
		if runes := []rune(name); len(runes) > opts.MaxHeaderCell {
			name = string(runes[:opts.MaxHeaderCell])
		}
		if used[name] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}

func isPlaceholder(name string, opts Options) bool {
	for _, p := range opts.Placeholders {
		if name == p {
			return true
		}
	}
	return false
}

func containsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
