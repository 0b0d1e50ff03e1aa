package pipeline

import "testing"

func TestFindHeaderRow(t *testing.T) {
	opts := DefaultOptions()
	rows := [][]string{
		{"AWEI BANGLADESH"},
		{"SL", "MODEL", "TYPE", "COLOR", "RP", "MRP"},
		{"1", "QT-10", "Earbuds", "Black", "1200", "1500"},
	}
	if got := findHeaderRow(rows, opts); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}

func TestFindHeaderRowGate(t *testing.T) {
	opts := DefaultOptions()

	// Plenty of keyword hits but no TYPE: never a header.
	rows := [][]string{{"MODEL", "COLOR", "WARRANTY", "FEATURE"}}
	if got := findHeaderRow(rows, opts); got != -1 {
		t.Fatalf("row without TYPE selected: %d", got)
	}

	// TYPE but neither RP nor MRP: still not eligible.
	rows = [][]string{{"MODEL", "TYPE", "COLOR"}}
	if got := findHeaderRow(rows, opts); got != -1 {
		t.Fatalf("row without RP/MRP selected: %d", got)
	}
}

func TestFindHeaderRowScanWindow(t *testing.T) {
	opts := DefaultOptions()
	opts.HeaderScanWindow = 2
	rows := [][]string{
		{"banner"},
		{"more banner"},
		{"SL", "MODEL", "TYPE", "COLOR", "RP", "MRP"},
	}
	if got := findHeaderRow(rows, opts); got != -1 {
		t.Fatalf("header found outside scan window: %d", got)
	}
}

func TestFindHeaderRowPicksBestScore(t *testing.T) {
	opts := DefaultOptions()
	rows := [][]string{
		{"TYPE", "RP"},
		{"MODEL", "TYPE", "COLOR", "RP", "MRP", "WARRANTY"},
	}
	if got := findHeaderRow(rows, opts); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}

func TestFindHeaderRowFixups(t *testing.T) {
	opts := DefaultOptions()
	// "MODEL#" normalizes to "MODEL" before keyword matching.
	rows := [][]string{{"MODEL#", "TYPE", "MRP"}}
	if got := findHeaderRow(rows, opts); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestStableHeaderDeduplicates(t *testing.T) {
	opts := DefaultOptions()
	got := stableHeader([]string{"Model", "Model"}, opts)
	want := []string{"Model", "Model_2"}
	assertStrings(t, got, want)
}

func TestStableHeaderPlaceholders(t *testing.T) {
	opts := DefaultOptions()
	got := stableHeader([]string{"", "-", "Color"}, opts)
	want := []string{"COL_1", "COL_2", "Color"}
	assertStrings(t, got, want)
}

func TestStableHeaderTruncates(t *testing.T) {
	opts := DefaultOptions()
	long := ""
	for i := 0; i < 80; i++ {
		long += "x"
	}
	got := stableHeader([]string{long}, opts)
	if len([]rune(got[0])) != opts.MaxHeaderCell {
		t.Fatalf("len=%d want %d", len([]rune(got[0])), opts.MaxHeaderCell)
	}
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
