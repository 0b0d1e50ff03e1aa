package pipeline

import "testing"

func TestCleanCell(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "QT-10", want: "QT-10"},
		{name: "newlines", input: "Key\nFeatures", want: "Key Features"},
		{name: "nbsp", input: "1\u00A0500", want: "1 500"},
		{name: "runs", input: "  ENC \t Mic  ", want: "ENC Mic"},
		{name: "empty", input: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanCell(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCleanCellIdempotent(t *testing.T) {
	inputs := []string{"QT-10", "Key Features", "1 500", ""}
	for _, input := range inputs {
		once := CleanCell(input)
		if twice := CleanCell(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestNormalizeColumnName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "MODEL NO.", want: "model no"},
		{input: "  Retail  Price ", want: "retail price"},
		{input: "S/L No", want: "sl no"},
		{input: "Colour*", want: "colour"},
		{input: "COL_3", want: "col_3"},
	}
	for _, tc := range cases {
		if got := normalizeColumnName(tc.input); got != tc.want {
			t.Fatalf("normalizeColumnName(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}
