package pipeline

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mkEML(t *testing.T, htmlBody string, attachment []byte) string {
	t.Helper()

	encoded := base64.StdEncoding.EncodeToString(attachment)
	var wrapped strings.Builder
	for len(encoded) > 76 {
		wrapped.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	wrapped.WriteString(encoded + "\r\n")

	raw := strings.Join([]string{
		"From: sales@vendor.example",
		"To: intake@pricebook.example",
		"Subject: August price list",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="bb"`,
		"",
		"--bb",
		"Content-Type: text/html; charset=utf-8",
		"",
		htmlBody,
		"--bb",
		"Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		`Content-Disposition: attachment; filename="awei.xlsx"`,
		"Content-Transfer-Encoding: base64",
		"",
		wrapped.String() + "--bb--",
		"",
	}, "\r\n")

	path := filepath.Join(t.TempDir(), "pricelist.eml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenFileEML(t *testing.T) {
	body := `<table><tr><th>MODEL</th><th>TYPE</th><th>MRP</th></tr><tr><td>Y-331</td><td>Speaker</td><td>2900</td></tr></table>`
	path := mkEML(t, body, priceListXLSX())

	sources, cleanup, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	if len(sources) != 2 {
		t.Fatalf("sources = %d", len(sources))
	}
	if !strings.HasSuffix(sources[0].Name, "/awei.xlsx") {
		t.Fatalf("sources[0] = %q", sources[0].Name)
	}
	if !strings.HasSuffix(sources[1].Name, "/body") {
		t.Fatalf("sources[1] = %q", sources[1].Name)
	}

	parsed, err := ParseDocument(sources[0].Doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("attachment rows = %d", len(parsed.Rows))
	}

	parsed, err = ParseDocument(sources[1].Doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 1 || parsed.Rows[0].BaseName != "Y-331" {
		t.Fatalf("body rows = %+v", parsed.Rows)
	}
}

func TestOpenFileEMLNothingParseable(t *testing.T) {
	raw := strings.Join([]string{
		"From: sales@vendor.example",
		"To: intake@pricebook.example",
		"Subject: hello",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"no price list attached",
		"",
	}, "\r\n")
	path := filepath.Join(t.TempDir(), "plain.eml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := OpenFile(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := OpenFile(path); err == nil {
		t.Fatal("expected error")
	}
}
