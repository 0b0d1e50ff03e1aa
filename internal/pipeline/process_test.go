package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pricebook/internal/config"
	"pricebook/internal/storage"
)

func newTestService(t *testing.T) (*IngestService, *storage.DB) {
	t.Helper()
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	return NewIngestService(db, cfg), db
}

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSmokeIngestXLSXToExport(t *testing.T) {
	svc, db := newTestService(t)
	path := writeFixture(t, "awei_august.xlsx", priceListXLSX())

	res, err := svc.IngestFile(path, "AWEI")
	if err != nil {
		t.Fatal(err)
	}
	if res.DocumentID == 0 || res.Rows != 2 {
		t.Fatalf("result = %+v", res)
	}

	doc, err := db.GetDocumentByID(res.DocumentID)
	if err != nil {
		t.Fatal(err)
	}
	if doc == nil || doc.TotalRows != 2 || doc.VendorName != "AWEI" {
		t.Fatalf("document = %+v", doc)
	}

	products, err := db.ListProductsByDocument(res.DocumentID)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d", len(products))
	}
	for _, p := range products {
		if p.VendorName != "AWEI" {
			t.Fatalf("vendor fallback missing: %+v", p)
		}
	}

	var buf bytes.Buffer
	if err := ExportProductsToCSV(products, doc.AllColumns, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "document,base_name,") {
		t.Fatalf("header = %q", lines[0])
	}

	out := filepath.Join(t.TempDir(), "out", "products.xlsx")
	if err := ExportProductsToXLSX(products, doc.AllColumns, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestIngestFileDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	path := writeFixture(t, "awei.xlsx", priceListXLSX())

	if _, err := svc.IngestFile(path, "AWEI"); err != nil {
		t.Fatal(err)
	}

	// Second upload inside the recent window.
	res, err := svc.IngestFile(path, "AWEI")
	if !errors.Is(err, ErrDuplicateUpload) || !res.Skipped {
		t.Fatalf("res=%+v err=%v", res, err)
	}

	// A fresh service has an empty window; the durable hash check still holds.
	fresh := NewIngestService(svc.db, svc.cfg)
	res, err = fresh.IngestFile(path, "AWEI")
	if !errors.Is(err, ErrDuplicateUpload) || !res.Skipped || res.DocumentID == 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

func TestIngestBatchPartialSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	good := writeFixture(t, "awei.xlsx", priceListXLSX())
	bad := writeFixture(t, "notes.txt", []byte("not a price list"))

	results := svc.IngestBatch([]string{good, bad}, "AWEI")
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Err != nil || results[0].Rows != 2 {
		t.Fatalf("good = %+v", results[0])
	}
	if results[1].Err == nil {
		t.Fatalf("bad = %+v", results[1])
	}
}

func TestParseFileDryRun(t *testing.T) {
	svc, db := newTestService(t)
	path := writeFixture(t, "awei.xlsx", priceListXLSX())

	parsed, err := svc.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d", len(parsed.Rows))
	}

	docs, err := db.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Fatalf("dry run persisted %d documents", len(docs))
	}
}
