package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"pricebook/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  fileHash TEXT NOT NULL UNIQUE,
  vendorName TEXT NOT NULL DEFAULT '',
  totalRows INTEGER NOT NULL DEFAULT 0,
  allColumnsJson TEXT NOT NULL DEFAULT '[]',
  uploadedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  baseName TEXT NOT NULL,
  brandName TEXT NOT NULL DEFAULT '',
  productType TEXT NOT NULL,
  modelNumber TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  variants TEXT NOT NULL DEFAULT '',
  vendorName TEXT NOT NULL DEFAULT '',
  retailPrice REAL NOT NULL DEFAULT 0,
  salePrice REAL NOT NULL DEFAULT 0,
  extraFieldsJson TEXT NOT NULL DEFAULT '{}',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_products_documentId ON products(documentId);
CREATE INDEX IF NOT EXISTS idx_products_baseName ON products(baseName);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  documentId INTEGER,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) GetDocumentByHash(hash string) (*internal.DocumentRow, error) {
	row := d.conn.QueryRow(`
SELECT id, filename, fileHash, vendorName, totalRows, allColumnsJson, uploadedAt
FROM documents WHERE fileHash = ?
`, hash)
	return scanDocument(row)
}

func (d *DB) GetDocumentByID(id int) (*internal.DocumentRow, error) {
	row := d.conn.QueryRow(`
SELECT id, filename, fileHash, vendorName, totalRows, allColumnsJson, uploadedAt
FROM documents WHERE id = ?
`, id)
	return scanDocument(row)
}

func scanDocument(row *sql.Row) (*internal.DocumentRow, error) {
	var doc internal.DocumentRow
	var columnsJSON string
	err := row.Scan(&doc.ID, &doc.Filename, &doc.FileHash, &doc.VendorName, &doc.TotalRows, &columnsJSON, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(columnsJSON), &doc.AllColumns)
	return &doc, nil
}

// InsertParsedDocument stores one parsed price list and its product rows in
// a single transaction.
func (d *DB) InsertParsedDocument(filename, fileHash, vendorName string, parsed *internal.ParsedDocument) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	columnsJSON, _ := json.Marshal(parsed.AllColumns)
	result, err := tx.Exec(`
INSERT INTO documents (filename, fileHash, vendorName, totalRows, allColumnsJson)
VALUES (?, ?, ?, ?, ?)
`, filename, fileHash, vendorName, len(parsed.Rows), string(columnsJSON))
	if err != nil {
		return 0, err
	}
	documentID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO products (
  documentId, baseName, brandName, productType, modelNumber,
  color, variants, vendorName, retailPrice, salePrice, extraFieldsJson
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, row := range parsed.Rows {
		extraJSON, _ := json.Marshal(row.ExtraFields)
		vendor := row.VendorName
		if vendor == "" {
			vendor = vendorName
		}
		if _, err := stmt.Exec(
			documentID, row.BaseName, row.BrandName, row.ProductType, row.ModelNumber,
			row.Color, row.Variants, vendor, row.RetailPrice, row.SalePrice, string(extraJSON),
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(documentID), nil
}

func (d *DB) ListDocuments() ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT id, filename, fileHash, vendorName, totalRows, allColumnsJson, uploadedAt
FROM documents ORDER BY uploadedAt DESC, id DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		var doc internal.DocumentRow
		var columnsJSON string
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.FileHash, &doc.VendorName, &doc.TotalRows, &columnsJSON, &doc.UploadedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(columnsJSON), &doc.AllColumns)
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (d *DB) ListProductsByDocument(documentID int) ([]internal.ProductRow, error) {
	return d.listProducts(`WHERE p.documentId = ?`, documentID)
}

func (d *DB) ListProducts() ([]internal.ProductRow, error) {
	return d.listProducts(``)
}

func (d *DB) listProducts(where string, args ...any) ([]internal.ProductRow, error) {
	rows, err := d.conn.Query(`
SELECT p.id, p.documentId, d.filename,
       p.baseName, p.brandName, p.productType, p.modelNumber,
       p.color, p.variants, p.vendorName, p.retailPrice, p.salePrice,
       p.extraFieldsJson, p.createdAt
FROM products p
JOIN documents d ON d.id = p.documentId
`+where+`
ORDER BY p.createdAt DESC, p.id DESC
`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductRow
	for rows.Next() {
		var p internal.ProductRow
		var extraJSON string
		if err := rows.Scan(
			&p.ID, &p.DocumentID, &p.Document,
			&p.BaseName, &p.BrandName, &p.ProductType, &p.ModelNumber,
			&p.Color, &p.Variants, &p.VendorName, &p.RetailPrice, &p.SalePrice,
			&extraJSON, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(extraJSON), &p.ExtraFields)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, documentID int, counts map[string]int, timings map[string]float64) error {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	var docRef any
	if documentID > 0 {
		docRef = documentID
	}
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, documentId, countsJson, timingsJson) VALUES (?, ?, ?, ?)`, traceID, docRef, string(countsJSON), string(timingsJSON))
	return err
}
