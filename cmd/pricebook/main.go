package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pricebook/internal"
	"pricebook/internal/config"
	"pricebook/internal/pipeline"
	"pricebook/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "ingest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		vendor := fs.String("vendor", "", "vendor name stored with the document")
		parallel := fs.Int("parallel", 0, "max concurrent documents (default from env)")
		_ = fs.Parse(os.Args[2:])
		files := fs.Args()
		if len(files) == 0 {
			must(fmt.Errorf("at least one file is required"))
		}
		if *parallel > 0 {
			cfg.IngestParallelism = *parallel
		}

		svc := pipeline.NewIngestService(db, cfg)
		results := svc.IngestBatch(files, *vendor)
		uploaded, skipped, failed := 0, 0, 0
		for _, res := range results {
			switch {
			case res.Skipped:
				skipped++
				fmt.Printf("skipped %s: duplicate upload\n", res.Filename)
			case res.Err != nil:
				failed++
				fmt.Printf("failed %s: %v\n", res.Filename, res.Err)
			default:
				uploaded++
				fmt.Printf("ingested %s documentId=%d rows=%d extraColumns=%s\n",
					res.Filename, res.DocumentID, res.Rows, strings.Join(res.AllColumns, ","))
			}
		}
		fmt.Printf("ingest done uploaded=%d skipped=%d failed=%d\n", uploaded, skipped, failed)
		if uploaded == 0 {
			os.Exit(1)
		}
	case "inspect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(os.Args[2:])
		if fs.NArg() != 1 {
			must(fmt.Errorf("exactly one file is required"))
		}

		svc := pipeline.NewIngestService(db, cfg)
		parsed, err := svc.ParseFile(fs.Arg(0))
		if err != nil {
			if errors.Is(err, pipeline.ErrNoTables) || errors.Is(err, pipeline.ErrNoHeader) || errors.Is(err, pipeline.ErrNoRows) {
				fmt.Printf("parse failed: %v\n", err)
				os.Exit(1)
			}
			must(err)
		}
		printStats(parsed.Stats)
		fmt.Printf("extra columns: %s\n", strings.Join(parsed.AllColumns, ", "))
		for _, row := range parsed.Rows {
			fmt.Printf("  %s | %s | color=%s rp=%g mrp=%g\n",
				row.BaseName, row.ProductType, row.Color, row.RetailPrice, row.SalePrice)
		}
	case "documents:list":
		docs, err := db.ListDocuments()
		must(err)
		for _, d := range docs {
			fmt.Printf("id=%d file=%s vendor=%s rows=%d uploaded=%s\n",
				d.ID, d.Filename, d.VendorName, d.TotalRows, d.UploadedAt)
		}
		fmt.Printf("total documents=%d\n", len(docs))
	case "products:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		documentID := fs.Int("documentId", 0, "limit to one document")
		_ = fs.Parse(os.Args[2:])

		products, err := listProducts(db, *documentID)
		must(err)
		for _, p := range products {
			fmt.Printf("id=%d doc=%s name=%s type=%s color=%s rp=%g mrp=%g\n",
				p.ID, p.Document, p.BaseName, p.ProductType, p.Color, p.RetailPrice, p.SalePrice)
		}
		fmt.Printf("total products=%d\n", len(products))
	case "export:csv", "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		documentID := fs.Int("documentId", 0, "limit to one document")
		out := fs.String("out", "", "output path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		products, err := listProducts(db, *documentID)
		must(err)
		if len(products) == 0 {
			must(fmt.Errorf("no products to export"))
		}
		columns, err := exportColumns(db, *documentID)
		must(err)

		if cmd == "export:csv" {
			must(os.MkdirAll(filepath.Dir(*out), 0o755))
			f, err := os.Create(*out)
			must(err)
			err = pipeline.ExportProductsToCSV(products, columns, f)
			_ = f.Close()
			must(err)
		} else {
			must(pipeline.ExportProductsToXLSX(products, columns, *out))
		}
		fmt.Printf("exported %d products to %s\n", len(products), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func listProducts(db *storage.DB, documentID int) ([]internal.ProductRow, error) {
	if documentID > 0 {
		return db.ListProductsByDocument(documentID)
	}
	return db.ListProducts()
}

func exportColumns(db *storage.DB, documentID int) ([]string, error) {
	if documentID > 0 {
		doc, err := db.GetDocumentByID(documentID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("document not found: id=%d", documentID)
		}
		return doc.AllColumns, nil
	}
	docs, err := db.ListDocuments()
	if err != nil {
		return nil, err
	}
	return pipeline.ExtraColumnsUnion(docs), nil
}

func printStats(stats internal.ParseStats) {
	fmt.Printf("pages=%d tables=%d headers=%d rowsSeen=%d accepted=%d invalid=%d duplicate=%d pastFooter=%d\n",
		stats.Pages, stats.Tables, stats.HeadersFound, stats.RowsSeen,
		stats.RowsAccepted, stats.RowsInvalid, stats.RowsDuplicate, stats.RowsPastFooter)
}

func usage() {
	fmt.Println("usage: pricebook <command>")
	fmt.Println("commands:")
	fmt.Println("  ingest --vendor=... <files...>")
	fmt.Println("  inspect <file>")
	fmt.Println("  documents:list")
	fmt.Println("  products:list [--documentId=N]")
	fmt.Println("  export:csv  [--documentId=N] --out=./out/products.csv")
	fmt.Println("  export:xlsx [--documentId=N] --out=./out/products.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
