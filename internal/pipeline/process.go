package pipeline

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pricebook/internal"
	"pricebook/internal/config"
	"pricebook/internal/storage"
)

// ErrDuplicateUpload marks a file whose content was already ingested, either
// within the recent-upload window or durably (documents.fileHash).
var ErrDuplicateUpload = errors.New("duplicate upload")

// IngestService parses uploaded price lists and persists the results. The
// engine itself is stateless across documents; the only shared state here is
// the recent-upload window, guarded by a mutex so batches can run documents
// in parallel.
type IngestService struct {
	db   *storage.DB
	cfg  config.Config
	opts Options

	mu      sync.Mutex
	recent  map[string]time.Time
	nowFunc func() time.Time
}

func NewIngestService(db *storage.DB, cfg config.Config) *IngestService {
	return &IngestService{
		db:      db,
		cfg:     cfg,
		opts:    OptionsFromConfig(cfg),
		recent:  map[string]time.Time{},
		nowFunc: time.Now,
	}
}

// IngestFile parses one uploaded file and stores its document and products.
// Multi-source files (.eml) are folded into a single stored document.
func (s *IngestService) IngestFile(path, vendorName string) (internal.IngestResult, error) {
	filename := filepath.Base(path)
	result := internal.IngestResult{Filename: filename}

	content, err := os.ReadFile(path)
	if err != nil {
		return result, err
	}
	hash := contentHash(content)

	if s.seenRecently(hash) {
		result.Skipped = true
		return result, fmt.Errorf("%s: %w (recent)", filename, ErrDuplicateUpload)
	}
	existing, err := s.db.GetDocumentByHash(hash)
	if err != nil {
		return result, err
	}
	if existing != nil {
		result.Skipped = true
		result.DocumentID = existing.ID
		return result, fmt.Errorf("%s: %w", filename, ErrDuplicateUpload)
	}
	s.markRecent(hash)

	start := time.Now()
	parsed, err := s.parseSources(path)
	if err != nil {
		s.forgetRecent(hash)
		return result, err
	}

	documentID, err := s.db.InsertParsedDocument(filename, hash, vendorName, parsed)
	if err != nil {
		s.forgetRecent(hash)
		return result, err
	}

	_ = s.db.InsertRun(traceID(), documentID, statCounts(parsed.Stats), map[string]float64{
		"totalMs": float64(time.Since(start).Milliseconds()),
	})

	result.DocumentID = documentID
	result.Rows = len(parsed.Rows)
	result.AllColumns = parsed.AllColumns
	return result, nil
}

// IngestBatch processes several files with whole-document parallelism. One
// failing file never aborts its siblings; per-file outcomes land in the
// returned slice in input order.
func (s *IngestService) IngestBatch(paths []string, vendorName string) []internal.IngestResult {
	results := make([]internal.IngestResult, len(paths))

	var g errgroup.Group
	g.SetLimit(s.parallelism())
	for i, path := range paths {
		g.Go(func() error {
			res, err := s.IngestFile(path, vendorName)
			res.Err = err
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ParseFile runs the engine without touching storage (dry-run inspection).
func (s *IngestService) ParseFile(path string) (*internal.ParsedDocument, error) {
	return s.parseSources(path)
}

// parseSources opens the file and folds every contained source into one
// ParsedDocument. Each source gets its own header carry-forward state; row
// deduplication spans the whole file.
func (s *IngestService) parseSources(path string) (*internal.ParsedDocument, error) {
	sources, cleanup, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	combined := &internal.ParsedDocument{}
	seen := map[string]struct{}{}
	var lastErr error

	for _, src := range sources {
		parsed, err := ParseDocument(src.Doc, s.opts)
		if err != nil {
			lastErr = err
			continue
		}
		mergeStats(&combined.Stats, parsed.Stats)
		for _, row := range parsed.Rows {
			key := row.BaseName + "|" + row.ProductType + "|" +
				formatPrice(row.SalePrice) + "|" + formatPrice(row.RetailPrice)
			if _, dup := seen[key]; dup {
				combined.Stats.RowsDuplicate++
				continue
			}
			seen[key] = struct{}{}
			combined.Rows = append(combined.Rows, row)
		}
	}

	if len(combined.Rows) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("could not parse document: %w", ErrNoRows)
	}

	combined.Stats.RowsAccepted = len(combined.Rows)
	combined.AllColumns = finalizeColumns(combined.Rows)
	return combined, nil
}

func (s *IngestService) parallelism() int {
	if s.cfg.IngestParallelism > 0 {
		return s.cfg.IngestParallelism
	}
	return 1
}

func (s *IngestService) dedupWindow() time.Duration {
	return time.Duration(s.cfg.UploadDedupWindowSec) * time.Second
}

func (s *IngestService) seenRecently(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for k, at := range s.recent {
		if now.Sub(at) > s.dedupWindow() {
			delete(s.recent, k)
		}
	}
	_, ok := s.recent[hash]
	return ok
}

func (s *IngestService) markRecent(hash string) {
	s.mu.Lock()
	s.recent[hash] = s.nowFunc()
	s.mu.Unlock()
}

func (s *IngestService) forgetRecent(hash string) {
	s.mu.Lock()
	delete(s.recent, hash)
	s.mu.Unlock()
}

func mergeStats(dst *internal.ParseStats, src internal.ParseStats) {
	dst.Pages += src.Pages
	dst.Tables += src.Tables
	dst.HeadersFound += src.HeadersFound
	dst.RowsSeen += src.RowsSeen
	dst.RowsInvalid += src.RowsInvalid
	dst.RowsDuplicate += src.RowsDuplicate
	dst.RowsPastFooter += src.RowsPastFooter
}

func statCounts(stats internal.ParseStats) map[string]int {
	return map[string]int{
		"pages":          stats.Pages,
		"tables":         stats.Tables,
		"headersFound":   stats.HeadersFound,
		"rowsSeen":       stats.RowsSeen,
		"rowsAccepted":   stats.RowsAccepted,
		"rowsInvalid":    stats.RowsInvalid,
		"rowsDuplicate":  stats.RowsDuplicate,
		"rowsPastFooter": stats.RowsPastFooter,
	}
}

func contentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
