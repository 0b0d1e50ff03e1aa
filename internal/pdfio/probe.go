package pdfio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ErrNoTextLayer marks a PDF with no extractable text at all, typically a
// scan. Such documents are rejected up front, not recovered.
var ErrNoTextLayer = errors.New("pdf has no extractable text layer")

// ProbeTextLayer checks that at least one page carries real text.
func ProbeTextLayer(content []byte) error {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			return nil
		}
	}
	return ErrNoTextLayer
}
