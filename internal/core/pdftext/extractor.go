package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
)

const (
	BackendAuto    = "auto"
	BackendPoppler = "poppler"
	BackendPDFCPU  = "pdfcpu"
)

// Pages holds one block of extracted text per document page.
type Pages []string

// Join concatenates non-blank pages, each followed by a line break.
func (p Pages) Join() string {
	var b strings.Builder
	for _, text := range p {
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Blank reports whether no page carries any text.
func (p Pages) Blank() bool {
	for _, text := range p {
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}

// PageExtractor turns raw document bytes into per-page text.
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte) (Pages, error)
}

type Config struct {
	Backend   string        // auto | poppler | pdfcpu; default auto
	Pdftotext string        // binary name or absolute path; if empty -> "pdftotext"
	Timeout   time.Duration // per document, 0 = none
}

// New builds the page extractor selected by cfg.Backend.
func New(cfg Config, logger *slog.Logger) (PageExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(cfg.Backend) {
	case "", BackendAuto:
		return Chain{
			NewPopplerExtractor(cfg.Pdftotext, cfg.Timeout, logger),
			NewPDFCPUExtractor(logger),
		}, nil
	case BackendPoppler:
		return NewPopplerExtractor(cfg.Pdftotext, cfg.Timeout, logger), nil
	case BackendPDFCPU:
		return NewPDFCPUExtractor(logger), nil
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", cfg.Backend)
	}
}

// IsPDF sniffs the PDF header, which may follow a little leading junk.
func IsPDF(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

// Chain tries extractors in order until one yields text.
type Chain []PageExtractor

func (c Chain) ExtractPages(ctx context.Context, data []byte) (Pages, error) {
	if !IsPDF(data) {
		return nil, common.ErrNotPDF
	}
	var errs []error
	for _, x := range c {
		pages, err := x.ExtractPages(ctx, data)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}
		if pages.Blank() {
			errs = append(errs, common.ErrNoText)
			continue
		}
		return pages, nil
	}
	if len(errs) == 0 {
		return nil, common.ErrNoText
	}
	return nil, errors.Join(errs...)
}
