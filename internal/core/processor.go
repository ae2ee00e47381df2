package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core/lineitem"
	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
	"github.com/joseph-ayodele/waste-estimator/internal/core/waste"
	"github.com/joseph-ayodele/waste-estimator/internal/entity"
)

// Result is everything one document run produces.
type Result struct {
	Items             []entity.LineItem
	FullText          string
	Pages             pdftext.Pages
	Summary           entity.WasteSummary
	TotalLineItems    int
	RemovalItemsFound int
}

// Processor coordinates page text extraction, line-item parsing and weighing.
type Processor struct {
	logger    *slog.Logger
	pages     pdftext.PageExtractor
	extractor *lineitem.Extractor
	estimator *waste.Estimator
}

func NewProcessor(
	logger *slog.Logger,
	pages pdftext.PageExtractor,
	extractor *lineitem.Extractor,
	estimator *waste.Estimator,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		pages:     pages,
		extractor: extractor,
		estimator: estimator,
	}
}

// ProcessDocument extracts page text from a PDF and runs the estimate over it.
// A document that yields no text is not an error; it produces an empty result.
func (p *Processor) ProcessDocument(ctx context.Context, data []byte) (Result, error) {
	logger := common.LoggerFromContext(ctx, p.logger)
	if !pdftext.IsPDF(data) {
		return Result{}, common.ErrNotPDF
	}

	start := time.Now()
	pages, err := p.ExtractPages(ctx, data)
	if err != nil {
		logger.Error("processor.pages.failed", "bytes", len(data), "err", err)
		return Result{}, err
	}
	logger.Debug("processor.pages.done",
		"pages", len(pages),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	res := p.ProcessText(pages.Join())
	res.Pages = pages
	logger.Info("processor.done",
		"pages", len(pages),
		"line_items", res.TotalLineItems,
		"removal_items", res.RemovalItemsFound,
		"total_lbs", res.Summary.TotalWeightLbs,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// ExtractPages returns per-page text, treating a document without text as
// empty pages.
func (p *Processor) ExtractPages(ctx context.Context, data []byte) (pdftext.Pages, error) {
	pages, err := p.pages.ExtractPages(ctx, data)
	switch {
	case err == nil:
		return pages, nil
	case errors.Is(err, common.ErrNotPDF):
		return nil, err
	case errors.Is(err, common.ErrNoText):
		return pdftext.Pages{}, nil
	default:
		return nil, fmt.Errorf("extract pages: %w", err)
	}
}

// ProcessText runs line-item extraction and weighing on already-extracted text.
func (p *Processor) ProcessText(text string) Result {
	extracted := p.extractor.Extract(text)
	return Result{
		Items:             extracted.Items,
		FullText:          extracted.FullText,
		Summary:           p.estimator.Estimate(extracted.Items),
		TotalLineItems:    len(extracted.Items),
		RemovalItemsFound: entity.CountRemoval(extracted.Items),
	}
}
