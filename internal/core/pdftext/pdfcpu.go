package pdftext

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
)

// PDFCPUExtractor reads page content streams in-process. It needs no external
// binary but knows nothing about font encodings beyond WinAnsi and UTF-16.
type PDFCPUExtractor struct {
	logger *slog.Logger
}

func NewPDFCPUExtractor(logger *slog.Logger) *PDFCPUExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFCPUExtractor{logger: logger}
}

func (p *PDFCPUExtractor) ExtractPages(ctx context.Context, data []byte) (Pages, error) {
	if !IsPDF(data) {
		return nil, common.ErrNotPDF
	}

	conf := model.NewDefaultConfiguration()
	pdf, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, common.WrapError(err, "pdfcpu read")
	}

	pages := make(Pages, 0, pdf.PageCount)
	for pageNr := 1; pageNr <= pdf.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, p.pageText(pdf, pageNr))
	}
	p.logger.Debug("pdfcpu.extract.done", "pages", pdf.PageCount)
	return pages, nil
}

func (p *PDFCPUExtractor) pageText(pdf *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdf, pageNr)
	if err != nil {
		p.logger.Warn("pdfcpu.page.failed", "page", pageNr, "error", err)
		return ""
	}
	if r == nil {
		return ""
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		p.logger.Warn("pdfcpu.page.read_failed", "page", pageNr, "error", err)
		return ""
	}
	return Normalize(decodeContent(raw))
}
