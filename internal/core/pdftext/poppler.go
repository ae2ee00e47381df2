package pdftext

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
)

// PopplerExtractor shells out to pdftotext, whose -layout mode keeps estimate
// columns on one line.
type PopplerExtractor struct {
	bin     string
	timeout time.Duration
	runner  Runner
	logger  *slog.Logger
}

func NewPopplerExtractor(bin string, timeout time.Duration, logger *slog.Logger) *PopplerExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if bin == "" {
		bin = "pdftotext"
	}
	return &PopplerExtractor{bin: bin, timeout: timeout, runner: execRunner{logger: logger}, logger: logger}
}

func (p *PopplerExtractor) ExtractPages(ctx context.Context, data []byte) (Pages, error) {
	if !IsPDF(data) {
		return nil, common.ErrNotPDF
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	tmp, err := os.CreateTemp("", "we-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if err := os.Remove(path); err != nil {
			p.logger.Warn("failed to remove temp file", "path", path, "error", err)
		}
	}(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, common.WrapError(err, "write temp pdf")
	}
	if err := tmp.Close(); err != nil {
		return nil, common.WrapError(err, "close temp pdf")
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := p.runner.Run(ctx, p.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return nil, common.WrapError(err, "pdftotext: "+strings.TrimSpace(truncate(string(errb), 512)))
	}
	return splitPages(string(out)), nil
}

// splitPages splits on the form feed pdftotext writes after every page.
func splitPages(text string) Pages {
	text = strings.TrimSuffix(text, "\f")
	raw := strings.Split(text, "\f")
	pages := make(Pages, 0, len(raw))
	for _, page := range raw {
		pages = append(pages, Normalize(page))
	}
	return pages
}
