package core

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core/lineitem"
	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
	"github.com/joseph-ayodele/waste-estimator/internal/core/waste"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

// NewProcessorFromConfig loads the lexicon and page backend named by cfg and
// assembles a Processor around them.
func NewProcessorFromConfig(cfg *common.Config, logger *slog.Logger) (*Processor, *lexicon.Lexicon, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lex, err := lexicon.Load(cfg.Lexicon.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load lexicon: %w", err)
	}
	pages, err := pdftext.New(pdftext.Config{
		Backend:   cfg.PDF.Backend,
		Pdftotext: cfg.PDF.Pdftotext,
		Timeout:   cfg.PDF.Timeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	proc := NewProcessor(logger, pages, lineitem.NewExtractor(logger), waste.NewEstimator(lex, logger))
	return proc, lex, nil
}
