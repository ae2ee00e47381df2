package waste

import (
	"log/slog"

	"github.com/joseph-ayodele/waste-estimator/internal/entity"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

const (
	// DefaultWeightPerUnit prices removal items the lexicon does not recognize.
	DefaultWeightPerUnit = 2.0
	PoundsPerShortTon    = 2000.0
)

// Estimator prices removal line items against a material lexicon.
type Estimator struct {
	lex    *lexicon.Lexicon
	logger *slog.Logger
}

// NewEstimator uses the embedded lexicon when lex is nil.
func NewEstimator(lex *lexicon.Lexicon, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	if lex == nil {
		var err error
		if lex, err = lexicon.Default(); err != nil {
			logger.Error("waste.lexicon.default_failed", "error", err)
		}
	}
	return &Estimator{lex: lex, logger: logger}
}

// Estimate weighs every removal item, keeping input order. Unmatched items are
// reported separately but still count toward the totals.
func (e *Estimator) Estimate(items []entity.LineItem) entity.WasteSummary {
	summary := entity.WasteSummary{
		WasteItems:     make([]entity.WasteItem, 0),
		UnmatchedItems: make([]entity.UnmatchedItem, 0),
	}

	var total float64
	for _, it := range items {
		if !it.IsRemoval {
			continue
		}

		m, ok := e.lex.LongestMatch(it.Description)
		if !ok {
			weight := it.Quantity * DefaultWeightPerUnit
			total += weight
			summary.UnmatchedItems = append(summary.UnmatchedItems, entity.UnmatchedItem{
				Description:     it.Description,
				Quantity:        it.Quantity,
				Unit:            it.Unit,
				EstimatedWeight: weight,
			})
			continue
		}

		weight := it.Quantity * m.WeightPerUnit
		total += weight
		summary.WasteItems = append(summary.WasteItems, entity.WasteItem{
			Description:   it.Description,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			MaterialType:  m.Label,
			WeightPerUnit: m.WeightPerUnit,
			TotalWeight:   weight,
		})
	}

	summary.TotalWeightLbs = total
	summary.TotalWeightTons = total / PoundsPerShortTon

	e.logger.Debug("waste.estimate.done",
		"items", len(items),
		"matched", len(summary.WasteItems),
		"unmatched", len(summary.UnmatchedItems),
		"total_lbs", total,
	)
	return summary
}
