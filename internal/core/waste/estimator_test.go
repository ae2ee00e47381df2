package waste

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/waste-estimator/internal/entity"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

func newEstimator(t *testing.T) *Estimator {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return NewEstimator(lex, nil)
}

func TestEstimate_LaminatedShingles(t *testing.T) {
	s := newEstimator(t).Estimate([]entity.LineItem{
		{Description: "3. Tear off laminated shingles 1500.00 SF", Quantity: 1500, Unit: "SF", IsRemoval: true},
	})

	require.Len(t, s.WasteItems, 1)
	w := s.WasteItems[0]
	assert.Equal(t, "Laminated shingles", w.MaterialType)
	assert.Equal(t, 3.0, w.WeightPerUnit)
	assert.Equal(t, 4500.0, w.TotalWeight)
	assert.Empty(t, s.UnmatchedItems)
	assert.Equal(t, 4500.0, s.TotalWeightLbs)
	assert.InDelta(t, 2.25, s.TotalWeightTons, 1e-9)
}

func TestEstimate_Gutter(t *testing.T) {
	s := newEstimator(t).Estimate([]entity.LineItem{
		{Description: "R&R gutter 120 LF", Quantity: 120, Unit: "LF", IsRemoval: true},
	})
	require.Len(t, s.WasteItems, 1)
	assert.Equal(t, 96.0, s.WasteItems[0].TotalWeight)
	assert.Equal(t, "Gutters", s.WasteItems[0].MaterialType)
}

func TestEstimate_UnmatchedUsesDefaultRate(t *testing.T) {
	s := newEstimator(t).Estimate([]entity.LineItem{
		{Description: "strip old junk", Quantity: 10, Unit: "EA", IsRemoval: true},
	})

	assert.Empty(t, s.WasteItems)
	require.Len(t, s.UnmatchedItems, 1)
	u := s.UnmatchedItems[0]
	assert.Equal(t, "strip old junk", u.Description)
	assert.Equal(t, 10.0, u.Quantity)
	assert.Equal(t, "EA", u.Unit)
	assert.Equal(t, 20.0, u.EstimatedWeight)
	assert.Equal(t, 20.0, s.TotalWeightLbs)
}

func TestEstimate_LongestMatchWins(t *testing.T) {
	s := newEstimator(t).Estimate([]entity.LineItem{
		{Description: "Remove architectural shingle - incl. shingle starter", Quantity: 10, Unit: "SF", IsRemoval: true},
	})
	require.Len(t, s.WasteItems, 1)
	assert.Equal(t, "Architectural/dimensional shingles", s.WasteItems[0].MaterialType)
	assert.Equal(t, 30.0, s.WasteItems[0].TotalWeight)
}

func TestEstimate_SkipsNonRemoval(t *testing.T) {
	s := newEstimator(t).Estimate([]entity.LineItem{
		{Description: "Install drywall", Quantity: 100, Unit: "SF"},
	})
	assert.Empty(t, s.WasteItems)
	assert.Empty(t, s.UnmatchedItems)
	assert.Zero(t, s.TotalWeightLbs)
	assert.Zero(t, s.TotalWeightTons)
}

func TestEstimate_TotalsAndOrder(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Remove carpet", Quantity: 300, Unit: "SF", IsRemoval: true},
		{Description: "Install carpet", Quantity: 300, Unit: "SF"},
		{Description: "strip old junk", Quantity: 7, Unit: "EA", IsRemoval: true},
		{Description: "Tear off drywall", Quantity: 12.5, Unit: "SF", IsRemoval: true},
		{Description: "haul misc", Quantity: 3, Unit: "CY", IsRemoval: true},
	}
	s := newEstimator(t).Estimate(items)

	require.Len(t, s.WasteItems, 2)
	assert.Equal(t, "Remove carpet", s.WasteItems[0].Description)
	assert.Equal(t, "Tear off drywall", s.WasteItems[1].Description)

	require.Len(t, s.UnmatchedItems, 2)
	assert.Equal(t, "strip old junk", s.UnmatchedItems[0].Description)
	assert.Equal(t, "haul misc", s.UnmatchedItems[1].Description)

	var sum float64
	for _, w := range s.WasteItems {
		assert.Equal(t, w.Quantity*w.WeightPerUnit, w.TotalWeight)
		sum += w.TotalWeight
	}
	for _, u := range s.UnmatchedItems {
		sum += u.EstimatedWeight
	}
	assert.InDelta(t, sum, s.TotalWeightLbs, 1e-9)
	assert.InDelta(t, s.TotalWeightLbs/2000, s.TotalWeightTons, 1e-12)
}

func TestEstimate_EmptyInput(t *testing.T) {
	s := newEstimator(t).Estimate(nil)
	assert.NotNil(t, s.WasteItems)
	assert.NotNil(t, s.UnmatchedItems)
	assert.Zero(t, s.TotalWeightLbs)
}

func TestNewEstimator_NilLexiconUsesDefault(t *testing.T) {
	s := NewEstimator(nil, nil).Estimate([]entity.LineItem{
		{Description: "Remove carpet", Quantity: 100, Unit: "SF", IsRemoval: true},
	})
	require.Len(t, s.WasteItems, 1)
	assert.Equal(t, "Carpet", s.WasteItems[0].MaterialType)
	assert.Equal(t, 50.0, s.TotalWeightLbs)
}
