package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core/lineitem"
	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
	"github.com/joseph-ayodele/waste-estimator/internal/core/waste"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

var fakePDF = []byte("%PDF-1.4\n")

type fakePages struct {
	pages pdftext.Pages
	err   error
}

func (f fakePages) ExtractPages(context.Context, []byte) (pdftext.Pages, error) {
	return f.pages, f.err
}

func newProcessor(t *testing.T, pages pdftext.PageExtractor) *Processor {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return NewProcessor(nil, pages, lineitem.NewExtractor(nil), waste.NewEstimator(lex, nil))
}

func TestProcessDocument(t *testing.T) {
	p := newProcessor(t, fakePages{pages: pdftext.Pages{
		"ACME Restoration\n1. Remove carpet 300.00 SF 0.50\n2. Install carpet 300.00 SF 4.00",
		"3. Tear off drywall 100.00 SF\nThank you for your business",
	}})

	res, err := p.ProcessDocument(context.Background(), fakePDF)
	require.NoError(t, err)

	assert.Len(t, res.Pages, 2)
	assert.Equal(t, 3, res.TotalLineItems)
	assert.Equal(t, 2, res.RemovalItemsFound)
	require.Len(t, res.Summary.WasteItems, 2)
	assert.Equal(t, "Carpet", res.Summary.WasteItems[0].MaterialType)
	assert.InDelta(t, 150.0, res.Summary.WasteItems[0].TotalWeight, 1e-9)
	assert.Equal(t, "Drywall", res.Summary.WasteItems[1].MaterialType)
	assert.InDelta(t, 330.0, res.Summary.TotalWeightLbs, 1e-9)
	assert.InDelta(t, 0.165, res.Summary.TotalWeightTons, 1e-9)
	assert.Contains(t, res.FullText, "ACME Restoration")
}

func TestProcessDocument_NoText(t *testing.T) {
	p := newProcessor(t, fakePages{err: errors.Join(errors.New("pdftotext missing"), common.ErrNoText)})

	res, err := p.ProcessDocument(context.Background(), fakePDF)
	require.NoError(t, err)
	assert.Zero(t, res.TotalLineItems)
	assert.Empty(t, res.FullText)
	assert.NotNil(t, res.Summary.WasteItems)
	assert.NotNil(t, res.Summary.UnmatchedItems)
}

func TestProcessDocument_Errors(t *testing.T) {
	p := newProcessor(t, fakePages{err: errors.New("corrupt xref")})

	_, err := p.ProcessDocument(context.Background(), []byte("plain text"))
	assert.ErrorIs(t, err, common.ErrNotPDF)

	_, err = p.ProcessDocument(context.Background(), fakePDF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt xref")
}

func TestProcessText(t *testing.T) {
	p := newProcessor(t, fakePages{})
	res := p.ProcessText("1. Remove gutter 40.00 LF 0.80\n1. Remove gutter 40.00 LF 0.80")

	assert.Equal(t, 1, res.TotalLineItems, "duplicate line is collapsed")
	assert.Equal(t, 1, res.RemovalItemsFound)
	assert.Nil(t, res.Pages)
}

func TestNewProcessorFromConfig(t *testing.T) {
	cfg := common.DefaultConfig()
	proc, lex, err := NewProcessorFromConfig(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, proc)
	assert.Equal(t, 71, lex.Len())

	cfg.PDF.Backend = "ocr"
	_, _, err = NewProcessorFromConfig(cfg, nil)
	assert.Error(t, err)

	cfg = common.DefaultConfig()
	cfg.Lexicon.Path = "/nonexistent/materials.json"
	_, _, err = NewProcessorFromConfig(cfg, nil)
	assert.Error(t, err)
}
