package async

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/waste-estimator/internal/core"
	"github.com/joseph-ayodele/waste-estimator/internal/core/lineitem"
	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
	"github.com/joseph-ayodele/waste-estimator/internal/core/waste"
	"github.com/joseph-ayodele/waste-estimator/internal/lexicon"
)

var fakePDF = []byte("%PDF-1.4\n")

type gatedPages struct {
	started chan struct{}
	release chan struct{}
}

func (g gatedPages) ExtractPages(ctx context.Context, _ []byte) (pdftext.Pages, error) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return pdftext.Pages{"1. Remove carpet 10.00 SF 1.00"}, nil
}

func newQueue(t *testing.T, pages pdftext.PageExtractor, opts ...Option) *ProcessorQueue {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	proc := core.NewProcessor(nil, pages, lineitem.NewExtractor(nil), waste.NewEstimator(lex, nil))
	return NewProcessorQueue(proc, nil, opts...)
}

func TestProcessorQueue_ProcessDocument(t *testing.T) {
	q := newQueue(t, gatedPages{})
	defer q.Shutdown(context.Background())

	res, err := q.ProcessDocument(context.Background(), fakePDF)
	require.NoError(t, err)
	assert.Equal(t, 1, res.RemovalItemsFound)
	assert.InDelta(t, 5.0, res.Summary.TotalWeightLbs, 1e-9)

	pages, err := q.ExtractPages(context.Background(), fakePDF)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestProcessorQueue_CallerDeadlineWhileWaiting(t *testing.T) {
	gate := gatedPages{started: make(chan struct{}, 4), release: make(chan struct{})}
	q := newQueue(t, gate, WithWorkers(1))

	firstDone := make(chan error, 1)
	go func() {
		_, err := q.ProcessDocument(context.Background(), fakePDF)
		firstDone <- err
	}()
	<-gate.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := q.ProcessDocument(ctx, fakePDF)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(gate.release)
	require.NoError(t, <-firstDone)
	q.Shutdown(context.Background())
}

func TestProcessorQueue_Shutdown(t *testing.T) {
	q := newQueue(t, gatedPages{})
	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // idempotent

	_, err := q.ProcessDocument(context.Background(), fakePDF)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestProcessorQueue_JobTimeout(t *testing.T) {
	gate := gatedPages{release: make(chan struct{})}
	q := newQueue(t, gate, WithProcessTimeout(20*time.Millisecond))
	defer q.Shutdown(context.Background())

	_, err := q.ProcessDocument(context.Background(), fakePDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
