package discussion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	mu      sync.Mutex
	created []ThreadRequest
	deleted []string
	err     error

	// When block is set, calls signal started and wait for release or ctx.
	block   bool
	started chan struct{}
	release chan struct{}
}

func newFakeSyncer() *fakeSyncer {
	return &fakeSyncer{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (f *fakeSyncer) wait(ctx context.Context) error {
	if !f.block {
		return nil
	}
	f.started <- struct{}{}
	select {
	case <-f.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSyncer) CreateThread(ctx context.Context, req ThreadRequest) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, req)
	return nil
}

func (f *fakeSyncer) DeleteThread(ctx context.Context, subject string, courseID int64) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, subject)
	return nil
}

func counter(t *testing.T, reg *prometheus.Registry, action Action, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "courses_discussion_sync_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["action"] == string(action) && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func newTestPropagator(syncer ThreadSyncer, cfg Config) (*Propagator, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewPropagator(syncer, cfg, zerolog.Nop(), NewMetrics(reg)), reg
}

func closeNow(t *testing.T, p *Propagator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Close(ctx))
}

func TestPropagator_DeliversCreateAndDelete(t *testing.T) {
	syncer := newFakeSyncer()
	p, reg := newTestPropagator(syncer, Config{Workers: 2})

	p.OnCourseCreated(sampleCourse())
	p.OnCourseDeleted(sampleCourse())
	closeNow(t, p)

	require.Len(t, syncer.created, 1)
	assert.Equal(t, int64(101), syncer.created[0].CourseID)
	assert.Equal(t, []string{"COMPSCI"}, syncer.deleted)
	assert.Equal(t, 1.0, counter(t, reg, ActionCreate, OutcomeSuccess))
	assert.Equal(t, 1.0, counter(t, reg, ActionDelete, OutcomeSuccess))
}

func TestPropagator_FailureIsAbsorbed(t *testing.T) {
	syncer := newFakeSyncer()
	syncer.err = errors.New("connection refused")
	p, reg := newTestPropagator(syncer, Config{Workers: 1})

	assert.NotPanics(t, func() { p.OnCourseCreated(sampleCourse()) })
	closeNow(t, p)

	assert.Empty(t, syncer.created)
	assert.Equal(t, 1.0, counter(t, reg, ActionCreate, OutcomeFailure))
}

func TestPropagator_TimeoutBoundsRemoteCall(t *testing.T) {
	syncer := newFakeSyncer()
	syncer.block = true
	p, reg := newTestPropagator(syncer, Config{Workers: 1, Timeout: 50 * time.Millisecond})

	start := time.Now()
	p.OnCourseDeleted(sampleCourse())
	assert.Less(t, time.Since(start), 50*time.Millisecond, "dispatch must not wait for the remote call")

	closeNow(t, p)
	assert.Equal(t, 1.0, counter(t, reg, ActionDelete, OutcomeFailure))
	assert.Empty(t, syncer.deleted)
}

func TestPropagator_QueueFullDrops(t *testing.T) {
	syncer := newFakeSyncer()
	syncer.block = true
	p, reg := newTestPropagator(syncer, Config{Workers: 1, QueueSize: 1, Timeout: 5 * time.Second})

	p.OnCourseCreated(sampleCourse())
	<-syncer.started // the only worker is now busy

	p.OnCourseCreated(sampleCourse()) // fills the queue
	p.OnCourseCreated(sampleCourse()) // dropped

	assert.Equal(t, 1.0, counter(t, reg, ActionCreate, OutcomeDropped))

	close(syncer.release)
	closeNow(t, p)
	assert.Equal(t, 2.0, counter(t, reg, ActionCreate, OutcomeSuccess))
}

func TestPropagator_DropsAfterClose(t *testing.T) {
	syncer := newFakeSyncer()
	p, reg := newTestPropagator(syncer, Config{})
	closeNow(t, p)

	p.OnCourseDeleted(sampleCourse())
	assert.Equal(t, 1.0, counter(t, reg, ActionDelete, OutcomeDropped))
	assert.Empty(t, syncer.deleted)

	// Closing twice is harmless.
	closeNow(t, p)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultQueueSize, cfg.QueueSize)
}
