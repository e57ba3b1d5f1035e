package discussion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
)

// Action is the lifecycle event mirrored to the Discussion Service.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// Notifier receives course lifecycle events after the local mutation has committed.
// Implementations must not block the caller and never report failure.
type Notifier interface {
	OnCourseCreated(course models.Course)
	OnCourseDeleted(course models.Course)
}

// Config controls the propagator worker pool.
type Config struct {
	Timeout   time.Duration
	Workers   int
	QueueSize int
}

const (
	DefaultTimeout   = 3 * time.Second
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	return c
}

type task struct {
	action Action
	course models.Course
}

// Propagator mirrors course creation and deletion to the Discussion Service.
// Events are queued and sent by a fixed pool of workers, each call bounded by
// Config.Timeout. Delivery is at most once: failures are logged, counted and
// dropped, and a full queue drops the event.
type Propagator struct {
	syncer  ThreadSyncer
	cfg     Config
	log     zerolog.Logger
	metrics *Metrics

	tasks  chan task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

var _ Notifier = (*Propagator)(nil)

// NewPropagator starts the worker pool. Call Close to stop it.
func NewPropagator(syncer ThreadSyncer, cfg Config, log zerolog.Logger, metrics *Metrics) *Propagator {
	cfg = cfg.withDefaults()
	p := &Propagator{
		syncer:  syncer,
		cfg:     cfg,
		log:     log.With().Str("component", "discussion-propagator").Logger(),
		metrics: metrics,
		tasks:   make(chan task, cfg.QueueSize),
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker()
	}
	return p
}

// OnCourseCreated queues creation of the course's discussion thread.
func (p *Propagator) OnCourseCreated(course models.Course) {
	p.enqueue(task{action: ActionCreate, course: course})
}

// OnCourseDeleted queues removal of the course's discussion thread.
func (p *Propagator) OnCourseDeleted(course models.Course) {
	p.enqueue(task{action: ActionDelete, course: course})
}

func (p *Propagator) enqueue(t task) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.drop(t, "propagator closed")
		return
	}

	select {
	case p.tasks <- t:
	default:
		p.drop(t, "queue full")
	}
}

func (p *Propagator) drop(t task, reason string) {
	p.metrics.observe(t.action, OutcomeDropped)
	p.log.Warn().
		Str("action", string(t.action)).
		Str("course", t.course.Key()).
		Str("reason", reason).
		Msg("Discussion sync dropped")
}

func (p *Propagator) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(t)
	}
}

func (p *Propagator) run(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	var err error
	switch t.action {
	case ActionCreate:
		err = p.syncer.CreateThread(ctx, NewThreadRequest(t.course))
	case ActionDelete:
		err = p.syncer.DeleteThread(ctx, t.course.CourseSubject, t.course.CourseID)
	default:
		err = fmt.Errorf("unknown action %q", t.action)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", p.cfg.Timeout, err)
		}
		p.metrics.observe(t.action, OutcomeFailure)
		p.log.Warn().
			Err(fmt.Errorf("%w: %v", apperrors.ErrRemoteSync, err)).
			Str("action", string(t.action)).
			Str("course", t.course.Key()).
			Dur("elapsed", time.Since(start)).
			Msg("Discussion sync failed")
		return
	}

	p.metrics.observe(t.action, OutcomeSuccess)
	p.log.Debug().
		Str("action", string(t.action)).
		Str("course", t.course.Key()).
		Dur("elapsed", time.Since(start)).
		Msg("Discussion sync succeeded")
}

// Close stops accepting events and waits for queued events to finish or ctx to end.
func (p *Propagator) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoopNotifier discards lifecycle events. Used when no Discussion Service is configured.
type NoopNotifier struct{}

var _ Notifier = NoopNotifier{}

func (NoopNotifier) OnCourseCreated(models.Course) {}
func (NoopNotifier) OnCourseDeleted(models.Course) {}
