package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"wisdomcard/internal/models/response_models"
)

// Fetcher is the one remote dependency of the controller.
type Fetcher interface {
	Fetch(ctx context.Context, problemText string) (response_models.Wisdom, error)
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero leaves it unbounded.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithTransitionHook is called, outside the lock, after every state change.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(c *Controller) { c.onTransition = fn }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns one visitor's view state. It is safe for concurrent use;
// the fetch itself runs on its own goroutine outside the lock.
type Controller struct {
	fetcher      Fetcher
	logger       *zap.Logger
	timeout      time.Duration
	onTransition func(from, to State)
	now          func() time.Time

	mu           sync.Mutex
	state        State
	input        string
	question     string
	result       *response_models.Wisdom
	cycle        uint64
	loadingSince time.Time
	settled      chan struct{}
	cancel       context.CancelFunc
	closed       bool

	wg sync.WaitGroup
}

func NewController(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		logger:  zap.NewNop(),
		now:     time.Now,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a new cycle for input. Blank input is a no-op and returns
// false with no error. From SUCCESS or ERROR it returns ErrResetRequired.
// From LOADING the pending cycle is abandoned and its result will be dropped.
func (c *Controller) Submit(input string) (bool, error) {
	if strings.TrimSpace(input) == "" {
		return false, nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, fmt.Errorf("%w: session closed", ErrInvalidTransition)
	}
	if c.state == StateSuccess || c.state == StateError {
		c.mu.Unlock()
		return false, ErrResetRequired
	}

	from := c.state
	c.abandonLocked()

	c.cycle++
	cycle := c.cycle
	c.input = input
	c.question = input
	c.result = nil
	c.state = StateLoading
	c.loadingSince = c.now()
	c.settled = make(chan struct{})

	// The fetch outlives the caller's request, so it gets its own context.
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	c.cancel = cancel

	c.wg.Add(1)
	c.mu.Unlock()

	c.notify(from, StateLoading)
	go c.run(ctx, cancel, cycle, input)
	return true, nil
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, cycle uint64, question string) {
	defer c.wg.Done()
	defer cancel()

	wisdom, err := c.fetch(ctx, question)

	c.mu.Lock()
	if cycle != c.cycle || c.state != StateLoading {
		c.mu.Unlock()
		c.logger.Debug("dropping stale fetch result", zap.Uint64("cycle", cycle))
		return
	}

	var to State
	if err != nil {
		to = StateError
		c.result = nil
	} else {
		to = StateSuccess
		c.result = &wisdom
	}
	c.state = to
	c.cancel = nil
	close(c.settled)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("wisdom fetch failed",
			zap.Uint64("cycle", cycle),
			zap.Error(err),
		)
	}
	c.notify(StateLoading, to)
}

func (c *Controller) fetch(ctx context.Context, question string) (w response_models.Wisdom, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return c.fetcher.Fetch(ctx, question)
}

// Reset returns to IDLE with empty input, question and result. Calling it
// again has no further effect. From LOADING the pending fetch is detached:
// its context is cancelled and its result is discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	from := c.state
	c.abandonLocked()
	c.state = StateIdle
	c.input = ""
	c.question = ""
	c.result = nil
	c.loadingSince = time.Time{}
	c.mu.Unlock()

	c.notify(from, StateIdle)
}

// Retry leaves ERROR for IDLE keeping the typed input, so the same text can
// be submitted again.
func (c *Controller) Retry() error {
	c.mu.Lock()
	if c.state != StateError {
		from := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, from)
	}
	c.state = StateIdle
	c.question = ""
	c.result = nil
	c.loadingSince = time.Time{}
	c.mu.Unlock()

	c.notify(StateError, StateIdle)
	return nil
}

// SetInput records what the visitor typed (or picked from a suggestion).
// Only meaningful while IDLE.
func (c *Controller) SetInput(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return fmt.Errorf("%w: input is locked in %s", ErrInvalidTransition, c.state)
	}
	c.input = text
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until the controller is no longer LOADING or ctx is done.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		if c.state != StateLoading {
			s := c.snapshotLocked()
			c.mu.Unlock()
			return s, nil
		}
		ch := c.settled
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

// Close abandons any pending fetch and waits for its goroutine to exit.
// A LOADING controller falls back to IDLE so waiters are released. The
// controller accepts no further submissions.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	from := c.state
	c.abandonLocked()
	if from == StateLoading {
		c.state = StateIdle
		c.result = nil
		c.loadingSince = time.Time{}
	}
	c.mu.Unlock()

	if from == StateLoading {
		c.notify(from, StateIdle)
	}
	c.wg.Wait()
}

// abandonLocked detaches the in-flight cycle, if any: its context is
// cancelled, waiters are woken and its result can no longer land.
func (c *Controller) abandonLocked() {
	if c.state != StateLoading {
		return
	}
	c.cycle++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:        c.state,
		Input:        c.input,
		Question:     c.question,
		Result:       c.result,
		Cycle:        c.cycle,
		LoadingSince: c.loadingSince,
	}
}

func (c *Controller) notify(from, to State) {
	if c.onTransition != nil && from != to {
		c.onTransition(from, to)
	}
}
