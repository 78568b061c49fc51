package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"wisdomcard/internal/models/response_models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubFetcher answers every call with wisdom/err. When gate is set, each
// call blocks until the gate yields a value or the context ends.
type stubFetcher struct {
	wisdom response_models.Wisdom
	err    error
	gate   chan struct{}

	mu        sync.Mutex
	questions []string
}

func (s *stubFetcher) Fetch(ctx context.Context, q string) (response_models.Wisdom, error) {
	s.mu.Lock()
	s.questions = append(s.questions, q)
	s.mu.Unlock()

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return response_models.Wisdom{}, ctx.Err()
		}
	}
	return s.wisdom, s.err
}

func (s *stubFetcher) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.questions...)
}

func singleWisdom(quote string) response_models.Wisdom {
	return response_models.Wisdom{
		Layout: response_models.LayoutSingle,
		Card:   &response_models.CardWisdom{Quote: quote, Source: "S", Interpretation: "I"},
	}
}

func waitSettled(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := c.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func TestSubmit_GoesLoadingSynchronously(t *testing.T) {
	f := &stubFetcher{wisdom: singleWisdom("Q"), gate: make(chan struct{})}
	c := NewController(f, WithLogger(zaptest.NewLogger(t)))
	defer c.Close()

	started, err := c.Submit("工作遇到瓶颈怎么办")
	require.NoError(t, err)
	assert.True(t, started)

	snap := c.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Equal(t, "工作遇到瓶颈怎么办", snap.Question)
	assert.Nil(t, snap.Result)
	assert.False(t, snap.LoadingSince.IsZero())

	close(f.gate)
	snap = waitSettled(t, c)
	assert.Equal(t, StateSuccess, snap.State)
	assert.Len(t, f.calls(), 1)
}

func TestSubmit_BlankIsNoop(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t "} {
		f := &stubFetcher{}
		c := NewController(f)

		started, err := c.Submit(in)
		assert.NoError(t, err)
		assert.False(t, started)
		assert.Equal(t, StateIdle, c.Snapshot().State)
		assert.Empty(t, f.calls())
		c.Close()
	}
}

func TestSubmit_ResolveStoresResult(t *testing.T) {
	want := singleWisdom("Q")
	c := NewController(&stubFetcher{wisdom: want})
	defer c.Close()

	_, err := c.Submit("工作遇到瓶颈怎么办")
	require.NoError(t, err)

	snap := waitSettled(t, c)
	assert.Equal(t, StateSuccess, snap.State)
	require.NotNil(t, snap.Result)
	assert.Equal(t, want, *snap.Result)
	assert.Equal(t, "Q", snap.Result.Card.Quote)
}

func TestSubmit_RejectGoesError(t *testing.T) {
	for _, fetchErr := range []error{
		errors.New("API key is missing"),
		errors.New("no response received"),
		errors.New("unexpected end of JSON input"),
		errors.New("dial tcp: connection refused"),
	} {
		c := NewController(&stubFetcher{err: fetchErr}, WithLogger(zaptest.NewLogger(t)))

		_, err := c.Submit("q")
		require.NoError(t, err)

		snap := waitSettled(t, c)
		assert.Equal(t, StateError, snap.State, "error %v", fetchErr)
		assert.Nil(t, snap.Result)
		c.Close()
	}
}

func TestSubmit_RejectedAfterSettle(t *testing.T) {
	c := NewController(&stubFetcher{wisdom: singleWisdom("Q")})
	defer c.Close()

	_, err := c.Submit("first")
	require.NoError(t, err)
	waitSettled(t, c)

	started, err := c.Submit("second")
	assert.False(t, started)
	assert.ErrorIs(t, err, ErrResetRequired)
	assert.Equal(t, "first", c.Snapshot().Question)
}

// gatedByQuestion blocks only the questions listed in gates and answers
// with the question itself as the quote.
type gatedByQuestion struct {
	gates map[string]chan struct{}
}

func (g gatedByQuestion) Fetch(ctx context.Context, q string) (response_models.Wisdom, error) {
	if gate, ok := g.gates[q]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return response_models.Wisdom{}, ctx.Err()
		}
	}
	return singleWisdom(q), nil
}

func TestSubmit_WhileLoadingStartsFreshCycle(t *testing.T) {
	firstGate := make(chan struct{})
	c := NewController(gatedByQuestion{gates: map[string]chan struct{}{"first": firstGate}})
	defer c.Close()

	_, err := c.Submit("first")
	require.NoError(t, err)
	firstCycle := c.Snapshot().Cycle

	_, err = c.Submit("second")
	require.NoError(t, err)
	close(firstGate)

	snap := waitSettled(t, c)
	assert.Greater(t, snap.Cycle, firstCycle)
	assert.Equal(t, StateSuccess, snap.State)
	assert.Equal(t, "second", snap.Question)
	assert.Equal(t, "second", snap.Result.Card.Quote)
}

func TestStaleResultIsDropped(t *testing.T) {
	f := &stubFetcher{wisdom: singleWisdom("late"), gate: make(chan struct{})}
	c := NewController(f)
	defer c.Close()

	_, err := c.Submit("q")
	require.NoError(t, err)
	c.Reset()

	close(f.gate)
	c.Close()

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Result)
}

func TestReset_ClearsEverythingAndIsIdempotent(t *testing.T) {
	for _, tc := range []struct {
		name string
		f    *stubFetcher
		want State
	}{
		{"from success", &stubFetcher{wisdom: singleWisdom("Q")}, StateSuccess},
		{"from error", &stubFetcher{err: errors.New("boom")}, StateError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(tc.f)
			defer c.Close()

			_, err := c.Submit("some question")
			require.NoError(t, err)
			require.Equal(t, tc.want, waitSettled(t, c).State)

			c.Reset()
			once := c.Snapshot()
			c.Reset()
			twice := c.Snapshot()

			for _, snap := range []Snapshot{once, twice} {
				assert.Equal(t, StateIdle, snap.State)
				assert.Empty(t, snap.Input)
				assert.Empty(t, snap.Question)
				assert.Nil(t, snap.Result)
			}
			assert.Equal(t, once, twice)
		})
	}
}

func TestRetry(t *testing.T) {
	c := NewController(&stubFetcher{err: errors.New("boom")})
	defer c.Close()

	assert.ErrorIs(t, c.Retry(), ErrInvalidTransition)

	_, err := c.Submit("keep me")
	require.NoError(t, err)
	waitSettled(t, c)

	require.NoError(t, c.Retry())
	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, "keep me", snap.Input)
	assert.Empty(t, snap.Question)
	assert.True(t, snap.LoadingSince.IsZero())
}

func TestSetInput(t *testing.T) {
	f := &stubFetcher{gate: make(chan struct{})}
	c := NewController(f)
	defer c.Close()

	require.NoError(t, c.SetInput("团队不好带怎么破"))
	assert.Equal(t, "团队不好带怎么破", c.Snapshot().Input)

	_, err := c.Submit(c.Snapshot().Input)
	require.NoError(t, err)
	assert.ErrorIs(t, c.SetInput("x"), ErrInvalidTransition)
}

func TestTransitionHook(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	hook := func(from, to State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(from)+">"+string(to))
	}

	c := NewController(&stubFetcher{wisdom: singleWisdom("Q")}, WithTransitionHook(hook))
	defer c.Close()

	_, err := c.Submit("q")
	require.NoError(t, err)
	waitSettled(t, c)
	// The settle hook fires just after the state is published.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, time.Millisecond)
	c.Reset()
	c.Reset()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"IDLE>LOADING", "LOADING>SUCCESS", "SUCCESS>IDLE"}, seen)
}

func TestFetchTimeout(t *testing.T) {
	f := &stubFetcher{gate: make(chan struct{})}
	c := NewController(f, WithFetchTimeout(20*time.Millisecond))
	defer c.Close()

	_, err := c.Submit("q")
	require.NoError(t, err)

	assert.Equal(t, StateError, waitSettled(t, c).State)
}

type panicFetcher struct{}

func (panicFetcher) Fetch(context.Context, string) (response_models.Wisdom, error) {
	panic("boom")
}

func TestFetchPanicBecomesError(t *testing.T) {
	c := NewController(panicFetcher{})
	defer c.Close()

	_, err := c.Submit("q")
	require.NoError(t, err)
	assert.Equal(t, StateError, waitSettled(t, c).State)
}

func TestWait_ContextDone(t *testing.T) {
	f := &stubFetcher{gate: make(chan struct{})}
	c := NewController(f)
	defer c.Close()

	_, err := c.Submit("q")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	snap, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateLoading, snap.State)
}

func TestClose_RejectsSubmit(t *testing.T) {
	c := NewController(&stubFetcher{})
	c.Close()

	_, err := c.Submit("q")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestClose_ReleasesPendingWait(t *testing.T) {
	f := &stubFetcher{gate: make(chan struct{})}
	c := NewController(f)

	_, err := c.Submit("q")
	require.NoError(t, err)

	type waitResult struct {
		snap Snapshot
		err  error
	}
	done := make(chan waitResult, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := c.Wait(ctx)
		done <- waitResult{snap, err}
	}()

	c.Close()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, StateIdle, r.snap.State)
		assert.Nil(t, r.snap.Result)
	case <-time.After(time.Second):
		t.Fatal("Wait still blocked after Close")
	}

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.True(t, snap.LoadingSince.IsZero())
}

func TestReset_WhileLoadingDetachesFetch(t *testing.T) {
	f := &stubFetcher{wisdom: singleWisdom("late"), gate: make(chan struct{})}
	c := NewController(f)
	defer c.Close()

	_, err := c.Submit("q")
	require.NoError(t, err)
	c.Reset()
	assert.Equal(t, StateIdle, c.Snapshot().State)

	close(f.gate)
	snap, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Result)
}
