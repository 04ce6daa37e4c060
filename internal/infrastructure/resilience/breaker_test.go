package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errFailed = errors.New("failed")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func withClock(b *Breaker, c *clock) *Breaker {
	b.now = c.now
	b.expiry = c.t.Add(b.settings.Interval)
	return b
}

func run(b *Breaker, success bool) error {
	_, err := Do(b, func() (struct{}, error) {
		if success {
			return struct{}{}, nil
		}
		return struct{}{}, errFailed
	})
	return err
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      Settings{Interval: time.Minute, Timeout: time.Minute},
			requests:      []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name: "opens after consecutive failures",
			settings: Settings{
				Interval: time.Minute,
				Timeout:  time.Minute,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 3
				},
			},
			requests:      []bool{false, false, false},
			expectedState: StateOpen,
		},
		{
			name: "success resets the failure streak",
			settings: Settings{
				Interval: time.Minute,
				Timeout:  time.Minute,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 2
				},
			},
			requests:      []bool{false, true, false},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := New("test", tt.settings)
			for _, success := range tt.requests {
				_ = run(breaker, success)
			}
			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker := New("test", Settings{Interval: time.Minute, Timeout: time.Minute})

	require.NoError(t, run(breaker, true))

	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)

	assert.ErrorIs(t, run(breaker, false), errFailed)

	counts = breaker.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestDoReturnsTypedResult(t *testing.T) {
	breaker := New("test", Settings{})

	lines, err := Do(breaker, func() ([]string, error) {
		return []string{"/Applications/Safari.app"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/Applications/Safari.app"}, lines)
}

func TestBreakerOpenRejectsImmediately(t *testing.T) {
	breaker := ForCommand("mdfind", 2, time.Minute, zap.NewNop())

	_ = run(breaker, false)
	_ = run(breaker, false)
	assert.Equal(t, StateOpen, breaker.State())

	called := false
	_, err := Do(breaker, func() (int, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	var transitions []string

	breaker := withClock(New("test", Settings{
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	}), c)

	_ = run(breaker, false)
	_ = run(breaker, false)
	assert.Equal(t, StateOpen, breaker.State())

	c.advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, run(breaker, true))
	require.NoError(t, run(breaker, true))
	assert.Equal(t, StateClosed, breaker.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	breaker := withClock(ForCommand("plutil", 1, time.Second, zap.NewNop()), c)

	_ = run(breaker, false)
	assert.Equal(t, StateOpen, breaker.State())

	c.advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	_ = run(breaker, false)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerIntervalResetsCounts(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	breaker := withClock(New("test", Settings{Interval: time.Second}), c)

	_ = run(breaker, false)
	assert.Equal(t, uint32(1), breaker.Counts().TotalFailures)

	c.advance(2 * time.Second)
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, Counts{}, breaker.Counts())
}
