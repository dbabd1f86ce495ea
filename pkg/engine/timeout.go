package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/housewright/pkg/build"
)

// DefaultTimeout bounds a single plan evaluation.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout replaces DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// evalResult carries one evaluation's outcome out of its goroutine.
type evalResult struct {
	plan   *build.Plan
	errors []EvalError
	err    error
}

// wait blocks for the result of generation gen. A result that arrives after
// a newer Evaluate call started is discarded. On timeout the goroutine keeps
// running; its late result lands in the buffered channel and is dropped.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*build.Plan, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.plan, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
