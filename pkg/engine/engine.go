// Package engine evaluates house plans written in Lisp.
// It wraps zygomys in a sandboxed environment and produces a build.Plan
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/housewright/pkg/build"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates plan scripts. It is safe for concurrent use: every call
// gets its own sandbox, and only the most recent call's result is returned.
type Engine struct {
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine with DefaultTimeout.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source and returns the plan it declares. A script without a
// (house ...) form yields build.DefaultPlan().
//
// Parse and runtime errors in the script come back as EvalErrors with a nil
// error. A timeout, a superseded call or a panic inside the interpreter is
// returned as the error.
func (e *Engine) Evaluate(source string) (*build.Plan, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{plan: p, errors: evalErrs, err: err}
	}()

	return e.wait(ch, gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*build.Plan, []EvalError, error) {
	// Empty source is a valid program that declares the default house.
	if strings.TrimSpace(source) == "" {
		return build.DefaultPlan(), nil, nil
	}

	// The sandbox has no filesystem or syscall builtins.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	pb := &planBuilder{}
	registerBuiltins(env, pb)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if !pb.defined {
		return build.DefaultPlan(), nil, nil
	}
	return pb.plan, nil, nil
}

// zygomys reports positions as "Error on line N: ..." or "line N: ...".
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`),
}

// parseZygomysError turns an interpreter error into EvalErrors, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
