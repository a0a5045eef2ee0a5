package configrule

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator runs rule code against the configuration environment.
type Evaluator interface {
	Evaluate(ctx context.Context, code string, env map[string]any) (any, error)
}

// ExprEvaluator evaluates rules as expr-lang expressions. Expressions are
// side-effect free and cannot reach the host, so stored rule code is safe to
// run. Compiled programs are cached by source.
type ExprEvaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
	max   int
}

// NewExprEvaluator caches up to maxPrograms compiled rules; <=0 means 512.
func NewExprEvaluator(maxPrograms int) *ExprEvaluator {
	if maxPrograms <= 0 {
		maxPrograms = 512
	}
	return &ExprEvaluator{cache: map[string]*vm.Program{}, max: maxPrograms}
}

func (e *ExprEvaluator) Evaluate(ctx context.Context, code string, env map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("empty rule")
	}
	prog, err := e.program(code)
	if err != nil {
		return nil, err
	}
	return expr.Run(prog, env)
}

// Compile checks that code parses without running it.
func (e *ExprEvaluator) Compile(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("empty rule")
	}
	_, err := e.program(code)
	return err
}

func (e *ExprEvaluator) program(code string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.cache[code]; ok {
		return p, nil
	}
	p, err := expr.Compile(code)
	if err != nil {
		return nil, err
	}
	if len(e.cache) >= e.max {
		// crude, but rules are few per item
		e.cache = map[string]*vm.Program{}
	}
	e.cache[code] = p
	return p, nil
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, code string, env map[string]any) (any, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, code string, env map[string]any) (any, error) {
	return f(ctx, code, env)
}
