package codegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dshills/goblocks/pkg/block"
)

// Common evaluation errors
var (
	// ErrInvalidExpression is returned when an expression fails to compile
	// or run
	ErrInvalidExpression = errors.New("invalid expression")
	// ErrUndefinedVariable is returned when an expression references a
	// variable missing from the environment
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrEvaluationTimeout is returned when evaluation exceeds the deadline
	ErrEvaluationTimeout = errors.New("expression evaluation timed out")
)

const defaultEvalTimeout = 5 * time.Second

// Evaluator runs generated value expressions against a variable environment.
// Compiled programs are cached by expression text.
type Evaluator struct {
	gen          *Generator
	programCache map[string]*vm.Program
}

// NewEvaluator creates an evaluator generating code with gen
func NewEvaluator(gen *Generator) *Evaluator {
	return &Evaluator{
		gen:          gen,
		programCache: make(map[string]*vm.Program),
	}
}

// EvaluateBlock generates the expression for a value block and evaluates it
// against the environment
func (e *Evaluator) EvaluateBlock(ctx context.Context, b *block.Block, env map[string]interface{}) (interface{}, error) {
	code, err := e.gen.BlockCode(b)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, code, env)
}

// Evaluate compiles (or reuses) and runs an expression with the given
// variable environment
func (e *Evaluator) Evaluate(ctx context.Context, expression string, env map[string]interface{}) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if env == nil {
		env = map[string]interface{}{}
	}

	program, err := e.getOrCompile(expression, env)
	if err != nil {
		return nil, err
	}

	resultChan := make(chan interface{}, 1)
	errChan := make(chan error, 1)
	go func() {
		result, err := vm.Run(program, env)
		if err != nil {
			if strings.Contains(err.Error(), "undefined") || strings.Contains(err.Error(), "unknown name") {
				errChan <- fmt.Errorf("codegen: %w: %v", ErrUndefinedVariable, err)
				return
			}
			errChan <- fmt.Errorf("codegen: %w: %v", ErrInvalidExpression, err)
			return
		}
		resultChan <- result
	}()

	timeout := defaultEvalTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		return result, nil
	case err := <-errChan:
		return nil, err
	case <-time.After(timeout):
		return nil, ErrEvaluationTimeout
	}
}

// EvaluateBool evaluates an expression expected to produce a boolean
func (e *Evaluator) EvaluateBool(ctx context.Context, expression string, env map[string]interface{}) (bool, error) {
	result, err := e.Evaluate(ctx, expression, env)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("codegen: %w: expected boolean result, got %T", ErrInvalidExpression, result)
	}
	return b, nil
}

func (e *Evaluator) getOrCompile(expression string, env map[string]interface{}) (*vm.Program, error) {
	if program, ok := e.programCache[expression]; ok {
		return program, nil
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		if strings.Contains(err.Error(), "undefined") {
			return nil, fmt.Errorf("codegen: %w: %v", ErrUndefinedVariable, err)
		}
		return nil, fmt.Errorf("codegen: %w: %v", ErrInvalidExpression, err)
	}
	e.programCache[expression] = program
	return program, nil
}
