// Package codegen turns block trees into code: value blocks become
// expressions the evaluator can run, statement blocks become script lines.
package codegen

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/workspace"
)

// Common generator errors
var (
	// ErrNoGenerator is returned for block types without a registered
	// generator function
	ErrNoGenerator = errors.New("no generator for block type")
	// ErrMissingInput is returned when a required value input is empty
	ErrMissingInput = errors.New("value input is not connected")
)

// GenFunc produces code for a single block. Value blocks return an
// expression; statement blocks return one or more lines without their next
// chain, which the generator follows itself.
type GenFunc func(g *Generator, b *block.Block) (string, error)

// Generator maps block types to generator functions
type Generator struct {
	funcs map[string]GenFunc
}

// NewGenerator creates a generator pre-loaded with functions for the
// standard block types
func NewGenerator() *Generator {
	g := &Generator{funcs: make(map[string]GenFunc)}
	registerStandard(g)
	return g
}

// Register sets the generator function for a block type, replacing any
// existing one
func (g *Generator) Register(blockType string, fn GenFunc) {
	g.funcs[blockType] = fn
}

// BlockCode generates code for a single block, without its next chain
func (g *Generator) BlockCode(b *block.Block) (string, error) {
	if b == nil {
		return "", errors.New("codegen: nil block")
	}
	fn, ok := g.funcs[b.Type()]
	if !ok {
		return "", fmt.Errorf("codegen: %w: %s", ErrNoGenerator, b.Type())
	}
	return fn(g, b)
}

// ValueCode generates the expression for the block connected to the named
// value input
func (g *Generator) ValueCode(b *block.Block, inputName string) (string, error) {
	in := b.Input(inputName)
	if in == nil {
		return "", fmt.Errorf("codegen: block %s has no input %s", b.Type(), inputName)
	}
	child := in.ConnectedBlock()
	if child == nil {
		return "", fmt.Errorf("codegen: %w: %s.%s", ErrMissingInput, b.Type(), inputName)
	}
	return g.BlockCode(child)
}

// StatementCode generates the lines for the chain connected to the named
// statement input. An empty socket generates nothing.
func (g *Generator) StatementCode(b *block.Block, inputName string) (string, error) {
	in := b.Input(inputName)
	if in == nil {
		return "", fmt.Errorf("codegen: block %s has no input %s", b.Type(), inputName)
	}
	child := in.ConnectedBlock()
	if child == nil {
		return "", nil
	}
	return g.ChainCode(child)
}

// ChainCode generates code for a block and every block chained after it
// through next connections
func (g *Generator) ChainCode(b *block.Block) (string, error) {
	var lines []string
	for cur := b; cur != nil; cur = cur.NextBlock() {
		code, err := g.BlockCode(cur)
		if err != nil {
			return "", err
		}
		if code != "" {
			lines = append(lines, code)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// WorkspaceCode generates code for every root tree, top-to-bottom then
// left-to-right by workspace position, joined by blank lines
func (g *Generator) WorkspaceCode(ws *workspace.Workspace) (string, error) {
	roots := ws.RootBlocks()
	sort.SliceStable(roots, func(i, j int) bool {
		pi, pj := roots[i].Position(), roots[j].Position()
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return pi.X < pj.X
	})
	var parts []string
	for _, root := range roots {
		code, err := g.ChainCode(root)
		if err != nil {
			return "", err
		}
		if code != "" {
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func indent(code string) string {
	if code == "" {
		return ""
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

func fieldValue(b *block.Block, name string) (string, error) {
	f := b.Field(name)
	if f == nil {
		return "", fmt.Errorf("codegen: block %s has no field %s", b.Type(), name)
	}
	return f.SerializedValue(), nil
}

// registerStandard installs generator functions for the standard block
// library. Value blocks emit expressions the evaluator accepts directly.
func registerStandard(g *Generator) {
	g.Register("math_number", func(g *Generator, b *block.Block) (string, error) {
		f := b.Field("NUM")
		if f == nil {
			return "", fmt.Errorf("codegen: math_number missing NUM field")
		}
		return strconv.FormatFloat(f.Value, 'f', -1, 64), nil
	})

	arithmeticOps := map[string]string{
		"ADD": "+", "MINUS": "-", "MULTIPLY": "*", "DIVIDE": "/", "POWER": "**",
	}
	g.Register("math_arithmetic", binaryOp("A", "B", "OP", arithmeticOps))

	compareOps := map[string]string{
		"EQ": "==", "NEQ": "!=", "LT": "<", "LTE": "<=", "GT": ">", "GTE": ">=",
	}
	g.Register("logic_compare", binaryOp("A", "B", "OP", compareOps))

	logicOps := map[string]string{"AND": "&&", "OR": "||"}
	g.Register("logic_operation", binaryOp("A", "B", "OP", logicOps))

	g.Register("logic_boolean", func(g *Generator, b *block.Block) (string, error) {
		v, err := fieldValue(b, "BOOL")
		if err != nil {
			return "", err
		}
		if v == "TRUE" {
			return "true", nil
		}
		return "false", nil
	})

	g.Register("text", func(g *Generator, b *block.Block) (string, error) {
		v, err := fieldValue(b, "TEXT")
		if err != nil {
			return "", err
		}
		return strconv.Quote(v), nil
	})

	g.Register("text_print", func(g *Generator, b *block.Block) (string, error) {
		arg, err := g.ValueCode(b, "TEXT")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("print(%s)", arg), nil
	})

	g.Register("variables_get", func(g *Generator, b *block.Block) (string, error) {
		return fieldValue(b, "VAR")
	})

	g.Register("variables_set", func(g *Generator, b *block.Block) (string, error) {
		name, err := fieldValue(b, "VAR")
		if err != nil {
			return "", err
		}
		value, err := g.ValueCode(b, "VALUE")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", name, value), nil
	})

	g.Register("controls_if", func(g *Generator, b *block.Block) (string, error) {
		cond, err := g.ValueCode(b, "IF0")
		if err != nil {
			return "", err
		}
		body, err := g.StatementCode(b, "DO0")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("if %s {\n%s\n}", cond, indent(body)), nil
	})

	g.Register("controls_repeat_ext", func(g *Generator, b *block.Block) (string, error) {
		times, err := g.ValueCode(b, "TIMES")
		if err != nil {
			return "", err
		}
		body, err := g.StatementCode(b, "DO")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("repeat %s {\n%s\n}", times, indent(body)), nil
	})
}

// binaryOp builds a generator for two-operand blocks with a dropdown
// operator field
func binaryOp(left, right, opField string, ops map[string]string) GenFunc {
	return func(g *Generator, b *block.Block) (string, error) {
		opKey, err := fieldValue(b, opField)
		if err != nil {
			return "", err
		}
		op, ok := ops[opKey]
		if !ok {
			return "", fmt.Errorf("codegen: block %s: unknown operator: %s", b.Type(), opKey)
		}
		lhs, err := g.ValueCode(b, left)
		if err != nil {
			return "", err
		}
		rhs, err := g.ValueCode(b, right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", lhs, op, rhs), nil
	}
}
