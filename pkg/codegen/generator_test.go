package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/blockdef"
	"github.com/dshills/goblocks/pkg/editor"
	"github.com/dshills/goblocks/pkg/workspace"
)

func obtain(t *testing.T, reg *blockdef.Registry, blockType string) *block.Block {
	t.Helper()
	b, err := reg.ObtainBlock(blockType)
	require.NoError(t, err)
	return b
}

// connectValue attaches a value block to a named input without going through
// a workspace
func connectValue(t *testing.T, parent *block.Block, inputName string, child *block.Block) {
	t.Helper()
	child.OutputConnection().Connect(parent.Input(inputName).Connection())
}

func numberBlock(t *testing.T, reg *blockdef.Registry, value string) *block.Block {
	t.Helper()
	b := obtain(t, reg, "math_number")
	require.NoError(t, b.Field("NUM").SetFromString(value))
	return b
}

func TestGenerateArithmetic(t *testing.T) {
	reg := blockdef.StandardRegistry()
	gen := NewGenerator()

	sum := obtain(t, reg, "math_arithmetic")
	require.NoError(t, sum.Field("OP").SetFromString("ADD"))
	connectValue(t, sum, "A", numberBlock(t, reg, "1"))
	connectValue(t, sum, "B", numberBlock(t, reg, "2"))

	code, err := gen.BlockCode(sum)
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2)", code)
}

func TestGenerateStatements(t *testing.T) {
	reg := blockdef.StandardRegistry()
	gen := NewGenerator()

	set := obtain(t, reg, "variables_set")
	require.NoError(t, set.Field("VAR").SetFromString("x"))
	connectValue(t, set, "VALUE", numberBlock(t, reg, "5"))

	print_ := obtain(t, reg, "text_print")
	get := obtain(t, reg, "variables_get")
	require.NoError(t, get.Field("VAR").SetFromString("x"))
	connectValue(t, print_, "TEXT", get)
	print_.PreviousConnection().Connect(set.NextConnection())

	code, err := gen.ChainCode(set)
	require.NoError(t, err)
	assert.Equal(t, "x = 5\nprint(x)", code)
}

func TestGenerateControlFlow(t *testing.T) {
	reg := blockdef.StandardRegistry()
	gen := NewGenerator()

	cmp := obtain(t, reg, "logic_compare")
	require.NoError(t, cmp.Field("OP").SetFromString("GT"))
	connectValue(t, cmp, "A", numberBlock(t, reg, "3"))
	connectValue(t, cmp, "B", numberBlock(t, reg, "2"))

	iff := obtain(t, reg, "controls_if")
	connectValue(t, iff, "IF0", cmp)

	body := obtain(t, reg, "text_print")
	txt := obtain(t, reg, "text")
	require.NoError(t, txt.Field("TEXT").SetFromString("yes"))
	connectValue(t, body, "TEXT", txt)
	body.PreviousConnection().Connect(iff.Input("DO0").Connection())

	code, err := gen.BlockCode(iff)
	require.NoError(t, err)
	assert.Equal(t, "if (3 > 2) {\n  print(\"yes\")\n}", code)
}

func TestGenerateErrors(t *testing.T) {
	reg := blockdef.StandardRegistry()
	gen := NewGenerator()

	unknown := block.New("mystery")
	_, err := gen.BlockCode(unknown)
	assert.ErrorIs(t, err, ErrNoGenerator)

	// empty required value input
	sum := obtain(t, reg, "math_arithmetic")
	_, err = gen.BlockCode(sum)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestWorkspaceCodeOrdersByPosition(t *testing.T) {
	reg := blockdef.StandardRegistry()
	gen := NewGenerator()
	ws := workspace.NewWorkspace()
	ctrl := editor.NewController(ws)

	lower := obtain(t, reg, "variables_set")
	require.NoError(t, lower.Field("VAR").SetFromString("b"))
	connectValue(t, lower, "VALUE", numberBlock(t, reg, "2"))
	require.NoError(t, ws.AddRootBlock(lower))
	require.NoError(t, ctrl.MoveRootBlock(lower, 0, 100))

	upper := obtain(t, reg, "variables_set")
	require.NoError(t, upper.Field("VAR").SetFromString("a"))
	connectValue(t, upper, "VALUE", numberBlock(t, reg, "1"))
	require.NoError(t, ws.AddRootBlock(upper))

	code, err := gen.WorkspaceCode(ws)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n\nb = 2", code)
}

func TestEvaluator(t *testing.T) {
	reg := blockdef.StandardRegistry()
	gen := NewGenerator()
	eval := NewEvaluator(gen)
	ctx := context.Background()

	sum := obtain(t, reg, "math_arithmetic")
	require.NoError(t, sum.Field("OP").SetFromString("ADD"))
	connectValue(t, sum, "A", numberBlock(t, reg, "1"))
	connectValue(t, sum, "B", numberBlock(t, reg, "2"))

	result, err := eval.EvaluateBlock(ctx, sum, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result)

	// variables resolve from the environment
	result, err = eval.Evaluate(ctx, "x * 2", map[string]interface{}{"x": 21})
	require.NoError(t, err)
	assert.EqualValues(t, 42, result)

	ok, err := eval.EvaluateBool(ctx, "(3 > 2) && true", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = eval.EvaluateBool(ctx, "1 + 1", nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)

	_, err = eval.Evaluate(ctx, "1 +", nil)
	assert.ErrorIs(t, err, ErrInvalidExpression)
}

func TestEvaluatorContextCancelled(t *testing.T) {
	eval := NewEvaluator(NewGenerator())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eval.Evaluate(ctx, "1 + 1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
