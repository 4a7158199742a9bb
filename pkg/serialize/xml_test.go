package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/blockdef"
	"github.com/dshills/goblocks/pkg/editor"
	"github.com/dshills/goblocks/pkg/workspace"
)

func buildProgram(t *testing.T) (*workspace.Workspace, *blockdef.Registry) {
	t.Helper()
	reg := blockdef.StandardRegistry()
	ws := workspace.NewWorkspace()
	ctrl := editor.NewController(ws)

	require.NoError(t, ws.Variables().Create("x"))

	set, err := reg.ObtainBlock("variables_set")
	require.NoError(t, err)
	require.NoError(t, set.Field("VAR").SetFromString("x"))
	require.NoError(t, ws.AddRootBlock(set))
	require.NoError(t, ctrl.MoveRootBlock(set, 10, 20))

	num, err := reg.ObtainBlock("math_number")
	require.NoError(t, err)
	require.NoError(t, num.Field("NUM").SetFromString("42"))
	require.NoError(t, ws.AddRootBlock(num))
	require.NoError(t, ctrl.Connect(num.OutputConnection(), set.Input("VALUE").Connection()))

	print_, err := reg.ObtainBlock("text_print")
	require.NoError(t, err)
	require.NoError(t, ws.AddRootBlock(print_))
	require.NoError(t, ctrl.Connect(print_.PreviousConnection(), set.NextConnection()))

	return ws, reg
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ws, reg := buildProgram(t)
	ser := NewSerializer(reg)

	data, err := ser.Save(ws)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<block type="variables_set"`)
	assert.Contains(t, string(data), `<variable>x</variable>`)

	loaded := workspace.NewWorkspace()
	require.NoError(t, ser.Load(data, loaded))

	require.Len(t, loaded.RootBlocks(), 1)
	root := loaded.RootBlocks()[0]
	assert.Equal(t, "variables_set", root.Type())
	assert.Equal(t, block.Point{X: 10, Y: 20}, root.Position())
	assert.Equal(t, "x", root.Field("VAR").Text)
	assert.True(t, loaded.Variables().Has("x"))

	child := root.Input("VALUE").ConnectedBlock()
	require.NotNil(t, child)
	assert.Equal(t, "math_number", child.Type())
	assert.Equal(t, "42", child.Field("NUM").SerializedValue())
	// loaded children align to their parent sockets
	assert.Equal(t, root.Input("VALUE").Connection().Position(), child.OutputConnection().Position())

	next := root.NextBlock()
	require.NotNil(t, next)
	assert.Equal(t, "text_print", next.Type())

	// block IDs survive the round trip
	assert.Equal(t, ws.RootBlocks()[0].ID(), root.ID())
	assert.Equal(t, ws.BlockCount(), loaded.BlockCount())
}

func TestShadowRoundTrip(t *testing.T) {
	reg := blockdef.StandardRegistry()
	ws := workspace.NewWorkspace()
	ctrl := editor.NewController(ws)

	holder, err := reg.ObtainBlock("text_print")
	require.NoError(t, err)
	require.NoError(t, ws.AddRootBlock(holder))

	shadow, err := reg.ObtainBlock("text")
	require.NoError(t, err)
	shadow.SetShadow(true)
	require.NoError(t, ws.AddRootBlock(shadow))
	require.NoError(t, ctrl.Connect(shadow.OutputConnection(), holder.Input("TEXT").Connection()))

	ser := NewSerializer(reg)

	// a lone shadow occupant serializes as a shadow element
	data, err := ser.Save(ws)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<shadow")

	loaded := workspace.NewWorkspace()
	require.NoError(t, ser.Load(data, loaded))
	occupant := loaded.RootBlocks()[0].Input("TEXT").ConnectedBlock()
	require.NotNil(t, occupant)
	assert.True(t, occupant.IsShadow())

	// a real block covering a remembered shadow serializes as both
	real, err := reg.ObtainBlock("text")
	require.NoError(t, err)
	require.NoError(t, real.Field("TEXT").SetFromString("hello"))
	require.NoError(t, ws.AddRootBlock(real))
	require.NoError(t, ctrl.Connect(real.OutputConnection(), holder.Input("TEXT").Connection()))

	data, err = ser.Save(ws)
	require.NoError(t, err)

	loaded = workspace.NewWorkspace()
	require.NoError(t, ser.Load(data, loaded))
	parentConn := loaded.RootBlocks()[0].Input("TEXT").Connection()
	occupant = parentConn.TargetBlock()
	require.NotNil(t, occupant)
	assert.False(t, occupant.IsShadow())
	assert.Equal(t, "hello", occupant.Field("TEXT").Text)
	require.NotNil(t, parentConn.ShadowConnection(), "remembered shadow survives the round trip")
	assert.True(t, parentConn.ShadowConnection().Owner().IsShadow())
}

func TestLoadErrors(t *testing.T) {
	reg := blockdef.StandardRegistry()
	ser := NewSerializer(reg)

	tests := []struct {
		name string
		xml  string
	}{
		{"not xml", `{"not": "xml"}`},
		{"unknown type", `<xml><block type="no_such_block"/></xml>`},
		{"unknown field", `<xml><block type="math_number"><field name="BOGUS">1</field></block></xml>`},
		{"bad field value", `<xml><block type="math_number"><field name="NUM">abc</field></block></xml>`},
		{"unknown input", `<xml><block type="text_print"><value name="NOPE"><block type="text"/></value></block></xml>`},
		{"incompatible child", `<xml><block type="math_arithmetic"><value name="A"><block type="text"/></value></block></xml>`},
		{"next without socket", `<xml><block type="math_number"><next><block type="text_print"/></next></block></xml>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := workspace.NewWorkspace()
			err := ser.Load([]byte(tt.xml), ws)
			require.Error(t, err)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}
