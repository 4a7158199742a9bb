package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatementBlock(t *testing.T) *Block {
	t.Helper()
	b := New("statement")
	require.NoError(t, b.SetPreviousConnection(nil))
	require.NoError(t, b.SetNextConnection(nil))
	return b
}

func newValueBlock(t *testing.T, checks []string) *Block {
	t.Helper()
	b := New("value")
	require.NoError(t, b.SetOutputConnection(checks))
	return b
}

func TestConnectionTypeOpposite(t *testing.T) {
	assert.Equal(t, NextStatement, PreviousStatement.Opposite())
	assert.Equal(t, PreviousStatement, NextStatement.Opposite())
	assert.Equal(t, OutputValue, InputValue.Opposite())
	assert.Equal(t, InputValue, OutputValue.Opposite())
}

func TestConnectionTypeParentSide(t *testing.T) {
	assert.True(t, NextStatement.IsParentSide())
	assert.True(t, InputValue.IsParentSide())
	assert.False(t, PreviousStatement.IsParentSide())
	assert.False(t, OutputValue.IsParentSide())
}

func TestCanConnect_NilTarget(t *testing.T) {
	b := newStatementBlock(t)
	assert.Equal(t, ReasonTargetNull, b.PreviousConnection().CanConnectWithReason(nil))
}

func TestCanConnect_SelfConnection(t *testing.T) {
	b := newStatementBlock(t)
	got := b.PreviousConnection().CanConnectWithReason(b.NextConnection())
	assert.Equal(t, ReasonSelfConnection, got)
}

func TestCanConnect_WrongType(t *testing.T) {
	a := newStatementBlock(t)
	b := newStatementBlock(t)
	// previous to previous is never a valid pairing
	got := a.PreviousConnection().CanConnectWithReason(b.PreviousConnection())
	assert.Equal(t, ReasonWrongType, got)

	v := newValueBlock(t, nil)
	got = a.PreviousConnection().CanConnectWithReason(v.OutputConnection())
	assert.Equal(t, ReasonWrongType, got)
}

func TestCanConnect_Compatible(t *testing.T) {
	a := newStatementBlock(t)
	b := newStatementBlock(t)
	assert.Equal(t, CanConnect, a.NextConnection().CanConnectWithReason(b.PreviousConnection()))
	assert.Equal(t, CanConnect, b.PreviousConnection().CanConnectWithReason(a.NextConnection()))
}

func TestCanConnect_ChecksIntersection(t *testing.T) {
	holder := New("holder")
	require.NoError(t, holder.AppendInput(NewValueInput("VALUE", []string{"Number"})))
	in := holder.Input("VALUE").Connection()

	num := newValueBlock(t, []string{"Number"})
	str := newValueBlock(t, []string{"String"})
	multi := newValueBlock(t, []string{"String", "Number"})
	wild := newValueBlock(t, nil)

	assert.Equal(t, CanConnect, num.OutputConnection().CanConnectWithReason(in))
	assert.Equal(t, ReasonChecksFailed, str.OutputConnection().CanConnectWithReason(in))
	assert.Equal(t, CanConnect, multi.OutputConnection().CanConnectWithReason(in))
	// nil check list is a wildcard on either side
	assert.Equal(t, CanConnect, wild.OutputConnection().CanConnectWithReason(in))
}

func TestCanConnect_MustDisconnect(t *testing.T) {
	a := newStatementBlock(t)
	b := newStatementBlock(t)
	c := newStatementBlock(t)
	a.NextConnection().Connect(b.PreviousConnection())

	got := c.PreviousConnection().CanConnectWithReason(a.NextConnection())
	assert.Equal(t, ReasonMustDisconnect, got)
	got = a.NextConnection().CanConnectWithReason(c.PreviousConnection())
	assert.Equal(t, ReasonMustDisconnect, got)
}

func TestCanConnect_CycleRejected(t *testing.T) {
	parent := New("holder")
	require.NoError(t, parent.SetPreviousConnection(nil))
	require.NoError(t, parent.AppendInput(NewStatementInput("DO", nil)))

	child := newStatementBlock(t)
	child.PreviousConnection().Connect(parent.Input("DO").Connection())

	// connecting the parent beneath its own descendant would form a cycle
	got := parent.PreviousConnection().CanConnectWithReason(child.NextConnection())
	assert.Equal(t, ReasonSelfConnection, got)
}

func TestCanConnect_ShadowParentOfRealChild(t *testing.T) {
	shadow := New("holder")
	shadow.SetShadow(true)
	require.NoError(t, shadow.AppendInput(NewValueInput("VALUE", nil)))

	real := newValueBlock(t, nil)
	got := real.OutputConnection().CanConnectWithReason(shadow.Input("VALUE").Connection())
	assert.Equal(t, ReasonShadowOperation, got)

	// a shadow child under a real parent is fine
	realParent := New("holder")
	require.NoError(t, realParent.AppendInput(NewValueInput("VALUE", nil)))
	shadowChild := newValueBlock(t, nil)
	shadowChild.SetShadow(true)
	got = shadowChild.OutputConnection().CanConnectWithReason(realParent.Input("VALUE").Connection())
	assert.Equal(t, CanConnect, got)
}

func TestConnectDisconnect(t *testing.T) {
	a := newStatementBlock(t)
	b := newStatementBlock(t)

	a.NextConnection().Connect(b.PreviousConnection())
	assert.True(t, a.NextConnection().IsConnected())
	assert.True(t, b.PreviousConnection().IsConnected())
	assert.Same(t, b, a.NextConnection().TargetBlock())
	assert.Same(t, a, b.PreviousConnection().TargetBlock())

	b.PreviousConnection().Disconnect()
	assert.False(t, a.NextConnection().IsConnected())
	assert.False(t, b.PreviousConnection().IsConnected())
	assert.Nil(t, a.NextConnection().Target())
}

func TestConnect_PanicsOnIllegalPairing(t *testing.T) {
	a := newStatementBlock(t)
	b := newStatementBlock(t)
	assert.Panics(t, func() {
		a.PreviousConnection().Connect(b.PreviousConnection())
	})
}

func TestShadowConnectionSlot(t *testing.T) {
	holder := New("holder")
	require.NoError(t, holder.AppendInput(NewValueInput("VALUE", nil)))
	in := holder.Input("VALUE").Connection()

	s1 := newValueBlock(t, nil)
	s1.SetShadow(true)
	s2 := newValueBlock(t, nil)
	s2.SetShadow(true)

	require.NoError(t, in.SetShadowConnection(s1.OutputConnection()))
	assert.Same(t, s1.OutputConnection(), in.ShadowConnection())

	// one remembered shadow at a time
	assert.Error(t, in.SetShadowConnection(s2.OutputConnection()))

	in.ClearShadowConnection()
	assert.Nil(t, in.ShadowConnection())
	require.NoError(t, in.SetShadowConnection(s2.OutputConnection()))
}

func TestIsHighPriority(t *testing.T) {
	st := newStatementBlock(t)
	assert.True(t, st.PreviousConnection().IsHighPriority())
	assert.False(t, st.NextConnection().IsHighPriority())

	holder := New("holder")
	require.NoError(t, holder.AppendInput(NewValueInput("VALUE", nil)))
	assert.True(t, holder.Input("VALUE").Connection().IsHighPriority())

	v := newValueBlock(t, nil)
	assert.False(t, v.OutputConnection().IsHighPriority())
}
