package block

import "fmt"

// Connection is a typed, positioned attachment point owned by exactly one
// block. A connection has at most one partner; Connect and Disconnect always
// update both sides together. Position is absolute in workspace units and is
// maintained by the owning block when it moves; updating a position does NOT
// notify any spatial index, callers re-index explicitly.
type Connection struct {
	connType   ConnectionType
	position   Point
	owner      *Block
	target     *Connection
	shadow     *Connection
	checks     []string
	dragMode   bool
	inputIndex int
}

// newConnection creates a block-level connection. Input-level connections get
// their index assigned when the input is appended to a block.
func newConnection(t ConnectionType, checks []string) *Connection {
	return &Connection{
		connType:   t,
		checks:     checks,
		inputIndex: -1,
	}
}

// Type returns the connection type
func (c *Connection) Type() ConnectionType {
	return c.connType
}

// Owner returns the block this connection belongs to. Ownership never
// transfers for the lifetime of the connection.
func (c *Connection) Owner() *Block {
	return c.owner
}

// Target returns the partner connection, or nil if disconnected
func (c *Connection) Target() *Connection {
	return c.target
}

// TargetBlock returns the block on the other side of this connection, or nil
func (c *Connection) TargetBlock() *Block {
	if c.target == nil {
		return nil
	}
	return c.target.owner
}

// IsConnected reports whether this connection has a partner
func (c *Connection) IsConnected() bool {
	return c.target != nil
}

// InputIndex returns the index of the owning input on the block, or -1 for
// block-level previous/next/output connections
func (c *Connection) InputIndex() int {
	return c.inputIndex
}

// Checks returns a copy of the type check list. A nil list accepts anything.
func (c *Connection) Checks() []string {
	if c.checks == nil {
		return nil
	}
	out := make([]string, len(c.checks))
	copy(out, c.checks)
	return out
}

// Position returns the absolute workspace position of this connection
func (c *Connection) Position() Point {
	return c.position
}

// SetPosition updates the absolute position. The spatial index is not
// notified; callers must re-index after a batch of position updates.
func (c *Connection) SetPosition(x, y float64) {
	c.position = Point{X: x, Y: y}
}

// DistanceFrom returns the Euclidean distance to another connection. Used
// for ranking candidates, never for correctness.
func (c *Connection) DistanceFrom(other *Connection) float64 {
	return c.position.DistanceTo(other.position)
}

// IsDragMode reports whether this connection is excluded from spatial search
func (c *Connection) IsDragMode() bool {
	return c.dragMode
}

// SetDragMode marks or clears the transient drag exclusion flag
func (c *Connection) SetDragMode(dragMode bool) {
	c.dragMode = dragMode
}

// IsHighPriority reports whether this connection is one whose overlapping
// neighbours get bumped apart after a drop
func (c *Connection) IsHighPriority() bool {
	return c.connType == PreviousStatement || c.connType == InputValue
}

// ShadowConnection returns the remembered connection of a displaced shadow
// block, or nil. The shadow is not a live target, only a candidate for
// restoration when this connection's slot is vacated.
func (c *Connection) ShadowConnection() *Connection {
	return c.shadow
}

// SetShadowConnection remembers a displaced shadow occupant. At most one
// shadow reference may be held at a time.
func (c *Connection) SetShadowConnection(shadow *Connection) error {
	if c.shadow != nil && shadow != nil {
		return fmt.Errorf("connection already remembers a shadow occupant")
	}
	c.shadow = shadow
	return nil
}

// ClearShadowConnection forgets the remembered shadow occupant
func (c *Connection) ClearShadowConnection() {
	c.shadow = nil
}

// CanConnectWithReason checks whether this connection may be connected to
// other. Returns CanConnect or the specific reason the pair is rejected.
// This is a query for expected incompatibility, it never panics.
func (c *Connection) CanConnectWithReason(other *Connection) ConnectionResult {
	if other == nil {
		return ReasonTargetNull
	}
	if c.owner != nil && c.owner == other.owner {
		return ReasonSelfConnection
	}
	if other.connType != c.connType.Opposite() {
		return ReasonWrongType
	}
	if c.IsConnected() || other.IsConnected() {
		return ReasonMustDisconnect
	}
	return c.CanConnectWhenFreed(other)
}

// CanConnectWhenFreed checks whether this connection could bond to other once
// other's current partner is disconnected. Occupancy of other is ignored;
// every other rule still applies. Displacement protocols use this to validate
// the final pairing before disturbing the occupant.
func (c *Connection) CanConnectWhenFreed(other *Connection) ConnectionResult {
	if other == nil {
		return ReasonTargetNull
	}
	if c.owner != nil && c.owner == other.owner {
		return ReasonSelfConnection
	}
	if other.connType != c.connType.Opposite() {
		return ReasonWrongType
	}
	if c.IsConnected() {
		return ReasonMustDisconnect
	}

	parent, child := orientPair(c, other)
	if parent.owner != nil && child.owner != nil {
		// Connecting a block beneath one of its own descendants would
		// close a cycle in the tree.
		if parent.owner.IsDescendantOf(child.owner) {
			return ReasonSelfConnection
		}
		// A shadow block may hold shadow children only.
		if parent.owner.IsShadow() && !child.owner.IsShadow() {
			return ReasonShadowOperation
		}
	}

	if !checksIntersect(c.checks, other.checks) {
		return ReasonChecksFailed
	}
	return CanConnect
}

// Connect sets this connection and other as mutual partners. Preconditions
// must be established with CanConnectWithReason; violating them is a
// programming error and panics rather than corrupting the tree.
func (c *Connection) Connect(other *Connection) {
	if r := c.CanConnectWithReason(other); r != CanConnect {
		panic(fmt.Sprintf("block: illegal connect %s -> %s: %s", c.connType, typeOf(other), r))
	}
	c.target = other
	other.target = c
}

// Disconnect clears both sides of the connection. No-op when disconnected.
func (c *Connection) Disconnect() {
	if c.target == nil {
		return
	}
	other := c.target
	c.target = nil
	other.target = nil
}

// orientPair returns the parent-side and child-side connections of a pair.
// Assumes the types are a compatible pair.
func orientPair(a, b *Connection) (parent, child *Connection) {
	if a.connType.IsParentSide() {
		return a, b
	}
	return b, a
}

// checksIntersect reports whether two check lists share at least one entry.
// A nil list is a wildcard that accepts anything.
func checksIntersect(a, b []string) bool {
	if a == nil || b == nil {
		return true
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func typeOf(c *Connection) string {
	if c == nil {
		return "nil"
	}
	return c.connType.String()
}
