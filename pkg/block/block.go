package block

import (
	"errors"
	"fmt"
)

// Block is a node of the program tree. A block is either a statement shape
// (previous and/or next connections) or a value shape (output connection),
// never both. Inputs hold fields and optional child blocks. The block graph
// is a forest: connect operations refuse cycles, and the workspace tracks
// the set of parentless roots.
type Block struct {
	id        BlockID
	blockType string
	position  Point

	previous *Connection
	next     *Connection
	output   *Connection
	inputs   []*Input

	// Movable, Deletable and Editable gate user-driven mutation
	Movable   bool
	Deletable bool
	Editable  bool
	// Disabled excludes the block from code generation
	Disabled bool

	shadow       bool
	colour       string
	inputsInline bool
}

// New creates a block of the given definition type with a fresh ID and no
// connections. Connections and inputs are appended by the factory layer.
func New(blockType string) *Block {
	return &Block{
		id:        NewBlockID(),
		blockType: blockType,
		Movable:   true,
		Deletable: true,
		Editable:  true,
	}
}

// ID returns the block's unique identifier
func (b *Block) ID() BlockID {
	return b.id
}

// SetID overrides the generated identifier, used when loading serialized
// workspaces that carry explicit IDs
func (b *Block) SetID(id BlockID) error {
	if id == "" {
		return errors.New("block: empty block ID")
	}
	b.id = id
	return nil
}

// Type returns the definition name this block was built from
func (b *Block) Type() string {
	return b.blockType
}

// Colour returns the block's display colour
func (b *Block) Colour() string {
	return b.colour
}

// SetColour sets the block's display colour
func (b *Block) SetColour(colour string) {
	b.colour = colour
}

// InputsInline reports whether value inputs render on a single row
func (b *Block) InputsInline() bool {
	return b.inputsInline
}

// SetInputsInline sets the inline rendering hint
func (b *Block) SetInputsInline(inline bool) {
	b.inputsInline = inline
}

// IsShadow reports whether this block is a placeholder shadow block
func (b *Block) IsShadow() bool {
	return b.shadow
}

// SetShadow marks the block as a shadow placeholder. Shadow blocks cannot be
// dragged independently and are displaced when a real block takes their slot.
func (b *Block) SetShadow(shadow bool) {
	b.shadow = shadow
}

// Position returns the block's workspace position. It is authoritative only
// for root blocks; connected blocks derive their place from the parent chain.
func (b *Block) Position() Point {
	return b.position
}

// SetPreviousConnection gives the block an upward statement connection.
// Mutually exclusive with an output connection.
func (b *Block) SetPreviousConnection(checks []string) error {
	if b.output != nil {
		return fmt.Errorf("block %s: cannot have both previous and output connections", b.blockType)
	}
	if b.previous != nil {
		return fmt.Errorf("block %s: previous connection already set", b.blockType)
	}
	b.previous = newConnection(PreviousStatement, checks)
	b.previous.owner = b
	return nil
}

// SetNextConnection gives the block a downward statement connection
func (b *Block) SetNextConnection(checks []string) error {
	if b.next != nil {
		return fmt.Errorf("block %s: next connection already set", b.blockType)
	}
	b.next = newConnection(NextStatement, checks)
	b.next.owner = b
	return nil
}

// SetOutputConnection gives the block a value output connection.
// Mutually exclusive with a previous connection.
func (b *Block) SetOutputConnection(checks []string) error {
	if b.previous != nil {
		return fmt.Errorf("block %s: cannot have both output and previous connections", b.blockType)
	}
	if b.output != nil {
		return fmt.Errorf("block %s: output connection already set", b.blockType)
	}
	b.output = newConnection(OutputValue, checks)
	b.output.owner = b
	return nil
}

// PreviousConnection returns the upward statement connection, or nil
func (b *Block) PreviousConnection() *Connection {
	return b.previous
}

// NextConnection returns the downward statement connection, or nil
func (b *Block) NextConnection() *Connection {
	return b.next
}

// OutputConnection returns the value output connection, or nil
func (b *Block) OutputConnection() *Connection {
	return b.output
}

// AppendInput adds an input row. The input's connection, if any, becomes
// owned by this block and records its input index.
func (b *Block) AppendInput(in *Input) error {
	if in == nil {
		return errors.New("block: cannot append nil input")
	}
	if in.name != "" && b.Input(in.name) != nil {
		return fmt.Errorf("block %s: duplicate input name: %s", b.blockType, in.name)
	}
	if in.connection != nil {
		in.connection.owner = b
		in.connection.inputIndex = len(b.inputs)
	}
	b.inputs = append(b.inputs, in)
	return nil
}

// Inputs returns the block's input rows in order
func (b *Block) Inputs() []*Input {
	return b.inputs
}

// Input returns the named input, or nil
func (b *Block) Input(name string) *Input {
	for _, in := range b.inputs {
		if in.name == name {
			return in
		}
	}
	return nil
}

// Field returns the named field from any input row, or nil
func (b *Block) Field(name string) *Field {
	for _, in := range b.inputs {
		if f := in.Field(name); f != nil {
			return f
		}
	}
	return nil
}

// ParentConnection returns the connection through which this block attaches
// to a parent: the output connection for value shapes, otherwise the
// previous connection. May be nil or disconnected.
func (b *Block) ParentConnection() *Connection {
	if b.output != nil {
		return b.output
	}
	return b.previous
}

// ParentBlock returns the block this one is attached beneath, or nil
func (b *Block) ParentBlock() *Block {
	pc := b.ParentConnection()
	if pc == nil {
		return nil
	}
	return pc.TargetBlock()
}

// RootBlock walks the parent chain to the tree root
func (b *Block) RootBlock() *Block {
	root := b
	for {
		parent := root.ParentBlock()
		if parent == nil {
			return root
		}
		root = parent
	}
}

// NextBlock returns the block connected after this one in a statement
// sequence, or nil
func (b *Block) NextBlock() *Block {
	if b.next == nil {
		return nil
	}
	return b.next.TargetBlock()
}

// LastBlockInSequence follows the next chain to its final block
func (b *Block) LastBlockInSequence() *Block {
	last := b
	for next := last.NextBlock(); next != nil; next = last.NextBlock() {
		last = next
	}
	return last
}

// ChildBlocks returns the directly attached children: input occupants and
// the next block, in input order
func (b *Block) ChildBlocks() []*Block {
	var children []*Block
	for _, in := range b.inputs {
		if child := in.ConnectedBlock(); child != nil {
			children = append(children, child)
		}
	}
	if next := b.NextBlock(); next != nil {
		children = append(children, next)
	}
	return children
}

// IsDescendantOf reports whether other appears on this block's parent chain.
// A block is considered a descendant of itself.
func (b *Block) IsDescendantOf(other *Block) bool {
	for cur := b; cur != nil; cur = cur.ParentBlock() {
		if cur == other {
			return true
		}
	}
	return false
}

// AllConnections returns this block's own connections in a stable order:
// previous, next, output, then input connections
func (b *Block) AllConnections() []*Connection {
	conns := make([]*Connection, 0, 3+len(b.inputs))
	if b.previous != nil {
		conns = append(conns, b.previous)
	}
	if b.next != nil {
		conns = append(conns, b.next)
	}
	if b.output != nil {
		conns = append(conns, b.output)
	}
	for _, in := range b.inputs {
		if in.connection != nil {
			conns = append(conns, in.connection)
		}
	}
	return conns
}

// AllConnectionsRecursive returns the connections of this block and every
// block attached beneath it, including the next chain
func (b *Block) AllConnectionsRecursive() []*Connection {
	conns := b.AllConnections()
	for _, child := range b.ChildBlocks() {
		conns = append(conns, child.AllConnectionsRecursive()...)
	}
	return conns
}

// Descendants returns this block and every block attached beneath it
func (b *Block) Descendants() []*Block {
	blocks := []*Block{b}
	for _, child := range b.ChildBlocks() {
		blocks = append(blocks, child.Descendants()...)
	}
	return blocks
}

// MoveTo places the block at an absolute position, translating the whole
// subtree and its connection positions with it
func (b *Block) MoveTo(p Point) {
	b.MoveBy(p.X-b.position.X, p.Y-b.position.Y)
}

// MoveBy translates the block, its connections, and every attached child by
// the given delta. Spatial index membership is untouched; callers re-index.
func (b *Block) MoveBy(dx, dy float64) {
	b.position.X += dx
	b.position.Y += dy
	for _, c := range b.AllConnections() {
		c.position.X += dx
		c.position.Y += dy
	}
	for _, child := range b.ChildBlocks() {
		child.MoveBy(dx, dy)
	}
}

// Copy returns a deep copy of the block and its entire subtree: fresh IDs,
// fresh connections, copied fields, with child copies re-attached the way
// the originals were. Remembered shadow occupants are copied as well.
func (b *Block) Copy() *Block {
	nb := &Block{
		id:           NewBlockID(),
		blockType:    b.blockType,
		position:     b.position,
		Movable:      b.Movable,
		Deletable:    b.Deletable,
		Editable:     b.Editable,
		Disabled:     b.Disabled,
		shadow:       b.shadow,
		colour:       b.colour,
		inputsInline: b.inputsInline,
	}
	if b.previous != nil {
		nb.previous = newConnection(PreviousStatement, b.previous.Checks())
		nb.previous.owner = nb
		nb.previous.position = b.previous.position
	}
	if b.next != nil {
		nb.next = newConnection(NextStatement, b.next.Checks())
		nb.next.owner = nb
		nb.next.position = b.next.position
	}
	if b.output != nil {
		nb.output = newConnection(OutputValue, b.output.Checks())
		nb.output.owner = nb
		nb.output.position = b.output.position
	}
	for _, in := range b.inputs {
		ni := in.copyShallow()
		if ni.connection != nil {
			ni.connection.owner = nb
			ni.connection.inputIndex = len(nb.inputs)
		}
		nb.inputs = append(nb.inputs, ni)

		if in.connection != nil {
			if child := in.ConnectedBlock(); child != nil {
				childCopy := child.Copy()
				childCopy.ParentConnection().Connect(ni.connection)
			}
			if sc := in.connection.ShadowConnection(); sc != nil {
				shadowCopy := sc.Owner().Copy()
				_ = ni.connection.SetShadowConnection(shadowCopy.ParentConnection())
			}
		}
	}
	if b.next != nil {
		if next := b.NextBlock(); next != nil {
			nextCopy := next.Copy()
			nextCopy.previous.Connect(nb.next)
		}
		if sc := b.next.ShadowConnection(); sc != nil {
			shadowCopy := sc.Owner().Copy()
			_ = nb.next.SetShadowConnection(shadowCopy.ParentConnection())
		}
	}
	return nb
}
