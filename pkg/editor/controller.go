package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/workspace"
)

// Default geometry for snap resolution and bump-apart
const (
	// DefaultSnapRadius is the maximum distance at which two connections
	// are considered close enough to bond on drop
	DefaultSnapRadius = 24.0
	// DefaultBumpMargin is how far overlapping trees are nudged apart
	DefaultBumpMargin = 16.0
)

// Common controller errors
var (
	// ErrIncompatibleConnection is returned when a requested connect is not
	// allowed between the two connections
	ErrIncompatibleConnection = errors.New("connections are incompatible")
	// ErrConnectionOccupied is returned when a connection that must be free
	// already has a partner that cannot be displaced
	ErrConnectionOccupied = errors.New("connection already occupied")
	// ErrBlockNotDeletable is returned when trashing a pinned block
	ErrBlockNotDeletable = errors.New("block is not deletable")
)

// Controller orchestrates the block-tree mutation protocol on top of a
// workspace: joining connections (with shadow displacement and statement
// splicing), extracting blocks as independent roots, trashing trees, and
// bumping unconnected neighbours apart after a drop. The drag layer drives
// it; serialization layers reuse it so loaded structure passes the same
// validation as interactive edits.
type Controller struct {
	ws         *workspace.Workspace
	snapRadius float64
	bumpMargin float64
}

// NewController creates a controller over the given workspace with default
// snap and bump geometry
func NewController(ws *workspace.Workspace) *Controller {
	return &Controller{
		ws:         ws,
		snapRadius: DefaultSnapRadius,
		bumpMargin: DefaultBumpMargin,
	}
}

// Workspace returns the workspace this controller mutates
func (c *Controller) Workspace() *workspace.Workspace {
	return c.ws
}

// SnapRadius returns the configured snap search radius
func (c *Controller) SnapRadius() float64 {
	return c.snapRadius
}

// SetSnapRadius overrides the snap search radius
func (c *Controller) SetSnapRadius(r float64) {
	c.snapRadius = r
}

// SetBumpMargin overrides the bump-apart margin
func (c *Controller) SetBumpMargin(m float64) {
	c.bumpMargin = m
}

// Connect joins the moving connection to the target connection, running the
// full protocol:
//
//   - a shadow occupant of the target is displaced and remembered on the
//     target connection for later restoration;
//   - a real next-chain occupant is spliced onto the tail of the moving
//     chain when the tail accepts it, otherwise it becomes a bumped root;
//   - a real value occupant becomes a bumped root;
//   - a root moving block leaves the root set;
//   - the child subtree is translated so the joined connections coincide.
//
// Incompatibility is reported as an error, so callers assembling structure
// (e.g. deserialization) can rely on Connect to validate it.
func (c *Controller) Connect(moving, target *block.Connection) error {
	if moving == nil || target == nil {
		return errors.New("editor: cannot connect nil connection")
	}
	if moving.IsConnected() {
		return fmt.Errorf("editor: moving connection: %w", ErrConnectionOccupied)
	}
	switch r := moving.CanConnectWithReason(target); r {
	case block.CanConnect:
	case block.ReasonMustDisconnect:
		// The only removable obstacle is target's occupant. Validate the
		// final pairing before disturbing any state, so a doomed connect
		// leaves the occupant untouched.
		if rr := moving.CanConnectWhenFreed(target); rr != block.CanConnect {
			return fmt.Errorf("editor: connect %s to %s: %w: %s",
				moving.Type(), target.Type(), ErrIncompatibleConnection, rr)
		}
	default:
		return fmt.Errorf("editor: connect %s to %s: %w: %s",
			moving.Type(), target.Type(), ErrIncompatibleConnection, r)
	}

	var spliceTail *block.Connection // free next connection on the moving chain's tail
	var spliced *block.Connection    // previous connection of the displaced next chain
	var displaced *block.Block       // displaced real block, now a root

	if target.IsConnected() {
		// Only a parent-side target can have its occupant displaced. A
		// connected child-side target's partner is the occupant's parent;
		// stealing it is not part of the protocol, even when the parent is
		// a shadow.
		if !target.Type().IsParentSide() {
			return fmt.Errorf("editor: target %s connection: %w", target.Type(), ErrConnectionOccupied)
		}
		occupant := target.TargetBlock()
		if occupant.IsShadow() {
			if err := c.displaceShadow(target); err != nil {
				return err
			}
		} else if target.Type() == block.NextStatement {
			old := target.Target()
			target.Disconnect()
			c.notifyBlock(workspace.EventBlockDisconnected, old.Owner())
			tail := moving.Owner().LastBlockInSequence()
			if tc := tail.NextConnection(); tc != nil && tc.CanConnectWithReason(old) == block.CanConnect {
				spliceTail, spliced = tc, old
			} else {
				_ = c.ws.MarkRoot(old.Owner())
				displaced = old.Owner()
			}
		} else {
			old := target.Target()
			target.Disconnect()
			c.notifyBlock(workspace.EventBlockDisconnected, old.Owner())
			_ = c.ws.MarkRoot(old.Owner())
			displaced = old.Owner()
		}
	}

	parent, child := orient(moving, target)
	childBlock := child.Owner()
	if c.ws.IsRootBlock(childBlock) {
		_ = c.ws.UnmarkRoot(childBlock)
	}

	moving.Connect(target)
	c.notifyBlock(workspace.EventBlockConnected, childBlock)
	c.alignChild(parent, child)

	if spliceTail != nil {
		spliceTail.Connect(spliced)
		c.notifyBlock(workspace.EventBlockConnected, spliced.Owner())
		c.alignChild(spliceTail, spliced)
	}
	if displaced != nil {
		c.moveSubtree(displaced, c.bumpMargin, c.bumpMargin)
		c.notifyBlock(workspace.EventBlockMoved, displaced)
	}
	return nil
}

// ExtractBlockAsRoot disconnects a block from its parent, if any, and makes
// it an independent root with its subtree intact. When the vacated parent
// slot remembered a displaced shadow, the shadow is reinstated.
func (c *Controller) ExtractBlockAsRoot(b *block.Block) error {
	if b == nil {
		return errors.New("editor: cannot extract nil block")
	}
	if c.ws.BlockByID(b.ID()) != b {
		return fmt.Errorf("editor: %w: %s", workspace.ErrBlockNotFound, b.ID())
	}
	if pc := b.ParentConnection(); pc != nil && pc.IsConnected() {
		parentSide := pc.Target()
		pc.Disconnect()
		c.notifyBlock(workspace.EventBlockDisconnected, b)
		c.restoreShadow(parentSide)
	}
	return c.ws.MarkRoot(b)
}

// TrashRootBlock removes a root block and its entire subtree from the
// workspace. Shadow occupants remembered inside the trashed subtree die with
// it; restoration applies only to surviving parents.
func (c *Controller) TrashRootBlock(b *block.Block) error {
	if b == nil {
		return errors.New("editor: cannot trash nil block")
	}
	if !b.Deletable {
		return fmt.Errorf("editor: %w: %s", ErrBlockNotDeletable, b.ID())
	}
	return c.ws.RemoveRootBlock(b)
}

// BumpNeighbours nudges other trees away from every unconnected
// high-priority connection on the moved block's subtree, so a freshly placed
// tree never visually overlaps unconnected neighbours. Connections within
// the moved block's own tree are never bumped.
func (c *Controller) BumpNeighbours(b *block.Block) {
	if b == nil {
		return
	}
	root := b.RootBlock()
	for _, conn := range b.AllConnectionsRecursive() {
		if !conn.IsHighPriority() || conn.IsConnected() {
			continue
		}
		for _, n := range c.ws.Manager().Neighbours(conn, c.snapRadius) {
			if n.IsConnected() {
				continue
			}
			other := n.Owner().RootBlock()
			if other == root {
				continue
			}
			dx := conn.Position().X + c.bumpMargin - n.Position().X
			dy := conn.Position().Y + c.bumpMargin - n.Position().Y
			c.moveSubtree(other, dx, dy)
			c.notifyBlock(workspace.EventBlockMoved, other)
		}
	}
}

// MoveRootBlock repositions a root tree to an absolute workspace position,
// keeping the spatial index consistent
func (c *Controller) MoveRootBlock(b *block.Block, x, y float64) error {
	if !c.ws.IsRootBlock(b) {
		return fmt.Errorf("editor: %w: %s", workspace.ErrNotRootBlock, b.ID())
	}
	c.moveSubtree(b, x-b.Position().X, y-b.Position().Y)
	c.notifyBlock(workspace.EventBlockMoved, b)
	return nil
}

// displaceShadow detaches the shadow block occupying target and remembers it
// on the target connection. The shadow subtree leaves the workspace index
// but stays alive for restoration.
func (c *Controller) displaceShadow(target *block.Connection) error {
	shadowConn := target.Target()
	shadowBlock := shadowConn.Owner()
	// Remember before mutating: a slot that already holds a remembered
	// shadow fails here with the occupant still connected.
	if err := target.SetShadowConnection(shadowConn); err != nil {
		return fmt.Errorf("editor: displace shadow: %w", err)
	}
	target.Disconnect()
	c.ws.DetachSubtree(shadowBlock)
	c.notifyBlock(workspace.EventBlockDisconnected, shadowBlock)
	return nil
}

// restoreShadow reinstates a remembered shadow occupant into a vacated
// parent connection. A shadow that no longer passes connect validation is
// silently discarded.
func (c *Controller) restoreShadow(parentConn *block.Connection) {
	sc := parentConn.ShadowConnection()
	if sc == nil || parentConn.IsConnected() {
		return
	}
	parentConn.ClearShadowConnection()
	if sc.CanConnectWithReason(parentConn) != block.CanConnect {
		return
	}
	shadowBlock := sc.Owner()
	c.ws.AttachSubtree(shadowBlock)
	sc.Connect(parentConn)
	c.alignChild(parentConn, sc)
	c.notifyBlock(workspace.EventBlockConnected, shadowBlock)
}

// alignChild translates the child subtree so the two joined connections
// coincide. The child always moves to the parent.
func (c *Controller) alignChild(parent, child *block.Connection) {
	dx := parent.Position().X - child.Position().X
	dy := parent.Position().Y - child.Position().Y
	if dx == 0 && dy == 0 {
		return
	}
	c.moveSubtree(child.Owner(), dx, dy)
}

// moveSubtree translates a subtree and re-indexes whichever of its
// connections were in the spatial index
func (c *Controller) moveSubtree(b *block.Block, dx, dy float64) {
	mgr := c.ws.Manager()
	conns := b.AllConnectionsRecursive()
	indexed := make([]*block.Connection, 0, len(conns))
	for _, conn := range conns {
		if mgr.Remove(conn) {
			indexed = append(indexed, conn)
		}
	}
	b.MoveBy(dx, dy)
	for _, conn := range indexed {
		mgr.Add(conn)
	}
}

func (c *Controller) notifyBlock(t workspace.EventType, b *block.Block) {
	c.ws.Notify(workspace.Event{Type: t, BlockID: b.ID(), BlockType: b.Type()})
}

// orient splits a compatible pair into its parent-side and child-side
// connections
func orient(a, b *block.Connection) (parent, child *block.Connection) {
	if a.Type().IsParentSide() {
		return a, b
	}
	return b, a
}
