package workspace

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/goblocks/pkg/block"
)

// Common workspace errors
var (
	// ErrBlockNotFound is returned when a block is not tracked by the workspace
	ErrBlockNotFound = errors.New("block not found in workspace")
	// ErrNotRootBlock is returned when an operation requires a root block
	ErrNotRootBlock = errors.New("block is not a root block")
)

// Workspace owns the forest of block trees being edited. It tracks the set
// of root blocks, a block-by-ID side table for external layers (views attach
// their own state keyed by block ID, the model never holds rendering state),
// the spatial connection index, and the workspace-scoped variable registry.
//
// All mutation happens on a single goroutine; the workspace performs no
// internal locking.
type Workspace struct {
	id        string
	manager   *ConnectionManager
	variables *VariableRegistry

	roots      []*block.Block
	blocksByID map[block.BlockID]*block.Block

	listeners map[int]Listener
	nextToken int
}

// NewWorkspace creates an empty workspace with a fresh ID
func NewWorkspace() *Workspace {
	w := &Workspace{
		id:         uuid.New().String(),
		manager:    NewConnectionManager(),
		blocksByID: make(map[block.BlockID]*block.Block),
		listeners:  make(map[int]Listener),
	}
	w.variables = newVariableRegistry(w)
	return w
}

// ID returns the workspace identifier
func (w *Workspace) ID() string {
	return w.id
}

// Manager returns the workspace's spatial connection index
func (w *Workspace) Manager() *ConnectionManager {
	return w.manager
}

// Variables returns the workspace-scoped variable registry
func (w *Workspace) Variables() *VariableRegistry {
	return w.variables
}

// AddListener registers a workspace event listener and returns a token for
// later removal
func (w *Workspace) AddListener(l Listener) int {
	w.nextToken++
	w.listeners[w.nextToken] = l
	return w.nextToken
}

// RemoveListener unregisters the listener registered under token
func (w *Workspace) RemoveListener(token int) {
	delete(w.listeners, token)
}

// Notify delivers an event to every listener synchronously, in registration
// order. The timestamp and workspace ID are filled in if unset.
func (w *Workspace) Notify(e Event) {
	if e.WorkspaceID == "" {
		e.WorkspaceID = w.id
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	// Tokens are issued in increasing order, so sorted tokens give
	// registration order.
	tokens := make([]int, 0, len(w.listeners))
	for t := range w.listeners {
		tokens = append(tokens, t)
	}
	sort.Ints(tokens)
	for _, t := range tokens {
		w.listeners[t].OnWorkspaceEvent(e)
	}
}

// notifyBlock emits a block event for b
func (w *Workspace) notifyBlock(t EventType, b *block.Block) {
	w.Notify(Event{Type: t, BlockID: b.ID(), BlockType: b.Type()})
}

// AddRootBlock registers a new tree with the workspace: the block and its
// whole subtree are indexed by ID, every subtree connection enters the
// spatial index, and the block joins the root set.
func (w *Workspace) AddRootBlock(b *block.Block) error {
	if b == nil {
		return errors.New("workspace: cannot add nil block")
	}
	if b.ParentBlock() != nil {
		return fmt.Errorf("workspace: %w: %s", ErrNotRootBlock, b.ID())
	}
	if _, exists := w.blocksByID[b.ID()]; exists {
		return fmt.Errorf("workspace: duplicate block ID: %s", b.ID())
	}
	w.AttachSubtree(b)
	w.roots = append(w.roots, b)
	w.notifyBlock(EventBlockAdded, b)
	return nil
}

// RemoveRootBlock removes a root tree wholesale: the subtree leaves the ID
// table and the spatial index, and the block leaves the root set.
func (w *Workspace) RemoveRootBlock(b *block.Block) error {
	if b == nil {
		return errors.New("workspace: cannot remove nil block")
	}
	if !w.IsRootBlock(b) {
		return fmt.Errorf("workspace: %w: %s", ErrNotRootBlock, b.ID())
	}
	w.unmarkRoot(b)
	w.DetachSubtree(b)
	w.notifyBlock(EventBlockRemoved, b)
	return nil
}

// MarkRoot adds an already-tracked block to the root set without touching
// the index. Used when a connected block is extracted to become independent.
func (w *Workspace) MarkRoot(b *block.Block) error {
	if _, tracked := w.blocksByID[b.ID()]; !tracked {
		return fmt.Errorf("workspace: %w: %s", ErrBlockNotFound, b.ID())
	}
	if w.IsRootBlock(b) {
		return nil
	}
	w.roots = append(w.roots, b)
	return nil
}

// UnmarkRoot removes a block from the root set without touching the index.
// Used when a root block connects beneath another tree.
func (w *Workspace) UnmarkRoot(b *block.Block) error {
	if !w.IsRootBlock(b) {
		return fmt.Errorf("workspace: %w: %s", ErrNotRootBlock, b.ID())
	}
	w.unmarkRoot(b)
	return nil
}

func (w *Workspace) unmarkRoot(b *block.Block) {
	for i, root := range w.roots {
		if root == b {
			w.roots = append(w.roots[:i], w.roots[i+1:]...)
			return
		}
	}
}

// IsRootBlock reports whether b is in the workspace root set
func (w *Workspace) IsRootBlock(b *block.Block) bool {
	for _, root := range w.roots {
		if root == b {
			return true
		}
	}
	return false
}

// RootBlocks returns a copy of the root set in insertion order
func (w *Workspace) RootBlocks() []*block.Block {
	out := make([]*block.Block, len(w.roots))
	copy(out, w.roots)
	return out
}

// BlockByID returns the tracked block with the given ID, or nil
func (w *Workspace) BlockByID(id block.BlockID) *block.Block {
	return w.blocksByID[id]
}

// BlockCount returns the number of tracked blocks, shadow blocks included
func (w *Workspace) BlockCount() int {
	return len(w.blocksByID)
}

// AttachSubtree indexes a subtree's blocks by ID and adds its searchable
// connections to the spatial index. Root-set membership is not affected.
// Used directly by the connect protocol when a displaced shadow returns.
func (w *Workspace) AttachSubtree(b *block.Block) {
	for _, d := range b.Descendants() {
		w.blocksByID[d.ID()] = d
	}
	for _, c := range b.AllConnectionsRecursive() {
		w.manager.Add(c)
	}
}

// DetachSubtree removes a subtree's blocks from the ID table and its
// connections from the spatial index. Root-set membership is not affected.
// Used directly by the connect protocol when a shadow is displaced.
func (w *Workspace) DetachSubtree(b *block.Block) {
	for _, d := range b.Descendants() {
		delete(w.blocksByID, d.ID())
	}
	for _, c := range b.AllConnectionsRecursive() {
		w.manager.Remove(c)
	}
}
