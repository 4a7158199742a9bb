package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/workspace"
)

// DefaultDragTimeout is how long a gesture may go without an event before it
// is considered abandoned and cancelled
const DefaultDragTimeout = 500 * time.Millisecond

// Common drag errors
var (
	// ErrInvalidDragState is returned when an operation is called in the
	// wrong gesture state, including re-entrant calls
	ErrInvalidDragState = errors.New("invalid drag state")
	// ErrGestureExpired is returned when the gesture timed out waiting for
	// a continuation event
	ErrGestureExpired = errors.New("drag gesture expired")
	// ErrBlockNotMovable is returned when dragging a pinned block
	ErrBlockNotMovable = errors.New("block is not movable")
	// ErrShadowBlockDrag is returned when dragging a shadow placeholder,
	// which only exists as part of its parent
	ErrShadowBlockDrag = errors.New("shadow blocks cannot be dragged")
)

// DragState is the gesture state machine position
type DragState int

const (
	// DragIdle means no gesture is in progress
	DragIdle DragState = iota
	// DragTouched means the pointer is down but no drag has started
	DragTouched
	// DragDragging means the subtree is extracted and following the pointer
	DragDragging
)

// String returns the string representation of a DragState
func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragTouched:
		return "touched"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragResult is the terminal outcome of a completed gesture
type DragResult int

const (
	// DragResultNone means the gesture produced no outcome (still active or
	// never started)
	DragResultNone DragResult = iota
	// DragSnapped means the dropped block connected to a found partner
	DragSnapped
	// DragReverted means the block stayed free at its drop position
	DragReverted
)

// String returns the string representation of a DragResult
func (r DragResult) String() string {
	switch r {
	case DragSnapped:
		return "snapped"
	case DragReverted:
		return "reverted"
	default:
		return "none"
	}
}

// SnapPreview is the best connection pairing found for the dragged block at
// its current position, for highlighting before the drop
type SnapPreview struct {
	// Local is the connection on the dragged subtree
	Local *block.Connection
	// Match is the stationary connection it would bond to
	Match *block.Connection
}

// Dragger runs the per-gesture state machine:
//
//	Idle -> Touched -> Dragging -> (snapped | reverted) -> Idle
//
// A gesture performs exactly one extraction at drag start and exactly one
// connect-or-revert at drag end, never partially. While dragging, every
// connection of the dragged subtree is in drag mode and out of the spatial
// index, so searches from the same gesture can never return them. All
// terminal paths (drop, cancel, timeout) restore searchable state.
//
// Calls in the wrong state return ErrInvalidDragState; the state machine is
// the re-entrancy guard.
type Dragger struct {
	ctrl      *Controller
	state     DragState
	dragged   *block.Block
	conns     []*block.Connection
	startPos  block.Point
	lastEvent time.Time
	timeout   time.Duration
}

// NewDragger creates a dragger driving the given controller
func NewDragger(ctrl *Controller) *Dragger {
	return &Dragger{
		ctrl:    ctrl,
		timeout: DefaultDragTimeout,
	}
}

// SetTimeout overrides the gesture staleness timeout
func (d *Dragger) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// State returns the current gesture state
func (d *Dragger) State() DragState {
	return d.state
}

// DraggedBlock returns the block of the active gesture, or nil
func (d *Dragger) DraggedBlock() *block.Block {
	return d.dragged
}

// StartPosition returns the dragged block's position before the drag began.
// Meaningful only while a gesture is active.
func (d *Dragger) StartPosition() block.Point {
	return d.startPos
}

// Touch begins a gesture on a block. The block is validated but nothing is
// mutated until StartDrag.
func (d *Dragger) Touch(b *block.Block, now time.Time) error {
	if d.state != DragIdle {
		return fmt.Errorf("editor: touch: %w: %s", ErrInvalidDragState, d.state)
	}
	if b == nil {
		return errors.New("editor: cannot touch nil block")
	}
	if b.IsShadow() {
		return fmt.Errorf("editor: %w: %s", ErrShadowBlockDrag, b.ID())
	}
	if !b.Movable {
		return fmt.Errorf("editor: %w: %s", ErrBlockNotMovable, b.ID())
	}
	d.dragged = b
	d.state = DragTouched
	d.lastEvent = now
	return nil
}

// StartDrag extracts the touched block as a root and removes its subtree's
// connections from the spatial index, marking them with drag mode
func (d *Dragger) StartDrag(now time.Time) error {
	if d.state != DragTouched {
		return fmt.Errorf("editor: start drag: %w: %s", ErrInvalidDragState, d.state)
	}
	if d.expired(now) {
		d.reset()
		return ErrGestureExpired
	}
	if err := d.ctrl.ExtractBlockAsRoot(d.dragged); err != nil {
		d.reset()
		return err
	}
	d.startPos = d.dragged.Position()
	d.conns = d.dragged.AllConnectionsRecursive()
	mgr := d.ctrl.Workspace().Manager()
	for _, conn := range d.conns {
		mgr.Remove(conn)
		conn.SetDragMode(true)
	}
	d.state = DragDragging
	d.lastEvent = now
	return nil
}

// Move translates the dragged subtree by a pointer delta and returns the
// current best snap pairing within the snap radius, or nil
func (d *Dragger) Move(dx, dy float64, now time.Time) (*SnapPreview, error) {
	if d.state != DragDragging {
		return nil, fmt.Errorf("editor: move: %w: %s", ErrInvalidDragState, d.state)
	}
	if d.expired(now) {
		_ = d.Cancel(now)
		return nil, ErrGestureExpired
	}
	d.dragged.MoveBy(dx, dy)
	d.lastEvent = now
	local, match, ok := d.ctrl.Workspace().Manager().FindBestConnection(d.dragged, d.ctrl.SnapRadius())
	if !ok {
		return nil, nil
	}
	return &SnapPreview{Local: local, Match: match}, nil
}

// End drops the dragged block: the best in-radius pairing is connected, or
// the block stays free where it was dropped. Either way the subtree's
// connections return to the spatial index and overlapping neighbours are
// bumped apart.
func (d *Dragger) End(now time.Time) (DragResult, error) {
	if d.state != DragDragging {
		return DragResultNone, fmt.Errorf("editor: end drag: %w: %s", ErrInvalidDragState, d.state)
	}
	if d.expired(now) {
		_ = d.Cancel(now)
		return DragReverted, ErrGestureExpired
	}

	local, match, ok := d.ctrl.Workspace().Manager().FindBestConnection(d.dragged, d.ctrl.SnapRadius())

	d.restoreConnections()
	dropped := d.dragged
	d.reset()

	var connectErr error
	if ok {
		connectErr = d.ctrl.Connect(local, match)
	}
	d.ctrl.BumpNeighbours(dropped)

	if connectErr != nil {
		return DragReverted, connectErr
	}
	if ok {
		return DragSnapped, nil
	}
	d.ctrl.Workspace().Notify(workspace.Event{
		Type:      workspace.EventBlockMoved,
		BlockID:   dropped.ID(),
		BlockType: dropped.Type(),
	})
	return DragReverted, nil
}

// Cancel aborts the gesture without connecting. The dragged block stays at
// its current position and its connections become searchable again.
func (d *Dragger) Cancel(now time.Time) error {
	switch d.state {
	case DragTouched:
		d.reset()
		return nil
	case DragDragging:
		d.restoreConnections()
		d.reset()
		return nil
	default:
		return fmt.Errorf("editor: cancel: %w: %s", ErrInvalidDragState, d.state)
	}
}

// ExpireIfStale cancels the gesture if no event has arrived within the
// timeout. Returns true if the gesture was expired.
func (d *Dragger) ExpireIfStale(now time.Time) bool {
	if d.state == DragIdle || !d.expired(now) {
		return false
	}
	_ = d.Cancel(now)
	return true
}

func (d *Dragger) expired(now time.Time) bool {
	return now.Sub(d.lastEvent) > d.timeout
}

// restoreConnections clears drag mode and re-indexes the dragged group
func (d *Dragger) restoreConnections() {
	mgr := d.ctrl.Workspace().Manager()
	for _, conn := range d.conns {
		conn.SetDragMode(false)
		mgr.Add(conn)
	}
}

func (d *Dragger) reset() {
	d.state = DragIdle
	d.dragged = nil
	d.conns = nil
}
