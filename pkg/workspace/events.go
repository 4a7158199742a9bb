package workspace

import (
	"time"

	"github.com/dshills/goblocks/pkg/block"
)

// EventType categorizes workspace change notifications
type EventType string

const (
	// EventBlockAdded is emitted when a new root tree enters the workspace
	EventBlockAdded EventType = "block.added"
	// EventBlockRemoved is emitted when a root tree leaves the workspace
	EventBlockRemoved EventType = "block.removed"
	// EventBlockConnected is emitted when two connections become partners
	EventBlockConnected EventType = "block.connected"
	// EventBlockDisconnected is emitted when a connected pair is separated
	EventBlockDisconnected EventType = "block.disconnected"
	// EventBlockMoved is emitted when a root tree is repositioned
	EventBlockMoved EventType = "block.moved"

	// EventVariableCreated is emitted when a variable is added
	EventVariableCreated EventType = "variable.created"
	// EventVariableRenamed is emitted when a variable is renamed
	EventVariableRenamed EventType = "variable.renamed"
	// EventVariableDeleted is emitted when a variable is removed
	EventVariableDeleted EventType = "variable.deleted"
)

// Event is a single workspace change notification
type Event struct {
	// Type categorizes the event
	Type EventType
	// WorkspaceID identifies the emitting workspace
	WorkspaceID string
	// BlockID identifies the affected block (block events)
	BlockID block.BlockID
	// BlockType is the affected block's definition name (block events)
	BlockType string
	// Variable is the affected variable name (variable events)
	Variable string
	// OldName is the previous name for rename events
	OldName string
	// Timestamp records when the event occurred
	Timestamp time.Time
}

// Listener receives workspace events synchronously, in registration order,
// on the goroutine performing the mutation. Listeners must not mutate the
// workspace re-entrantly.
type Listener interface {
	OnWorkspaceEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(Event)

// OnWorkspaceEvent implements Listener
func (f ListenerFunc) OnWorkspaceEvent(e Event) {
	f(e)
}
