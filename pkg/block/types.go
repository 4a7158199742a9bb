package block

import (
	"math"

	"github.com/google/uuid"
)

// BlockID is a unique identifier for a block within a workspace
type BlockID string

// String returns the string representation of the BlockID
func (b BlockID) String() string {
	return string(b)
}

// NewBlockID generates a new unique BlockID
func NewBlockID() BlockID {
	return BlockID(uuid.New().String())
}

// Point is a position in workspace units
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance to another point
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// ConnectionType identifies the four kinds of attachment points a block can carry
type ConnectionType int

const (
	// PreviousStatement connects upward to a parent's NextStatement
	PreviousStatement ConnectionType = iota
	// NextStatement connects downward to a child's PreviousStatement
	NextStatement
	// InputValue accepts a child block's OutputValue
	InputValue
	// OutputValue plugs into a parent's InputValue
	OutputValue

	// NumConnectionTypes is the number of connection types (spatial bucket count)
	NumConnectionTypes = 4
)

// String returns the string representation of a ConnectionType
func (t ConnectionType) String() string {
	switch t {
	case PreviousStatement:
		return "previous"
	case NextStatement:
		return "next"
	case InputValue:
		return "input"
	case OutputValue:
		return "output"
	default:
		return "unknown"
	}
}

// Opposite returns the connection type that can pair with this one
func (t ConnectionType) Opposite() ConnectionType {
	switch t {
	case PreviousStatement:
		return NextStatement
	case NextStatement:
		return PreviousStatement
	case InputValue:
		return OutputValue
	case OutputValue:
		return InputValue
	default:
		return t
	}
}

// IsParentSide reports whether a connection of this type belongs to the
// parent (superior) block of a connected pair
func (t ConnectionType) IsParentSide() bool {
	return t == NextStatement || t == InputValue
}

// ConnectionResult is the outcome of a connectability query between two
// connections. It is a query value, never an error: callers branch on it.
type ConnectionResult int

const (
	// CanConnect means the pair may be connected
	CanConnect ConnectionResult = iota
	// ReasonSelfConnection means the pair belongs to the same block or
	// would make a block its own ancestor
	ReasonSelfConnection
	// ReasonWrongType means the connection types are not a compatible pair
	ReasonWrongType
	// ReasonMustDisconnect means one side already has a partner
	ReasonMustDisconnect
	// ReasonTargetNull means the other connection is nil
	ReasonTargetNull
	// ReasonChecksFailed means the type check lists do not intersect
	ReasonChecksFailed
	// ReasonShadowOperation means the connection would give a shadow block
	// a non-shadow child
	ReasonShadowOperation
)

// String returns the string representation of a ConnectionResult
func (r ConnectionResult) String() string {
	switch r {
	case CanConnect:
		return "can connect"
	case ReasonSelfConnection:
		return "self connection"
	case ReasonWrongType:
		return "wrong connection type"
	case ReasonMustDisconnect:
		return "must disconnect first"
	case ReasonTargetNull:
		return "target is nil"
	case ReasonChecksFailed:
		return "type checks do not intersect"
	case ReasonShadowOperation:
		return "illegal shadow operation"
	default:
		return "unknown"
	}
}
