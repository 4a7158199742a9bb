package workspace

import (
	"sort"

	"github.com/dshills/goblocks/pkg/block"
)

// ConnectionManager is the spatial index of searchable connections. It keeps
// one bucket per connection type, each sorted by position (Y, then X), which
// lets proximity queries binary-search to the neighbourhood of a point and
// scan outward with early termination.
//
// Invariant: a connection appears in its bucket iff it is owned by a block
// currently in the workspace and is not in drag mode. The manager's buckets
// are owned by a single goroutine; searches assume a stable sorted snapshot.
type ConnectionManager struct {
	buckets [block.NumConnectionTypes]sortedBucket
}

// NewConnectionManager creates an empty connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{}
}

// Add inserts a connection into its type bucket at the position-sorted
// insertion point. Connections in drag mode are never indexed.
func (m *ConnectionManager) Add(c *block.Connection) {
	if c == nil || c.IsDragMode() {
		return
	}
	m.buckets[c.Type()].add(c)
}

// Remove deletes a connection from its type bucket. Returns false if the
// connection was not indexed.
func (m *ConnectionManager) Remove(c *block.Connection) bool {
	if c == nil {
		return false
	}
	return m.buckets[c.Type()].remove(c)
}

// Contains reports whether the connection is currently indexed
func (m *ConnectionManager) Contains(c *block.Connection) bool {
	if c == nil {
		return false
	}
	return m.buckets[c.Type()].indexOf(c) >= 0
}

// Len returns the number of indexed connections of the given type
func (m *ConnectionManager) Len(t block.ConnectionType) int {
	return len(m.buckets[t].conns)
}

// MoveTo repositions an indexed connection, keeping the bucket sorted. The
// connection is repositioned even if it was not indexed.
func (m *ConnectionManager) MoveTo(c *block.Connection, x, y float64) {
	indexed := m.Remove(c)
	c.SetPosition(x, y)
	if indexed {
		m.Add(c)
	}
}

// FindBestConnection searches for the closest compatible pairing between any
// free connection on the given block's subtree and the indexed connections of
// the opposite type, within maxRadius. The globally closest pair wins; ties
// keep the earlier find. Returns ok=false when nothing is in range.
//
// A candidate whose slot is occupied by a shadow block is accepted: the
// connect protocol displaces the shadow.
func (m *ConnectionManager) FindBestConnection(b *block.Block, maxRadius float64) (local, match *block.Connection, ok bool) {
	if b == nil || maxRadius <= 0 {
		return nil, nil, false
	}
	bestRadius := maxRadius
	for _, conn := range b.AllConnectionsRecursive() {
		if conn.IsConnected() {
			continue
		}
		cand, dist, found := m.closestWithin(conn, bestRadius)
		if !found {
			continue
		}
		if local == nil || dist < bestRadius {
			local = conn
			match = cand
			bestRadius = dist
		}
	}
	return local, match, local != nil
}

// Neighbours collects every indexed connection of the opposite type within
// radius of conn, in bucket order. Used by bump-apart after a drop.
func (m *ConnectionManager) Neighbours(conn *block.Connection, radius float64) []*block.Connection {
	if conn == nil || radius <= 0 {
		return nil
	}
	bucket := &m.buckets[conn.Type().Opposite()]
	if len(bucket.conns) == 0 {
		return nil
	}
	var out []*block.Connection
	pos := conn.Position()
	idx := bucket.insertionIndex(pos.Y, pos.X)
	for i := idx - 1; i >= 0; i-- {
		cand := bucket.conns[i]
		if pos.Y-cand.Position().Y > radius {
			break
		}
		if conn.DistanceFrom(cand) <= radius {
			out = append(out, cand)
		}
	}
	for i := idx; i < len(bucket.conns); i++ {
		cand := bucket.conns[i]
		if cand.Position().Y-pos.Y > radius {
			break
		}
		if conn.DistanceFrom(cand) <= radius {
			out = append(out, cand)
		}
	}
	return out
}

// closestWithin scans the opposite bucket outward from conn's position,
// terminating each direction once the Y delta alone exceeds the shrinking
// search radius.
func (m *ConnectionManager) closestWithin(conn *block.Connection, maxRadius float64) (*block.Connection, float64, bool) {
	bucket := &m.buckets[conn.Type().Opposite()]
	if len(bucket.conns) == 0 {
		return nil, 0, false
	}

	pos := conn.Position()
	idx := bucket.insertionIndex(pos.Y, pos.X)

	var best *block.Connection
	bestDist := maxRadius

	consider := func(cand *block.Connection) {
		d := conn.DistanceFrom(cand)
		// First find may sit exactly at the radius; after that only a
		// strictly closer candidate displaces the best.
		if d > bestDist || (best != nil && d == bestDist) {
			return
		}
		if !connectionAllowed(conn, cand) {
			return
		}
		best = cand
		bestDist = d
	}

	for i := idx - 1; i >= 0; i-- {
		cand := bucket.conns[i]
		if pos.Y-cand.Position().Y > bestDist {
			break
		}
		consider(cand)
	}
	for i := idx; i < len(bucket.conns); i++ {
		cand := bucket.conns[i]
		if cand.Position().Y-pos.Y > bestDist {
			break
		}
		consider(cand)
	}
	return best, bestDist, best != nil
}

// connectionAllowed decides whether a candidate may be offered as a search
// match for the searching connection. Plain compatibility is required, with
// one relaxation: a parent-side candidate whose occupant is a shadow block is
// allowed, since connecting will displace the shadow. A connected child-side
// candidate is never offered — its partner is the occupant's parent, which
// the connect protocol must not detach.
func connectionAllowed(searching, cand *block.Connection) bool {
	if cand.IsDragMode() {
		return false
	}
	switch searching.CanConnectWithReason(cand) {
	case block.CanConnect:
		return true
	case block.ReasonMustDisconnect:
		if searching.IsConnected() || !cand.Type().IsParentSide() {
			return false
		}
		occupant := cand.TargetBlock()
		if occupant == nil || !occupant.IsShadow() {
			return false
		}
		return searching.CanConnectWhenFreed(cand) == block.CanConnect
	default:
		return false
	}
}

// sortedBucket keeps connections ordered by (Y, X)
type sortedBucket struct {
	conns []*block.Connection
}

// insertionIndex returns the first index whose position is >= (y, x)
func (s *sortedBucket) insertionIndex(y, x float64) int {
	return sort.Search(len(s.conns), func(i int) bool {
		p := s.conns[i].Position()
		if p.Y != y {
			return p.Y > y
		}
		return p.X >= x
	})
}

func (s *sortedBucket) add(c *block.Connection) {
	p := c.Position()
	i := s.insertionIndex(p.Y, p.X)
	s.conns = append(s.conns, nil)
	copy(s.conns[i+1:], s.conns[i:])
	s.conns[i] = c
}

// indexOf locates a connection by identity. The fast path binary-searches to
// the connection's recorded position; the linear fallback covers connections
// whose position changed without re-indexing.
func (s *sortedBucket) indexOf(c *block.Connection) int {
	p := c.Position()
	for i := s.insertionIndex(p.Y, p.X); i < len(s.conns); i++ {
		q := s.conns[i].Position()
		if q.Y != p.Y || q.X != p.X {
			break
		}
		if s.conns[i] == c {
			return i
		}
	}
	for i, cand := range s.conns {
		if cand == c {
			return i
		}
	}
	return -1
}

func (s *sortedBucket) remove(c *block.Connection) bool {
	i := s.indexOf(c)
	if i < 0 {
		return false
	}
	s.conns = append(s.conns[:i], s.conns[i+1:]...)
	return true
}
