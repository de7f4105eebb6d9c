package domain

import "github.com/google/uuid"

// PointKind distinguishes input anchors from output anchors
type PointKind string

const (
	PointIn  PointKind = "in"
	PointOut PointKind = "out"
)

// Anchor geometry of a connection point relative to its node
const (
	PointWidth  = 10.0
	PointHeight = 20.0
	PointInset  = 8.0 // how far the anchor overlaps the node box
)

// ConnectionPoint is an input or output anchor owned by exactly one node.
// OwnerID refers to the node by ID; the node owns the point, not the other way round.
type ConnectionPoint struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	kind    PointKind
}

// newConnectionPoint creates a point for owner. An empty id gets a fresh one.
func newConnectionPoint(ownerID string, kind PointKind, id string) *ConnectionPoint {
	if id == "" {
		id = uuid.NewString()
	}
	return &ConnectionPoint{
		ID:      id,
		OwnerID: ownerID,
		kind:    kind,
	}
}

// Kind returns the point kind, fixed at creation
func (p *ConnectionPoint) Kind() PointKind {
	return p.kind
}

// Rect returns the anchor box of the point, derived from the owner's rect
func (p *ConnectionPoint) Rect(owner Rect) Rect {
	r := Rect{
		Y:      owner.Y + owner.Height*0.5 - PointHeight*0.5,
		Width:  PointWidth,
		Height: PointHeight,
	}
	switch p.kind {
	case PointIn:
		r.X = owner.X - PointWidth + PointInset
	case PointOut:
		r.X = owner.X + owner.Width - PointInset
	}
	return r
}
