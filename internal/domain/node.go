package domain

import "github.com/google/uuid"

// DefaultNodeSize is the size given to nodes created without an explicit one
var DefaultNodeSize = Vector2{X: 400, Y: 200}

// Node is a positioned box on the canvas with exactly one input and one output point
type Node struct {
	ID       string           `json:"id"`
	Rect     Rect             `json:"rect"`
	Title    string           `json:"title,omitempty"`
	Selected bool             `json:"selected"`
	InPoint  *ConnectionPoint `json:"in_point"`
	OutPoint *ConnectionPoint `json:"out_point"`
}

// NewNode creates a node at position with freshly generated point IDs
func NewNode(position, size Vector2) *Node {
	return RestoreNode(NewRect(position, size), "", "")
}

// RestoreNode creates a node with the given point IDs. Empty IDs are generated.
// Used when rebuilding a graph from persisted records.
func RestoreNode(rect Rect, inPointID, outPointID string) *Node {
	n := &Node{
		ID:   uuid.NewString(),
		Rect: rect,
	}
	n.InPoint = newConnectionPoint(n.ID, PointIn, inPointID)
	n.OutPoint = newConnectionPoint(n.ID, PointOut, outPointID)
	return n
}

// Drag moves the node by delta
func (n *Node) Drag(delta Vector2) {
	n.Rect = n.Rect.Translate(delta)
}

// Owns reports whether p is one of this node's points
func (n *Node) Owns(p *ConnectionPoint) bool {
	return p == n.InPoint || p == n.OutPoint
}

// Record returns the persisted form of the node
func (n *Node) Record() NodeRecord {
	return NodeRecord{
		Rect:     n.Rect,
		InPoint:  PointRecord{ID: n.InPoint.ID},
		OutPoint: PointRecord{ID: n.OutPoint.ID},
	}
}
