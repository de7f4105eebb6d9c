package service

import "nodegraph/internal/domain"

// View is the read-only render state of the graph: what a front end needs to
// draw one frame
type View struct {
	Nodes       []NodeView       `json:"nodes"`
	Connections []ConnectionView `json:"connections"`
	Selection   SelectionView    `json:"selection"`
}

// NodeView is a node with its derived point anchors
type NodeView struct {
	ID       string      `json:"id"`
	Title    string      `json:"title,omitempty"`
	Rect     domain.Rect `json:"rect"`
	Selected bool        `json:"selected"`
	InPoint  PointView   `json:"in_point"`
	OutPoint PointView   `json:"out_point"`
}

// PointView is a connection point with its anchor box
type PointView struct {
	ID     string           `json:"id"`
	Kind   domain.PointKind `json:"kind"`
	NodeID string           `json:"node_id"`
	Rect   domain.Rect      `json:"rect"`
}

// ConnectionView names both endpoints of a connection by point and node
type ConnectionView struct {
	ID         string `json:"id"`
	InPointID  string `json:"in_point_id"`
	InNodeID   string `json:"in_node_id"`
	OutPointID string `json:"out_point_id"`
	OutNodeID  string `json:"out_node_id"`
}

// SelectionView is the pending state of the connection protocol
type SelectionView struct {
	State          domain.SelectionState `json:"state"`
	PendingPointID string                `json:"pending_point_id,omitempty"`
}

func newNodeView(n *domain.Node) NodeView {
	return NodeView{
		ID:       n.ID,
		Title:    n.Title,
		Rect:     n.Rect,
		Selected: n.Selected,
		InPoint:  newPointView(n.InPoint, n.Rect),
		OutPoint: newPointView(n.OutPoint, n.Rect),
	}
}

func newPointView(p *domain.ConnectionPoint, owner domain.Rect) PointView {
	return PointView{
		ID:     p.ID,
		Kind:   p.Kind(),
		NodeID: p.OwnerID,
		Rect:   p.Rect(owner),
	}
}

func newConnectionView(c *domain.Connection) ConnectionView {
	return ConnectionView{
		ID:         c.ID,
		InPointID:  c.InPoint.ID,
		InNodeID:   c.InPoint.OwnerID,
		OutPointID: c.OutPoint.ID,
		OutNodeID:  c.OutPoint.OwnerID,
	}
}

func newSelectionView(s *domain.Selection) SelectionView {
	v := SelectionView{State: s.State()}
	if p := s.Pending(); p != nil {
		v.PendingPointID = p.ID
	}
	return v
}
