package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Connection links an input point to an output point of a different node.
// Both points are owned by their nodes; the connection only references them.
type Connection struct {
	ID       string           `json:"id"`
	InPoint  *ConnectionPoint `json:"in_point"`
	OutPoint *ConnectionPoint `json:"out_point"`
}

// NewConnection creates a connection between in and out.
// It fails with ErrInvalidConnection when the kinds are wrong or both points
// belong to the same node.
func NewConnection(in, out *ConnectionPoint) (*Connection, error) {
	if in == nil || out == nil {
		return nil, fmt.Errorf("%w: missing endpoint", ErrInvalidConnection)
	}
	if in.Kind() != PointIn {
		return nil, fmt.Errorf("%w: point %s is not an input", ErrInvalidConnection, in.ID)
	}
	if out.Kind() != PointOut {
		return nil, fmt.Errorf("%w: point %s is not an output", ErrInvalidConnection, out.ID)
	}
	if in.OwnerID == out.OwnerID {
		return nil, fmt.Errorf("%w: points %s and %s share node %s", ErrInvalidConnection, in.ID, out.ID, in.OwnerID)
	}
	return &Connection{
		ID:       uuid.NewString(),
		InPoint:  in,
		OutPoint: out,
	}, nil
}

// References reports whether the connection depends on node n, i.e. its input
// is n's input point or its output is n's output point
func (c *Connection) References(n *Node) bool {
	return c.InPoint == n.InPoint || c.OutPoint == n.OutPoint
}

// Record returns the persisted form of the connection
func (c *Connection) Record() ConnectionRecord {
	return ConnectionRecord{
		InPoint:  PointRecord{ID: c.InPoint.ID},
		OutPoint: PointRecord{ID: c.OutPoint.ID},
	}
}
