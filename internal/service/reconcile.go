package service

import (
	"fmt"

	"nodegraph/internal/domain"
)

// Reconcile rebuilds a live graph from persisted records. Nodes are restored
// with their persisted point IDs, then every connection record is resolved
// against those points. Any connection naming an unknown point fails the whole
// reconciliation with a *domain.DanglingReferenceError; nothing partial is
// returned.
func Reconcile(rawNodes []domain.NodeRecord, rawConnections []domain.ConnectionRecord) ([]*domain.Node, []*domain.Connection, error) {
	nodes := make([]*domain.Node, 0, len(rawNodes))
	inPoints := make(map[string]*domain.ConnectionPoint, len(rawNodes))
	outPoints := make(map[string]*domain.ConnectionPoint, len(rawNodes))
	seen := make(map[string]bool, 2*len(rawNodes))

	for i, raw := range rawNodes {
		if raw.InPoint.ID == "" || raw.OutPoint.ID == "" {
			return nil, nil, fmt.Errorf("node %d: %w", i, domain.ErrMissingPointID)
		}
		node := domain.RestoreNode(raw.Rect, raw.InPoint.ID, raw.OutPoint.ID)

		for _, p := range []*domain.ConnectionPoint{node.InPoint, node.OutPoint} {
			if seen[p.ID] {
				return nil, nil, fmt.Errorf("node %d: %w: %q", i, domain.ErrDuplicatePoint, p.ID)
			}
			seen[p.ID] = true
		}

		inPoints[node.InPoint.ID] = node.InPoint
		outPoints[node.OutPoint.ID] = node.OutPoint
		nodes = append(nodes, node)
	}

	connections := make([]*domain.Connection, 0, len(rawConnections))
	for i, raw := range rawConnections {
		in, ok := inPoints[raw.InPoint.ID]
		if !ok {
			return nil, nil, &domain.DanglingReferenceError{ConnectionIndex: i, Kind: domain.PointIn, PointID: raw.InPoint.ID}
		}
		out, ok := outPoints[raw.OutPoint.ID]
		if !ok {
			return nil, nil, &domain.DanglingReferenceError{ConnectionIndex: i, Kind: domain.PointOut, PointID: raw.OutPoint.ID}
		}

		conn, err := domain.NewConnection(in, out)
		if err != nil {
			return nil, nil, fmt.Errorf("connection %d: %w", i, err)
		}
		connections = append(connections, conn)
	}

	return nodes, connections, nil
}

// records flattens a live graph into its persisted form
func records(nodes []*domain.Node, connections []*domain.Connection) ([]domain.NodeRecord, []domain.ConnectionRecord) {
	rawNodes := make([]domain.NodeRecord, 0, len(nodes))
	for _, n := range nodes {
		rawNodes = append(rawNodes, n.Record())
	}

	rawConnections := make([]domain.ConnectionRecord, 0, len(connections))
	for _, c := range connections {
		rawConnections = append(rawConnections, c.Record())
	}

	return rawNodes, rawConnections
}
