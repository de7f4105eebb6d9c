package domain

// SelectionState is the state of the two-click connection protocol
type SelectionState string

const (
	SelectionIdle SelectionState = "idle"         // nothing pending
	SelectionIn   SelectionState = "in_selected"  // an input point is pending
	SelectionOut  SelectionState = "out_selected" // an output point is pending
)

// Selection holds at most one pending point. Picking a point of the opposite
// kind completes the pair and always returns to idle; picking one of the same
// kind replaces the pending point.
type Selection struct {
	in  *ConnectionPoint
	out *ConnectionPoint
}

// State returns the current selection state
func (s *Selection) State() SelectionState {
	switch {
	case s.in != nil:
		return SelectionIn
	case s.out != nil:
		return SelectionOut
	default:
		return SelectionIdle
	}
}

// Pending returns the pending point, or nil when idle
func (s *Selection) Pending() *ConnectionPoint {
	if s.in != nil {
		return s.in
	}
	return s.out
}

// Pick feeds a clicked point into the state machine. When the pick completes a
// pair whose points belong to different nodes, it returns that pair and ok is true.
// A pair on the same node is dropped silently.
func (s *Selection) Pick(p *ConnectionPoint) (in, out *ConnectionPoint, ok bool) {
	if p == nil {
		return nil, nil, false
	}

	switch p.Kind() {
	case PointIn:
		if s.out == nil {
			s.in = p
			return nil, nil, false
		}
		in, out = p, s.out
	case PointOut:
		if s.in == nil {
			s.out = p
			return nil, nil, false
		}
		in, out = s.in, p
	default:
		return nil, nil, false
	}

	s.Clear()
	if in.OwnerID == out.OwnerID {
		return nil, nil, false
	}
	return in, out, true
}

// Clear drops any pending point
func (s *Selection) Clear() {
	s.in = nil
	s.out = nil
}

// Forget drops the pending point if it is one of the given node's points
func (s *Selection) Forget(n *Node) {
	if s.in != nil && n.Owns(s.in) {
		s.in = nil
	}
	if s.out != nil && n.Owns(s.out) {
		s.out = nil
	}
}
