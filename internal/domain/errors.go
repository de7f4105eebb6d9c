package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a node, point or connection is not in the graph
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned for intents that arrive while a save or load is in flight
	ErrBusy = errors.New("graph is busy with a save or load")

	// ErrInvalidConnection is returned when endpoints violate the connection invariants
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrDanglingReference matches any *DanglingReferenceError
	ErrDanglingReference = errors.New("dangling reference")

	// ErrDuplicatePoint is returned when a nodes store repeats a point ID
	ErrDuplicatePoint = errors.New("duplicate point id")

	// ErrMissingPointID is returned when a stored node has a point without an ID
	ErrMissingPointID = errors.New("missing point id")
)

// DanglingReferenceError reports a persisted connection whose point ID does not
// match any loaded node
type DanglingReferenceError struct {
	ConnectionIndex int
	Kind            PointKind
	PointID         string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("connection %d: %s point %q has no matching node", e.ConnectionIndex, e.Kind, e.PointID)
}

// Is lets errors.Is(err, ErrDanglingReference) match
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}
