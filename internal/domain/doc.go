// Package domain defines the core types of the node graph editor.
//
// # Core Types
//
// Node is a positioned box owning exactly one input ConnectionPoint and one
// output ConnectionPoint. Points carry globally unique string IDs that stay
// stable across save and load.
//
// Connection links the input point of one node to the output point of another.
// It references points that live inside nodes and never owns them, so a
// connection is only valid while both of its nodes are in the graph.
//
// Selection is the two-click protocol used to create connections: the user picks
// an input and an output point in either order, and a pair on the same node is
// rejected.
//
// # Persistence Records
//
// NodeRecord and ConnectionRecord are the flat forms written to a store. Nodes
// and connections are stored independently, linked only by point IDs; the
// service package rebuilds live references from those IDs on load.
//
// # Design Principles
//
// - No database or transport dependencies
// - Back-references are IDs, not pointers
// - Invariants are enforced by constructors
package domain
