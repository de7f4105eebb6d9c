// Package service implements the editing logic of the node graph.
//
// GraphController owns the live collection of nodes and connections. Every
// user intent (add, remove, move, pick a connection point, click the canvas)
// goes through it under one lock, so a cascade removal is never observed half
// done. The two-click connection protocol lives in domain.Selection; the
// controller resolves point IDs and appends the resulting connection.
//
// # Persistence
//
// Save flattens the graph into domain records and hands them to a
// repository.Gateway under two keys. Load reads the records back and runs
// Reconcile, which rebuilds nodes with their persisted point IDs and resolves
// each connection to the restored points. A connection naming an unknown point
// aborts the load with a *domain.DanglingReferenceError and leaves the current
// graph unchanged. While either operation runs, all intents fail with
// domain.ErrBusy.
//
// # Event System
//
// The controller publishes events via EventBus for real-time updates to
// connected clients via Server-Sent Events (SSE).
package service
