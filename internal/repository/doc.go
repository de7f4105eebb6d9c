// Package repository defines the persistence gateway for the node graph.
//
// A Gateway stores two flat, ordered documents under caller-chosen keys: one
// holding node records, one holding connection records. Neither document
// references the other except through connection point IDs, so a gateway never
// needs to understand the graph; rebuilding live references is the job of the
// service package.
//
// # Implementations
//
// The filestore subpackage writes each document to its own file through a
// codec (XML, JSON or YAML). The sqlite subpackage keeps both documents in one
// SQLite database, one table per record type, and replaces them in a single
// transaction.
//
// Errors from a gateway are returned to the caller unchanged; gateways do not
// retry.
package repository
