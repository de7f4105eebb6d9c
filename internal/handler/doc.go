// Package handler implements the HTTP API of the node graph editor.
//
// Every route maps to one editor intent. Bodies are JSON, validated with
// go-playground/validator before they reach the controller. Controller errors
// map to status codes:
//
//   - domain.ErrNotFound: 404
//   - domain.ErrBusy: 409 while a save or load is running
//   - dangling or duplicate point references on load: 422
//   - anything else, including store failures: 500
//
// GET /api/events streams controller events as Server-Sent Events.
package handler
