package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"nodegraph/internal/domain"
	"nodegraph/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Editor is the set of graph intents the HTTP layer drives
type Editor interface {
	AddNode(position domain.Vector2) (service.NodeView, error)
	RemoveNode(id string) error
	RemoveConnection(id string) error
	MoveNode(id string, delta domain.Vector2) (service.NodeView, error)
	DragAll(delta domain.Vector2) error
	SetTitle(id, title string) (service.NodeView, error)
	PickPoint(pointID string) (*service.ConnectionView, service.SelectionView, error)
	ClickCanvas(position domain.Vector2) (string, error)
	Snapshot() service.View
	Busy() bool
	Save(ctx context.Context) error
	Load(ctx context.Context) error
}

// GraphHandler handles graph API requests
type GraphHandler struct {
	editor   Editor
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(editor Editor, logger *zap.Logger) *GraphHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphHandler{
		editor:   editor,
		validate: validator.New(),
		logger:   logger,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	PointID string `json:"point_id,omitempty"`
}

// PositionRequest carries an absolute canvas position
type PositionRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

func (p PositionRequest) vector() domain.Vector2 {
	return domain.Vector2{X: *p.X, Y: *p.Y}
}

// DeltaRequest carries a drag offset
type DeltaRequest struct {
	DX *float64 `json:"dx" validate:"required"`
	DY *float64 `json:"dy" validate:"required"`
}

func (d DeltaRequest) vector() domain.Vector2 {
	return domain.Vector2{X: *d.DX, Y: *d.DY}
}

// TitleRequest sets a node title
type TitleRequest struct {
	Title string `json:"title" validate:"max=256"`
}

// PickResponse reports the outcome of a point pick
type PickResponse struct {
	Connection *service.ConnectionView `json:"connection"`
	Selection  service.SelectionView   `json:"selection"`
}

// ClickResponse reports the node selected by a canvas click
type ClickResponse struct {
	SelectedNodeID string `json:"selected_node_id,omitempty"`
}

// GetGraph returns the render state of the graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.editor.Snapshot(), http.StatusOK)
}

// CreateNode adds a node at the requested position
func (h *GraphHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	node, err := h.editor.AddNode(req.vector())
	if err != nil {
		h.writeServiceError(w, "Failed to create node", err)
		return
	}

	h.writeJSON(w, node, http.StatusCreated)
}

// DeleteNode removes a node and its connections
func (h *GraphHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.RemoveNode(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete node", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveNode drags a single node
func (h *GraphHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req DeltaRequest
	if !h.decode(w, r, &req) {
		return
	}

	node, err := h.editor.MoveNode(chi.URLParam(r, "id"), req.vector())
	if err != nil {
		h.writeServiceError(w, "Failed to move node", err)
		return
	}

	h.writeJSON(w, node, http.StatusOK)
}

// SetTitle renames a node
func (h *GraphHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if !h.decode(w, r, &req) {
		return
	}

	node, err := h.editor.SetTitle(chi.URLParam(r, "id"), req.Title)
	if err != nil {
		h.writeServiceError(w, "Failed to set title", err)
		return
	}

	h.writeJSON(w, node, http.StatusOK)
}

// PickPoint feeds a clicked connection point into the selection protocol
func (h *GraphHandler) PickPoint(w http.ResponseWriter, r *http.Request) {
	conn, selection, err := h.editor.PickPoint(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to pick point", err)
		return
	}

	status := http.StatusOK
	if conn != nil {
		status = http.StatusCreated
	}
	h.writeJSON(w, PickResponse{
		Connection: conn,
		Selection:  selection,
	}, status)
}

// ClickCanvas cancels the pending selection and selects the node under the cursor
func (h *GraphHandler) ClickCanvas(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	selected, err := h.editor.ClickCanvas(req.vector())
	if err != nil {
		h.writeServiceError(w, "Failed to click canvas", err)
		return
	}

	h.writeJSON(w, ClickResponse{SelectedNodeID: selected}, http.StatusOK)
}

// DragCanvas pans the canvas by dragging every node
func (h *GraphHandler) DragCanvas(w http.ResponseWriter, r *http.Request) {
	var req DeltaRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.editor.DragAll(req.vector()); err != nil {
		h.writeServiceError(w, "Failed to drag canvas", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteConnection removes a single connection
func (h *GraphHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.RemoveConnection(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete connection", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Save persists the graph
func (h *GraphHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Save(r.Context()); err != nil {
		h.writeServiceError(w, "Failed to save graph", err)
		return
	}

	h.writeJSON(w, map[string]string{"status": "saved"}, http.StatusOK)
}

// Load replaces the graph with the persisted one and returns it
func (h *GraphHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Load(r.Context()); err != nil {
		h.writeServiceError(w, "Failed to load graph", err)
		return
	}

	h.writeJSON(w, h.editor.Snapshot(), http.StatusOK)
}

// Health reports liveness and whether a save or load is running
func (h *GraphHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"status": "ok",
		"busy":   h.editor.Busy(),
	}, http.StatusOK)
}

// Helper methods

// decode reads a JSON body into dst and validates it, writing a 400 on failure
func (h *GraphHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, ErrorResponse{Error: "Invalid request body", Details: err.Error()}, http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, ErrorResponse{Error: "Invalid request body", Details: validationDetails(err)}, http.StatusBadRequest)
		return false
	}
	return true
}

func validationDetails(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// writeServiceError maps controller errors to HTTP status codes
func (h *GraphHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	resp := ErrorResponse{Error: msg, Details: err.Error()}

	var dangling *domain.DanglingReferenceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, resp, http.StatusNotFound)
	case errors.Is(err, domain.ErrBusy):
		h.writeError(w, resp, http.StatusConflict)
	case errors.As(err, &dangling):
		resp.PointID = dangling.PointID
		h.writeError(w, resp, http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrDanglingReference),
		errors.Is(err, domain.ErrDuplicatePoint),
		errors.Is(err, domain.ErrMissingPointID),
		errors.Is(err, domain.ErrInvalidConnection):
		h.writeError(w, resp, http.StatusUnprocessableEntity)
	default:
		h.logger.Error(msg, zap.Error(err))
		h.writeError(w, resp, http.StatusInternalServerError)
	}
}

func (h *GraphHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func (h *GraphHandler) writeError(w http.ResponseWriter, resp ErrorResponse, statusCode int) {
	h.writeJSON(w, resp, statusCode)
}
