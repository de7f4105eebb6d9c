package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"nodegraph/internal/domain"
	"nodegraph/internal/metrics"
	"nodegraph/internal/repository"

	"go.uber.org/zap"
)

// Default store keys
const (
	DefaultNodesKey       = "nodes"
	DefaultConnectionsKey = "connections"
)

// ControllerConfig configures a GraphController. Zero values fall back to defaults.
type ControllerConfig struct {
	NodeSize       domain.Vector2
	NodesKey       string
	ConnectionsKey string
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// GraphController owns the node and connection collections of one graph.
// All mutations run under a single lock so readers never observe half of a
// cascade. While a save or load is in flight every intent fails with
// domain.ErrBusy.
type GraphController struct {
	mu          sync.RWMutex
	nodes       []*domain.Node
	connections []*domain.Connection
	selection   domain.Selection

	busy     atomic.Bool
	lastSave atomic.Int64

	gateway        repository.Gateway
	eventBus       *EventBus
	logger         *zap.Logger
	metrics        *metrics.Metrics
	nodeSize       domain.Vector2
	nodesKey       string
	connectionsKey string
}

// NewGraphController creates an empty graph persisted through gateway
func NewGraphController(gateway repository.Gateway, eventBus *EventBus, cfg ControllerConfig) *GraphController {
	c := &GraphController{
		nodes:          make([]*domain.Node, 0),
		connections:    make([]*domain.Connection, 0),
		gateway:        gateway,
		eventBus:       eventBus,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		nodeSize:       cfg.NodeSize,
		nodesKey:       cfg.NodesKey,
		connectionsKey: cfg.ConnectionsKey,
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.nodeSize.X <= 0 || c.nodeSize.Y <= 0 {
		c.nodeSize = domain.DefaultNodeSize
	}
	if c.nodesKey == "" {
		c.nodesKey = DefaultNodesKey
	}
	if c.connectionsKey == "" {
		c.connectionsKey = DefaultConnectionsKey
	}

	return c
}

// lock takes the write lock unless a save or load is running
func (c *GraphController) lock() error {
	c.mu.Lock()
	if c.busy.Load() {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	return nil
}

// unlock releases the write lock and refreshes the size gauges
func (c *GraphController) unlock() {
	nodes, connections := len(c.nodes), len(c.connections)
	c.mu.Unlock()
	c.metrics.RecordGraphSize(nodes, connections)
}

// ============================================================================
// Mutation protocol
// ============================================================================

// AddNode creates a node of the default size at position
func (c *GraphController) AddNode(position domain.Vector2) (NodeView, error) {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("add_node", err)
		return NodeView{}, err
	}
	node := domain.NewNode(position, c.nodeSize)
	c.nodes = append(c.nodes, node)
	view := newNodeView(node)
	c.unlock()

	c.metrics.RecordMutation("add_node", nil)
	c.logger.Debug("node added", zap.String("node_id", view.ID),
		zap.Float64("x", position.X), zap.Float64("y", position.Y))
	c.eventBus.Publish(Event{Type: EventNodeAdded, Payload: view})

	return view, nil
}

// RemoveNode removes a node together with every connection that references
// its input or output point
func (c *GraphController) RemoveNode(id string) error {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("remove_node", err)
		return err
	}

	idx := c.nodeIndex(id)
	if idx < 0 {
		c.unlock()
		err := fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		c.metrics.RecordMutation("remove_node", err)
		return err
	}
	node := c.nodes[idx]

	// collect the cascade before touching the collection
	cascade := make(map[*domain.Connection]bool)
	for _, conn := range c.connections {
		if conn.References(node) {
			cascade[conn] = true
		}
	}

	removed := make([]string, 0, len(cascade))
	kept := make([]*domain.Connection, 0, len(c.connections)-len(cascade))
	for _, conn := range c.connections {
		if cascade[conn] {
			removed = append(removed, conn.ID)
			continue
		}
		kept = append(kept, conn)
	}
	c.connections = kept
	c.nodes = slices.Delete(c.nodes, idx, idx+1)
	c.selection.Forget(node)
	c.unlock()

	c.metrics.RecordMutation("remove_node", nil)
	c.logger.Debug("node removed", zap.String("node_id", id), zap.Int("cascaded_connections", len(removed)))
	c.eventBus.Publish(Event{
		Type:    EventNodeRemoved,
		Payload: map[string]interface{}{"node_id": id, "connection_ids": removed},
	})

	return nil
}

// RemoveConnection removes a single connection
func (c *GraphController) RemoveConnection(id string) error {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("remove_connection", err)
		return err
	}

	idx := slices.IndexFunc(c.connections, func(conn *domain.Connection) bool { return conn.ID == id })
	if idx < 0 {
		c.unlock()
		err := fmt.Errorf("connection %s: %w", id, domain.ErrNotFound)
		c.metrics.RecordMutation("remove_connection", err)
		return err
	}
	c.connections = slices.Delete(c.connections, idx, idx+1)
	c.unlock()

	c.metrics.RecordMutation("remove_connection", nil)
	c.logger.Debug("connection removed", zap.String("connection_id", id))
	c.eventBus.Publish(Event{
		Type:    EventConnectionRemoved,
		Payload: map[string]string{"connection_id": id},
	})

	return nil
}

// MoveNode translates one node by delta
func (c *GraphController) MoveNode(id string, delta domain.Vector2) (NodeView, error) {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("move_node", err)
		return NodeView{}, err
	}

	node := c.findNode(id)
	if node == nil {
		c.unlock()
		err := fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		c.metrics.RecordMutation("move_node", err)
		return NodeView{}, err
	}
	node.Drag(delta)
	view := newNodeView(node)
	c.unlock()

	c.metrics.RecordMutation("move_node", nil)
	c.eventBus.Publish(Event{Type: EventNodeMoved, Payload: view})

	return view, nil
}

// DragAll translates every node by delta, i.e. pans the canvas
func (c *GraphController) DragAll(delta domain.Vector2) error {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("drag_all", err)
		return err
	}
	for _, node := range c.nodes {
		node.Drag(delta)
	}
	count := len(c.nodes)
	c.unlock()

	c.metrics.RecordMutation("drag_all", nil)
	c.eventBus.Publish(Event{
		Type:    EventNodesDragged,
		Payload: map[string]interface{}{"dx": delta.X, "dy": delta.Y, "count": count},
	})

	return nil
}

// SetTitle sets the display title of a node
func (c *GraphController) SetTitle(id, title string) (NodeView, error) {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("set_title", err)
		return NodeView{}, err
	}

	node := c.findNode(id)
	if node == nil {
		c.unlock()
		err := fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		c.metrics.RecordMutation("set_title", err)
		return NodeView{}, err
	}
	node.Title = title
	view := newNodeView(node)
	c.unlock()

	c.metrics.RecordMutation("set_title", nil)
	c.eventBus.Publish(Event{Type: EventNodeUpdated, Payload: view})

	return view, nil
}

// ============================================================================
// Selection
// ============================================================================

// PickPoint feeds a clicked connection point into the selection state machine.
// It returns the new connection when the pick completes a valid pair, or nil
// when the pick only changed the pending selection, together with the
// selection state the pick left behind. A pair on the same node is dropped
// without error.
func (c *GraphController) PickPoint(pointID string) (*ConnectionView, SelectionView, error) {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("pick_point", err)
		return nil, SelectionView{}, err
	}

	point := c.findPoint(pointID)
	if point == nil {
		c.unlock()
		err := fmt.Errorf("point %s: %w", pointID, domain.ErrNotFound)
		c.metrics.RecordMutation("pick_point", err)
		return nil, SelectionView{}, err
	}

	var created *ConnectionView
	if in, out, ok := c.selection.Pick(point); ok {
		conn, err := domain.NewConnection(in, out)
		if err != nil {
			c.unlock()
			c.metrics.RecordMutation("pick_point", err)
			return nil, SelectionView{}, err
		}
		c.connections = append(c.connections, conn)
		view := newConnectionView(conn)
		created = &view
	}
	selection := newSelectionView(&c.selection)
	c.unlock()

	c.metrics.RecordMutation("pick_point", nil)
	c.eventBus.Publish(Event{Type: EventSelectionChanged, Payload: selection})
	if created != nil {
		c.logger.Debug("connection created", zap.String("connection_id", created.ID),
			zap.String("in_point", created.InPointID), zap.String("out_point", created.OutPointID))
		c.eventBus.Publish(Event{Type: EventConnectionCreated, Payload: *created})
	}

	return created, selection, nil
}

// ClickCanvas handles a left click at position: the pending connection
// selection is always cancelled, and the topmost node under the cursor becomes
// the only selected node. It returns the selected node ID, or "" when the click
// hit empty canvas.
func (c *GraphController) ClickCanvas(position domain.Vector2) (string, error) {
	if err := c.lock(); err != nil {
		c.metrics.RecordMutation("click_canvas", err)
		return "", err
	}

	c.selection.Clear()

	selected := ""
	for i := len(c.nodes) - 1; i >= 0; i-- {
		node := c.nodes[i]
		node.Selected = selected == "" && node.Rect.Contains(position)
		if node.Selected {
			selected = node.ID
		}
	}
	selection := newSelectionView(&c.selection)
	c.unlock()

	c.metrics.RecordMutation("click_canvas", nil)
	c.eventBus.Publish(Event{
		Type:    EventSelectionChanged,
		Payload: map[string]interface{}{"selection": selection, "selected_node_id": selected},
	})

	return selected, nil
}

// ============================================================================
// Render state
// ============================================================================

// Snapshot returns a copy of the current graph for rendering
func (c *GraphController) Snapshot() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := View{
		Nodes:       make([]NodeView, 0, len(c.nodes)),
		Connections: make([]ConnectionView, 0, len(c.connections)),
		Selection:   newSelectionView(&c.selection),
	}
	for _, n := range c.nodes {
		view.Nodes = append(view.Nodes, newNodeView(n))
	}
	for _, conn := range c.connections {
		view.Connections = append(view.Connections, newConnectionView(conn))
	}
	return view
}

// Busy reports whether a save or load is in flight
func (c *GraphController) Busy() bool {
	return c.busy.Load()
}

// LastSave returns when the last successful save finished, or the zero time
func (c *GraphController) LastSave() time.Time {
	ns := c.lastSave.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ============================================================================
// Persistence
// ============================================================================

// Save writes the node and connection collections to the gateway under their
// two keys. Gateway errors are returned unchanged.
func (c *GraphController) Save(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return domain.ErrBusy
	}
	defer c.busy.Store(false)

	start := time.Now()

	c.mu.RLock()
	rawNodes, rawConnections := records(c.nodes, c.connections)
	c.mu.RUnlock()

	err := c.gateway.Save(ctx, rawNodes, rawConnections, c.nodesKey, c.connectionsKey)
	c.metrics.RecordPersistence("save", err, time.Since(start))
	if err != nil {
		c.logger.Error("save failed", zap.Error(err))
		return err
	}
	c.lastSave.Store(time.Now().UnixNano())

	c.logger.Info("graph saved",
		zap.Int("nodes", len(rawNodes)),
		zap.Int("connections", len(rawConnections)),
		zap.Duration("duration", time.Since(start)))
	c.eventBus.Publish(Event{
		Type:    EventGraphSaved,
		Payload: map[string]int{"nodes": len(rawNodes), "connections": len(rawConnections)},
	})

	return nil
}

// Load replaces the graph with the one held by the gateway. The stored
// records are reconciled into live nodes and connections first; if any
// connection references an unknown point the load is aborted and the current
// graph is left untouched.
func (c *GraphController) Load(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return domain.ErrBusy
	}
	defer c.busy.Store(false)

	start := time.Now()

	rawNodes, rawConnections, err := c.gateway.Load(ctx, c.nodesKey, c.connectionsKey)
	if err != nil {
		c.metrics.RecordPersistence("load", err, time.Since(start))
		c.logger.Error("load failed", zap.Error(err))
		return err
	}

	nodes, connections, err := Reconcile(rawNodes, rawConnections)
	c.metrics.RecordPersistence("load", err, time.Since(start))
	if err != nil {
		c.logger.Warn("load aborted: store is inconsistent", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.nodes = nodes
	c.connections = connections
	c.selection.Clear()
	c.mu.Unlock()
	c.metrics.RecordGraphSize(len(nodes), len(connections))

	c.logger.Info("graph loaded",
		zap.Int("nodes", len(nodes)),
		zap.Int("connections", len(connections)),
		zap.Duration("duration", time.Since(start)))
	c.eventBus.Publish(Event{
		Type:    EventGraphLoaded,
		Payload: map[string]int{"nodes": len(nodes), "connections": len(connections)},
	})

	return nil
}

// ============================================================================
// Lookups (caller holds the lock)
// ============================================================================

func (c *GraphController) nodeIndex(id string) int {
	return slices.IndexFunc(c.nodes, func(n *domain.Node) bool { return n.ID == id })
}

func (c *GraphController) findNode(id string) *domain.Node {
	if idx := c.nodeIndex(id); idx >= 0 {
		return c.nodes[idx]
	}
	return nil
}

func (c *GraphController) findPoint(id string) *domain.ConnectionPoint {
	for _, n := range c.nodes {
		if n.InPoint.ID == id {
			return n.InPoint
		}
		if n.OutPoint.ID == id {
			return n.OutPoint
		}
	}
	return nil
}
