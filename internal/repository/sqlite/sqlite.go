package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"nodegraph/internal/domain"
	"nodegraph/internal/repository"

	_ "modernc.org/sqlite"
)

const (
	kindNodes       = "nodes"
	kindConnections = "connections"
)

// Repository implements repository.Gateway using SQLite.
// Each keyed document is a set of rows ordered by seq.
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stores (
		key TEXT NOT NULL,
		kind TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (key, kind)
	);

	CREATE TABLE IF NOT EXISTS node_records (
		store_key TEXT NOT NULL,
		seq INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL,
		in_point_id TEXT NOT NULL,
		out_point_id TEXT NOT NULL,
		PRIMARY KEY (store_key, seq)
	);

	CREATE TABLE IF NOT EXISTS connection_records (
		store_key TEXT NOT NULL,
		seq INTEGER NOT NULL,
		in_point_id TEXT NOT NULL,
		out_point_id TEXT NOT NULL,
		PRIMARY KEY (store_key, seq)
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Save replaces both documents in one transaction
func (r *Repository) Save(ctx context.Context, nodes []domain.NodeRecord, connections []domain.ConnectionRecord, nodesKey, connectionsKey string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM node_records WHERE store_key = ?`, nodesKey); err != nil {
		return fmt.Errorf("failed to clear node records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM connection_records WHERE store_key = ?`, connectionsKey); err != nil {
		return fmt.Errorf("failed to clear connection records: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO node_records (store_key, seq, `+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node statement: %w", err)
	}
	defer nodeStmt.Close()

	for i, rec := range nodes {
		if _, err := nodeStmt.ExecContext(ctx, nodeInsertArgs(nodesKey, i, rec)...); err != nil {
			return fmt.Errorf("failed to insert node record %d: %w", i, err)
		}
	}

	connStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO connection_records (store_key, seq, `+connectionColumns+`)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare connection statement: %w", err)
	}
	defer connStmt.Close()

	for i, rec := range connections {
		if _, err := connStmt.ExecContext(ctx, connectionInsertArgs(connectionsKey, i, rec)...); err != nil {
			return fmt.Errorf("failed to insert connection record %d: %w", i, err)
		}
	}

	for _, s := range []struct{ key, kind string }{{nodesKey, kindNodes}, {connectionsKey, kindConnections}} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stores (key, kind, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key, kind) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		`, s.key, s.kind); err != nil {
			return fmt.Errorf("failed to record store %s: %w", s.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load reads both documents in stored order
func (r *Repository) Load(ctx context.Context, nodesKey, connectionsKey string) ([]domain.NodeRecord, []domain.ConnectionRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireStore(ctx, tx, nodesKey, kindNodes); err != nil {
		return nil, nil, err
	}
	if err := requireStore(ctx, tx, connectionsKey, kindConnections); err != nil {
		return nil, nil, err
	}

	nodes, err := loadNodes(ctx, tx, nodesKey)
	if err != nil {
		return nil, nil, err
	}

	connections, err := loadConnections(ctx, tx, connectionsKey)
	if err != nil {
		return nil, nil, err
	}

	return nodes, connections, nil
}

func requireStore(ctx context.Context, tx *sql.Tx, key, kind string) error {
	var found int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM stores WHERE key = ? AND kind = ?`, key, kind).Scan(&found)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", repository.ErrStoreNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("failed to query store %s: %w", key, err)
	}
	return nil
}

func loadNodes(ctx context.Context, tx *sql.Tx, key string) ([]domain.NodeRecord, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM node_records WHERE store_key = ? ORDER BY seq
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query node records: %w", err)
	}
	defer rows.Close()

	nodes := make([]domain.NodeRecord, 0)
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan node record: %w", err)
		}
		nodes = append(nodes, row.toRecord())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating node records: %w", err)
	}
	return nodes, nil
}

func loadConnections(ctx context.Context, tx *sql.Tx, key string) ([]domain.ConnectionRecord, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+connectionColumns+` FROM connection_records WHERE store_key = ? ORDER BY seq
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection records: %w", err)
	}
	defer rows.Close()

	connections := make([]domain.ConnectionRecord, 0)
	for rows.Next() {
		var row connectionRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan connection record: %w", err)
		}
		connections = append(connections, row.toRecord())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connection records: %w", err)
	}
	return connections, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
