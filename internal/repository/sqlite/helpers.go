package sqlite

import (
	"nodegraph/internal/domain"
)

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a column to node_records:
// 1. Add field to nodeRow (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update nodeColumns constant - APPEND to end
// 4. Update toRecord() and nodeInsertArgs()
// 5. Add the column in migrate()
//
// CRITICAL: Column order must match between nodeColumns, scanArgs() and
// nodeInsertArgs(). Same pattern applies to connection_records.

// ============================================================================
// Node Record Row
// ============================================================================

// nodeRow holds all columns from a node_records query for scanning
type nodeRow struct {
	X          float64
	Y          float64
	Width      float64
	Height     float64
	InPointID  string
	OutPointID string
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly
func (r *nodeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.X,          // 1
		&r.Y,          // 2
		&r.Width,      // 3
		&r.Height,     // 4
		&r.InPointID,  // 5
		&r.OutPointID, // 6
	}
}

// toRecord converts the scanned row to a domain.NodeRecord
func (r *nodeRow) toRecord() domain.NodeRecord {
	return domain.NodeRecord{
		Rect:     domain.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		InPoint:  domain.PointRecord{ID: r.InPointID},
		OutPoint: domain.PointRecord{ID: r.OutPointID},
	}
}

// nodeColumns is the SELECT column list for node record queries
const nodeColumns = `x, y, width, height, in_point_id, out_point_id`

// nodeInsertArgs prepares arguments for a node_records INSERT
// Returns: store_key, seq, then nodeColumns
func nodeInsertArgs(key string, seq int, rec domain.NodeRecord) []interface{} {
	return []interface{}{
		key,
		seq,
		rec.Rect.X,
		rec.Rect.Y,
		rec.Rect.Width,
		rec.Rect.Height,
		rec.InPoint.ID,
		rec.OutPoint.ID,
	}
}

// ============================================================================
// Connection Record Row
// ============================================================================

// connectionRow holds all columns from a connection_records query for scanning
type connectionRow struct {
	InPointID  string
	OutPointID string
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match connectionColumns order exactly
func (r *connectionRow) scanArgs() []interface{} {
	return []interface{}{
		&r.InPointID,  // 1
		&r.OutPointID, // 2
	}
}

// toRecord converts the scanned row to a domain.ConnectionRecord
func (r *connectionRow) toRecord() domain.ConnectionRecord {
	return domain.ConnectionRecord{
		InPoint:  domain.PointRecord{ID: r.InPointID},
		OutPoint: domain.PointRecord{ID: r.OutPointID},
	}
}

// connectionColumns is the SELECT column list for connection record queries
const connectionColumns = `in_point_id, out_point_id`

// connectionInsertArgs prepares arguments for a connection_records INSERT
// Returns: store_key, seq, then connectionColumns
func connectionInsertArgs(key string, seq int, rec domain.ConnectionRecord) []interface{} {
	return []interface{}{
		key,
		seq,
		rec.InPoint.ID,
		rec.OutPoint.ID,
	}
}
