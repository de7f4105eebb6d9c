package domain

import "encoding/xml"

// PointRecord is the persisted form of a connection point. Only the ID is kept:
// kind and owner follow from where the record sits inside its node.
type PointRecord struct {
	ID string `json:"id" yaml:"id" xml:"id"`
}

// NodeRecord is the persisted form of a node
type NodeRecord struct {
	XMLName  xml.Name    `json:"-" yaml:"-" xml:"Node"`
	Rect     Rect        `json:"rect" yaml:"rect" xml:"rect"`
	InPoint  PointRecord `json:"in_point" yaml:"in_point" xml:"inPoint"`
	OutPoint PointRecord `json:"out_point" yaml:"out_point" xml:"outPoint"`
}

// ConnectionRecord is the persisted form of a connection: the IDs of its two points
type ConnectionRecord struct {
	XMLName  xml.Name    `json:"-" yaml:"-" xml:"Connection"`
	InPoint  PointRecord `json:"in_point" yaml:"in_point" xml:"inPoint"`
	OutPoint PointRecord `json:"out_point" yaml:"out_point" xml:"outPoint"`
}
