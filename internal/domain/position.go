package domain

// Vector2 is a point or offset on the editor canvas
type Vector2 struct {
	X float64 `json:"x" yaml:"x" xml:"x"`
	Y float64 `json:"y" yaml:"y" xml:"y"`
}

// Add returns the sum of two vectors
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Rect is an axis-aligned box on the canvas: position of the top-left corner plus size
type Rect struct {
	X      float64 `json:"x" yaml:"x" xml:"x"`
	Y      float64 `json:"y" yaml:"y" xml:"y"`
	Width  float64 `json:"width" yaml:"width" xml:"width"`
	Height float64 `json:"height" yaml:"height" xml:"height"`
}

// NewRect creates a rect at position with the given size
func NewRect(position, size Vector2) Rect {
	return Rect{X: position.X, Y: position.Y, Width: size.X, Height: size.Y}
}

// Position returns the top-left corner
func (r Rect) Position() Vector2 {
	return Vector2{X: r.X, Y: r.Y}
}

// Size returns width and height as a vector
func (r Rect) Size() Vector2 {
	return Vector2{X: r.Width, Y: r.Height}
}

// Translate returns the rect moved by delta
func (r Rect) Translate(delta Vector2) Rect {
	return NewRect(r.Position().Add(delta), r.Size())
}

// Contains reports whether p lies inside the rect. The right and bottom edges are exclusive.
func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}
