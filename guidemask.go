package guidemask

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to an 8-bit premultiplied color for ebiten draw calls.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Inset shrinks the rectangle by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// WidgetKind distinguishes how a Widget participates in guide resolution.
type WidgetKind uint8

const (
	KindPanel    WidgetKind = iota // static group of children
	KindLeaf                       // plain widget with no children of interest
	KindListView                   // list-like dynamic container
	KindTreeView                   // list-like dynamic container over a forest of items
	KindEntryBox                   // entry-box-like dynamic container
	KindRegistry                   // tag registry wrapping a content widget
	KindLayer                      // guide overlay layer
)

var kindNames = [...]string{
	KindPanel:    "panel",
	KindLeaf:     "leaf",
	KindListView: "list",
	KindTreeView: "tree",
	KindEntryBox: "entrybox",
	KindRegistry: "registry",
	KindLayer:    "layer",
}

func (k WidgetKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// EventType identifies a kind of guide event.
type EventType uint8

const (
	EventGuideShown         EventType = iota // a layer was added to the viewport with a target
	EventGuideDegraded                       // a resolution settled short of its full path
	EventGuideTargetClicked                  // the pointer was released inside a guide hole
	EventGuideDismissed                      // a layer was removed from the viewport
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
