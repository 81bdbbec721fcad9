package guidemask

import "strings"

// ClickContext carries click event data.
type ClickContext struct {
	Widget  *Widget
	GlobalX float64
	GlobalY float64
	LocalX  float64
	LocalY  float64
	Button  MouseButton
}

// --- ID counter ---

// widgetIDCounter is a plain counter (no atomic, guidemask is single-threaded).
var widgetIDCounter uint32

func nextWidgetID() uint32 {
	widgetIDCounter++
	return widgetIDCounter
}

// --- Widget ---

// Widget is the element of the guide hierarchy. A single flat struct is used
// for every kind; dynamic containers and registries hang their state off the
// unexported container field.
type Widget struct {
	// Identity
	ID   uint32
	Name string
	Kind WidgetKind

	// Hierarchy
	Parent   *Widget
	children []*Widget

	// Layout (local)
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64

	// Computed, refreshed by updateWorldTransform.
	worldTransform [6]float64
	transformDirty bool

	// Presentation
	Visible      bool
	Interactable bool
	Color        Color
	Label        string

	// Metadata
	UserData any

	// Impl is the native implementation object behind this widget. Entry
	// widgets expose their nested widgets by setting Impl to a value that
	// implements EntryGuideIdentifiable.
	Impl any

	OnClick func(ClickContext)

	// Dynamic container or registry state (nil for plain widgets).
	container any

	// Entry bookkeeping, set when a container constructs this widget.
	class *EntryClass
	item  any
	probe bool

	// scene is only set on a scene's root.
	scene *Scene

	disposed bool
}

// widgetDefaults sets the common default field values shared by all constructors.
func widgetDefaults(w *Widget) {
	w.ID = nextWidgetID()
	w.ScaleX = 1
	w.ScaleY = 1
	w.Visible = true
	w.transformDirty = true
}

func newWidget(name string, kind WidgetKind) *Widget {
	w := &Widget{Name: name, Kind: kind}
	widgetDefaults(w)
	return w
}

// NewPanel creates a static group widget.
func NewPanel(name string) *Widget {
	return newWidget(name, KindPanel)
}

// NewLeaf creates a plain widget of the given size.
func NewLeaf(name string, width, height float64) *Widget {
	w := newWidget(name, KindLeaf)
	w.Width = width
	w.Height = height
	return w
}

// Alive reports whether w refers to a live widget. A nil or disposed widget
// is treated as a null reference everywhere in guidemask.
func Alive(w *Widget) bool {
	return w != nil && !w.disposed
}

// Item returns the data item this entry widget was bound to, or nil.
func (w *Widget) Item() any {
	return w.item
}

// Class returns the entry class that constructed this widget, or nil.
func (w *Widget) Class() *EntryClass {
	return w.class
}

// Probe reports whether this widget is a transient instance created only to
// introspect an entry class. Probe widgets are never attached to a scene.
func (w *Widget) Probe() bool {
	return w.probe
}

// --- Tree manipulation ---

// AddChild appends child to this widget's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this widget (cycle).
func (w *Widget) AddChild(child *Widget) {
	if child == nil {
		panic("guidemask: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(w, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, w) {
		panic("guidemask: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = w
	w.children = append(w.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(w)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (w *Widget) AddChildAt(child *Widget, index int) {
	if child == nil {
		panic("guidemask: cannot add nil child")
	}
	if isAncestor(child, w) {
		panic("guidemask: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(w.children) {
		panic("guidemask: child index out of range")
	}
	child.Parent = w
	w.children = append(w.children, nil)
	copy(w.children[index+1:], w.children[index:])
	w.children[index] = child
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this widget.
// Panics if child.Parent != w.
func (w *Widget) RemoveChild(child *Widget) {
	if child.Parent != w {
		panic("guidemask: child's parent is not this widget")
	}
	w.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this widget from its parent.
// No-op if this widget has no parent.
func (w *Widget) RemoveFromParent() {
	if w.Parent == nil {
		return
	}
	w.Parent.RemoveChild(w)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (w *Widget) Children() []*Widget {
	return w.children
}

// NumChildren returns the number of children.
func (w *Widget) NumChildren() int {
	return len(w.children)
}

// ChildAt returns the child at the given index.
func (w *Widget) ChildAt(index int) *Widget {
	return w.children[index]
}

// FindByName returns the first live descendant (depth-first, pre-order) whose
// Name equals name. The widget itself is not considered.
func (w *Widget) FindByName(name string) *Widget {
	for _, c := range w.children {
		if c.disposed {
			continue
		}
		if c.Name == name {
			return c
		}
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits w and its live descendants in pre-order. Returning false from
// fn skips that widget's subtree.
func (w *Widget) Walk(fn func(*Widget) bool) {
	if w.disposed || !fn(w) {
		return
	}
	for _, c := range w.children {
		c.Walk(fn)
	}
}

// Path returns the slash-separated names from the topmost ancestor down to w.
func (w *Widget) Path() string {
	var parts []string
	for p := w; p != nil; p = p.Parent {
		parts = append(parts, p.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Scene returns the scene whose root is an ancestor of w, or nil when w is
// detached.
func (w *Widget) Scene() *Scene {
	p := w
	for p.Parent != nil {
		p = p.Parent
	}
	return p.scene
}

// --- Disposal ---

// disposer is implemented by container state that must release resources
// when its widget is disposed.
type disposer interface {
	onDispose()
}

// Dispose removes this widget from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.RemoveFromParent()
	w.dispose()
}

func (w *Widget) dispose() {
	w.disposed = true
	if d, ok := w.container.(disposer); ok {
		d.onDispose()
	}
	for _, child := range w.children {
		child.Parent = nil
		child.dispose()
	}
	w.children = nil
	w.Parent = nil
	w.Impl = nil
	w.UserData = nil
	w.OnClick = nil
	w.item = nil
}

// IsDisposed returns true if this widget has been disposed.
func (w *Widget) IsDisposed() bool {
	return w.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) w.
func isAncestor(candidate, w *Widget) bool {
	for p := w; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from w.children without clearing child.Parent.
func (w *Widget) removeChildByPtr(child *Widget) {
	for i, c := range w.children {
		if c == child {
			copy(w.children[i:], w.children[i+1:])
			w.children[len(w.children)-1] = nil
			w.children = w.children[:len(w.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on w and all its descendants.
func markSubtreeDirty(w *Widget) {
	w.transformDirty = true
	for _, child := range w.children {
		markSubtreeDirty(child)
	}
}
