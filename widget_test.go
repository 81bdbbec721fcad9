package guidemask

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// --- Constructor defaults ---

func TestNewPanelDefaults(t *testing.T) {
	w := NewPanel("panel")
	assertWidgetDefaults(t, w, "panel", KindPanel)
}

func TestNewLeafDefaults(t *testing.T) {
	w := NewLeaf("leaf", 32, 16)
	assertWidgetDefaults(t, w, "leaf", KindLeaf)
	if w.Width != 32 || w.Height != 16 {
		t.Errorf("size = (%v, %v), want (32, 16)", w.Width, w.Height)
	}
}

func assertWidgetDefaults(t *testing.T, w *Widget, name string, kind WidgetKind) {
	t.Helper()
	if w.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if w.Name != name {
		t.Errorf("Name = %q, want %q", w.Name, name)
	}
	if w.Kind != kind {
		t.Errorf("Kind = %v, want %v", w.Kind, kind)
	}
	if w.ScaleX != 1 || w.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", w.ScaleX, w.ScaleY)
	}
	if !w.Visible {
		t.Error("Visible should be true")
	}
	if w.Probe() || w.Class() != nil || w.Item() != nil {
		t.Error("fresh widget should carry no entry bookkeeping")
	}
}

func TestWidgetIDsUnique(t *testing.T) {
	a, b := NewPanel("a"), NewPanel("b")
	if a.ID == b.ID {
		t.Errorf("IDs should differ, both %d", a.ID)
	}
}

// --- Tree manipulation ---

func TestAddChildReparents(t *testing.T) {
	p1, p2 := NewPanel("p1"), NewPanel("p2")
	c := NewLeaf("c", 1, 1)
	p1.AddChild(c)
	p2.AddChild(c)
	if c.Parent != p2 {
		t.Error("child should be reparented to p2")
	}
	if p1.NumChildren() != 0 || p2.NumChildren() != 1 {
		t.Errorf("children = %d, %d; want 0, 1", p1.NumChildren(), p2.NumChildren())
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a, b := NewPanel("a"), NewPanel("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil child")
		}
	}()
	NewPanel("a").AddChild(nil)
}

func TestAddChildAt(t *testing.T) {
	p := NewPanel("p")
	a, b, c := NewLeaf("a", 1, 1), NewLeaf("b", 1, 1), NewLeaf("c", 1, 1)
	p.AddChild(a)
	p.AddChild(c)
	p.AddChildAt(b, 1)
	if diff := cmp.Diff([]string{"a", "b", "c"}, names(p.Children())); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	if p.ChildAt(1) != b {
		t.Error("ChildAt(1) should be b")
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	p, other := NewPanel("p"), NewPanel("other")
	c := NewLeaf("c", 1, 1)
	other.AddChild(c)
	defer func() {
		if recover() == nil {
			t.Error("expected panic removing a foreign child")
		}
	}()
	p.RemoveChild(c)
}

func TestRemoveFromParentNoParent(t *testing.T) {
	NewLeaf("c", 1, 1).RemoveFromParent() // must not panic
}

func TestFindByNamePreOrder(t *testing.T) {
	root := NewPanel("root")
	a := NewPanel("a")
	deep := NewLeaf("x", 1, 1)
	a.AddChild(deep)
	shallow := NewLeaf("x", 1, 1)
	root.AddChild(a)
	root.AddChild(shallow)

	if got := root.FindByName("x"); got != deep {
		t.Error("FindByName should return the pre-order first match")
	}
	if root.FindByName("root") != nil {
		t.Error("FindByName should not consider the widget itself")
	}
	deep.Dispose()
	if got := root.FindByName("x"); got != shallow {
		t.Error("FindByName should skip disposed widgets")
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := NewPanel("root")
	a := NewPanel("a")
	a.AddChild(NewLeaf("a1", 1, 1))
	root.AddChild(a)
	root.AddChild(NewLeaf("b", 1, 1))

	var seen []string
	root.Walk(func(w *Widget) bool {
		seen = append(seen, w.Name)
		return w.Name != "a"
	})
	if diff := cmp.Diff([]string{"root", "a", "b"}, seen); diff != "" {
		t.Errorf("walk order (-want +got):\n%s", diff)
	}
}

func TestPath(t *testing.T) {
	root := NewPanel("root")
	mid := NewPanel("mid")
	leaf := NewLeaf("leaf", 1, 1)
	root.AddChild(mid)
	mid.AddChild(leaf)
	if got := leaf.Path(); got != "root/mid/leaf" {
		t.Errorf("Path = %q", got)
	}
}

func TestWidgetScene(t *testing.T) {
	s := NewScene()
	w := NewLeaf("w", 1, 1)
	if w.Scene() != nil {
		t.Error("detached widget should have no scene")
	}
	s.Root().AddChild(w)
	if w.Scene() != s {
		t.Error("attached widget should report its scene")
	}
}

// --- Disposal ---

func TestDisposeRecursive(t *testing.T) {
	p := NewPanel("p")
	c := NewPanel("c")
	gc := NewLeaf("gc", 1, 1)
	c.AddChild(gc)
	p.AddChild(c)

	c.Dispose()
	if !c.IsDisposed() || !gc.IsDisposed() {
		t.Error("child and grandchild should be disposed")
	}
	if p.NumChildren() != 0 {
		t.Error("disposed child should be detached")
	}
	if Alive(c) || Alive(gc) {
		t.Error("disposed widgets are not alive")
	}
	c.Dispose() // second dispose is a no-op
}

func TestAliveNil(t *testing.T) {
	if Alive(nil) {
		t.Error("nil is not alive")
	}
}

func TestDisposeContainerReleasesState(t *testing.T) {
	l := NewListView("list", slotClass("slot"))
	called := false
	l.OnEntryGenerated(func(any, *Widget) { called = true })
	l.Widget().Dispose()
	l.SetItems([]any{"a"})
	l.realize()
	if called || len(l.Entries()) != 0 {
		t.Error("disposed list should not realize entries")
	}
}
