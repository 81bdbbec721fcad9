package guidemask

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newAttachedList(s *Scene, class *EntryClass, items ...any) *ListView {
	l := NewListView("list", class)
	l.SetItems(items)
	s.Root().AddChild(l.Widget())
	return l
}

// --- ListView ---

func TestListViewRealizesOnTick(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"), "a", "b", "c")
	if len(l.Entries()) != 0 {
		t.Fatal("entries should not exist before a tick")
	}
	stepN(s, 1)
	if got := len(l.Entries()); got != 3 {
		t.Fatalf("entries = %d, want 3", got)
	}
	for i, item := range []any{"a", "b", "c"} {
		e := l.EntryFor(item)
		if e == nil {
			t.Fatalf("no entry for %v", item)
		}
		if e.Item() != item || e.Probe() || e.Class() != l.EntryClass() {
			t.Errorf("entry %d bookkeeping wrong", i)
		}
		if e.Y != float64(i)*20 {
			t.Errorf("entry %d Y = %v, want %v", i, e.Y, float64(i)*20)
		}
	}
}

func TestListViewVirtualWindow(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"), 0, 1, 2, 3, 4, 5)
	l.VisibleRows = 2
	stepN(s, 1)

	if l.EntryFor(0) == nil || l.EntryFor(1) == nil || l.EntryFor(2) != nil {
		t.Fatal("only the first two rows should be realized")
	}
	first := l.EntryFor(0)

	if !l.RequestScrollIntoView(4) {
		t.Fatal("RequestScrollIntoView should accept a known item")
	}
	if l.EntryFor(4) != nil {
		t.Error("scrolling realizes on the next tick, not immediately")
	}
	stepN(s, 1)
	if l.EntryFor(4) == nil || l.EntryFor(3) == nil {
		t.Error("rows 3 and 4 should be realized after scrolling")
	}
	if !first.IsDisposed() {
		t.Error("row scrolled out of the window should be disposed")
	}
	if l.ScrollOffset() != 3 {
		t.Errorf("offset = %d, want 3", l.ScrollOffset())
	}
	if l.RequestScrollIntoView(99) {
		t.Error("unknown item should not scroll")
	}
}

func TestListViewEntryGeneratedEvent(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"), "a", "b")
	var got []any
	h := l.OnEntryGenerated(func(item any, entry *Widget) {
		got = append(got, item)
		if entry.Item() != item {
			t.Errorf("entry bound to %v, event for %v", entry.Item(), item)
		}
	})
	stepN(s, 1)
	if diff := cmp.Diff([]any{"a", "b"}, got); diff != "" {
		t.Errorf("generated (-want +got):\n%s", diff)
	}

	// Already realized entries do not fire again.
	stepN(s, 1)
	if len(got) != 2 {
		t.Errorf("event fired again for existing entries: %v", got)
	}

	h.Remove()
	l.AddItem("c")
	stepN(s, 1)
	if len(got) != 2 {
		t.Error("removed handler should not fire")
	}
	if l.EntryFor("c") == nil {
		t.Error("new item should be realized")
	}
}

func TestListViewRemoveItemAndRefresh(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"), "a", "b")
	stepN(s, 1)
	a := l.EntryFor("a")

	if !l.RemoveItem("a") || l.RemoveItem("zzz") {
		t.Fatal("RemoveItem result wrong")
	}
	stepN(s, 1)
	if !a.IsDisposed() || l.EntryFor("a") != nil {
		t.Error("removed item's entry should be disposed")
	}

	b := l.EntryFor("b")
	l.Refresh()
	stepN(s, 1)
	if !b.IsDisposed() || l.EntryFor("b") == nil || l.EntryFor("b") == b {
		t.Error("Refresh should rebuild entries")
	}
}

func TestListViewNilClass(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, nil, "a")
	stepN(s, 1)
	if len(l.Entries()) != 0 {
		t.Error("list without an entry class realizes nothing")
	}
}

// taggedItem is uncomparable because of its slice field.
type taggedItem struct {
	Key  string
	Tags []string
}

func TestListViewUncomparableItems(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"),
		taggedItem{Key: "A", Tags: []string{"x"}},
		taggedItem{Key: "B", Tags: []string{"y"}})
	stepN(s, 1)

	second := l.EntryAt(1)
	if second == nil {
		t.Fatal("row 1 should be realized")
	}
	if got := second.Item().(taggedItem).Key; got != "B" {
		t.Errorf("row 1 bound to %q, want B", got)
	}

	// A window change keeps entries whose row did not move.
	l.SetScrollOffset(0)
	stepN(s, 1)
	if l.EntryAt(1) != second || second.IsDisposed() {
		t.Error("entry should survive a reconcile that does not touch its row")
	}

	// Replacing the collection cannot prove uncomparable items unchanged.
	l.SetItems([]any{taggedItem{Key: "C"}})
	stepN(s, 1)
	if !second.IsDisposed() || l.EntryAt(0) == nil || l.EntryAt(1) != nil {
		t.Error("SetItems should rebuild entries for uncomparable items")
	}
}

func TestListViewDuplicateItems(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"), "A", "A", "B")
	stepN(s, 1)

	first, second := l.EntryAt(0), l.EntryAt(1)
	if first == nil || second == nil || first == second {
		t.Fatal("equal items need distinct entries")
	}
	if got := len(l.Entries()); got != 3 {
		t.Errorf("entries = %d, want 3", got)
	}
	if l.Widget().NumChildren() != 3 {
		t.Errorf("children = %d, want 3", l.Widget().NumChildren())
	}

	// RemoveItem drops the first "A"; the second keeps its entry and moves up.
	l.RemoveItem("A")
	stepN(s, 1)
	if !first.IsDisposed() || second.IsDisposed() {
		t.Fatal("only the removed row's entry should be disposed")
	}
	if l.EntryAt(0) != second || second.Y != 0 {
		t.Error("surviving entry should move to row 0")
	}
}

func TestListViewSetItemsKeepsMovedEntries(t *testing.T) {
	s := NewScene()
	l := newAttachedList(s, slotClass("slot"), "a", "b")
	stepN(s, 1)
	b := l.EntryFor("b")

	l.SetItems([]any{"new", "a", "b"})
	stepN(s, 1)
	if l.EntryAt(2) != b || b.IsDisposed() {
		t.Error("b's entry should follow it to row 2")
	}
	if e := l.EntryAt(0); e == nil || e.Item() != "new" {
		t.Error("inserted row should get a fresh entry")
	}
}

func TestAsListViewIncludesTree(t *testing.T) {
	tv := NewTreeView("tree", slotClass("slot"), nil)
	if _, ok := AsListView(tv.Widget()); !ok {
		t.Error("AsListView should accept a tree view")
	}
	if _, ok := AsListView(NewPanel("p")); ok {
		t.Error("AsListView should reject a panel")
	}
	if !IsDynamicContainer(tv.Widget()) || IsDynamicContainer(NewPanel("p")) {
		t.Error("IsDynamicContainer wrong")
	}
	if EntryClassOf(tv.Widget()).Name != "slot" || EntryClassOf(NewPanel("p")) != nil {
		t.Error("EntryClassOf wrong")
	}
}

// --- TreeView ---

type node struct {
	key      string
	children []*node
}

func nodeChildren(item any) []any {
	n := item.(*node)
	out := make([]any, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func testForest() (roots []any, leaf *node) {
	leaf = &node{key: "leaf"}
	mid := &node{key: "mid", children: []*node{leaf}}
	top := &node{key: "top", children: []*node{mid}}
	other := &node{key: "other"}
	return []any{top, other}, leaf
}

func TestTreeViewDisplayFollowsExpansion(t *testing.T) {
	roots, leaf := testForest()
	tv := NewTreeView("tree", slotClass("slot"), nodeChildren)
	tv.SetRoots(roots)

	if got := len(tv.Items()); got != 2 {
		t.Fatalf("collapsed display = %d items, want 2", got)
	}
	if got := len(tv.listItems()); got != 4 {
		t.Errorf("listItems = %d items, want all 4", got)
	}

	tv.ExpandAll()
	if got := len(tv.Items()); got != 4 {
		t.Errorf("expanded display = %d items, want 4", got)
	}
	tv.Collapse(roots[0])
	if indexOfItem(tv.Items(), leaf) >= 0 {
		t.Error("collapsed subtree should be hidden")
	}
}

func TestTreeViewRequestIndexExpandsAncestors(t *testing.T) {
	s := NewScene()
	roots, leaf := testForest()
	tv := NewTreeView("tree", slotClass("slot"), nodeChildren)
	tv.SetRoots(roots)
	s.Root().AddChild(tv.Widget())

	if !tv.requestIndex(indexOfItem(tv.listItems(), leaf)) {
		t.Fatal("requestIndex should find a nested item")
	}
	if !tv.IsExpanded(roots[0]) {
		t.Error("ancestors should be expanded")
	}
	stepN(s, 1)
	if tv.EntryFor(leaf) == nil {
		t.Error("leaf entry should be realized")
	}
	if tv.requestIndex(-1) || tv.requestIndex(len(tv.listItems())) {
		t.Error("out-of-range index should not be requested")
	}
}

// --- EntryBox ---

func TestEntryBoxEagerEntries(t *testing.T) {
	b := NewEntryBox("box", slotClass("btn"))
	b.Spacing = 4
	e1 := b.CreateEntryWith("ok")
	e2 := b.CreateEntry()
	if len(b.AllEntries()) != 2 {
		t.Fatalf("entries = %d, want 2", len(b.AllEntries()))
	}
	if e1.Item() != "ok" || e2.Item() != nil {
		t.Error("entry items wrong")
	}
	if e2.Y != 24 {
		t.Errorf("second entry Y = %v, want 24", e2.Y)
	}

	b.Horizontal = true
	if !b.RemoveEntry(e1) || b.RemoveEntry(e1) {
		t.Error("RemoveEntry result wrong")
	}
	if !e1.IsDisposed() || e2.X != 0 {
		t.Error("remaining entry should be laid out from the start")
	}
	b.Reset()
	if len(b.AllEntries()) != 0 || !e2.IsDisposed() {
		t.Error("Reset should dispose every entry")
	}
}

func TestEntryBoxWithoutClass(t *testing.T) {
	b := NewEntryBox("box", nil)
	if b.CreateEntry() != nil {
		t.Error("entry box without class cannot create entries")
	}
}
