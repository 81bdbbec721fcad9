package guidemask

import "reflect"

// CallbackHandle unregisters a callback added with one of the On* methods.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// dynamicContainer is implemented by every container whose children are
// realized from an entry class.
type dynamicContainer interface {
	EntryClass() *EntryClass
	realizedEntries() []*Widget
}

// listContainer is a dynamic container backed by an item collection whose
// entries realize asynchronously. Indexes refer to positions in listItems.
type listContainer interface {
	dynamicContainer
	listItems() []any
	entryAt(index int) *Widget
	requestIndex(index int) bool
	OnEntryGenerated(fn func(item any, entry *Widget)) CallbackHandle
}

// entryBoxContainer is a dynamic container whose entries exist eagerly.
type entryBoxContainer interface {
	dynamicContainer
	AllEntries() []*Widget
}

// realizer is stepped once per scene tick.
type realizer interface {
	realize()
}

// IsDynamicContainer reports whether w is a list-like or entry-box-like container.
func IsDynamicContainer(w *Widget) bool {
	if !Alive(w) {
		return false
	}
	_, ok := w.container.(dynamicContainer)
	return ok
}

// EntryClassOf returns the entry class of a dynamic container, or nil.
func EntryClassOf(w *Widget) *EntryClass {
	if !Alive(w) {
		return nil
	}
	if c, ok := w.container.(dynamicContainer); ok {
		return c.EntryClass()
	}
	return nil
}

// sameItem compares two items without panicking on uncomparable types.
func sameItem(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func indexOfItem(items []any, item any) int {
	for i, it := range items {
		if sameItem(it, item) {
			return i
		}
	}
	return -1
}

// --- ListView ---

// realizedEntry ties an entry to the row of the item it was bound to. A row
// of -1 marks an entry whose item left the collection.
type realizedEntry struct {
	row   int
	item  any
	entry *Widget
}

type entryHandler struct {
	id uint32
	fn func(item any, entry *Widget)
}

// ListView is a virtualized list. Only rows inside the visible window have
// entry widgets; they are realized on the next scene tick after the window
// or the item collection changes.
type ListView struct {
	w     *Widget
	class *EntryClass
	items []any

	// VisibleRows is the size of the realization window. Zero means every
	// item is realized.
	VisibleRows int
	// RowHeight is the vertical stride between entries.
	RowHeight float64

	offset   int
	realized []realizedEntry
	dirty    bool

	handlers  []entryHandler
	nextHdlID uint32
}

// NewListView creates a list container that builds entries from class.
func NewListView(name string, class *EntryClass) *ListView {
	l := &ListView{class: class, dirty: true}
	l.w = newWidget(name, KindListView)
	l.w.container = l
	return l
}

// AsListView returns the ListView behind w, including the one embedded in a
// TreeView.
func AsListView(w *Widget) (*ListView, bool) {
	if !Alive(w) {
		return nil, false
	}
	switch c := w.container.(type) {
	case *ListView:
		return c, true
	case *TreeView:
		return &c.ListView, true
	}
	return nil, false
}

// Widget returns the container widget.
func (l *ListView) Widget() *Widget { return l.w }

// EntryClass returns the class used to construct entries.
func (l *ListView) EntryClass() *EntryClass { return l.class }

// SetEntryClass replaces the entry class and releases every realized entry.
func (l *ListView) SetEntryClass(class *EntryClass) {
	l.class = class
	l.releaseAll()
	l.dirty = true
}

// Items returns the item collection. The returned slice MUST NOT be mutated.
func (l *ListView) Items() []any { return l.items }

func (l *ListView) listItems() []any { return l.items }

// SetItems replaces the item collection. Realized entries follow their item
// to its new row when the item is still present.
func (l *ListView) SetItems(items []any) {
	l.items = append(l.items[:0:0], items...)
	l.reseat()
	l.clampOffset()
	l.dirty = true
}

// reseat maps realized entries onto the rows of the current items in order.
// Entries whose item is gone or cannot be compared lose their row.
func (l *ListView) reseat() {
	next := 0
	for i := range l.realized {
		r := &l.realized[i]
		r.row = -1
		for j := next; j < len(l.items); j++ {
			if sameItem(l.items[j], r.item) {
				r.row, next = j, j+1
				break
			}
		}
	}
}

// AddItem appends an item.
func (l *ListView) AddItem(item any) {
	l.items = append(l.items, item)
	l.dirty = true
}

// RemoveItem removes the first occurrence of item. Returns false if absent.
func (l *ListView) RemoveItem(item any) bool {
	i := indexOfItem(l.items, item)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	for j := range l.realized {
		switch r := &l.realized[j]; {
		case r.row == i:
			r.row = -1
		case r.row > i:
			r.row--
		}
	}
	l.clampOffset()
	l.dirty = true
	return true
}

// Refresh forces every realized entry to be rebuilt on the next tick.
func (l *ListView) Refresh() {
	l.releaseAll()
	l.dirty = true
}

// ScrollOffset returns the index of the first visible row.
func (l *ListView) ScrollOffset() int { return l.offset }

// SetScrollOffset moves the realization window.
func (l *ListView) SetScrollOffset(offset int) {
	l.offset = offset
	l.clampOffset()
	l.dirty = true
}

// RequestScrollIntoView moves the window so that item becomes visible. The
// entry is realized on a later tick. Returns false if item is not in the list.
func (l *ListView) RequestScrollIntoView(item any) bool {
	return l.ScrollToRow(indexOfItem(l.items, item))
}

// ScrollToRow moves the window so that the row at index becomes visible.
// Returns false if index is out of range.
func (l *ListView) ScrollToRow(index int) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	if l.VisibleRows > 0 {
		if index < l.offset {
			l.offset = index
		} else if index >= l.offset+l.VisibleRows {
			l.offset = index - l.VisibleRows + 1
		}
	}
	l.dirty = true
	return true
}

func (l *ListView) requestIndex(index int) bool { return l.ScrollToRow(index) }

// EntryFor returns the realized entry bound to the first row holding item,
// or nil. Items are compared with ==, so items of uncomparable types are
// only reachable through EntryAt.
func (l *ListView) EntryFor(item any) *Widget {
	for _, r := range l.realized {
		if r.row >= 0 && sameItem(r.item, item) && Alive(r.entry) {
			return r.entry
		}
	}
	return nil
}

// EntryAt returns the realized entry for the row at index in Items, or nil.
func (l *ListView) EntryAt(index int) *Widget {
	for _, r := range l.realized {
		if r.row == index && Alive(r.entry) {
			return r.entry
		}
	}
	return nil
}

func (l *ListView) entryAt(index int) *Widget { return l.EntryAt(index) }

// Entries returns the realized entries in row order.
func (l *ListView) Entries() []*Widget {
	out := make([]*Widget, 0, len(l.realized))
	for _, r := range l.realized {
		if Alive(r.entry) {
			out = append(out, r.entry)
		}
	}
	return out
}

func (l *ListView) realizedEntries() []*Widget { return l.Entries() }

// OnEntryGenerated registers fn to run whenever an entry is realized for an item.
func (l *ListView) OnEntryGenerated(fn func(item any, entry *Widget)) CallbackHandle {
	l.nextHdlID++
	id := l.nextHdlID
	l.handlers = append(l.handlers, entryHandler{id: id, fn: fn})
	return CallbackHandle{remove: func() {
		for i, h := range l.handlers {
			if h.id == id {
				l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
				return
			}
		}
	}}
}

func (l *ListView) clampOffset() {
	maxOffset := len(l.items) - l.VisibleRows
	if l.VisibleRows <= 0 || maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *ListView) window() (int, int) {
	if l.VisibleRows <= 0 {
		return 0, len(l.items)
	}
	end := l.offset + l.VisibleRows
	if end > len(l.items) {
		end = len(l.items)
	}
	return l.offset, end
}

// realize reconciles realized entries with the visible window. Entries are
// kept by row; rows that scrolled out or lost their item are disposed, and
// newly visible rows get fresh entries and fire the entry-generated event.
func (l *ListView) realize() {
	if !l.dirty || l.w.disposed {
		return
	}
	l.dirty = false
	start, end := l.window()

	kept := make(map[int]*Widget, len(l.realized))
	for _, r := range l.realized {
		if r.row >= start && r.row < end && Alive(r.entry) && kept[r.row] == nil {
			kept[r.row] = r.entry
			continue
		}
		if Alive(r.entry) {
			r.entry.Dispose()
		}
	}

	var generated []realizedEntry
	next := make([]realizedEntry, 0, end-start)
	y := 0.0
	for row := start; row < end; row++ {
		item := l.items[row]
		entry := kept[row]
		if entry == nil {
			entry = l.class.construct(false)
			if entry == nil {
				continue
			}
			l.class.bind(entry, item)
			l.w.AddChild(entry)
			generated = append(generated, realizedEntry{row: row, item: item, entry: entry})
		}
		entry.SetPosition(0, y)
		if l.RowHeight > 0 {
			y += l.RowHeight
		} else {
			y += entry.Height
		}
		next = append(next, realizedEntry{row: row, item: item, entry: entry})
	}
	l.realized = next

	for _, g := range generated {
		for _, h := range append([]entryHandler(nil), l.handlers...) {
			h.fn(g.item, g.entry)
		}
	}
}

func (l *ListView) releaseAll() {
	for _, r := range l.realized {
		if Alive(r.entry) {
			r.entry.Dispose()
		}
	}
	l.realized = nil
}

func (l *ListView) onDispose() {
	l.realized = nil
	l.handlers = nil
}

// --- TreeView ---

// TreeView is a ListView over a forest of items. The display list is the
// pre-order flattening of expanded nodes.
type TreeView struct {
	ListView

	roots    []any
	children func(item any) []any
	expanded []any
}

// NewTreeView creates a tree container. children returns the child items of
// an item and may be nil for a flat forest.
func NewTreeView(name string, class *EntryClass, children func(item any) []any) *TreeView {
	t := &TreeView{children: children}
	t.class = class
	t.dirty = true
	t.w = newWidget(name, KindTreeView)
	t.w.container = t
	return t
}

// AsTreeView returns the TreeView behind w.
func AsTreeView(w *Widget) (*TreeView, bool) {
	if !Alive(w) {
		return nil, false
	}
	t, ok := w.container.(*TreeView)
	return t, ok
}

// SetRoots replaces the root items.
func (t *TreeView) SetRoots(roots []any) {
	t.roots = append(t.roots[:0:0], roots...)
	t.rebuild()
}

// Roots returns the root items. The returned slice MUST NOT be mutated.
func (t *TreeView) Roots() []any { return t.roots }

func (t *TreeView) childrenOf(item any) []any {
	if t.children == nil {
		return nil
	}
	return t.children(item)
}

// IsExpanded reports whether item's children are displayed.
func (t *TreeView) IsExpanded(item any) bool {
	return indexOfItem(t.expanded, item) >= 0
}

// Expand displays item's children.
func (t *TreeView) Expand(item any) {
	if t.IsExpanded(item) {
		return
	}
	t.expanded = append(t.expanded, item)
	t.rebuild()
}

// Collapse hides item's children.
func (t *TreeView) Collapse(item any) {
	i := indexOfItem(t.expanded, item)
	if i < 0 {
		return
	}
	t.expanded = append(t.expanded[:i], t.expanded[i+1:]...)
	t.rebuild()
}

// ExpandAll expands every item that has children.
func (t *TreeView) ExpandAll() {
	t.expanded = t.expanded[:0]
	for _, it := range t.allItems() {
		if len(t.childrenOf(it)) > 0 {
			t.expanded = append(t.expanded, it)
		}
	}
	t.rebuild()
}

// allItems returns every item in pre-order regardless of expansion.
func (t *TreeView) allItems() []any {
	var out []any
	var walk func(items []any, depth int)
	walk = func(items []any, depth int) {
		if depth > debugMaxTreeDepth {
			return
		}
		for _, it := range items {
			out = append(out, it)
			walk(t.childrenOf(it), depth+1)
		}
	}
	walk(t.roots, 0)
	return out
}

func (t *TreeView) listItems() []any { return t.allItems() }

// locate finds the item at index in the pre-order of every item. It returns
// the item's ancestors, root first, and its display row, which is -1 while a
// collapsed ancestor hides it.
func (t *TreeView) locate(index int) (chain []any, row int, ok bool) {
	pos := 0
	var walk func(items []any, depth int, shown bool) bool
	walk = func(items []any, depth int, shown bool) bool {
		if depth > debugMaxTreeDepth {
			return false
		}
		for _, it := range items {
			if pos == index {
				if !shown {
					row = -1
				}
				return true
			}
			pos++
			if shown {
				row++
			}
			chain = append(chain, it)
			if walk(t.childrenOf(it), depth+1, shown && t.IsExpanded(it)) {
				return true
			}
			chain = chain[:len(chain)-1]
		}
		return false
	}
	if index < 0 || !walk(t.roots, 0, true) {
		return nil, -1, false
	}
	return chain, row, true
}

func (t *TreeView) entryAt(index int) *Widget {
	_, row, ok := t.locate(index)
	if !ok || row < 0 {
		return nil
	}
	return t.EntryAt(row)
}

// requestIndex expands the ancestors of a collapsed item before scrolling.
func (t *TreeView) requestIndex(index int) bool {
	chain, _, ok := t.locate(index)
	if !ok {
		return false
	}
	changed := false
	for _, a := range chain {
		if !t.IsExpanded(a) {
			t.expanded = append(t.expanded, a)
			changed = true
		}
	}
	if changed {
		t.rebuild()
	}
	_, row, _ := t.locate(index)
	return t.ScrollToRow(row)
}

func (t *TreeView) rebuild() {
	var display []any
	var walk func(items []any, depth int)
	walk = func(items []any, depth int) {
		if depth > debugMaxTreeDepth {
			return
		}
		for _, it := range items {
			display = append(display, it)
			if t.IsExpanded(it) {
				walk(t.childrenOf(it), depth+1)
			}
		}
	}
	walk(t.roots, 0)
	t.ListView.SetItems(display)
}

// --- EntryBox ---

// EntryBox holds eagerly created entries laid out in a row or column.
type EntryBox struct {
	w       *Widget
	class   *EntryClass
	entries []*Widget

	Horizontal bool
	Spacing    float64
}

// NewEntryBox creates an entry box that builds entries from class.
func NewEntryBox(name string, class *EntryClass) *EntryBox {
	b := &EntryBox{class: class}
	b.w = newWidget(name, KindEntryBox)
	b.w.container = b
	return b
}

// AsEntryBox returns the EntryBox behind w.
func AsEntryBox(w *Widget) (*EntryBox, bool) {
	if !Alive(w) {
		return nil, false
	}
	b, ok := w.container.(*EntryBox)
	return b, ok
}

// Widget returns the container widget.
func (b *EntryBox) Widget() *Widget { return b.w }

// EntryClass returns the class used to construct entries.
func (b *EntryBox) EntryClass() *EntryClass { return b.class }

// CreateEntry constructs and attaches a new entry. Returns nil if the class
// cannot construct one.
func (b *EntryBox) CreateEntry() *Widget {
	return b.CreateEntryWith(nil)
}

// CreateEntryWith constructs an entry and binds it to item.
func (b *EntryBox) CreateEntryWith(item any) *Widget {
	entry := b.class.construct(false)
	if entry == nil {
		return nil
	}
	b.class.bind(entry, item)
	b.w.AddChild(entry)
	b.entries = append(b.entries, entry)
	b.layout()
	return entry
}

// RemoveEntry disposes entry if it belongs to this box.
func (b *EntryBox) RemoveEntry(entry *Widget) bool {
	for i, e := range b.entries {
		if e == entry {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			entry.Dispose()
			b.layout()
			return true
		}
	}
	return false
}

// Reset disposes every entry.
func (b *EntryBox) Reset() {
	for _, e := range b.entries {
		e.Dispose()
	}
	b.entries = nil
}

// AllEntries returns the live entries in creation order.
func (b *EntryBox) AllEntries() []*Widget {
	out := make([]*Widget, 0, len(b.entries))
	for _, e := range b.entries {
		if Alive(e) {
			out = append(out, e)
		}
	}
	return out
}

func (b *EntryBox) realizedEntries() []*Widget { return b.AllEntries() }

func (b *EntryBox) layout() {
	pos := 0.0
	for _, e := range b.entries {
		if !Alive(e) {
			continue
		}
		if b.Horizontal {
			e.SetPosition(pos, 0)
			pos += e.Width + b.Spacing
		} else {
			e.SetPosition(0, pos)
			pos += e.Height + b.Spacing
		}
	}
}

func (b *EntryBox) onDispose() {
	b.entries = nil
}
