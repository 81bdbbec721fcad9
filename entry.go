package guidemask

import "go.uber.org/zap"

// EntryGuideIdentifiable is implemented by entry objects that expose the
// widgets a guide may descend into. The returned order is significant: path
// steps address nested widgets by index.
type EntryGuideIdentifiable interface {
	DesiredNestedWidgets() []*Widget
}

// EntryClass describes how a dynamic container constructs its entry widgets.
type EntryClass struct {
	Name string

	// New builds a fresh, unbound entry widget. Required.
	New func() *Widget

	// Bind populates an entry for a data item. Optional.
	Bind func(entry *Widget, item any)

	// Script, when set, answers DesiredNestedWidgets for entries whose Impl
	// does not implement EntryGuideIdentifiable.
	Script *EntryScript
}

// construct builds one entry. Probe entries are flagged so they are never
// mistaken for display instances.
func (c *EntryClass) construct(probe bool) *Widget {
	if c == nil || c.New == nil {
		return nil
	}
	w := c.New()
	if w == nil {
		return nil
	}
	w.class = c
	w.probe = probe
	return w
}

func (c *EntryClass) bind(entry *Widget, item any) {
	entry.item = item
	if c.Bind != nil {
		c.Bind(entry, item)
	}
}

// NestedWidgets queries the capability contract on entry and returns its live
// nested widgets in declared order. A native Impl takes precedence over the
// class script; an entry with neither has no nested widgets.
func NestedWidgets(entry *Widget) []*Widget {
	if !Alive(entry) {
		return nil
	}
	var raw []*Widget
	if impl, ok := entry.Impl.(EntryGuideIdentifiable); ok {
		raw = callNative(entry, impl)
	} else if entry.class != nil && entry.class.Script != nil {
		raw = entry.class.Script.nestedWidgets(entry)
	}
	out := make([]*Widget, 0, len(raw))
	for _, w := range raw {
		if Alive(w) {
			out = append(out, w)
		}
	}
	return out
}

// ImplementsGuide reports whether entry answers the capability contract,
// natively or through its class script.
func ImplementsGuide(entry *Widget) bool {
	if !Alive(entry) {
		return false
	}
	if _, ok := entry.Impl.(EntryGuideIdentifiable); ok {
		return true
	}
	return entry.class != nil && entry.class.Script != nil
}

func callNative(entry *Widget, impl EntryGuideIdentifiable) (out []*Widget) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("DesiredNestedWidgets panicked",
				zap.String("entry", entry.Path()), zap.Any("panic", r))
			out = nil
		}
	}()
	return impl.DesiredNestedWidgets()
}

// NamedNested implements EntryGuideIdentifiable by looking up descendants of
// Entry by name. Missing names are skipped.
type NamedNested struct {
	Entry *Widget
	Names []string
}

// DesiredNestedWidgets returns the named descendants of Entry in Names order.
func (n *NamedNested) DesiredNestedWidgets() []*Widget {
	if !Alive(n.Entry) {
		return nil
	}
	out := make([]*Widget, 0, len(n.Names))
	for _, name := range n.Names {
		if w := n.Entry.FindByName(name); w != nil {
			out = append(out, w)
		}
	}
	return out
}
