package guidemask

import (
	"time"

	"go.uber.org/zap"
)

// PathStep is one hop of a guide path: pick the first item in the current
// container that Match accepts, wait for its entry, then descend into the
// entry's nested widget at NestedChildIndex.
//
// For list and tree views Match receives the data item; for entry boxes it
// receives the entry *Widget. A nil Match matches nothing.
type PathStep struct {
	Match            func(item any) bool
	NestedChildIndex int
}

// DegradeReason explains why a resolution settled short of its full path.
type DegradeReason uint8

const (
	ReasonNone            DegradeReason = iota // the full path resolved
	ReasonNoMatch                              // no item satisfied a step's predicate
	ReasonTimeout                              // the matched entry was not realized in time
	ReasonIndexOutOfRange                      // the entry has no nested widget at the index
	ReasonNotContainer                         // a step was applied to a non-container widget
	ReasonNilWidget                            // the root was nil or disposed
	ReasonCancelled                            // the scene closed while waiting
)

var reasonNames = [...]string{
	ReasonNone:            "none",
	ReasonNoMatch:         "no match",
	ReasonTimeout:         "timeout",
	ReasonIndexOutOfRange: "index out of range",
	ReasonNotContainer:    "not a container",
	ReasonNilWidget:       "nil widget",
	ReasonCancelled:       "cancelled",
}

func (r DegradeReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Resolution is the pending result of a path resolution. It settles on the
// scene's tick (or immediately when no wait is needed) with the deepest
// widget reached. Callbacks never run for a cancelled resolution.
type Resolution struct {
	scene *Scene

	result    *Widget
	reason    DegradeReason
	done      bool
	cancelled bool
	depth     int
	layer     GuideLayer

	callbacks []func(*Widget)
}

// ResolvePath locates the widget described by path starting at root. Every
// miss degrades to the deepest widget reached; the result is only nil when
// root itself is nil or the resolution was cancelled.
func ResolvePath(scene *Scene, root *Widget, path []PathStep, timeout time.Duration) *Resolution {
	r := &Resolution{scene: scene}
	if scene == nil || scene.closed {
		r.cancel()
		return r
	}
	if !Alive(root) {
		r.finish(nil, ReasonNilWidget)
		return r
	}
	r.step(root, path, timeout)
	return r
}

func (r *Resolution) step(root *Widget, path []PathStep, timeout time.Duration) {
	if len(path) == 0 {
		r.finish(root, ReasonNone)
		return
	}
	s, rest := path[0], path[1:]

	switch c := root.container.(type) {
	case listContainer:
		index := findFirst(c.listItems(), s.Match)
		if index < 0 {
			r.finish(root, ReasonNoMatch)
			return
		}
		wt := waitForIndex(r.scene, root, index, timeout)
		wt.OnReady(func(entry *Widget) {
			r.descend(entry, s.NestedChildIndex, rest, timeout)
		})
		wt.OnTimeout(func() {
			r.finish(root, ReasonTimeout)
		})
		wt.onCancelled(r.cancel)

	case entryBoxContainer:
		var entry *Widget
		for _, e := range c.AllEntries() {
			if safeMatch(s.Match, e) {
				entry = e
				break
			}
		}
		if entry == nil {
			r.finish(root, ReasonNoMatch)
			return
		}
		r.descend(entry, s.NestedChildIndex, rest, timeout)

	default:
		r.finish(root, ReasonNotContainer)
	}
}

func (r *Resolution) descend(entry *Widget, index int, rest []PathStep, timeout time.Duration) {
	r.depth++
	nested := NestedWidgets(entry)
	if index < 0 || index >= len(nested) {
		r.finish(entry, ReasonIndexOutOfRange)
		return
	}
	r.step(nested[index], rest, timeout)
}

// findFirst returns the index of the first item match accepts, or -1.
func findFirst(items []any, match func(any) bool) int {
	for i, it := range items {
		if safeMatch(match, it) {
			return i
		}
	}
	return -1
}

// safeMatch evaluates a caller predicate; nil and panicking predicates match
// nothing.
func safeMatch(match func(any) bool, item any) (ok bool) {
	if match == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("path predicate panicked", zap.Any("panic", rec))
			ok = false
		}
	}()
	return match(item)
}

func (r *Resolution) finish(w *Widget, reason DegradeReason) {
	if r.done {
		return
	}
	r.done = true
	r.result = w
	r.reason = reason
	if reason != ReasonNone && w != nil {
		logger.Debug("guide resolution degraded",
			zap.String("reason", reason.String()),
			zap.String("widget", w.Path()),
			zap.Int("depth", r.depth))
	}
	callbacks := r.callbacks
	r.callbacks = nil
	for _, fn := range callbacks {
		fn(w)
	}
}

func (r *Resolution) cancel() {
	if r.done {
		return
	}
	r.done = true
	r.cancelled = true
	r.reason = ReasonCancelled
	r.callbacks = nil
}

// Then registers fn to run with the resolved widget. Runs immediately if the
// resolution already settled; never runs if it was cancelled.
func (r *Resolution) Then(fn func(*Widget)) *Resolution {
	if r.done {
		if !r.cancelled {
			fn(r.result)
		}
		return r
	}
	r.callbacks = append(r.callbacks, fn)
	return r
}

// Done reports whether the resolution has settled.
func (r *Resolution) Done() bool { return r.done }

// Result returns the resolved widget once settled.
func (r *Resolution) Result() *Widget { return r.result }

// Degraded reports whether the resolution settled short of its full path.
func (r *Resolution) Degraded() bool { return r.done && r.reason != ReasonNone }

// Reason returns why the resolution degraded, or ReasonNone.
func (r *Resolution) Reason() DegradeReason { return r.reason }

// Cancelled reports whether the resolution was abandoned.
func (r *Resolution) Cancelled() bool { return r.cancelled }

// Depth returns how many entries were descended into.
func (r *Resolution) Depth() int { return r.depth }

// Layer returns the guide layer shown for this resolution, if any.
func (r *Resolution) Layer() GuideLayer { return r.layer }

// ResolveEntry locates the entry widget bound to item in container. Lists
// wait for the entry to realize; entry boxes match the entry's bound item.
// Misses degrade to the container.
func ResolveEntry(scene *Scene, container *Widget, item any, timeout time.Duration) *Resolution {
	r := &Resolution{scene: scene}
	if scene == nil || scene.closed {
		r.cancel()
		return r
	}
	if !Alive(container) {
		r.finish(nil, ReasonNilWidget)
		return r
	}
	switch c := container.container.(type) {
	case listContainer:
		index := indexOfItem(c.listItems(), item)
		if index < 0 {
			r.finish(container, ReasonNoMatch)
			return r
		}
		wt := waitForIndex(scene, container, index, timeout)
		wt.OnReady(func(entry *Widget) {
			r.depth++
			r.finish(entry, ReasonNone)
		})
		wt.OnTimeout(func() {
			r.finish(container, ReasonTimeout)
		})
		wt.onCancelled(r.cancel)
	case entryBoxContainer:
		for _, e := range c.AllEntries() {
			if sameItem(e.item, item) {
				r.depth++
				r.finish(e, ReasonNone)
				return r
			}
		}
		r.finish(container, ReasonNoMatch)
	default:
		r.finish(container, ReasonNotContainer)
	}
	return r
}
