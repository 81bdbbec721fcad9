package guidemask

import "time"

// EntryWait waits for a list container to realize the entry widget bound to
// one item, named either by value or by its index in the item list. It
// completes on the container's entry-generated event, times out
// on the scene clock, and is abandoned without callbacks when the scene
// closes or the container is disposed.
type EntryWait struct {
	scene     *Scene
	container *Widget
	list      listContainer
	item      any
	byItem    bool
	index     int
	deadline  time.Duration

	entry     *Widget
	done      bool
	timedOut  bool
	cancelled bool

	handle    CallbackHandle
	onReady   []func(entry *Widget)
	onTimeout []func()
	onCancel  []func()
}

// WaitForEntry starts waiting for item's entry in container. Items are
// compared with ==; the item is located again on every check so the wait
// follows insertions and removals. A non-positive timeout falls back to the
// default settings. If the entry is already realized the wait completes
// immediately.
func WaitForEntry(scene *Scene, container *Widget, item any, timeout time.Duration) *EntryWait {
	wt := &EntryWait{item: item, byItem: true, index: -1}
	wt.start(scene, container, timeout)
	return wt
}

// waitForIndex waits for the entry of the item at index in the container's
// item list. It works for items of any type.
func waitForIndex(scene *Scene, container *Widget, index int, timeout time.Duration) *EntryWait {
	wt := &EntryWait{index: index}
	wt.start(scene, container, timeout)
	return wt
}

func (wt *EntryWait) start(scene *Scene, container *Widget, timeout time.Duration) {
	wt.scene, wt.container = scene, container
	if scene == nil || scene.closed {
		wt.cancel()
		return
	}
	list, ok := listOf(container)
	if !ok {
		wt.cancel()
		return
	}
	wt.list = list
	if timeout <= 0 {
		timeout = DefaultSettings().DefaultTimeout
	}
	wt.deadline = scene.clock + timeout

	if entry := wt.current(); entry != nil {
		wt.complete(entry)
		return
	}

	wt.handle = list.OnEntryGenerated(func(any, *Widget) {
		if wt.done {
			return
		}
		if entry := wt.current(); entry != nil {
			wt.complete(entry)
		}
	})
	if wt.index >= 0 {
		list.requestIndex(wt.index)
	}
	scene.waits = append(scene.waits, wt)
}

// current returns the realized entry for the awaited row, or nil.
func (wt *EntryWait) current() *Widget {
	if wt.byItem {
		wt.index = indexOfItem(wt.list.listItems(), wt.item)
	}
	if wt.index < 0 {
		return nil
	}
	return wt.list.entryAt(wt.index)
}

func listOf(w *Widget) (listContainer, bool) {
	if !Alive(w) {
		return nil, false
	}
	l, ok := w.container.(listContainer)
	return l, ok
}

// OnReady registers fn to run with the realized entry. Runs immediately if
// the wait already succeeded.
func (wt *EntryWait) OnReady(fn func(entry *Widget)) *EntryWait {
	if wt.done {
		if !wt.timedOut && !wt.cancelled {
			fn(wt.entry)
		}
		return wt
	}
	wt.onReady = append(wt.onReady, fn)
	return wt
}

// OnTimeout registers fn to run if the deadline passes first. Runs
// immediately if the wait already timed out.
func (wt *EntryWait) OnTimeout(fn func()) *EntryWait {
	if wt.done {
		if wt.timedOut {
			fn()
		}
		return wt
	}
	wt.onTimeout = append(wt.onTimeout, fn)
	return wt
}

func (wt *EntryWait) onCancelled(fn func()) {
	if wt.done {
		if wt.cancelled {
			fn()
		}
		return
	}
	wt.onCancel = append(wt.onCancel, fn)
}

// Done reports whether the wait has settled.
func (wt *EntryWait) Done() bool { return wt.done }

// Entry returns the realized entry, or nil.
func (wt *EntryWait) Entry() *Widget { return wt.entry }

// TimedOut reports whether the deadline passed before the entry appeared.
func (wt *EntryWait) TimedOut() bool { return wt.timedOut }

// Cancelled reports whether the wait was abandoned.
func (wt *EntryWait) Cancelled() bool { return wt.cancelled }

// step checks for teardown and the deadline. Returns true once settled.
func (wt *EntryWait) step() bool {
	if wt.done {
		return true
	}
	if wt.scene.closed || !Alive(wt.container) {
		wt.cancel()
		return true
	}
	if entry := wt.current(); entry != nil {
		wt.complete(entry)
		return true
	}
	if wt.scene.clock >= wt.deadline {
		wt.timeout()
		return true
	}
	return false
}

func (wt *EntryWait) settle() {
	wt.done = true
	wt.handle.Remove()
}

func (wt *EntryWait) complete(entry *Widget) {
	wt.settle()
	wt.entry = entry
	callbacks := wt.onReady
	wt.onReady, wt.onTimeout, wt.onCancel = nil, nil, nil
	for _, fn := range callbacks {
		fn(entry)
	}
}

func (wt *EntryWait) timeout() {
	wt.settle()
	wt.timedOut = true
	callbacks := wt.onTimeout
	wt.onReady, wt.onTimeout, wt.onCancel = nil, nil, nil
	for _, fn := range callbacks {
		fn()
	}
}

func (wt *EntryWait) cancel() {
	wt.settle()
	wt.cancelled = true
	callbacks := wt.onCancel
	wt.onReady, wt.onTimeout, wt.onCancel = nil, nil, nil
	for _, fn := range callbacks {
		fn()
	}
}
