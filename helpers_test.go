package guidemask

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testTick is one scene tick at the default 60 TPS.
const testTick = time.Second / 60

func stepN(s *Scene, n int) {
	for i := 0; i < n; i++ {
		s.step(testTick)
	}
}

// stepUntil steps s until cond holds or max ticks pass. Returns the number
// of ticks taken, or -1.
func stepUntil(s *Scene, max int, cond func() bool) int {
	for i := 0; i < max; i++ {
		if cond() {
			return i
		}
		s.step(testTick)
	}
	if cond() {
		return max
	}
	return -1
}

// slotClass builds entries named name with one leaf child per nested name,
// exposed natively in that order.
func slotClass(name string, nested ...string) *EntryClass {
	return &EntryClass{
		Name: name,
		New: func() *Widget {
			e := NewPanel(name)
			e.Width, e.Height = 100, 20
			for i, n := range nested {
				leaf := NewLeaf(n, 10, 10)
				leaf.X = float64(i * 12)
				e.AddChild(leaf)
			}
			e.Impl = &NamedNested{Entry: e, Names: nested}
			return e
		},
	}
}

// plainClass builds entries without the capability.
func plainClass(name string) *EntryClass {
	return &EntryClass{
		Name: name,
		New: func() *Widget {
			return NewLeaf(name, 100, 20)
		},
	}
}

// observeLogs installs an observer logger for the duration of the test.
func observeLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := logger
	prevSet := loggerSet
	SetLogger(zap.New(core))
	t.Cleanup(func() {
		logger, loggerSet = prev, prevSet
	})
	return logs
}

// withSettings replaces the default settings for the duration of the test.
func withSettings(t *testing.T, fn func(*Settings)) {
	t.Helper()
	prev := DefaultSettings()
	s := prev
	fn(&s)
	SetDefaultSettings(s)
	t.Cleanup(func() { SetDefaultSettings(prev) })
}

// names returns the Name of each widget.
func names(ws []*Widget) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

func eq(want any) func(any) bool {
	return func(item any) bool { return sameItem(item, want) }
}

// recordingStore collects emitted guide events.
type recordingStore struct {
	events []GuideEvent
}

func (r *recordingStore) EmitEvent(e GuideEvent) {
	r.events = append(r.events, e)
}

func (r *recordingStore) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
