package guidemask

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-tick timing and bookkeeping counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	realizeTime time.Duration
	waitTime    time.Duration
	inputTime   time.Duration
	pendingWait int
	layerCount  int
}

// debugLog writes tick stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logger.Debug("tick",
		zap.Uint64("tick", s.tick),
		zap.Duration("realize", stats.realizeTime),
		zap.Duration("waits", stats.waitTime),
		zap.Duration("input", stats.inputTime),
		zap.Int("pending", stats.pendingWait),
		zap.Int("layers", stats.layerCount))
}

// debugCheckDisposed panics with a descriptive message when a disposed widget
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(w *Widget, op string) {
	if w.disposed {
		panic(fmt.Sprintf("guidemask debug: %s on disposed widget %q (ID %d)", op, w.Name, w.ID))
	}
}

// debugMaxTreeDepth bounds recursion over item forests and triggers a
// warning for deep widget trees.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(w *Widget) {
	depth := 0
	for p := w; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth), zap.String("widget", w.Name))
	}
}

// debugMaxChildCount triggers a warning for very wide widgets.
const debugMaxChildCount = 1000

func debugCheckChildCount(w *Widget) {
	if len(w.children) > debugMaxChildCount {
		logger.Warn("child count exceeds threshold",
			zap.String("widget", w.Name), zap.Int("children", len(w.children)), zap.Int("threshold", debugMaxChildCount))
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that widget
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
