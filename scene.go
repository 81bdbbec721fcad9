package guidemask

import (
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// EventStore is the interface for optional ECS integration.
// When set on a Scene, guide events are forwarded to the store.
type EventStore interface {
	EmitEvent(event GuideEvent)
}

// GuideEvent describes a change in the guide overlay.
type GuideEvent struct {
	Type    EventType
	LayerID uuid.UUID

	// Target is the highlighted widget. TargetID and TargetName are copied
	// from it when the event is emitted so they survive disposal.
	Target     *Widget
	TargetID   uint32
	TargetName string

	// Tag is set for guides shown through a registry tag.
	Tag string
	// Reason is set for EventGuideDegraded.
	Reason DegradeReason
	// Bounds is the hole rectangle for EventGuideTargetClicked.
	Bounds Rect
}

// Scene is the world context: it owns the widget tree, the scene clock,
// the registry service, viewport layers, pending entry waits and input state.
type Scene struct {
	root  *Widget
	store EventStore
	debug bool

	clock  time.Duration
	tick   uint64
	closed bool

	registries []*Registry
	layers     []GuideLayer
	waits      []*EntryWait
	sequencer  *GuideSequencer
	updateFunc func() error

	// Input state
	pointer         pointerState
	injectQueue     []syntheticPointerEvent
	readDeviceInput bool

	// ClearColor fills the screen before widgets are drawn. A zero alpha
	// leaves the screen untouched.
	ClearColor Color
	// DebugOutlines strokes the bounds of every visible widget.
	DebugOutlines bool
}

// NewScene creates a new scene with a pre-created root panel.
func NewScene() *Scene {
	root := NewPanel("root")
	s := &Scene{root: root}
	root.scene = s
	return s
}

// Root returns the scene's root widget.
func (s *Scene) Root() *Widget {
	return s.root
}

// Clock returns the scene time accumulated by Update.
func (s *Scene) Clock() time.Duration {
	return s.clock
}

// Tick returns the number of completed updates.
func (s *Scene) Tick() uint64 {
	return s.tick
}

// Update advances the scene by one tick of 1/TPS seconds.
func (s *Scene) Update() {
	s.step(time.Second / time.Duration(ebiten.TPS()))
}

// step advances the scene by dt. Order matters: registries heal before any
// pending wait looks at the tree, and entries are realized before waits
// check their deadlines so an entry realized on the deadline tick still wins.
func (s *Scene) step(dt time.Duration) {
	if s.closed {
		return
	}
	var stats debugStats
	var t0 time.Time

	s.tick++
	s.clock += dt
	updateWorldTransform(s.root, identityTransform, false)

	for _, r := range append([]*Registry(nil), s.registries...) {
		r.heal()
	}

	if s.debug {
		t0 = time.Now()
	}
	s.realizeContainers()
	if s.debug {
		stats.realizeTime = time.Since(t0)
		t0 = time.Now()
	}

	s.stepWaits()
	if s.debug {
		stats.waitTime = time.Since(t0)
	}

	for _, l := range append([]GuideLayer(nil), s.layers...) {
		l.Update(dt.Seconds())
	}

	if s.debug {
		t0 = time.Now()
	}
	s.processInput()
	if s.debug {
		stats.inputTime = time.Since(t0)
	}

	if s.sequencer != nil {
		s.sequencer.step(s)
	}

	if s.debug {
		stats.pendingWait = len(s.waits)
		stats.layerCount = len(s.layers)
		s.debugLog(stats)
	}
}

// realizeContainers steps every dynamic container reachable from the root.
func (s *Scene) realizeContainers() {
	var pending []realizer
	s.root.Walk(func(w *Widget) bool {
		if r, ok := w.container.(realizer); ok {
			pending = append(pending, r)
		}
		return true
	})
	for _, r := range pending {
		r.realize()
	}
	// Realization can attach widgets with dirty transforms.
	updateWorldTransform(s.root, identityTransform, false)
}

// stepWaits advances pending entry waits. Waits started from a callback
// during this pass are checked on the next tick.
func (s *Scene) stepWaits() {
	pending := s.waits
	s.waits = nil
	kept := pending[:0]
	for _, wt := range pending {
		if !wt.step() {
			kept = append(kept, wt)
		}
	}
	s.waits = append(kept, s.waits...)
}

// PendingWaits returns the number of unsettled entry waits.
func (s *Scene) PendingWaits() int {
	return len(s.waits)
}

// Close tears the scene down. Pending waits are cancelled without running
// their callbacks and every layer is removed from the viewport.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	waits := s.waits
	s.waits = nil
	for _, wt := range waits {
		wt.cancel()
	}
	for len(s.layers) > 0 {
		s.layers[len(s.layers)-1].RemoveFromParent()
	}
	s.sequencer = nil
	s.injectQueue = nil
}

// Closed reports whether Close has been called.
func (s *Scene) Closed() bool {
	return s.closed
}

// Draw renders visible widgets in tree order, then registry preview layers,
// then the viewport layers in z order.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.drawWidget(screen, s.root)
	for _, r := range s.registries {
		if r.preview != nil && Alive(r.w) {
			r.preview.Draw(screen)
		}
	}
	for _, l := range s.layers {
		l.Draw(screen)
	}
}

func (s *Scene) drawWidget(screen *ebiten.Image, w *Widget) {
	if !w.Visible || w.disposed {
		return
	}
	if w.Width > 0 && w.Height > 0 {
		b := w.WorldBounds()
		if w.Color.A > 0 {
			vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), w.Color.toRGBA(), false)
		}
		if w.Label != "" {
			ebitenutil.DebugPrintAt(screen, w.Label, int(b.X)+2, int(b.Y)+2)
		}
		if s.DebugOutlines {
			vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, ColorWhite.toRGBA(), false)
		}
	}
	for _, c := range w.children {
		s.drawWidget(screen, c)
	}
}

// SetEventStore sets the optional ECS bridge.
func (s *Scene) SetEventStore(store EventStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-widget
// access panics, tree depth and child count warnings are logged, and
// per-tick timing stats are logged at debug level. If no logger has been
// installed a development logger is created.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled && !loggerSet {
		if l, err := zap.NewDevelopment(); err == nil {
			SetLogger(l)
		}
	}
}

// emit forwards a guide event to the event store.
func (s *Scene) emit(e GuideEvent) {
	if e.Target != nil {
		e.TargetID = e.Target.ID
		e.TargetName = e.Target.Name
	}
	if s.debug {
		logger.Debug("guide event",
			zap.Uint8("type", uint8(e.Type)),
			zap.String("layer", e.LayerID.String()),
			zap.String("target", e.TargetName),
			zap.String("tag", e.Tag))
	}
	if s.store != nil {
		s.store.EmitEvent(e)
	}
}
