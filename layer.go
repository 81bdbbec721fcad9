package guidemask

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// ActionParams are passed through to the guide layer untouched by resolution.
type ActionParams struct {
	// Message is drawn next to the highlighted target.
	Message string
	// Padding grows the hole around the target. Zero uses the settings value.
	Padding float64
	// BlockInput swallows clicks outside the hole.
	BlockInput bool
	// DismissOnClick removes the layer after the target is clicked.
	DismissOnClick bool
	// OnTargetClick runs when a click lands inside the hole.
	OnTargetClick func(target *Widget)
	// OnDismiss runs when the layer leaves the viewport.
	OnDismiss func()
}

// GuideLayer renders a guide over a target. The core only creates layers,
// adds them to a viewport and calls SetGuide; everything else is up to the
// layer class.
type GuideLayer interface {
	ID() uuid.UUID
	Widget() *Widget
	Target() *Widget

	SetGuide(target *Widget, params ActionParams)
	SetGuideGeometry(geom Rect, target *Widget)

	AddToViewport(zOrder int)
	RemoveFromParent()
	ZOrder() int

	Update(dt float64)
	Draw(screen *ebiten.Image)
	// HandleClick returns true if the click is consumed.
	HandleClick(x, y float64) bool
}

// LayerFactory constructs a layer for a scene.
type LayerFactory func(scene *Scene) GuideLayer

// MaskLayerClass is the name of the builtin MaskLayer class.
const MaskLayerClass = "mask"

var (
	// ErrUnknownLayerClass is returned when no factory is registered under a name.
	ErrUnknownLayerClass = errors.New("guidemask: unknown layer class")
	// ErrDuplicateLayerClass is returned when a name is registered twice.
	ErrDuplicateLayerClass = errors.New("guidemask: duplicate layer class")
)

var layerClasses = map[string]LayerFactory{
	MaskLayerClass: func(scene *Scene) GuideLayer { return NewMaskLayer(scene) },
}

// RegisterLayerClass makes a layer factory available under name.
func RegisterLayerClass(name string, f LayerFactory) error {
	if name == "" || f == nil {
		return fmt.Errorf("register layer class %q: %w", name, ErrUnknownLayerClass)
	}
	if _, ok := layerClasses[name]; ok {
		return fmt.Errorf("register layer class %q: %w", name, ErrDuplicateLayerClass)
	}
	layerClasses[name] = f
	return nil
}

// UnregisterLayerClass removes a registered layer class.
func UnregisterLayerClass(name string) {
	delete(layerClasses, name)
}

// CreateLayer instantiates the default layer class from the settings. A
// missing or unknown class logs an assertion and returns nil.
func CreateLayer(scene *Scene) GuideLayer {
	if scene == nil {
		return nil
	}
	name := DefaultSettings().DefaultLayer
	if !ensure(name != "", "default layer class is not set") {
		return nil
	}
	f, ok := layerClasses[name]
	if !ensure(ok, "default layer class is not registered", zap.String("class", name)) {
		return nil
	}
	layer := f(scene)
	if !ensure(layer != nil, "layer factory returned nil", zap.String("class", name)) {
		return nil
	}
	return layer
}

// --- viewport ---

// addLayer inserts a layer into the scene viewport keeping z order stable.
func (s *Scene) addLayer(l GuideLayer) {
	s.removeLayer(l)
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].ZOrder() < s.layers[j].ZOrder()
	})
}

func (s *Scene) removeLayer(l GuideLayer) bool {
	for i, x := range s.layers {
		if x == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Layers returns the viewport layers in draw order. The returned slice MUST
// NOT be mutated.
func (s *Scene) Layers() []GuideLayer {
	return s.layers
}

// ClearGuides removes every layer from the viewport.
func (s *Scene) ClearGuides() {
	for len(s.layers) > 0 {
		s.layers[len(s.layers)-1].RemoveFromParent()
	}
}

// --- MaskLayer ---

// MaskLayer dims everything except a padded hole over its target and strokes
// a pulsing border around the hole.
type MaskLayer struct {
	id    uuid.UUID
	scene *Scene
	w     *Widget

	target   *Widget
	geom     Rect
	useGeom  bool
	params   ActionParams
	hasGuide bool

	z          int
	inViewport bool
	parent     *Registry

	MaskColor   Color
	BorderColor Color
	BorderWidth float64
	Padding     float64

	pulse *Pulse
}

// NewMaskLayer creates a mask layer styled from the default settings.
func NewMaskLayer(scene *Scene) *MaskLayer {
	st := DefaultSettings()
	l := &MaskLayer{
		id:          uuid.New(),
		scene:       scene,
		MaskColor:   st.MaskColor,
		BorderColor: st.BorderColor,
		BorderWidth: st.BorderWidth,
		Padding:     st.Padding,
		pulse:       NewPulse(0.35, 1, float32(st.PulsePeriod.Seconds()), nil),
	}
	l.w = newWidget("guide_layer", KindLayer)
	l.w.container = l
	return l
}

func (l *MaskLayer) ID() uuid.UUID   { return l.id }
func (l *MaskLayer) Widget() *Widget { return l.w }
func (l *MaskLayer) Target() *Widget { return l.target }
func (l *MaskLayer) ZOrder() int     { return l.z }

// Params returns the action parameters of the current guide.
func (l *MaskLayer) Params() ActionParams { return l.params }

// SetGuide highlights target, tracking its live bounds every frame.
func (l *MaskLayer) SetGuide(target *Widget, params ActionParams) {
	l.target = target
	l.params = params
	l.useGeom = false
	l.hasGuide = Alive(target)
}

// SetGuideGeometry highlights a fixed rectangle on behalf of target.
func (l *MaskLayer) SetGuideGeometry(geom Rect, target *Widget) {
	l.target = target
	l.geom = geom
	l.useGeom = true
	l.hasGuide = true
}

// AddToViewport adds the layer to its scene's viewport at zOrder.
func (l *MaskLayer) AddToViewport(zOrder int) {
	if l.scene == nil || l.scene.closed {
		return
	}
	l.z = zOrder
	l.inViewport = true
	l.scene.addLayer(l)
}

// RemoveFromParent removes the layer from the viewport or registry slot it
// occupies and fires OnDismiss.
func (l *MaskLayer) RemoveFromParent() {
	removed := false
	if l.inViewport && l.scene != nil {
		removed = l.scene.removeLayer(l)
		l.inViewport = false
	}
	if l.parent != nil {
		l.parent.clearLayer(l)
		l.parent = nil
		removed = true
	}
	l.w.RemoveFromParent()
	if !removed {
		return
	}
	if l.scene != nil {
		l.scene.emit(GuideEvent{Type: EventGuideDismissed, LayerID: l.id, Target: l.target})
	}
	if l.params.OnDismiss != nil {
		l.params.OnDismiss()
	}
}

func (l *MaskLayer) setParentRegistry(r *Registry) {
	l.parent = r
}

// Hole returns the screen rectangle left uncovered, and false when the layer
// has nothing to highlight.
func (l *MaskLayer) Hole() (Rect, bool) {
	if !l.hasGuide {
		return Rect{}, false
	}
	var r Rect
	if l.useGeom {
		r = l.geom
	} else {
		if !Alive(l.target) {
			return Rect{}, false
		}
		r = l.target.WorldBounds()
	}
	pad := l.params.Padding
	if pad == 0 {
		pad = l.Padding
	}
	return r.Inset(-pad), true
}

// Update advances the border pulse.
func (l *MaskLayer) Update(dt float64) {
	l.pulse.Update(float32(dt))
}

// Draw dims the screen around the hole, strokes the border and prints the
// message below the hole.
func (l *MaskLayer) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	sw, sh := float32(b.Dx()), float32(b.Dy())
	mask := l.MaskColor.toRGBA()

	hole, ok := l.Hole()
	if !ok {
		vector.DrawFilledRect(screen, 0, 0, sw, sh, mask, false)
		return
	}
	hx, hy := float32(hole.X), float32(hole.Y)
	hw, hh := float32(hole.Width), float32(hole.Height)

	vector.DrawFilledRect(screen, 0, 0, sw, hy, mask, false)
	vector.DrawFilledRect(screen, 0, hy+hh, sw, sh-(hy+hh), mask, false)
	vector.DrawFilledRect(screen, 0, hy, hx, hh, mask, false)
	vector.DrawFilledRect(screen, hx+hw, hy, sw-(hx+hw), hh, mask, false)

	border := l.BorderColor
	border.A *= l.pulse.Value()
	vector.StrokeRect(screen, hx, hy, hw, hh, float32(l.BorderWidth), border.toRGBA(), true)

	if l.params.Message != "" {
		ebitenutil.DebugPrintAt(screen, l.params.Message, int(hole.X), int(hole.Y+hole.Height)+4)
	}
}

// HandleClick routes clicks inside the hole to OnTargetClick. Clicks outside
// are consumed only when the guide blocks input.
func (l *MaskLayer) HandleClick(x, y float64) bool {
	hole, ok := l.Hole()
	if !ok || !hole.Contains(x, y) {
		return l.params.BlockInput
	}
	if l.scene != nil {
		l.scene.emit(GuideEvent{Type: EventGuideTargetClicked, LayerID: l.id, Target: l.target, Bounds: hole})
	}
	if l.params.OnTargetClick != nil {
		l.params.OnTargetClick(l.target)
	}
	if l.params.DismissOnClick {
		l.RemoveFromParent()
	}
	return false
}
