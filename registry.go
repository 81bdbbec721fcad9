package guidemask

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

var (
	// ErrDuplicateTag is returned when a tag is already registered.
	ErrDuplicateTag = errors.New("guidemask: duplicate tag")
	// ErrNilWidget is returned when registering a nil or disposed widget.
	ErrNilWidget = errors.New("guidemask: nil widget")
	// ErrEmptyTag is returned when registering an empty tag.
	ErrEmptyTag = errors.New("guidemask: empty tag")

	// ErrContentImplementsGuide is reported by Validate when the registry
	// content itself is an entry that exposes nested widgets.
	ErrContentImplementsGuide = errors.New("guidemask: registry content must not implement EntryGuideIdentifiable")
	// ErrMissingEntryClass is reported by Validate for a tagged dynamic
	// container without an entry class.
	ErrMissingEntryClass = errors.New("guidemask: dynamic container has no entry class")
	// ErrEntryNotIdentifiable is reported by Validate for a tagged list whose
	// entries expose no nested widgets.
	ErrEntryNotIdentifiable = errors.New("guidemask: entry class does not implement EntryGuideIdentifiable")
)

// Registry maps tags to widgets inside one registry widget. A registry
// widget has two slots: the content it wraps and an overlay slot that hosts
// its design-time preview layer.
type Registry struct {
	w       *Widget
	scene   *Scene
	content *Widget
	overlay *Widget

	tags  map[string]*Widget
	cache map[string]GuideTree

	preview    GuideLayer
	previewTag string
}

// NewRegistry creates a registry widget and registers it with the scene's
// registry service. Disposing the widget deregisters it.
func NewRegistry(scene *Scene, name string) *Registry {
	r := &Registry{
		scene: scene,
		tags:  make(map[string]*Widget),
		cache: make(map[string]GuideTree),
	}
	r.w = newWidget(name, KindRegistry)
	r.w.container = r
	r.content = NewPanel("content")
	r.overlay = NewPanel("overlay")
	r.w.AddChild(r.content)
	r.w.AddChild(r.overlay)
	if scene != nil && !scene.closed {
		scene.registries = append(scene.registries, r)
	}
	return r
}

// AsRegistry returns the Registry behind w.
func AsRegistry(w *Widget) (*Registry, bool) {
	if !Alive(w) {
		return nil, false
	}
	r, ok := w.container.(*Registry)
	return r, ok
}

// Widget returns the registry widget.
func (r *Registry) Widget() *Widget { return r.w }

// Name returns the registry widget's name.
func (r *Registry) Name() string { return r.w.Name }

// Content returns the wrapped content widget, or nil.
func (r *Registry) Content() *Widget {
	for _, c := range r.content.children {
		if Alive(c) {
			return c
		}
	}
	return nil
}

// SetContent replaces the wrapped content widget.
func (r *Registry) SetContent(w *Widget) {
	for len(r.content.children) > 0 {
		r.content.children[0].RemoveFromParent()
	}
	if w != nil {
		r.content.AddChild(w)
	}
	r.invalidate()
}

// OverlaySlot returns the widget preview layers are parented into.
func (r *Registry) OverlaySlot() *Widget { return r.overlay }

// Register associates tag with w.
func (r *Registry) Register(tag string, w *Widget) error {
	if tag == "" {
		return fmt.Errorf("register in %s: %w", r.w.Name, ErrEmptyTag)
	}
	if !Alive(w) {
		return fmt.Errorf("register %q in %s: %w", tag, r.w.Name, ErrNilWidget)
	}
	if _, ok := r.tags[tag]; ok {
		return fmt.Errorf("register %q in %s: %w", tag, r.w.Name, ErrDuplicateTag)
	}
	r.tags[tag] = w
	delete(r.cache, tag)
	return nil
}

// Unregister removes tag. Returns false if it was not registered.
func (r *Registry) Unregister(tag string) bool {
	if _, ok := r.tags[tag]; !ok {
		return false
	}
	delete(r.tags, tag)
	delete(r.cache, tag)
	if r.previewTag == tag {
		r.HidePreview()
	}
	return true
}

// Lookup returns the widget registered under tag, or nil when the tag is
// unknown or its widget has been disposed.
func (r *Registry) Lookup(tag string) *Widget {
	w := r.tags[tag]
	if !Alive(w) {
		return nil
	}
	return w
}

// IsContains reports whether tag is present in the mapping. A tag whose
// widget was disposed stays present until the next synchronization.
func (r *Registry) IsContains(tag string) bool {
	_, ok := r.tags[tag]
	return ok
}

// TagList returns the registered tags in sorted order.
func (r *Registry) TagList() []string {
	tags := make([]string, 0, len(r.tags))
	for t := range r.tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// SynchronizeProperties drops every tag whose widget is nil or disposed and
// invalidates the preview cache.
func (r *Registry) SynchronizeProperties() {
	r.heal()
	r.invalidate()
}

// heal drops dead tags. Cached trees are invalidated only when a tag went
// away, so the per-tick pass keeps a stable preview.
func (r *Registry) heal() {
	for tag, w := range r.tags {
		if Alive(w) {
			continue
		}
		delete(r.tags, tag)
		delete(r.cache, tag)
		logger.Debug("registry dropped dead tag", zap.String("registry", r.w.Name), zap.String("tag", tag))
		if r.previewTag == tag {
			r.HidePreview()
		}
	}
}

func (r *Registry) invalidate() {
	clear(r.cache)
}

// GuideWidgetTree returns the guide tree of the widget registered under tag.
// The tree is cached until the next synchronization.
func (r *Registry) GuideWidgetTree(tag string) GuideTree {
	if t, ok := r.cache[tag]; ok {
		return t
	}
	w := r.Lookup(tag)
	if w == nil {
		return nil
	}
	t := BuildTree(w)
	r.cache[tag] = t
	return t
}

// GuideWidgetList returns every widget of the tag's guide tree in order.
func (r *Registry) GuideWidgetList(tag string) []*Widget {
	return r.GuideWidgetTree(tag).Widgets()
}

// layerParent is implemented by layers that track the registry hosting them.
type layerParent interface {
	setParentRegistry(r *Registry)
}

// ShowPreview parents a guide layer for tag into the overlay slot. Returns
// nil if the tag is unknown or no layer class is configured.
func (r *Registry) ShowPreview(tag string) GuideLayer {
	target := r.Lookup(tag)
	if target == nil {
		return nil
	}
	r.HidePreview()
	layer := CreateLayer(r.scene)
	if layer == nil {
		return nil
	}
	layer.SetGuide(target, ActionParams{Message: tag})
	r.overlay.AddChild(layer.Widget())
	if p, ok := layer.(layerParent); ok {
		p.setParentRegistry(r)
	}
	r.preview = layer
	r.previewTag = tag
	return layer
}

// Preview returns the current preview layer and its tag.
func (r *Registry) Preview() (GuideLayer, string) {
	return r.preview, r.previewTag
}

// HidePreview removes the preview layer, if any.
func (r *Registry) HidePreview() {
	l := r.preview
	if l == nil {
		return
	}
	r.clearLayer(l)
	l.RemoveFromParent()
}

func (r *Registry) clearLayer(l GuideLayer) {
	if r.preview == l {
		r.preview = nil
		r.previewTag = ""
	}
}

// Validate runs the design-time checks on the registry content and every
// tagged widget.
func (r *Registry) Validate() []error {
	var errs []error
	if c := r.Content(); c != nil && ImplementsGuide(c) {
		errs = append(errs, fmt.Errorf("%s content %q: %w", r.w.Name, c.Name, ErrContentImplementsGuide))
	}
	for _, tag := range r.TagList() {
		w := r.Lookup(tag)
		if w == nil {
			errs = append(errs, fmt.Errorf("%s tag %q: %w", r.w.Name, tag, ErrNilWidget))
			continue
		}
		c, ok := w.container.(dynamicContainer)
		if !ok {
			continue
		}
		class := c.EntryClass()
		if class == nil || class.New == nil {
			errs = append(errs, fmt.Errorf("%s tag %q: %w", r.w.Name, tag, ErrMissingEntryClass))
			continue
		}
		if _, isList := c.(listContainer); isList {
			if probe := class.construct(true); probe != nil && !ImplementsGuide(probe) {
				errs = append(errs, fmt.Errorf("%s tag %q class %q: %w", r.w.Name, tag, class.Name, ErrEntryNotIdentifiable))
			}
		}
	}
	return errs
}

func (r *Registry) onDispose() {
	r.HidePreview()
	if r.scene == nil {
		return
	}
	for i, x := range r.scene.registries {
		if x == r {
			r.scene.registries = append(r.scene.registries[:i], r.scene.registries[i+1:]...)
			break
		}
	}
}

// --- registry service ---

// AllRegistries returns the live registries of scene in creation order.
func AllRegistries(scene *Scene) []*Registry {
	if scene == nil {
		return nil
	}
	out := make([]*Registry, 0, len(scene.registries))
	for _, r := range scene.registries {
		if Alive(r.w) {
			out = append(out, r)
		}
	}
	return out
}

// GetRegister returns the first registry of scene that contains tag.
func GetRegister(scene *Scene, tag string) *Registry {
	for _, r := range AllRegistries(scene) {
		if r.IsContains(tag) {
			return r
		}
	}
	return nil
}

// GetTagWidget returns the live widget registered under tag in any registry
// of scene.
func GetTagWidget(scene *Scene, tag string) *Widget {
	for _, r := range AllRegistries(scene) {
		if w := r.Lookup(tag); w != nil {
			return w
		}
	}
	return nil
}

// GetAllRegistries is AllRegistries under its public operation name.
func GetAllRegistries(scene *Scene) []*Registry {
	return AllRegistries(scene)
}
