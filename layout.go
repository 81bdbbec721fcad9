package guidemask

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout is wrapped by every layout document error.
var ErrInvalidLayout = errors.New("guidemask: invalid layout")

// TreeItem is the item type produced by layout documents. A scalar in YAML
// becomes an item with only a Key.
type TreeItem struct {
	Key      string      `yaml:"key"`
	Children []*TreeItem `yaml:"children,omitempty"`
}

// GuideKey implements Keyed.
func (t *TreeItem) GuideKey() string { return t.Key }

func (t *TreeItem) String() string { return t.Key }

// UnmarshalYAML accepts either a scalar key or a mapping.
func (t *TreeItem) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Key = value.Value
		return nil
	}
	type plain TreeItem
	return value.Decode((*plain)(t))
}

func treeChildren(item any) []any {
	ti, ok := item.(*TreeItem)
	if !ok {
		return nil
	}
	out := make([]any, len(ti.Children))
	for i, c := range ti.Children {
		out[i] = c
	}
	return out
}

func itemsOf(items []*TreeItem) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

type widgetSpec struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	X        float64      `yaml:"x"`
	Y        float64      `yaml:"y"`
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	Label    string       `yaml:"label"`
	Color    Color        `yaml:"color"`
	Children []widgetSpec `yaml:"children"`

	// list, tree, entrybox
	Class       string      `yaml:"class"`
	Items       []*TreeItem `yaml:"items"`
	VisibleRows int         `yaml:"visible_rows"`
	RowHeight   float64     `yaml:"row_height"`
	Expanded    bool        `yaml:"expanded"`
	Horizontal  bool        `yaml:"horizontal"`
	Spacing     float64     `yaml:"spacing"`

	// registry
	Content *widgetSpec       `yaml:"content"`
	Tags    map[string]string `yaml:"tags"`
}

type classSpec struct {
	widgetSpec `yaml:",inline"`
	Nested     []string `yaml:"nested"`
	Script     string   `yaml:"script"`
}

type layoutDoc struct {
	Classes map[string]classSpec `yaml:"classes"`
	Root    widgetSpec           `yaml:"root"`
}

// Layout is a widget hierarchy built from a layout document.
type Layout struct {
	Root       *Widget
	Classes    map[string]*EntryClass
	Registries []*Registry
}

// Find returns the first widget named name in the layout, including the
// root.
func (l *Layout) Find(name string) *Widget {
	if l.Root.Name == name {
		return l.Root
	}
	return l.Root.FindByName(name)
}

// Registry returns the layout registry with the given name.
func (l *Layout) Registry(name string) *Registry {
	for _, r := range l.Registries {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

type layoutBuilder struct {
	scene   *Scene
	doc     *layoutDoc
	classes map[string]*EntryClass
	regs    []*Registry
}

// LoadLayout builds the widget hierarchy described by a YAML document and
// attaches it to the scene root. Registries are created in the scene's
// registry service.
func LoadLayout(scene *Scene, data []byte) (*Layout, error) {
	var doc layoutDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	b := &layoutBuilder{scene: scene, doc: &doc, classes: make(map[string]*EntryClass)}

	names := make([]string, 0, len(doc.Classes))
	for name := range doc.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		class, err := b.entryClass(name, doc.Classes[name])
		if err != nil {
			return nil, err
		}
		b.classes[name] = class
	}
	// Build every template once so broken class references fail here rather
	// than inside a tick.
	for _, name := range names {
		w, err := b.build(doc.Classes[name].widgetSpec, true)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", name, err)
		}
		w.Dispose()
	}

	root, err := b.build(doc.Root, false)
	if err != nil {
		b.discard()
		return nil, err
	}
	if scene != nil {
		scene.Root().AddChild(root)
	}
	return &Layout{Root: root, Classes: b.classes, Registries: b.regs}, nil
}

// discard disposes registries created before a build error.
func (b *layoutBuilder) discard() {
	for _, r := range b.regs {
		r.Widget().Dispose()
	}
	b.regs = nil
}

func (b *layoutBuilder) entryClass(name string, cs classSpec) (*EntryClass, error) {
	class := &EntryClass{Name: name}
	if len(cs.Nested) > 0 && cs.Script != "" {
		return nil, fmt.Errorf("class %q: nested and script are exclusive: %w", name, ErrInvalidLayout)
	}
	if cs.Script != "" {
		script, err := CompileEntryScript(name, cs.Script)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", name, err)
		}
		class.Script = script
	}
	tmpl := cs.widgetSpec
	if tmpl.Name == "" {
		tmpl.Name = name
	}
	nested := cs.Nested
	class.New = func() *Widget {
		w, err := b.build(tmpl, true)
		if err != nil {
			// Templates were validated at load time.
			ensure(false, "entry template failed: "+err.Error())
			return nil
		}
		if len(nested) > 0 {
			w.Impl = &NamedNested{Entry: w, Names: nested}
		}
		return w
	}
	class.Bind = func(entry *Widget, item any) {
		if item == nil {
			return
		}
		entry.Name = fmt.Sprint(item)
		if entry.Label == "" {
			entry.Label = entry.Name
		}
	}
	return class, nil
}

func (b *layoutBuilder) class(name string) (*EntryClass, error) {
	c, ok := b.classes[name]
	if !ok {
		return nil, fmt.Errorf("unknown class %q: %w", name, ErrInvalidLayout)
	}
	return c, nil
}

func (b *layoutBuilder) build(s widgetSpec, inClass bool) (*Widget, error) {
	var w *Widget
	switch s.Kind {
	case "", "panel":
		w = NewPanel(s.Name)
	case "leaf":
		w = NewLeaf(s.Name, s.Width, s.Height)
	case "list":
		c, err := b.class(s.Class)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", s.Name, err)
		}
		l := NewListView(s.Name, c)
		l.VisibleRows = s.VisibleRows
		l.RowHeight = s.RowHeight
		l.SetItems(itemsOf(s.Items))
		w = l.Widget()
	case "tree":
		c, err := b.class(s.Class)
		if err != nil {
			return nil, fmt.Errorf("tree %q: %w", s.Name, err)
		}
		t := NewTreeView(s.Name, c, treeChildren)
		t.VisibleRows = s.VisibleRows
		t.RowHeight = s.RowHeight
		t.SetRoots(itemsOf(s.Items))
		if s.Expanded {
			t.ExpandAll()
		}
		w = t.Widget()
	case "entrybox":
		c, err := b.class(s.Class)
		if err != nil {
			return nil, fmt.Errorf("entrybox %q: %w", s.Name, err)
		}
		eb := NewEntryBox(s.Name, c)
		eb.Horizontal = s.Horizontal
		eb.Spacing = s.Spacing
		w = eb.Widget()
		defer func() {
			for _, it := range s.Items {
				eb.CreateEntryWith(it)
			}
		}()
	case "registry":
		if inClass {
			return nil, fmt.Errorf("registry %q inside an entry class: %w", s.Name, ErrInvalidLayout)
		}
		return b.registry(s)
	default:
		return nil, fmt.Errorf("widget %q: unknown kind %q: %w", s.Name, s.Kind, ErrInvalidLayout)
	}
	w.X, w.Y = s.X, s.Y
	w.Width, w.Height = s.Width, s.Height
	w.Label = s.Label
	w.Color = s.Color
	for _, cs := range s.Children {
		c, err := b.build(cs, inClass)
		if err != nil {
			return nil, err
		}
		w.AddChild(c)
	}
	return w, nil
}

func (b *layoutBuilder) registry(s widgetSpec) (*Widget, error) {
	r := NewRegistry(b.scene, s.Name)
	b.regs = append(b.regs, r)
	w := r.Widget()
	w.X, w.Y = s.X, s.Y
	w.Width, w.Height = s.Width, s.Height
	if s.Content != nil {
		content, err := b.build(*s.Content, false)
		if err != nil {
			return nil, fmt.Errorf("registry %q: %w", s.Name, err)
		}
		r.SetContent(content)
	}
	tags := make([]string, 0, len(s.Tags))
	for tag := range s.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		name := s.Tags[tag]
		var target *Widget
		if c := r.Content(); c != nil {
			if c.Name == name {
				target = c
			} else {
				target = c.FindByName(name)
			}
		}
		if target == nil {
			return nil, fmt.Errorf("registry %q tag %q: no widget named %q: %w", s.Name, tag, name, ErrInvalidLayout)
		}
		if err := r.Register(tag, target); err != nil {
			return nil, err
		}
	}
	return w, nil
}
