package guidemask

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func TestRegistryRegisterLookup(t *testing.T) {
	s := NewScene()
	r := NewRegistry(s, "hud")
	w := NewLeaf("btn", 10, 10)
	if err := r.Register("play", w); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if r.Lookup("play") != w || !r.IsContains("play") {
		t.Error("registered tag should be found")
	}
	if r.Lookup("missing") != nil || r.IsContains("missing") {
		t.Error("unknown tag should be absent")
	}
	if r.Name() != "hud" || r.Widget().Kind != KindRegistry {
		t.Error("registry widget wrong")
	}
	if got, ok := AsRegistry(r.Widget()); !ok || got != r {
		t.Error("AsRegistry should return the registry")
	}
}

func TestRegistryRegisterErrors(t *testing.T) {
	r := NewRegistry(NewScene(), "hud")
	w := NewLeaf("btn", 10, 10)
	if err := r.Register("play", w); err != nil {
		t.Fatal(err)
	}
	dead := NewLeaf("dead", 1, 1)
	dead.Dispose()

	tests := []struct {
		name string
		tag  string
		w    *Widget
		want error
	}{
		{"duplicate", "play", NewLeaf("x", 1, 1), ErrDuplicateTag},
		{"empty tag", "", w, ErrEmptyTag},
		{"nil widget", "other", nil, ErrNilWidget},
		{"disposed widget", "other", dead, ErrNilWidget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Register(tt.tag, tt.w); !errors.Is(err, tt.want) {
				t.Errorf("Register = %v, want %v", err, tt.want)
			}
		})
	}
	if r.Lookup("play") != w {
		t.Error("failed registration must not replace the existing tag")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry(NewScene(), "hud")
	_ = r.Register("a", NewLeaf("a", 1, 1))
	if !r.Unregister("a") || r.Unregister("a") {
		t.Error("Unregister result wrong")
	}
	if r.IsContains("a") {
		t.Error("tag should be gone")
	}
}

func TestRegistryTagListSorted(t *testing.T) {
	r := NewRegistry(NewScene(), "hud")
	for _, tag := range []string{"quests", "bag", "menu"} {
		if err := r.Register(tag, NewLeaf(tag, 1, 1)); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"bag", "menu", "quests"}, r.TagList()); diff != "" {
		t.Errorf("TagList (-want +got):\n%s", diff)
	}
}

func TestRegistrySelfHeal(t *testing.T) {
	logs := observeLogs(t, zapcore.DebugLevel)
	s := NewScene()
	r := NewRegistry(s, "hud")
	w := NewLeaf("btn", 1, 1)
	_ = r.Register("play", w)

	w.Dispose()
	if r.Lookup("play") != nil {
		t.Error("Lookup should not return a disposed widget")
	}
	if !r.IsContains("play") {
		t.Error("dead tag stays present until synchronization")
	}
	r.SynchronizeProperties()
	if r.IsContains("play") {
		t.Error("synchronization should drop the dead tag")
	}
	if logs.FilterMessage("registry dropped dead tag").Len() != 1 {
		t.Error("dropped tag should be logged")
	}
}

func TestRegistryHealsOnTick(t *testing.T) {
	s := NewScene()
	r := NewRegistry(s, "hud")
	w := NewLeaf("btn", 1, 1)
	_ = r.Register("play", w)
	w.Dispose()
	stepN(s, 1)
	if r.IsContains("play") {
		t.Error("tick should drop the dead tag")
	}
	if err := r.Register("play", NewLeaf("btn2", 1, 1)); err != nil {
		t.Errorf("tag should be reusable after healing: %v", err)
	}
}

func TestRegistryTreeCache(t *testing.T) {
	r := NewRegistry(NewScene(), "hud")
	l := NewListView("bag", slotClass("slot", "icon"))
	l.SetItems([]any{"a"})
	_ = r.Register("bag", l.Widget())

	first := r.GuideWidgetTree("bag")
	if len(first) != 1 {
		t.Fatalf("tree levels = %d, want 1", len(first))
	}
	if again := r.GuideWidgetTree("bag"); &again[0] != &first[0] {
		t.Error("second call should return the cached tree")
	}
	r.SynchronizeProperties()
	if again := r.GuideWidgetTree("bag"); &again[0] == &first[0] {
		t.Error("synchronization should invalidate the cache")
	}
	if diff := cmp.Diff([]string{"bag", "icon"}, names(r.GuideWidgetList("bag"))); diff != "" {
		t.Errorf("GuideWidgetList (-want +got):\n%s", diff)
	}
	if r.GuideWidgetTree("missing") != nil {
		t.Error("unknown tag has no tree")
	}
}

func TestRegistryContentSlot(t *testing.T) {
	r := NewRegistry(NewScene(), "hud")
	if r.Content() != nil {
		t.Error("new registry has no content")
	}
	a, b := NewPanel("a"), NewPanel("b")
	r.SetContent(a)
	r.SetContent(b)
	if r.Content() != b || a.Parent != nil {
		t.Error("SetContent should replace the previous content")
	}
	r.SetContent(nil)
	if r.Content() != nil {
		t.Error("SetContent(nil) should clear the slot")
	}
}

func TestRegistryPreview(t *testing.T) {
	s := NewScene()
	r := NewRegistry(s, "hud")
	s.Root().AddChild(r.Widget())
	w := NewLeaf("btn", 10, 10)
	_ = r.Register("play", w)

	if r.ShowPreview("missing") != nil {
		t.Error("unknown tag has no preview")
	}
	layer := r.ShowPreview("play")
	if layer == nil {
		t.Fatal("ShowPreview returned nil")
	}
	if layer.Target() != w || layer.Widget().Parent != r.OverlaySlot() {
		t.Error("preview should target the tag and live in the overlay slot")
	}
	if got, tag := r.Preview(); got != layer || tag != "play" {
		t.Errorf("Preview = %v, %q", got, tag)
	}
	if len(s.Layers()) != 0 {
		t.Error("preview must not enter the viewport")
	}

	r.Unregister("play")
	if got, _ := r.Preview(); got != nil || layer.Widget().Parent != nil {
		t.Error("unregistering the previewed tag should hide the preview")
	}
}

func TestRegistryPreviewHiddenOnHeal(t *testing.T) {
	s := NewScene()
	r := NewRegistry(s, "hud")
	w := NewLeaf("btn", 10, 10)
	_ = r.Register("play", w)
	dismissed := 0
	store := &recordingStore{}
	s.SetEventStore(store)
	r.ShowPreview("play")
	w.Dispose()
	stepN(s, 1)
	if got, _ := r.Preview(); got != nil {
		t.Error("preview of a dropped tag should be hidden")
	}
	for _, e := range store.events {
		if e.Type == EventGuideDismissed {
			dismissed++
		}
	}
	if dismissed != 1 {
		t.Errorf("dismissed events = %d, want 1", dismissed)
	}
}

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry(NewScene(), "hud")
	content := slotClass("slot", "x").construct(false)
	r.SetContent(content)

	noClass := NewListView("noclass", nil)
	plain := NewListView("plain", plainClass("row"))
	good := NewListView("good", slotClass("slot", "x"))
	box := NewEntryBox("box", plainClass("btn"))
	_ = r.Register("a", noClass.Widget())
	_ = r.Register("b", plain.Widget())
	_ = r.Register("c", good.Widget())
	_ = r.Register("d", box.Widget())
	_ = r.Register("e", NewLeaf("leaf", 1, 1))

	errs := r.Validate()
	want := []error{ErrContentImplementsGuide, ErrMissingEntryClass, ErrEntryNotIdentifiable}
	if len(errs) != len(want) {
		t.Fatalf("Validate = %v, want %d errors", errs, len(want))
	}
	for i, w := range want {
		if !errors.Is(errs[i], w) {
			t.Errorf("error %d = %v, want %v", i, errs[i], w)
		}
	}
}

func TestRegistryDisposeDeregisters(t *testing.T) {
	s := NewScene()
	a := NewRegistry(s, "a")
	b := NewRegistry(s, "b")
	if diff := cmp.Diff([]string{"a", "b"}, registryNames(AllRegistries(s))); diff != "" {
		t.Fatalf("registries (-want +got):\n%s", diff)
	}
	a.Widget().Dispose()
	if diff := cmp.Diff([]string{"b"}, registryNames(GetAllRegistries(s))); diff != "" {
		t.Errorf("registries after dispose (-want +got):\n%s", diff)
	}
	_ = b
}

func TestRegistryClosedScene(t *testing.T) {
	s := NewScene()
	s.Close()
	NewRegistry(s, "late")
	if len(AllRegistries(s)) != 0 {
		t.Error("closed scene should not accept registries")
	}
	if AllRegistries(nil) != nil {
		t.Error("nil scene has no registries")
	}
}

func TestGetRegisterAndTagWidget(t *testing.T) {
	s := NewScene()
	a := NewRegistry(s, "a")
	b := NewRegistry(s, "b")
	wa, wb := NewLeaf("wa", 1, 1), NewLeaf("wb", 1, 1)
	_ = a.Register("shared", wa)
	_ = b.Register("shared", wb)
	_ = b.Register("only_b", NewLeaf("x", 1, 1))

	if GetRegister(s, "shared") != a {
		t.Error("first registry wins")
	}
	if GetRegister(s, "only_b") != b {
		t.Error("tag in second registry should be found")
	}
	if GetRegister(s, "none") != nil {
		t.Error("unknown tag has no registry")
	}
	if GetTagWidget(s, "shared") != wa {
		t.Error("GetTagWidget should return the first live widget")
	}

	wa.Dispose()
	if GetTagWidget(s, "shared") != wb {
		t.Error("dead widget in the first registry should be skipped")
	}
	if GetRegister(s, "shared") != a {
		t.Error("dead tag is still contained until synchronization")
	}
}

func registryNames(rs []*Registry) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return out
}
