package guidemask

import "testing"

func clickable(s *Scene, name string, x, y float64) (*Widget, *[]ClickContext) {
	w := NewLeaf(name, 20, 20)
	w.SetPosition(x, y)
	var got []ClickContext
	w.OnClick = func(ctx ClickContext) { got = append(got, ctx) }
	s.Root().AddChild(w)
	return w, &got
}

func TestClickFiresOnRelease(t *testing.T) {
	s := NewScene()
	w, got := clickable(s, "btn", 10, 10)
	updateWorldTransform(s.root, identityTransform, false)

	s.InjectClick(15, 17)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Frame 1: press
	s.processInput()
	if len(*got) != 0 {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release
	s.processInput()
	if len(*got) != 1 {
		t.Fatalf("clicks = %d, want 1", len(*got))
	}
	ctx := (*got)[0]
	if ctx.Widget != w || ctx.GlobalX != 15 || ctx.LocalX != 5 || ctx.LocalY != 7 || ctx.Button != MouseButtonLeft {
		t.Errorf("ctx = %+v", ctx)
	}
}

func TestClickRequiresSameWidget(t *testing.T) {
	s := NewScene()
	_, a := clickable(s, "a", 0, 0)
	_, b := clickable(s, "b", 100, 0)

	s.InjectPress(5, 5)
	s.InjectRelease(105, 5)
	stepN(s, 2)
	if len(*a) != 0 || len(*b) != 0 {
		t.Error("press and release on different widgets is not a click")
	}
}

func TestHitTestTopmostAndVisibility(t *testing.T) {
	s := NewScene()
	_, below := clickable(s, "below", 0, 0)
	top, above := clickable(s, "above", 0, 0)

	s.InjectClick(5, 5)
	stepN(s, 2)
	if len(*above) != 1 || len(*below) != 0 {
		t.Error("the last painted widget should receive the click")
	}

	top.Visible = false
	s.InjectClick(5, 5)
	stepN(s, 2)
	if len(*below) != 1 {
		t.Error("hidden widgets are skipped by hit testing")
	}
}

func TestLayerSeesClickFirst(t *testing.T) {
	s := NewScene()
	target, targetClicks := clickable(s, "target", 0, 0)
	_, otherClicks := clickable(s, "other", 100, 100)

	var hits int
	ShowGuideWidget(s, target, ActionParams{
		BlockInput:    true,
		OnTargetClick: func(*Widget) { hits++ },
	}, 0)

	s.InjectClick(110, 110)
	stepN(s, 2)
	if len(*otherClicks) != 0 {
		t.Error("blocking guide should swallow clicks outside the hole")
	}

	s.InjectClickWidget(target)
	stepN(s, 2)
	if hits != 1 || len(*targetClicks) != 1 {
		t.Errorf("hits = %d target clicks = %d, want 1 and 1", hits, len(*targetClicks))
	}
}

func TestInjectClickWidgetDead(t *testing.T) {
	s := NewScene()
	w := NewLeaf("w", 1, 1)
	w.Dispose()
	if s.InjectClickWidget(w) || s.InjectClickWidget(nil) {
		t.Error("dead widgets cannot be clicked")
	}
	if len(s.injectQueue) != 0 {
		t.Error("nothing should be queued")
	}
}

func TestDeviceInputOffByDefault(t *testing.T) {
	s := NewScene()
	if s.readDeviceInput {
		t.Error("new scenes should not poll the mouse")
	}
	s.EnableDeviceInput(true)
	if !s.readDeviceInput {
		t.Error("EnableDeviceInput not applied")
	}
}
