package guidemask

import "github.com/hajimehoshi/ebiten/v2"

// pointerState tracks the single mouse pointer between ticks.
type pointerState struct {
	down   bool
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	hit    *Widget
	button MouseButton
}

// EnableDeviceInput makes the scene read the real mouse each tick. Headless
// scenes leave it off and drive input through the Inject methods.
func (s *Scene) EnableDeviceInput(enabled bool) {
	s.readDeviceInput = enabled
}

// processInput consumes one injected pointer event if any are queued, else
// polls the mouse when device input is enabled.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.readDeviceInput {
		return
	}
	cx, cy := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.processPointer(float64(cx), float64(cy), pressed, MouseButtonLeft)
}

// processPointer advances the press/release state machine. A click is a
// release that lands on the same widget the press hit. Guide layers see the
// release first, topmost layer first, and may consume it.
func (s *Scene) processPointer(x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointer
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.hit = s.hitTest(x, y)
	case !pressed && ps.down:
		ps.down = false
		hit := ps.hit
		ps.hit = nil
		if s.dispatchLayerClick(x, y) {
			break
		}
		target := s.hitTest(x, y)
		if target != nil && target == hit && target.OnClick != nil {
			lx, ly := target.WorldToLocal(x, y)
			target.OnClick(ClickContext{
				Widget:  target,
				GlobalX: x,
				GlobalY: y,
				LocalX:  lx,
				LocalY:  ly,
				Button:  ps.button,
			})
		}
	}
	ps.lastX, ps.lastY = x, y
}

// dispatchLayerClick offers a click to the viewport layers from the top
// down. Returns true if a layer consumed it.
func (s *Scene) dispatchLayerClick(x, y float64) bool {
	layers := append([]GuideLayer(nil), s.layers...)
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].HandleClick(x, y) {
			return true
		}
	}
	return false
}

// collectInteractable appends interactable, visible widgets in painter order.
func collectInteractable(w *Widget, buf []*Widget) []*Widget {
	if !w.Visible || w.disposed {
		return buf
	}
	if w.Interactable || w.OnClick != nil {
		buf = append(buf, w)
	}
	for _, c := range w.children {
		buf = collectInteractable(c, buf)
	}
	return buf
}

// hitTest returns the topmost interactable widget under (x, y), or nil.
func (s *Scene) hitTest(x, y float64) *Widget {
	buf := collectInteractable(s.root, nil)
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i].WorldBounds().Contains(x, y) {
			return buf[i]
		}
	}
	return nil
}
