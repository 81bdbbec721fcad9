package guidemask

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Pulse oscillates a value between From and To, easing each half period.
// Call Update(dt) each tick and read Value. There is no global animation
// manager; layers own their pulses.
type Pulse struct {
	From, To float64
	half     float32
	fn       ease.TweenFunc
	tween    *gween.Tween
	forward  bool
	value    float64
}

// NewPulse creates a pulse with the given full period in seconds. A
// non-positive period produces a constant value of To.
func NewPulse(from, to float64, period float32, fn ease.TweenFunc) *Pulse {
	if fn == nil {
		fn = ease.InOutSine
	}
	p := &Pulse{From: from, To: to, half: period / 2, fn: fn, forward: true, value: from}
	if p.half <= 0 {
		p.value = to
		return p
	}
	p.tween = gween.New(float32(from), float32(to), p.half, fn)
	return p
}

// Update advances the pulse by dt seconds.
func (p *Pulse) Update(dt float32) {
	if p.tween == nil {
		return
	}
	val, finished := p.tween.Update(dt)
	p.value = float64(val)
	if finished {
		p.forward = !p.forward
		from, to := p.To, p.From
		if p.forward {
			from, to = p.From, p.To
		}
		p.tween = gween.New(float32(from), float32(to), p.half, p.fn)
	}
}

// Value returns the current value.
func (p *Pulse) Value() float64 {
	return p.value
}
