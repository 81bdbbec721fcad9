package guidemask

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Keyed is implemented by items that carry a stable key for guide scripts.
type Keyed interface {
	GuideKey() string
}

// KeyMatch returns a predicate matching items by key: Keyed items by
// GuideKey, entry widgets by Name, anything else by its fmt.Sprint form.
func KeyMatch(key string) func(item any) bool {
	return func(item any) bool {
		switch v := item.(type) {
		case Keyed:
			return v.GuideKey() == key
		case *Widget:
			return v != nil && v.Name == key
		case nil:
			return false
		}
		return fmt.Sprint(item) == key
	}
}

// guideStep is a single action in a guide script.
type guideStep struct {
	Action     string        `yaml:"action"`
	Tag        string        `yaml:"tag,omitempty"`
	Path       []PathKey     `yaml:"path,omitempty"`
	Message    string        `yaml:"message,omitempty"`
	BlockInput bool          `yaml:"block_input,omitempty"`
	Z          int           `yaml:"z,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Frames     int           `yaml:"frames,omitempty"`
}

// PathKey names one path step by item key and nested child index.
type PathKey struct {
	Key   string `yaml:"key"`
	Child int    `yaml:"child"`
}

// guideScript is the top-level structure of a guide script.
type guideScript struct {
	Steps []guideStep `yaml:"steps"`
}

// ErrEmptyScript is returned for a guide script without steps.
var ErrEmptyScript = errors.New("guidemask: guide script has no steps")

// PathFromKeys converts key/child pairs into path steps matched with KeyMatch.
func PathFromKeys(keys ...PathKey) []PathStep {
	out := make([]PathStep, len(keys))
	for i, k := range keys {
		out[i] = PathStep{Match: KeyMatch(k.Key), NestedChildIndex: k.Child}
	}
	return out
}

// GuideSequencer walks a tutorial script one step per tick. Attach it to a
// scene with SetSequencer.
type GuideSequencer struct {
	steps  []guideStep
	cursor int
	done   bool

	waitCount    int
	awaitClick   bool
	clicked      bool
	pending      *Resolution
	current      GuideLayer
	onStepChange func(index int, action string)
}

// LoadGuideScript parses a YAML (or JSON) guide script.
func LoadGuideScript(data []byte) (*GuideSequencer, error) {
	var script guideScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse guide script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse guide script: %w", ErrEmptyScript)
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "show":
			if st.Tag == "" {
				return nil, fmt.Errorf("parse guide script: step %d: show needs a tag", i)
			}
		case "wait", "click", "clear":
		default:
			return nil, fmt.Errorf("parse guide script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &GuideSequencer{steps: script.Steps}, nil
}

// SetSequencer attaches a sequencer to the scene. Its step method is called
// from Scene.Update after input is processed each tick.
func (s *Scene) SetSequencer(seq *GuideSequencer) {
	s.sequencer = seq
}

// Done reports whether all steps have been executed.
func (q *GuideSequencer) Done() bool {
	return q.done
}

// Current returns the layer shown by the last show step, or nil.
func (q *GuideSequencer) Current() GuideLayer {
	return q.current
}

// OnStepChange registers fn to run whenever a step starts.
func (q *GuideSequencer) OnStepChange(fn func(index int, action string)) {
	q.onStepChange = fn
}

// step advances the sequencer by one tick.
func (q *GuideSequencer) step(s *Scene) {
	if q.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if q.pending != nil {
		if !q.pending.Done() {
			return
		}
		if q.pending.Cancelled() {
			q.done = true
			return
		}
		q.current = q.pending.Layer()
		q.pending = nil
	}
	if q.waitCount > 0 {
		q.waitCount--
		return
	}
	if q.awaitClick {
		if !q.clicked {
			return
		}
		q.awaitClick = false
	}
	if q.cursor >= len(q.steps) {
		q.done = true
		return
	}

	st := q.steps[q.cursor]
	idx := q.cursor
	q.cursor++
	if q.onStepChange != nil {
		q.onStepChange(idx, st.Action)
	}

	switch st.Action {
	case "show":
		q.clear()
		q.clicked = false
		params := ActionParams{
			Message:       st.Message,
			BlockInput:    st.BlockInput,
			OnTargetClick: func(*Widget) { q.clicked = true },
		}
		z := st.Z
		if z == 0 {
			z = DefaultSettings().DefaultZOrder
		}
		q.pending = ShowGuideTag(s, st.Tag, PathFromKeys(st.Path...), params, z, st.Timeout)
		if q.pending.Done() {
			q.current = q.pending.Layer()
			q.pending = nil
		}
	case "wait":
		if st.Frames > 0 {
			q.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "click":
		q.awaitClick = !q.clicked
		q.clicked = false
	case "clear":
		q.clear()
	}
}

func (q *GuideSequencer) clear() {
	if q.current != nil {
		q.current.RemoveFromParent()
		q.current = nil
	}
}
