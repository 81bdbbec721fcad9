package guidemask

import (
	"time"

	"go.uber.org/zap"
)

// ShowGuideWidget shows a guide layer over target at zOrder. Returns nil
// when the scene is closed, target is nil or disposed, or no layer class is
// configured.
func ShowGuideWidget(scene *Scene, target *Widget, params ActionParams, zOrder int) GuideLayer {
	return showGuide(scene, target, params, zOrder, "")
}

func showGuide(scene *Scene, target *Widget, params ActionParams, zOrder int, tag string) GuideLayer {
	if scene == nil || scene.closed || !Alive(target) {
		return nil
	}
	layer := CreateLayer(scene)
	if layer == nil {
		return nil
	}
	layer.SetGuide(target, params)
	layer.AddToViewport(zOrder)
	scene.emit(GuideEvent{Type: EventGuideShown, LayerID: layer.ID(), Target: target, Tag: tag})
	return layer
}

// ShowGuideListEntry shows a guide on the entry bound to item inside a list,
// tree or entry box. If the entry does not realize before timeout the guide
// is shown on the container instead. A non-positive timeout uses the
// default settings.
func ShowGuideListEntry(scene *Scene, container *Widget, item any, params ActionParams, zOrder int, timeout time.Duration) *Resolution {
	return showResolved(ResolveEntry(scene, container, item, timeout), params, zOrder, "")
}

// ShowGuideNestedWidget resolves path from root and shows a guide on the
// deepest widget reached.
func ShowGuideNestedWidget(scene *Scene, root *Widget, path []PathStep, params ActionParams, zOrder int, timeout time.Duration) *Resolution {
	return showResolved(ResolvePath(scene, root, path, timeout), params, zOrder, "")
}

// ShowGuideTag resolves path from the widget registered under tag in any
// registry of scene and shows a guide on the result.
func ShowGuideTag(scene *Scene, tag string, path []PathStep, params ActionParams, zOrder int, timeout time.Duration) *Resolution {
	root := GetTagWidget(scene, tag)
	if root == nil && scene != nil && !scene.closed {
		logger.Debug("guide tag not found", zap.String("tag", tag))
	}
	return showResolved(ResolvePath(scene, root, path, timeout), params, zOrder, tag)
}

func showResolved(r *Resolution, params ActionParams, zOrder int, tag string) *Resolution {
	r.Then(func(w *Widget) {
		if r.Degraded() && w != nil {
			r.scene.emit(GuideEvent{Type: EventGuideDegraded, Target: w, Tag: tag, Reason: r.reason})
		}
		r.layer = showGuide(r.scene, w, params, zOrder, tag)
	})
	return r
}
