// Package guidemask locates widgets in a retained-mode [Ebitengine] widget
// tree and overlays tutorial guides on them.
//
// Designers tag widgets inside a [Registry]. At runtime a caller names a tag
// (or a widget) plus an optional path into dynamically realized list, tree
// and entry-box entries, and guidemask resolves the target and shows a
// [GuideLayer] over it.
//
// # Quick start
//
//	scene := guidemask.NewScene()
//	layout, err := guidemask.LoadLayout(scene, data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	guidemask.ShowGuideTag(scene, "inventory",
//		guidemask.PathFromKeys(guidemask.PathKey{Key: "sword", Child: 0}),
//		guidemask.ActionParams{Message: "Equip the sword"}, 0, time.Second)
//	guidemask.Run(scene, guidemask.RunConfig{Title: "Guide", Width: 640, Height: 480})
//
// # Widgets and containers
//
// Every element is a [Widget]. Dynamic containers build their children from
// an [EntryClass]: a [ListView] realizes entries for the rows inside its
// window on the next [Scene.Update], a [TreeView] does the same over the
// pre-order flattening of an item forest, and an [EntryBox] creates entries
// eagerly.
//
// An entry exposes the widgets a guide may descend into by setting
// [Widget.Impl] to an [EntryGuideIdentifiable], or through its class
// [EntryScript], a small Go function interpreted at runtime.
//
// # Resolution
//
// [BuildTree] describes the guide hierarchy below a widget. [ResolvePath]
// follows a list of [PathStep] values, waiting for list entries to realize.
// Every miss degrades to the deepest widget reached, so a guide always
// appears somewhere sensible. Resolutions settle on scene ticks; closing the
// scene cancels them without running callbacks.
//
// # Configuration
//
// [Settings] names the default layer class and styling. Load them with
// [LoadSettings] or keep them current with [WatchSettings].
//
// # Logging
//
// guidemask logs through [go.uber.org/zap]. Install a logger with
// [SetLogger]; debug mode installs a development logger when none is set.
//
// [Ebitengine]: https://ebitengine.org
package guidemask
