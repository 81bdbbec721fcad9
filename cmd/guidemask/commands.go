package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phanxgames/guidemask"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

var (
	flagTag     string
	flagSteps   []string
	flagTimeout time.Duration
	flagMessage string
	flagWidth   int
	flagHeight  int
)

var treeCmd = &cobra.Command{
	Use:   "tree <layout>",
	Short: "Print the guide tree of every tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <layout>",
	Short: "Resolve a guide path headlessly and print the target",
	Long: `Runs a headless scene until the guide path resolves and prints the
widget the guide would be shown on.

Example:
  guidemask resolve ui.yaml --tag inventory --step sword:0 --step ruby:1`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var previewCmd = &cobra.Command{
	Use:   "preview <layout>",
	Short: "Open a window with the guide shown",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var validateCmd = &cobra.Command{
	Use:   "validate <layout>",
	Short: "Run the design-time registry checks",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, previewCmd} {
		c.Flags().StringVar(&flagTag, "tag", "", "registry tag to guide")
		c.Flags().StringArrayVar(&flagSteps, "step", nil, "path step as key:child (repeatable)")
		c.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-step wait timeout (0 uses settings)")
		_ = c.MarkFlagRequired("tag")
	}
	previewCmd.Flags().StringVar(&flagMessage, "message", "", "guide message")
	previewCmd.Flags().IntVar(&flagWidth, "width", 800, "window width")
	previewCmd.Flags().IntVar(&flagHeight, "height", 600, "window height")
}

func runTree(cmd *cobra.Command, args []string) error {
	scene, layout, err := loadLayout(args[0])
	if err != nil {
		return err
	}
	// One tick realizes the visible list rows so trees use real entries.
	scene.Update()

	out := cmd.OutOrStdout()
	for _, r := range layout.Registries {
		fmt.Fprintln(out, headerStyle.Render("Registry "+r.Name()))
		for _, tag := range r.TagList() {
			fmt.Fprintln(out, "  "+tagStyle.Render("#"+tag))
			tree := r.GuideWidgetTree(tag)
			for _, line := range strings.Split(strings.TrimRight(tree.String(), "\n"), "\n") {
				fmt.Fprintln(out, "    "+line)
			}
		}
	}
	return nil
}

// parseSteps turns key:child strings into path keys.
func parseSteps(steps []string) ([]guidemask.PathKey, error) {
	keys := make([]guidemask.PathKey, 0, len(steps))
	for _, s := range steps {
		i := strings.LastIndex(s, ":")
		if i < 0 {
			keys = append(keys, guidemask.PathKey{Key: s})
			continue
		}
		child, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return nil, fmt.Errorf("step %q: child index: %w", s, err)
		}
		keys = append(keys, guidemask.PathKey{Key: s[:i], Child: child})
	}
	return keys, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	keys, err := parseSteps(flagSteps)
	if err != nil {
		return err
	}
	scene, _, err := loadLayout(args[0])
	if err != nil {
		return err
	}
	defer scene.Close()

	timeout := flagTimeout
	if timeout <= 0 {
		timeout = guidemask.DefaultSettings().DefaultTimeout
	}
	res := guidemask.ResolvePath(scene, guidemask.GetTagWidget(scene, flagTag), guidemask.PathFromKeys(keys...), timeout)

	// Each step waits at most timeout; allow a few spare ticks per step.
	maxTicks := (len(keys)+1)*(int(timeout.Seconds()*float64(ebiten.TPS()))+3) + 1
	for i := 0; i < maxTicks && !res.Done(); i++ {
		scene.Update()
	}
	if !res.Done() {
		return errors.New("resolution did not settle")
	}

	out := cmd.OutOrStdout()
	target := res.Result()
	if target == nil {
		fmt.Fprintln(out, warnStyle.Render("no target: "+res.Reason().String()))
		return nil
	}
	status := okStyle.Render("resolved")
	if res.Degraded() {
		status = warnStyle.Render("degraded (" + res.Reason().String() + ")")
	}
	fmt.Fprintf(out, "%s %s %s\n", status, target.Path(), dimStyle.Render(fmt.Sprintf("depth=%d ticks=%d", res.Depth(), scene.Tick())))
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	keys, err := parseSteps(flagSteps)
	if err != nil {
		return err
	}
	scene, _, err := loadLayout(args[0])
	if err != nil {
		return err
	}
	if settingsPath != "" {
		err := guidemask.WatchSettings(settingsPath, func(s guidemask.Settings, e fsnotify.Event) {
			logger.Info("settings changed; reopen the guide to apply", zap.String("file", e.Name))
		})
		if err != nil {
			return err
		}
	}
	scene.ClearColor = guidemask.Color{R: 0.118, G: 0.118, B: 0.157, A: 1}

	guidemask.ShowGuideTag(scene, flagTag, guidemask.PathFromKeys(keys...),
		guidemask.ActionParams{Message: flagMessage}, guidemask.DefaultSettings().DefaultZOrder, flagTimeout).
		Then(func(w *guidemask.Widget) {
			if w != nil {
				logger.Info("guide shown", zap.String("target", w.Path()))
			}
		})

	return guidemask.Run(scene, guidemask.RunConfig{
		Title:  "guidemask preview: " + flagTag,
		Width:  flagWidth,
		Height: flagHeight,
	})
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, layout, err := loadLayout(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range layout.Registries {
		errs := r.Validate()
		if len(errs) == 0 {
			fmt.Fprintln(out, okStyle.Render("ok")+" "+r.Name())
			continue
		}
		for _, e := range errs {
			fmt.Fprintln(out, warnStyle.Render("!!")+" "+e.Error())
		}
		failed += len(errs)
	}
	if failed > 0 {
		return fmt.Errorf("%d validation problem(s)", failed)
	}
	return nil
}
