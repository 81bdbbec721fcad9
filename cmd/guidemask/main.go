// Command guidemask inspects layout documents and previews guides.
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/guidemask"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose      bool
	settingsPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "guidemask",
	Short: "Inspect guide trees and preview guides for a widget layout",
	Long: `guidemask loads a YAML layout document (widgets, entry classes and
registries) and lets you print the guide tree of every tag, resolve a guide
path headlessly, or open a window with the guide shown.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		guidemask.SetLogger(logger)

		if settingsPath != "" {
			s, err := guidemask.LoadSettings(settingsPath)
			if err != nil {
				return err
			}
			guidemask.SetDefaultSettings(s)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file (toml, yaml or json)")

	rootCmd.AddCommand(treeCmd, resolveCmd, previewCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadLayout reads a layout file into a fresh scene.
func loadLayout(path string) (*guidemask.Scene, *guidemask.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read layout: %w", err)
	}
	scene := guidemask.NewScene()
	layout, err := guidemask.LoadLayout(scene, data)
	if err != nil {
		return nil, nil, fmt.Errorf("load layout %s: %w", path, err)
	}
	logger.Debug("layout loaded",
		zap.String("file", path),
		zap.Int("registries", len(layout.Registries)),
		zap.Int("classes", len(layout.Classes)))
	return scene, layout, nil
}
