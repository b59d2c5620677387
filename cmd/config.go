package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/yarrbar/internal/config"
	"github.com/bnema/yarrbar/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect yarrbar configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		sections := []struct {
			name     string
			settings [][2]any
		}{
			{"panel", [][2]any{
				{"namespace", cfg.Panel.Namespace},
				{"layer", cfg.Panel.Layer},
				{"anchor", cfg.Panel.Anchor},
				{"width", cfg.Panel.Width},
				{"height", cfg.Panel.Height},
				{"exclusive_zone", cfg.Panel.ExclusiveZone},
				{"margin", cfg.Panel.Margin},
				{"keyboard_interactivity", cfg.Panel.KeyboardInteractivity},
				{"fallback_width", cfg.Panel.FallbackWidth},
				{"fallback_height", cfg.Panel.FallbackHeight},
				{"scale", cfg.Panel.Scale},
				{"background", cfg.Panel.Background},
				{"cancel_key", cfg.Panel.CancelKey},
			}},
			{"ui", [][2]any{
				{"renderer", cfg.UI.Renderer},
				{"title", cfg.UI.Title},
				{"clock_format", cfg.UI.ClockFormat},
				{"foreground", cfg.UI.Foreground},
				{"accent", cfg.UI.Accent},
			}},
			{"logging", [][2]any{
				{"log_level", cfg.Logging.LogLevel},
			}},
		}

		fmt.Fprintln(out, ui.SubtleStyle.Render("# "+config.GetConfigPath()))
		for _, s := range sections {
			fmt.Fprintln(out, ui.FormatSection(s.name))
			for _, kv := range s.settings {
				fmt.Fprintln(out, ui.FormatSetting(kv[0].(string), kv[1]))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetConfigPath()
		_, err := os.Stat(path)
		status := path
		if err != nil {
			status += " (not found, using defaults)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus(err == nil, status))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
