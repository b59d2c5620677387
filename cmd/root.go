package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/yarrbar/internal/config"
	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/ui"
	"github.com/bnema/yarrbar/internal/wayland"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "yarrbar",
		Short: "yarrbar - a Wayland status panel",
		Long: `yarrbar is a status panel for wlroots-based Wayland compositors.
It anchors a layer-shell surface to an output edge, reserves an exclusive
zone for it and draws a status line. Press Escape on the panel to quit.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runPanel,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/yarrbar/yarrbar.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().Int("height", 0, "Panel height in pixels")
	rootCmd.Flags().String("layer", "", "Shell layer: background, bottom, top, overlay")
	rootCmd.Flags().String("anchor", "", "Output edge: top, bottom")
	rootCmd.Flags().String("renderer", "", "Renderer: auto, gpu, software")

	bindFlags(rootCmd.Flags(), map[string]string{
		"height":   "panel.height",
		"layer":    "panel.layer",
		"anchor":   "panel.anchor",
		"renderer": "ui.renderer",
	})
}

// bindFlags binds flags to viper keys. Only flags set on the command line
// take precedence over the config file.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			logger.Warn("Bind flag", "flag", name, "err", err)
		}
	}
}

// setup loads the configuration and applies the log level. LOG_LEVEL is
// read at startup; the config file overrides it and --log-level overrides
// both.
func setup(cmd *cobra.Command, args []string) error {
	config.SetConfigPath(configPath)
	if err := config.Init(); err != nil {
		return err
	}

	level := config.Get().Logging.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if level != "" {
		if err := logger.SetLevel(level); err != nil {
			return err
		}
	}
	return nil
}

func runPanel(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	opts, err := panelOptions(cfg)
	if err != nil {
		return err
	}
	uiOpts, err := uiOptions(cfg)
	if err != nil {
		return err
	}

	wl, err := wayland.Connect()
	if err != nil {
		return err
	}
	defer wl.Disconnect()

	if err := wl.RequireShell(); err != nil {
		return err
	}
	for _, o := range wl.Outputs() {
		logger.Debug("Output", "name", o.Name, "width", o.Width, "height", o.Height, "scale", o.Scale)
	}

	surface, err := wl.CreateLayerSurface(opts.Placement)
	if err != nil {
		return err
	}
	backend, err := wl.NewShmBackend(surface, wayland.DefaultBuffers)
	if err != nil {
		_ = surface.Destroy()
		return err
	}
	painter, err := ui.New(cfg.UI.Renderer, uiOpts)
	if err != nil {
		_ = surface.Destroy()
		return err
	}
	defer painter.Release()

	opts.Surface = surface
	opts.Seat = wl.Seat()
	opts.Backend = backend
	opts.Painter = painter

	p, err := panel.New(opts)
	if err != nil {
		_ = surface.Destroy()
		return err
	}

	src := wl.Source()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		logger.Info("Received shutdown signal", "signal", sig)
		if err := src.Close(); err != nil {
			logger.Debug("Close event source", "err", err)
		}
	}()

	logger.Info("Starting yarrbar", "namespace", opts.Placement.Namespace, "renderer", cfg.UI.Renderer)
	return p.Run(src)
}

// panelOptions converts the [panel] section. The collaborators are filled
// in by the caller.
func panelOptions(cfg *config.Config) (panel.Options, error) {
	bg, err := config.ParseColor(cfg.Panel.Background)
	if err != nil {
		return panel.Options{}, fmt.Errorf("panel.background: %w", err)
	}
	key, ok := panel.LookupKey(cfg.Panel.CancelKey)
	if !ok {
		return panel.Options{}, fmt.Errorf("panel.cancel_key %q: unknown key", cfg.Panel.CancelKey)
	}
	return panel.Options{
		Placement:  cfg.Panel.Placement(),
		Fallback:   cfg.Panel.Fallback(),
		Scale:      float32(cfg.Panel.Scale),
		Background: bg,
		CancelKey:  key,
	}, nil
}

func uiOptions(cfg *config.Config) (ui.Options, error) {
	fg, err := config.ParseColor(cfg.UI.Foreground)
	if err != nil {
		return ui.Options{}, fmt.Errorf("ui.foreground: %w", err)
	}
	accent, err := config.ParseColor(cfg.UI.Accent)
	if err != nil {
		return ui.Options{}, fmt.Errorf("ui.accent: %w", err)
	}
	return ui.Options{
		Title:       cfg.UI.Title,
		ClockFormat: cfg.UI.ClockFormat,
		Foreground:  fg,
		Accent:      accent,
	}, nil
}
