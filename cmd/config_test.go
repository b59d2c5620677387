package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/yarrbar/internal/config"
	"github.com/bnema/yarrbar/internal/logger"
	"github.com/bnema/yarrbar/internal/panel"
	"github.com/bnema/yarrbar/internal/wayland"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config search at an empty temporary home.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	viper.Reset()
	configPath, logLevel = "", ""
	logger.Logger.SetLevel(log.InfoLevel)
	t.Cleanup(func() {
		viper.Reset()
		config.SetConfigPath("")
		config.Set(nil)
		configPath, logLevel = "", ""
		logger.Logger.SetLevel(log.InfoLevel)
	})
	return tmpDir
}

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	defer func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetArgs(nil)
	}()
	err := root.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "yarrbar.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigShow(t *testing.T) {
	tmpDir := isolate(t)
	path := writeConfig(t, tmpDir, "[panel]\nheight = 28\n\n[ui]\ntitle = \"ahoy\"\n")

	out, err := executeCommand(rootCmd, "config", "show", "--config", path)
	require.NoError(t, err)

	for _, want := range []string{"[panel]", "[ui]", "[logging]", "height", "28", "ahoy", "Escape", path} {
		assert.Contains(t, out, want)
	}
}

func TestConfigShowRejectsInvalid(t *testing.T) {
	tmpDir := isolate(t)
	path := writeConfig(t, tmpDir, "[panel]\nlayer = \"sky\"\n")

	_, err := executeCommand(rootCmd, "config", "show", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panel.layer")
}

func TestConfigShowRejectsZeroHeight(t *testing.T) {
	tmpDir := isolate(t)
	path := writeConfig(t, tmpDir, "[panel]\nheight = 0\n")

	_, err := executeCommand(rootCmd, "config", "show", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panel.height")
}

func TestConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	out, err := executeCommand(rootCmd, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(tmpDir, ".config", "yarrbar", "yarrbar.toml"))
	assert.Contains(t, out, "not found")

	path := writeConfig(t, tmpDir, "")
	out, err = executeCommand(rootCmd, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.NotContains(t, out, "not found")
}

func TestLogLevelPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		flag   string
		want   log.Level
		errMsg string
	}{
		{name: "defaults keep env level", want: log.InfoLevel},
		{name: "config file", file: "[logging]\nlog_level = \"debug\"\n", want: log.DebugLevel},
		{name: "flag beats config", file: "[logging]\nlog_level = \"debug\"\n", flag: "error", want: log.ErrorLevel},
		{name: "unknown level", flag: "chatty", errMsg: "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := isolate(t)
			args := []string{"config", "path", "--config", writeConfig(t, tmpDir, tt.file)}
			if tt.flag != "" {
				args = append(args, "--log-level", tt.flag)
			}

			_, err := executeCommand(rootCmd, args...)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.Logger.GetLevel())
		})
	}
}

func TestPanelOptions(t *testing.T) {
	cfg := config.DefaultConfig
	cfg.Panel.Scale = 2
	cfg.Panel.Background = "#10203040"

	opts, err := panelOptions(&cfg)
	require.NoError(t, err)

	escape, _ := panel.LookupKey("Escape")
	assert.Equal(t, escape, opts.CancelKey)
	assert.Equal(t, float32(2), opts.Scale)
	assert.Equal(t, panel.DefaultFallback(), opts.Fallback)
	assert.Equal(t, "yarrbar", opts.Placement.Namespace)
	assert.Nil(t, opts.Surface)

	cfg.Panel.CancelKey = "Hyper"
	_, err = panelOptions(&cfg)
	assert.Error(t, err)

	u, err := uiOptions(&config.DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x89), u.Accent.R)
}

func TestPrintOutputs(t *testing.T) {
	outputs := []wayland.OutputInfo{
		{ID: 4, Name: "eDP-1", Width: 1920, Height: 1080, Scale: 1},
		{ID: 9, Name: "DP-2", Width: 3840, Height: 2160, Scale: 2},
	}

	t.Run("text", func(t *testing.T) {
		buf := new(bytes.Buffer)
		outputsCmd.SetOut(buf)
		defer outputsCmd.SetOut(nil)

		require.NoError(t, printOutputs(outputsCmd, outputs))
		assert.Contains(t, buf.String(), "Detected 2 output(s):")
		assert.Contains(t, buf.String(), "3840x2160")
	})

	t.Run("json", func(t *testing.T) {
		outputsJSON = true
		defer func() { outputsJSON = false }()

		buf := new(bytes.Buffer)
		outputsCmd.SetOut(buf)
		defer outputsCmd.SetOut(nil)

		require.NoError(t, printOutputs(outputsCmd, outputs))
		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "DP-2", got[1]["name"])
		assert.EqualValues(t, 2, got[1]["scale"])

		buf.Reset()
		require.NoError(t, printOutputs(outputsCmd, nil))
		assert.JSONEq(t, "[]", buf.String())
	})
}

func TestBindFlags(t *testing.T) {
	isolate(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("height", 0, "")
	bindFlags(fs, map[string]string{"height": "panel.height"})
	viper.SetDefault("panel.height", 40)

	assert.Equal(t, 40, viper.GetInt("panel.height"), "unset flag leaves the default")
	require.NoError(t, fs.Parse([]string{"--height", "24"}))
	assert.Equal(t, 24, viper.GetInt("panel.height"))
}
