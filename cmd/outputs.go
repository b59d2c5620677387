package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/yarrbar/internal/ui"
	"github.com/bnema/yarrbar/internal/wayland"
	"github.com/spf13/cobra"
)

var outputsJSON bool

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "List the outputs announced by the compositor",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := wayland.Connect()
		if err != nil {
			return err
		}
		defer wl.Disconnect()

		return printOutputs(cmd, wl.Outputs())
	},
}

func init() {
	outputsCmd.Flags().BoolVar(&outputsJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(outputsCmd)
}

func printOutputs(cmd *cobra.Command, outputs []wayland.OutputInfo) error {
	out := cmd.OutOrStdout()
	if outputsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if outputs == nil {
			outputs = []wayland.OutputInfo{}
		}
		return enc.Encode(outputs)
	}

	rows := make([]ui.OutputInfo, 0, len(outputs))
	for _, o := range outputs {
		rows = append(rows, ui.OutputInfo{Name: o.Name, Width: o.Width, Height: o.Height, Scale: o.Scale})
	}
	_, err := fmt.Fprintln(out, ui.FormatOutputs(rows))
	return err
}
