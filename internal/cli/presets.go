package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/internal/core"
)

var presetsRole string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List quick-entry presets for a role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(presetsRole)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		presets := core.PresetsFor(role)
		if len(presets) == 0 {
			fmt.Fprintf(out, "No presets for %s.\n", role)
			return nil
		}

		fmt.Fprintf(out, "Presets for %s:\n\n", role)
		for _, p := range presets {
			pressure := "-"
			if p.Pressure != nil {
				pressure = strconv.FormatFloat(*p.Pressure, 'f', -1, 64)
			}
			fmt.Fprintf(out, "  %-24s %-7s %-3s %s\n", p.Label, p.Type, pressure, p.Content)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().StringVarP(&presetsRole, "role", "r", "", "Role whose presets to list")
	rootCmd.AddCommand(presetsCmd)
}
