package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every event and the current shift",
	Long: `Factory reset: delete the event log and the current shift state. This cannot
be undone; take a backup first with "jg backup export". Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Backups == nil {
			return fmt.Errorf("backup manager not initialized")
		}
		if !resetYes {
			return fmt.Errorf("refusing to delete all data without --yes")
		}

		if err := Backups.FactoryReset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All events and shift state deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm deletion of all data")
	rootCmd.AddCommand(resetCmd)
}
