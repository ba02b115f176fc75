package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/internal/core"
)

var shiftRole string

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Open, close and inspect the service shift",
}

var shiftStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a new shift",
	Long: `Open a new service shift on behalf of --role (defaults to the configured
default_role). Fails if a shift is already open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ShiftMgr == nil {
			return fmt.Errorf("shift manager not initialized")
		}
		role, err := parseRole(shiftRole)
		if err != nil {
			return err
		}

		shift, err := ShiftMgr.StartShift(role)
		if err != nil {
			if errors.Is(err, core.ErrShiftActive) {
				return fmt.Errorf("%w; run \"jg shift stop\" first", err)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Shift %s opened by %s at %s\n",
			shift.ID, shift.StartedBy, time.UnixMilli(shift.StartTime).Format("15:04"))
		return nil
	},
}

var shiftStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Close the active shift",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ShiftMgr == nil {
			return fmt.Errorf("shift manager not initialized")
		}

		shift, err := ShiftMgr.StopShift()
		if err != nil {
			return err
		}

		minutes := (*shift.EndTime - shift.StartTime) / int64(time.Minute/time.Millisecond)
		fmt.Fprintf(cmd.OutOrStdout(), "Shift %s closed after %d min\n", shift.ID, minutes)
		return nil
	},
}

var shiftStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current shift",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ShiftMgr == nil {
			return fmt.Errorf("shift manager not initialized")
		}

		shift, err := ShiftMgr.CurrentShift()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !shift.IsActive() {
			fmt.Fprintln(out, "No active shift.")
			if shift != nil && shift.EndTime != nil {
				fmt.Fprintf(out, "Last shift %s closed at %s\n", shift.ID, time.UnixMilli(*shift.EndTime).Format("2006-01-02 15:04"))
			}
			return nil
		}

		elapsed := time.Since(time.UnixMilli(shift.StartTime)).Truncate(time.Minute)
		fmt.Fprintf(out, "Shift %s active\n", shift.ID)
		fmt.Fprintf(out, "  %-12s %s\n", "Started by:", shift.StartedBy)
		fmt.Fprintf(out, "  %-12s %s\n", "Started at:", time.UnixMilli(shift.StartTime).Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  %-12s %s\n", "Elapsed:", elapsed)
		return nil
	},
}

func init() {
	shiftStartCmd.Flags().StringVarP(&shiftRole, "role", "r", "", "Role opening the shift (Owner, Manager, Chef, Service)")
	shiftCmd.AddCommand(shiftStartCmd, shiftStopCmd, shiftStatusCmd)
	rootCmd.AddCommand(shiftCmd)
}
