package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/pkg/models"
)

var replayJSON bool

var replayCmd = &cobra.Command{
	Use:   "replay <shift-id>",
	Short: "Replay a past shift event by event",
	Long: `Show the events recorded with the given shift id, oldest first, as a
read-only view of how the shift unfolded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Archive == nil {
			return fmt.Errorf("archive service not initialized")
		}

		r, err := Archive.Replay(args[0])
		if err != nil {
			return err
		}
		if len(r.Events) == 0 {
			return fmt.Errorf("no events recorded for shift %s", args[0])
		}

		out := cmd.OutOrStdout()
		if replayJSON {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting replay as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Replay of shift %s\n\n", r.Shift.ID)
		for _, ev := range r.Events {
			fmt.Fprintln(out, replayLine(ev, r.Shift.StartTime))
		}
		return nil
	},
}

func replayLine(ev models.OperationalEvent, start int64) string {
	offset := time.Duration(ev.Timestamp-start) * time.Millisecond
	line := fmt.Sprintf("  %s  +%-8s %-7s %-8s %s",
		time.UnixMilli(ev.Timestamp).Format("15:04:05"),
		offset.Truncate(time.Second),
		ev.Type,
		ev.Role,
		ev.Content,
	)
	if p, ok := ev.Pressure(); ok {
		line += fmt.Sprintf(" [pressure %g]", p)
	}
	return line
}

func init() {
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Output the replay as JSON")
	rootCmd.AddCommand(replayCmd)
}
