package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/pkg/models"
)

var (
	logType     string
	logRole     string
	logPressure float64
	logMood     float64
	logTags     []string
	logPreset   string
)

var logCmd = &cobra.Command{
	Use:   "log [content]",
	Short: "Record an event in the shift log",
	Long: `Record a staff event. The event is attached to the active shift, if any.

Use --preset to record one of the role's quick-entry presets (see "jg presets");
content given on the command line replaces the preset text.`,
	Example: `  jg log --role Chef --type Alert --pressure 9 "Walk-in at 8C"
  jg log --role Service --preset "Dans le Jus"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ShiftMgr == nil {
			return fmt.Errorf("shift manager not initialized")
		}
		role, err := parseRole(logRole)
		if err != nil {
			return err
		}

		var ev models.OperationalEvent
		if logPreset != "" {
			p, err := core.FindPreset(role, logPreset)
			if err != nil {
				return err
			}
			ev = core.EventFromPreset(p, role)
		} else {
			ev = models.OperationalEvent{Type: models.EventType(logType), Role: role}
		}

		if content := strings.TrimSpace(strings.Join(args, " ")); content != "" {
			ev.Content = content
		}
		if ev.Content == "" {
			return fmt.Errorf("event content is required")
		}
		if cmd.Flags().Changed("type") {
			ev.Type = models.EventType(logType)
		}

		if cmd.Flags().Changed("pressure") || cmd.Flags().Changed("mood") || len(logTags) > 0 {
			if ev.Metadata == nil {
				ev.Metadata = &models.EventMetadata{}
			}
			if cmd.Flags().Changed("pressure") {
				if logPressure < 1 || logPressure > 10 {
					return fmt.Errorf("--pressure must be between 1 and 10, got %g", logPressure)
				}
				ev.Metadata.Pressure = models.Float(logPressure)
			}
			if cmd.Flags().Changed("mood") {
				if logMood < 1 || logMood > 10 {
					return fmt.Errorf("--mood must be between 1 and 10, got %g", logMood)
				}
				ev.Metadata.Mood = models.Float(logMood)
			}
			ev.Metadata.Tags = logTags
		}

		saved, err := ShiftMgr.AddEvent(ev)
		if err != nil {
			return err
		}

		where := "outside any shift"
		if saved.ShiftID != "" {
			where = "in shift " + saved.ShiftID
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s by %s %s\n", saved.Type, saved.ID, saved.Role, where)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVarP(&logType, "type", "t", string(models.EventLog), "Event type (Log, Signal, Alert, Audio)")
	logCmd.Flags().StringVarP(&logRole, "role", "r", "", "Author role (Owner, Manager, Chef, Service)")
	logCmd.Flags().Float64Var(&logPressure, "pressure", 0, "Perceived pressure from 1 to 10")
	logCmd.Flags().Float64Var(&logMood, "mood", 0, "Mood score from 1 to 10")
	logCmd.Flags().StringSliceVar(&logTags, "tag", nil, "Tag to attach (repeatable)")
	logCmd.Flags().StringVar(&logPreset, "preset", "", "Quick-entry preset label")
	rootCmd.AddCommand(logCmd)
}
