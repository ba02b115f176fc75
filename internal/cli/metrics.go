package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display shift metrics",
	Long: `Display aggregated metrics derived from the reconstructed shifts.

Metrics include shift counts, alerts, average pressure and mood, and average
shift duration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Fprintf(out, "  %-24s %d\n", "Shifts:", metrics.ShiftCount)
		fmt.Fprintf(out, "  %-24s %d\n", "Closed:", metrics.ClosedShifts)
		fmt.Fprintf(out, "  %-24s %d\n", "Auto-closed:", metrics.AutoClosedShifts)
		fmt.Fprintf(out, "  %-24s %d\n", "Events:", metrics.EventCount)
		fmt.Fprintf(out, "  %-24s %d\n", "Alerts:", metrics.AlertCount)
		fmt.Fprintf(out, "  %-24s %s\n", "Average pressure:", metrics.AvgPressure)
		fmt.Fprintf(out, "  %-24s %s\n", "Average mood:", metrics.AvgMood)
		fmt.Fprintf(out, "  %-24s %.0f min\n", "Average duration:", metrics.AvgDurationMinutes)
		if metrics.ActiveShiftID != "" {
			fmt.Fprintf(out, "  %-24s %s\n", "Active shift:", metrics.ActiveShiftID)
		}

		if len(metrics.ShiftsByRole) > 0 {
			fmt.Fprintln(out, "\n  Shifts by role:")
			roles := make([]string, 0, len(metrics.ShiftsByRole))
			for r := range metrics.ShiftsByRole {
				roles = append(roles, r)
			}
			sort.Strings(roles)
			for _, r := range roles {
				fmt.Fprintf(out, "    %-20s %d\n", r+":", metrics.ShiftsByRole[r])
			}
		}

		if metrics.OldestShift != nil {
			fmt.Fprintf(out, "\n  %-24s %s\n", "Oldest shift:", metrics.OldestShift.Format(time.RFC3339))
		}
		if metrics.NewestShift != nil {
			fmt.Fprintf(out, "  %-24s %s\n", "Newest shift:", metrics.NewestShift.Format(time.RFC3339))
		}

		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return now.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
