package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/internal/storage"
	"github.com/valter-silva-au/jegere/pkg/models"
)

var (
	archiveRole string
	archiveAs   string
	archiveJSON bool
	archiveXLSX string
)

var (
	archiveHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	archiveActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	archiveAutoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	archiveDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "List past and current shifts",
	Long: `Rebuild the shift archive from the event log and list it, newest first.

By default owners and managers see every shift and other staff see only the
shifts they took part in. Pass --as to choose the viewing role, or --role to
set the filter explicitly (a role name, System or All).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Archive == nil {
			return fmt.Errorf("archive service not initialized")
		}

		filter, err := archiveFilter()
		if err != nil {
			return err
		}

		shifts, err := Archive.List(filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if archiveXLSX != "" {
			if err := writeArchiveFile(archiveXLSX, shifts); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d shift(s) to %s\n", len(shifts), archiveXLSX)
			return nil
		}

		if archiveJSON {
			data, err := json.MarshalIndent(shifts, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting archive as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		renderArchive(out, shifts, filter)
		return nil
	},
}

func archiveFilter() (models.Role, error) {
	if archiveRole != "" {
		return parseRoleFilter(archiveRole)
	}
	viewer, err := parseRole(archiveAs)
	if err != nil {
		return "", err
	}
	return core.DefaultRoleFilter(viewer), nil
}

func writeArchiveFile(path string, shifts []models.ArchiveShift) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := storage.WriteArchiveXLSX(f, shifts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func renderArchive(w io.Writer, shifts []models.ArchiveShift, filter models.Role) {
	if len(shifts) == 0 {
		fmt.Fprintf(w, "No shifts found (filter: %s).\n", filter)
		return
	}

	fmt.Fprintln(w, archiveHeaderStyle.Render(fmt.Sprintf("%d shift(s), filter: %s", len(shifts), filter)))
	fmt.Fprintln(w)
	for _, s := range shifts {
		fmt.Fprintln(w, archiveLine(s))
	}
}

func archiveLine(s models.ArchiveShift) string {
	start := time.UnixMilli(s.StartTime)
	var status string
	switch {
	case s.IsActive:
		status = archiveActiveStyle.Render("ACTIVE")
	case s.AutoClosed:
		status = archiveAutoStyle.Render("AUTO")
	default:
		status = archiveDimStyle.Render("closed")
	}

	roles := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		if r != models.RoleSystem {
			roles = append(roles, string(r))
		}
	}

	return fmt.Sprintf("  %-36s %s  %-6s %4d min  %3d events  %2d alerts  pressure %-5s mood %-5s %s",
		s.ID,
		start.Format("2006-01-02 15:04"),
		status,
		s.Duration/int64(time.Minute/time.Millisecond),
		len(s.Events),
		s.Alerts,
		s.AvgPressure,
		s.AvgMood,
		strings.Join(roles, ","),
	)
}

func init() {
	archiveCmd.Flags().StringVar(&archiveRole, "role", "", "Role filter (Owner, Manager, Chef, Service, System, All)")
	archiveCmd.Flags().StringVar(&archiveAs, "as", "", "Viewing role used to pick the default filter")
	archiveCmd.Flags().BoolVar(&archiveJSON, "json", false, "Output shifts as JSON")
	archiveCmd.Flags().StringVar(&archiveXLSX, "xlsx", "", "Write shifts to an .xlsx spreadsheet at this path")
	rootCmd.AddCommand(archiveCmd)
}
