package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the event log and shift state",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a JSON backup to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Backups == nil {
			return fmt.Errorf("backup manager not initialized")
		}

		if len(args) == 0 || args[0] == "-" {
			_, err := Backups.Export(cmd.OutOrStdout())
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		doc, err := Backups.Export(f)
		if err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d event(s) to %s\n", len(doc.Data.Events), args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace local data with a JSON backup",
	Long: `Validate a backup document and replace the event log and the current shift
with its contents. Nothing is changed if the document is invalid. Use "-" to
read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Backups == nil {
			return fmt.Errorf("backup manager not initialized")
		}

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		doc, err := Backups.Import(r)
		if err != nil {
			return err
		}

		taken := time.UnixMilli(doc.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d event(s) from backup taken %s\n", len(doc.Data.Events), taken)
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}
