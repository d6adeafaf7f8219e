package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"aircheck/internal/config"
	"aircheck/internal/journal"
)

func newHistoryCommand() *cobra.Command {
	var limit int
	var journalFile string

	cmd := &cobra.Command{
		Use:   "history <download-root>",
		Short: "Show the outcome of recent archiving runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basedir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			path := journalFile
			if path == "" {
				path = filepath.Join(basedir, config.DefaultJournalFileName)
			} else if path, err = config.ExpandPath(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("no run journal at %s", path)
			}

			store, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived broadcasts recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				detail := rec.OutputPath
				if rec.Status != journal.StatusDone {
					detail = rec.ErrorMessage
				}
				rows = append(rows, []string{
					rec.ScheduledStart.Format("2006-01-02 15:04"),
					rec.Section,
					rec.Title,
					rec.Status.String(),
					detail,
				})
			}
			out := renderTable(
				[]string{"Scheduled", "Section", "Title", "Status", "Detail"},
				rows,
				nil,
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of rows to show")
	cmd.Flags().StringVar(&journalFile, "journal-file", "", "Alternate journal location")

	return cmd
}
