package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aircheck/internal/config"
)

func newSectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sections <config.toml>",
		Short: "Show the resolved archiving sections",
		Long:  "Parses and validates the configuration and renders each section with its defaults merged in.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if len(cfg.Sections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sections configured.")
				return nil
			}

			rows := make([][]string, 0, len(cfg.Sections))
			for _, section := range cfg.Sections {
				rows = append(rows, []string{
					section.Name,
					section.TimeWindow,
					formatDays(section.Days),
					section.Title,
					section.TargetDir,
					formatBool(section.KeepOriginal),
					strconv.Itoa(len(section.Tags)),
				})
			}
			out := renderTable(
				[]string{"Section", "Window", "Days", "Title", "Target", "Keep", "Tags"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func formatDays(days []int) string {
	if len(days) == 7 {
		return "all"
	}
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, dayNames[day%7])
	}
	return strings.Join(parts, ",")
}

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
