package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/life-desks/internal/model"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all goals to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		out := cmd.OutOrStdout()
		all := e.goals.Goals()

		switch exportFormat {
		case "json":
			data, err := json.MarshalIndent(all, "", "  ")
			if err != nil {
				return storageError(fmt.Errorf("error encoding JSON: %w", err))
			}
			fmt.Fprintln(out, string(data))
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(all); err != nil {
				return storageError(fmt.Errorf("error encoding YAML: %w", err))
			}
			if err := enc.Close(); err != nil {
				return storageError(fmt.Errorf("error encoding YAML: %w", err))
			}
		case "md":
			for i, d := range e.desks.List() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printDeskGoals(out, d, e.goals.ProjectsForCategory(d.ID))
			}
		case "csv":
			printCSV(out, all)
		default:
			return userError(fmt.Errorf("unknown format %q (want csv, json, yaml or md)", exportFormat))
		}
		return nil
	})
}

// printCSV writes one row per subtask; goals without subtasks get a single
// row with an empty subtask column.
func printCSV(out io.Writer, goals []model.Goal) {
	fmt.Fprintln(out, "id,desk,title,date,progress,started,completed,subtask_index,subtask,subtask_done")
	for _, g := range goals {
		prefix := fmt.Sprintf("%d,%s,%s,%s,%d,%t,%t",
			g.ID, csvEscape(g.DeskID), csvEscape(g.Title), csvEscape(g.Date),
			g.Progress, g.IsStarted, g.IsCompleted)
		if len(g.Subtasks) == 0 {
			fmt.Fprintf(out, "%s,,,\n", prefix)
			continue
		}
		for i, st := range g.Subtasks {
			fmt.Fprintf(out, "%s,%d,%s,%t\n", prefix, i, csvEscape(st.Title), st.Completed)
		}
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
