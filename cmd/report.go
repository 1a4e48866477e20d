package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/life-desks/internal/goals"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show goal progress per desk",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type deskReport struct {
	Name string `json:"name"`
	goals.Summary
}

func runReport(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		out := cmd.OutOrStdout()

		var rows []deskReport
		var total, completed int
		for _, d := range e.desks.List() {
			sum := e.goals.Summarize(d.ID)
			rows = append(rows, deskReport{Name: d.Name, Summary: sum})
			total += sum.Total
			completed += sum.Completed
		}

		switch reportFormat {
		case "csv":
			fmt.Fprintln(out, "desk,name,goals,started,completed,mean_progress")
			for _, r := range rows {
				fmt.Fprintf(out, "%s,%s,%d,%d,%d,%d\n",
					csvEscape(r.DeskID), csvEscape(r.Name), r.Total, r.Started, r.Completed, r.MeanProgress)
			}
		case "json":
			data, err := json.MarshalIndent(struct {
				Desks     []deskReport `json:"desks"`
				Total     int          `json:"total"`
				Completed int          `json:"completed"`
			}{rows, total, completed}, "", "  ")
			if err != nil {
				return storageError(fmt.Errorf("error encoding JSON: %w", err))
			}
			fmt.Fprintln(out, string(data))
		case "md":
			fmt.Fprintln(out, "Desks")
			fmt.Fprintln(out, "----------------------------------------------")
			for _, r := range rows {
				fmt.Fprintf(out, "%-14s%2d goals  %s %3d%%\n",
					r.Name, r.Total, progressBar(r.MeanProgress, 10), r.MeanProgress)
			}
			fmt.Fprintln(out, "----------------------------------------------")
			fmt.Fprintf(out, "%-14s%2d goals  %d completed\n", "Total", total, completed)
		default:
			return userError(fmt.Errorf("unknown format %q (want md, csv or json)", reportFormat))
		}
		return nil
	})
}
