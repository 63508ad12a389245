package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

var (
	listStatus string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the local application tracker",
	Long: `list prints the local tracker, newest first. The tracker records every
job the pipeline touched regardless of whether the Google side was
configured at the time.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter: found, generated, uploaded, tracked or failed")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "max rows (default 50)")
}

func runList(cmd *cobra.Command, _ []string) error {
	path, err := jobs.DefaultTrackerPath()
	if err != nil {
		return err
	}
	tracker, err := jobs.OpenTracker(path)
	if err != nil {
		return err
	}
	defer tracker.Close()

	rows, err := tracker.List(cmd.Context(), jobs.Status(listStatus), listLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no tracked jobs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tTITLE\tCOMPANY\tSOURCE\tUPDATED\tURL")
	for _, j := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			j.Status,
			engine.TruncateRunes(j.Title, 40, "…"),
			engine.TruncateRunes(j.Company, 24, "…"),
			j.Source, j.UpdatedAt, j.URL)
	}
	return w.Flush()
}
