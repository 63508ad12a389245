package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/publish"
	"github.com/anatolykoptev/go_apply/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build resumes for sheet rows that lack one",
	Long: `generate reads the tracking sheet and processes every row that has a
job URL but no resume link yet: rows added by hand, or left behind when
an earlier run was interrupted. Each one gets the usual tailor, render
and publish treatment, and the sheet row is completed in place.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVar(&maxResumes, "max-resumes", 0, "cap processed rows (0 = no cap)")
	generateCmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "assemble the base resume untailored")
	generateCmd.Flags().BoolVar(&skipDrive, "skip-drive", false, "skip the Drive upload")
}

func runGenerate(_ *cobra.Command, _ []string) error {
	if err := engine.Cfg.Validate(engine.Needs{LLM: !skipLLM, Google: true}); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sheet, err := publish.NewSheetsTracker(ctx, engine.Cfg.GoogleCredentials, engine.Cfg.SpreadsheetName)
	if err != nil {
		return err
	}
	rows, err := sheet.RowsNeedingResumes(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("every sheet row already has a resume")
		return nil
	}
	slog.Info("sheet rows need resumes", "count", len(rows))

	postings := make([]engine.JobPosting, len(rows))
	for i, r := range rows {
		postings[i] = r.Posting()
	}

	deps, cleanup, err := buildDeps(ctx, depOptions{
		withLLM:   !skipLLM,
		withDrive: !skipDrive,
		sheets:    sheet,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	sum, err := pipeline.RunForRows(ctx, deps, postings, pipeline.Opts{MaxResumes: maxResumes})
	printSummary(sum)
	return err
}
