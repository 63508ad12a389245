package cli

import (
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/sources"
	"github.com/anatolykoptev/go_apply/internal/pipeline"
)

var (
	quickTest   bool
	maxResumes  int
	skipSheets  bool
	skipDrive   bool
	skipLLM     bool
	showBrowser bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search, tailor and publish in one pass",
	Long: `run executes the full pipeline: every enabled board is searched for
every keyword and location pair, the postings are deduplicated and
filtered, and each surviving job gets a tailored resume rendered to
DOCX, uploaded to Drive and recorded in the tracking sheet and the
local tracker.

A failing board, model call or upload never aborts the run; the summary
reports what each job got. Ctrl+C stops after the job in flight.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&quickTest, "quick-test", false, "one keyword, one location, one resume")
	runCmd.Flags().IntVar(&maxResumes, "max-resumes", 0, "cap processed jobs (0 = no cap)")
	runCmd.Flags().BoolVar(&skipSheets, "skip-sheets", false, "skip the tracking sheet")
	runCmd.Flags().BoolVar(&skipDrive, "skip-drive", false, "skip the Drive upload")
	runCmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "assemble the base resume untailored")
	runCmd.Flags().BoolVar(&showBrowser, "show-browser", false, "run the LinkedIn browser headful")
}

func runRun(_ *cobra.Command, _ []string) error {
	if quickTest {
		engine.Cfg.QuickTest = true
	}
	if showBrowser {
		engine.Cfg.ShowBrowser = true
	}
	if err := engine.Cfg.Validate(engine.Needs{
		Sources: true,
		LLM:     !skipLLM,
		Google:  !(skipSheets && skipDrive),
	}); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	deps, cleanup, err := buildDeps(ctx, depOptions{
		withLLM:    !skipLLM,
		withDrive:  !skipDrive,
		withSheets: !skipSheets,
	})
	if err != nil {
		return err
	}
	defer cleanup()
	deps.Sources = sources.Enabled()

	sum, err := pipeline.Run(ctx, deps, pipeline.Opts{
		QuickTest:  engine.Cfg.QuickTest,
		MaxResumes: maxResumes,
	})
	printSummary(sum)
	return err
}
