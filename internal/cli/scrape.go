package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
	"github.com/anatolykoptev/go_apply/internal/engine/sources"
	"github.com/anatolykoptev/go_apply/internal/pipeline"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Search and filter without generating anything",
	Long: `scrape runs the search and filter stages only: no model calls, no
documents, no uploads. The surviving postings land as one timestamped
JSON file in the processed directory, ready to inspect before spending
tokens on them.`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().BoolVar(&quickTest, "quick-test", false, "one keyword, one location, two results per board")
	scrapeCmd.Flags().BoolVar(&showBrowser, "show-browser", false, "run the LinkedIn browser headful")
}

func runScrape(_ *cobra.Command, _ []string) error {
	if quickTest {
		engine.Cfg.QuickTest = true
	}
	if showBrowser {
		engine.Cfg.ShowBrowser = true
	}
	if err := engine.Cfg.Validate(engine.Needs{Sources: true}); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	postings := pipeline.Collect(ctx, sources.Enabled(), pipeline.Opts{QuickTest: engine.Cfg.QuickTest})
	kept := jobs.Filter(postings, jobs.FilterConfigFromEngine())
	if len(kept) == 0 {
		fmt.Printf("no postings survived the filters (%d found)\n", len(postings))
		return nil
	}

	path, err := pipeline.WriteCombined(engine.Cfg.ProcessedDir, kept)
	if err != nil {
		return err
	}
	fmt.Printf("%d postings kept of %d found, written to %s\n", len(kept), len(postings), path)
	return nil
}
