package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/docx"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
	"github.com/anatolykoptev/go_apply/internal/engine/publish"
	"github.com/anatolykoptev/go_apply/internal/pipeline"
)

// depOptions selects which optional collaborators buildDeps constructs.
type depOptions struct {
	withLLM    bool
	withDrive  bool
	withSheets bool

	// sheets reuses an already-open tracking sheet when generate has one
	// in hand.
	sheets publish.RowAppender
}

// buildDeps loads the base resume, opens the local tracker and builds
// the tailor and publisher for a processing run. The returned cleanup
// closes the tracker and is safe to call on the error path too.
func buildDeps(ctx context.Context, opt depOptions) (pipeline.Deps, func(), error) {
	noop := func() {}

	base, err := jobs.LoadBaseResume(engine.Cfg.ResumePath)
	if err != nil {
		return pipeline.Deps{}, noop, err
	}

	trackerPath, err := jobs.DefaultTrackerPath()
	if err != nil {
		return pipeline.Deps{}, noop, err
	}
	tracker, err := jobs.OpenTracker(trackerPath)
	if err != nil {
		return pipeline.Deps{}, noop, err
	}
	closeTracker := func() {
		if err := tracker.Close(); err != nil {
			slog.Warn("tracker close failed", "error", err)
		}
	}

	deps := pipeline.Deps{
		Base:         base,
		Tracker:      tracker,
		Layout:       docx.LayoutConfigFromEngine(),
		ProcessedDir: engine.Cfg.ProcessedDir,
	}

	if opt.withLLM {
		if engine.Cfg.LLMClient == nil {
			closeTracker()
			return pipeline.Deps{}, noop, fmt.Errorf("cli: no model client, is OPENAI_API_KEY set?")
		}
		deps.Tailor = jobs.NewTailor(engine.Cfg.LLMClient, jobs.TailorConfigFromEngine())
	}

	var drive publish.Uploader
	if opt.withDrive {
		d, err := publish.NewDriveStore(ctx, engine.Cfg.GoogleCredentials, engine.Cfg.DriveFolderName)
		if err != nil {
			closeTracker()
			return pipeline.Deps{}, noop, err
		}
		drive = d
	}

	sheets := opt.sheets
	if sheets == nil && opt.withSheets {
		s, err := publish.NewSheetsTracker(ctx, engine.Cfg.GoogleCredentials, engine.Cfg.SpreadsheetName)
		if err != nil {
			closeTracker()
			return pipeline.Deps{}, noop, err
		}
		sheets = s
	}

	// With both remotes skipped the pipeline keeps documents local and
	// the tracker still records them as generated.
	if drive != nil || sheets != nil {
		deps.Publisher = publish.New(drive, sheets, tracker)
	}
	return deps, closeTracker, nil
}
