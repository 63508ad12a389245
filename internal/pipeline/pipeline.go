// Package pipeline drives a full application run: collect postings from
// the boards, filter them, then tailor, render and publish one resume
// per surviving job. Board outages, model failures and upload errors are
// contained per job or per field; only a dead context stops a run early,
// and even then the caller still gets a summary.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/docx"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
	"github.com/anatolykoptev/go_apply/internal/engine/publish"
	"github.com/anatolykoptev/go_apply/internal/engine/sources"
)

// Tailorer rewrites a base resume for one posting.
type Tailorer interface {
	Tailor(ctx context.Context, base *jobs.BaseResume, job engine.JobPosting) (*jobs.TailoredResume, error)
}

// Publisher pushes a rendered document to the configured destinations.
type Publisher interface {
	Publish(ctx context.Context, docPath string, job engine.JobPosting) publish.PublishResult
}

// Deps are the run collaborators. Nil fields degrade rather than fail:
// a nil Tailorer ships the base resume untouched, a nil Publisher keeps
// documents local, a nil Tracker skips the cross-run duplicate check.
type Deps struct {
	Sources   []sources.Source
	Base      *jobs.BaseResume
	Tailor    Tailorer
	Publisher Publisher
	Tracker   *jobs.Tracker
	Layout    docx.LayoutConfig

	// Assemble defaults to docx.Assemble.
	Assemble func(*jobs.TailoredResume, docx.LayoutConfig) (string, error)

	// ProcessedDir receives one JSON record per processed job. Empty
	// disables the trail.
	ProcessedDir string
}

// Opts shape one run.
type Opts struct {
	// QuickTest narrows the search to the first keyword and location,
	// two results per board, and a single processed job.
	QuickTest bool

	// MaxResumes caps how many jobs one run may process. Zero means
	// no cap.
	MaxResumes int
}

// Run executes the whole flow: search, filter, then one tailor-render-
// publish cycle per job. The summary is returned even when the context
// dies mid-loop.
func Run(ctx context.Context, deps Deps, opts Opts) (*RunSummary, error) {
	sum := newSummary()

	var postings []engine.JobPosting
	_ = engine.TrackOperation(ctx, "collect", func(ctx context.Context) error {
		postings = Collect(ctx, deps.Sources, opts)
		return nil
	})
	sum.Found = len(postings)

	kept := jobs.Filter(postings, jobs.FilterConfigFromEngine())
	sum.Filtered = len(kept)
	slog.Info("postings collected", "found", sum.Found, "kept", sum.Filtered)

	err := processAll(ctx, deps, opts, kept, sum, false)
	sum.finish()
	return sum, err
}

// RunForRows processes already-known postings, typically sheet rows that
// still need a resume. No searching or filtering happens, and the
// tracker's duplicate skip is bypassed: the caller decided these rows
// need a document.
func RunForRows(ctx context.Context, deps Deps, postings []engine.JobPosting, opts Opts) (*RunSummary, error) {
	sum := newSummary()
	sum.Found = len(postings)
	sum.Filtered = len(postings)

	err := processAll(ctx, deps, opts, postings, sum, true)
	sum.finish()
	return sum, err
}

// Collect queries every board for every keyword and location pair. A
// failing board is logged and dropped for the rest of the run; the
// others keep going.
func Collect(ctx context.Context, srcs []sources.Source, opts Opts) []engine.JobPosting {
	keywords := engine.Cfg.Keywords
	locations := engine.Cfg.Locations
	maxPer := engine.Cfg.MaxPerBoard
	if opts.QuickTest {
		keywords = firstOf(keywords)
		locations = firstOf(locations)
		maxPer = 2
	}
	if len(locations) == 0 {
		locations = []string{""}
	}

	var all []engine.JobPosting
sourceLoop:
	for _, src := range srcs {
		for _, kw := range keywords {
			for _, loc := range locations {
				if ctx.Err() != nil {
					break sourceLoop
				}
				if p := engine.Cfg.Pacer; p != nil {
					if err := p.WaitSearch(ctx); err != nil {
						break sourceLoop
					}
				}
				found, err := src.Search(ctx, sources.Query{
					Keyword:    kw,
					Location:   loc,
					MaxResults: maxPer,
					MinSalary:  engine.Cfg.MinSalary,
					RemoteOnly: engine.Cfg.RemoteOnly,
				})
				if err != nil {
					slog.Warn("board unavailable for this run",
						"error", &engine.SourceError{Source: src.Name(), Err: err})
					continue sourceLoop
				}
				engine.AddJobsFound(len(found))
				slog.Debug("board searched", "source", src.Name(),
					"keyword", kw, "location", loc, "results", len(found))
				all = append(all, found...)
			}
		}
	}
	return all
}

func firstOf(s []string) []string {
	if len(s) > 1 {
		return s[:1]
	}
	return s
}

func processAll(ctx context.Context, deps Deps, opts Opts, postings []engine.JobPosting, sum *RunSummary, reprocess bool) error {
	limit := opts.MaxResumes
	if opts.QuickTest && (limit <= 0 || limit > 1) {
		limit = 1
	}

	for _, job := range postings {
		if limit > 0 && sum.Processed >= limit {
			slog.Info("resume cap reached", "limit", limit)
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if handled, prev := alreadyHandled(ctx, deps.Tracker, job); handled && !reprocess {
			slog.Info("already handled in an earlier run", "url", job.URL, "status", prev)
			sum.Skipped++
			continue
		}

		out, err := processJob(ctx, deps, job)
		sum.Processed++
		sum.add(out)
		if err != nil {
			return err
		}
	}
	return nil
}

// processJob carries one posting through tailor, render and publish.
// Failures mark the job failed in the outcome and the tracker; only a
// dead context comes back as an error.
func processJob(ctx context.Context, deps Deps, job engine.JobPosting) (JobOutcome, error) {
	out := JobOutcome{
		Title:   job.Title,
		Company: job.Company,
		URL:     job.URL,
		Source:  job.Source,
	}
	slog.Info("processing job", "title", job.Title, "company", job.Company, "source", job.Source)

	if deps.Tracker != nil && job.URL != "" {
		if _, err := deps.Tracker.Record(ctx, job); err != nil {
			slog.Warn("tracker record failed", "url", job.URL, "error", err)
		}
	}

	tailored, err := tailorFor(ctx, deps, job)
	if err != nil {
		if ctx.Err() != nil {
			return out, err
		}
		out.fail(&engine.GenerationError{Field: "resume", Err: err})
		markFailed(ctx, deps.Tracker, job.URL)
		return out, nil
	}
	out.Tailored = tailored.Meta.Tailored
	out.Fallbacks = tailored.Meta.Fallbacks

	if err := writeJobRecord(deps.ProcessedDir, job, tailored); err != nil {
		slog.Warn("job record not written", "url", job.URL, "error", err)
	}

	assemble := deps.Assemble
	if assemble == nil {
		assemble = docx.Assemble
	}
	path, err := assemble(tailored, deps.Layout)
	if err != nil {
		aerr := &engine.AssemblyError{Err: err}
		slog.Error("document assembly failed", "title", job.Title, "error", aerr)
		out.fail(aerr)
		markFailed(ctx, deps.Tracker, job.URL)
		return out, nil
	}
	engine.IncrDocumentsBuilt()
	out.Resume = path

	if deps.Publisher == nil {
		out.Status = string(jobs.StatusGenerated)
		if deps.Tracker != nil && job.URL != "" {
			if err := deps.Tracker.SetResume(ctx, job.URL, path, ""); err != nil {
				slog.Warn("tracker resume not updated", "url", job.URL, "error", err)
			}
			if err := deps.Tracker.SetStatus(ctx, job.URL, jobs.StatusGenerated); err != nil {
				slog.Warn("tracker status not updated", "url", job.URL, "error", err)
			}
		}
		return out, nil
	}

	res := deps.Publisher.Publish(ctx, path, job)
	out.Status = string(res.TrackingStatus)
	out.Resume = res.LocalPath
	out.Link = res.RemoteURL
	return out, nil
}

func tailorFor(ctx context.Context, deps Deps, job engine.JobPosting) (*jobs.TailoredResume, error) {
	if deps.Tailor != nil {
		return deps.Tailor.Tailor(ctx, deps.Base, job)
	}

	// No model configured: ship the base resume as-is.
	t := &jobs.TailoredResume{BaseResume: *deps.Base.Copy()}
	t.Meta = jobs.TailorMeta{
		JobTitle:    job.Title,
		Company:     job.Company,
		JobURL:      job.URL,
		Source:      job.Source,
		GeneratedAt: time.Now(),
	}
	return t, nil
}

// alreadyHandled reports whether an earlier run took this URL past the
// found state. Failed jobs get another attempt.
func alreadyHandled(ctx context.Context, tr *jobs.Tracker, job engine.JobPosting) (bool, jobs.Status) {
	if tr == nil || job.URL == "" {
		return false, ""
	}
	prev, err := tr.Get(ctx, job.URL)
	if err != nil || prev == nil {
		return false, ""
	}
	switch prev.Status {
	case jobs.StatusFound, jobs.StatusFailed:
		return false, prev.Status
	}
	return true, prev.Status
}

func markFailed(ctx context.Context, tr *jobs.Tracker, url string) {
	if tr == nil || url == "" {
		return
	}
	if err := tr.SetStatus(ctx, url, jobs.StatusFailed); err != nil {
		slog.Warn("tracker status not updated", "url", url, "error", err)
	}
}

// stageOf names the failing stage from the error chain.
func stageOf(err error) string {
	var (
		srcErr *engine.SourceError
		genErr *engine.GenerationError
		asmErr *engine.AssemblyError
		pubErr *engine.PublishError
	)
	switch {
	case errors.As(err, &srcErr):
		return "search"
	case errors.As(err, &genErr):
		return "generation"
	case errors.As(err, &asmErr):
		return "assembly"
	case errors.As(err, &pubErr):
		return "publish"
	default:
		return "pipeline"
	}
}

// writeJobRecord saves the posting plus the tailored content as JSON so
// a run leaves an inspectable trail. The name derives from the URL, so
// re-processing a job overwrites its record instead of piling up files.
func writeJobRecord(dir string, job engine.JobPosting, t *jobs.TailoredResume) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	rec := struct {
		Job    engine.JobPosting    `json:"job"`
		Resume *jobs.TailoredResume `json:"resume"`
	}{Job: job, Resume: t}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, recordName(job)), data, 0o644)
}

func recordName(job engine.JobPosting) string {
	h := fnv.New32a()
	h.Write([]byte(job.URL + "\x00" + job.Title + "\x00" + job.Company))
	return fmt.Sprintf("job_%08x.json", h.Sum32())
}

// WriteCombined dumps raw postings under dir for scrape-only runs.
func WriteCombined(dir string, postings []engine.JobPosting) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("pipeline: processed dir: %w", err)
	}
	path := filepath.Join(dir, "jobs_combined_"+time.Now().Format("20060102_150405")+".json")
	data, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("pipeline: encode postings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pipeline: write postings: %w", err)
	}
	return path, nil
}
