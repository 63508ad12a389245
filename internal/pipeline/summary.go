package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

// JobOutcome records how one posting fared.
type JobOutcome struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	URL       string   `json:"url"`
	Source    string   `json:"source,omitempty"`
	Status    string   `json:"status"`
	Stage     string   `json:"failed_stage,omitempty"`
	Tailored  bool     `json:"tailored,omitempty"`
	Fallbacks []string `json:"fallbacks,omitempty"`
	Resume    string   `json:"resume,omitempty"`
	Link      string   `json:"link,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func (o *JobOutcome) fail(err error) {
	o.Status = string(jobs.StatusFailed)
	o.Stage = stageOf(err)
	o.Error = err.Error()
}

// RunSummary is the end-of-run report, logged, rendered to stdout and
// written next to the job records.
type RunSummary struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  string           `json:"duration"`
	Found     int              `json:"jobs_found"`
	Filtered  int              `json:"jobs_after_filter"`
	Processed int              `json:"jobs_processed"`
	Skipped   int              `json:"jobs_skipped"`
	Tailored  int              `json:"resumes_tailored"`
	Uploaded  int              `json:"resumes_uploaded"`
	Failed    int              `json:"jobs_failed"`
	Jobs      []JobOutcome     `json:"jobs,omitempty"`
	Metrics   map[string]int64 `json:"metrics,omitempty"`
}

func newSummary() *RunSummary {
	return &RunSummary{
		RunID:     uuid.NewString()[:8],
		StartedAt: time.Now(),
	}
}

func (s *RunSummary) add(out JobOutcome) {
	s.Jobs = append(s.Jobs, out)
	if out.Status == string(jobs.StatusFailed) {
		s.Failed++
	}
	if out.Tailored {
		s.Tailored++
	}
	if out.Link != "" {
		s.Uploaded++
	}
}

func (s *RunSummary) finish() {
	s.Duration = time.Since(s.StartedAt).Round(time.Millisecond).String()
	s.Metrics = engine.GetMetrics()
	hits, misses := engine.CacheStats()
	s.Metrics["desc_cache_hits"] = hits
	s.Metrics["desc_cache_misses"] = misses
	slog.Info("run finished",
		"run_id", s.RunID, "found", s.Found, "kept", s.Filtered,
		"processed", s.Processed, "skipped", s.Skipped,
		"tailored", s.Tailored, "uploaded", s.Uploaded,
		"failed", s.Failed, "duration", s.Duration)
}

// Write saves the summary under dir and returns the file path.
func (s *RunSummary) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("pipeline: summary dir: %w", err)
	}
	path := filepath.Join(dir, "run_"+s.RunID+".json")
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("pipeline: encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pipeline: write summary: %w", err)
	}
	return path, nil
}

// Render formats the report for stdout.
func (s *RunSummary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d found, %d after filters, %d processed in %s\n",
		s.RunID, s.Found, s.Filtered, s.Processed, s.Duration)
	fmt.Fprintf(&b, "  tailored %d, uploaded %d, failed %d, skipped %d\n",
		s.Tailored, s.Uploaded, s.Failed, s.Skipped)
	for _, j := range s.Jobs {
		detail := j.Link
		if detail == "" {
			detail = j.Resume
		}
		if j.Error != "" {
			detail = j.Stage + ": " + j.Error
		}
		fmt.Fprintf(&b, "  [%s] %s at %s", j.Status, j.Title, j.Company)
		if detail != "" {
			fmt.Fprintf(&b, " (%s)", detail)
		}
		b.WriteByte('\n')
	}
	if m := engine.FormatMetrics(); m != "" {
		b.WriteString("metrics:\n")
		for _, line := range strings.Split(strings.TrimRight(m, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}
