package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across one run.
var metrics struct {
	AdzunaRequests   atomic.Int64
	ReedRequests     atomic.Int64
	LinkedInRequests atomic.Int64
	JobsFound        atomic.Int64
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	FieldFallbacks   atomic.Int64
	DocumentsBuilt   atomic.Int64
	DriveUploads     atomic.Int64
	SheetsOps        atomic.Int64
	TrackerWrites    atomic.Int64
	Retries          atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"adzuna_requests":   metrics.AdzunaRequests.Load(),
		"reed_requests":     metrics.ReedRequests.Load(),
		"linkedin_requests": metrics.LinkedInRequests.Load(),
		"jobs_found":        metrics.JobsFound.Load(),
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"field_fallbacks":   metrics.FieldFallbacks.Load(),
		"documents_built":   metrics.DocumentsBuilt.Load(),
		"drive_uploads":     metrics.DriveUploads.Load(),
		"sheets_ops":        metrics.SheetsOps.Load(),
		"tracker_writes":    metrics.TrackerWrites.Load(),
		"retries":           metrics.Retries.Load(),
	}
}

// FormatMetrics returns counters as "name value" lines for the end-of-run dump.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"adzuna_requests", "reed_requests", "linkedin_requests", "jobs_found",
		"llm_calls", "llm_errors", "field_fallbacks",
		"documents_built", "drive_uploads", "sheets_ops", "tracker_writes",
		"retries",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrAdzunaRequests()   { metrics.AdzunaRequests.Add(1) }
func IncrReedRequests()     { metrics.ReedRequests.Add(1) }
func IncrLinkedInRequests() { metrics.LinkedInRequests.Add(1) }
func IncrLLMCalls()         { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()        { metrics.LLMErrors.Add(1) }
func IncrFieldFallbacks()   { metrics.FieldFallbacks.Add(1) }
func IncrDocumentsBuilt()   { metrics.DocumentsBuilt.Add(1) }
func IncrDriveUploads()     { metrics.DriveUploads.Add(1) }
func IncrSheetsOps()        { metrics.SheetsOps.Add(1) }
func IncrTrackerWrites()    { metrics.TrackerWrites.Add(1) }
func IncrRetries()          { metrics.Retries.Add(1) }

// AddJobsFound records how many postings a source returned.
func AddJobsFound(n int) { metrics.JobsFound.Add(int64(n)) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 30*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
