package publish

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

// Uploader puts a local file somewhere shareable and returns its link.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// RowAppender records application rows. Append reports whether the row was
// new; UpdateByURL completes columns of a row that already exists.
type RowAppender interface {
	Append(ctx context.Context, row ApplicationRow) (bool, error)
	UpdateByURL(ctx context.Context, jobURL string, cols map[string]string) error
}

// PublishResult is what happened to one finished resume.
type PublishResult struct {
	LocalPath      string
	RemoteURL      string
	TrackingStatus jobs.Status
}

// Publisher pushes one finished resume everywhere it should go. Drive and
// Sheets are optional; the local tracker always records the outcome.
type Publisher struct {
	drive  Uploader
	sheets RowAppender
	local  *jobs.Tracker
}

func New(drive Uploader, sheets RowAppender, local *jobs.Tracker) *Publisher {
	return &Publisher{drive: drive, sheets: sheets, local: local}
}

// Publish uploads and records docPath for job. Remote failures downgrade
// the result instead of failing it; the document is already durable on
// disk when this runs.
func (p *Publisher) Publish(ctx context.Context, docPath string, job engine.JobPosting) PublishResult {
	res := PublishResult{LocalPath: docPath, TrackingStatus: jobs.StatusGenerated}

	if p.local != nil {
		if _, err := p.local.Record(ctx, job); err != nil {
			slog.Warn("tracker record failed", "error", &engine.PublishError{Op: "tracker", Err: err})
		}
	}

	if p.drive != nil {
		url, err := p.upload(ctx, docPath)
		if err != nil {
			slog.Warn("resume stays local only", "error", &engine.PublishError{Op: "drive", Err: err})
		} else {
			res.RemoteURL = url
			res.TrackingStatus = jobs.StatusUploaded
		}
	}

	if p.sheets != nil {
		row := NewApplicationRow(job, res.RemoteURL)
		added, err := p.appendRow(ctx, row)
		switch {
		case err != nil:
			slog.Warn("sheet row not written", "error", &engine.PublishError{Op: "sheets", Err: err})
		case added:
			res.TrackingStatus = jobs.StatusTracked
		default:
			// Row was added by hand or by an interrupted run; fill in
			// what it is missing instead of duplicating it.
			if err := p.completeRow(ctx, job.URL, row); err != nil {
				slog.Warn("sheet row not completed", "error", &engine.PublishError{Op: "sheets", Err: err})
			} else {
				res.TrackingStatus = jobs.StatusTracked
			}
		}
	}

	if p.local != nil {
		if err := p.local.SetResume(ctx, job.URL, docPath, res.RemoteURL); err != nil {
			slog.Warn("tracker resume update failed", "error", &engine.PublishError{Op: "tracker", Err: err})
		}
		if err := p.local.SetStatus(ctx, job.URL, res.TrackingStatus); err != nil {
			slog.Warn("tracker status update failed", "error", &engine.PublishError{Op: "tracker", Err: err})
		}
	}
	return res
}

func (p *Publisher) upload(ctx context.Context, path string) (string, error) {
	if err := p.waitUpload(ctx); err != nil {
		return "", err
	}
	return p.drive.Upload(ctx, path)
}

func (p *Publisher) appendRow(ctx context.Context, row ApplicationRow) (bool, error) {
	if err := p.waitUpload(ctx); err != nil {
		return false, err
	}
	return p.sheets.Append(ctx, row)
}

func (p *Publisher) completeRow(ctx context.Context, jobURL string, row ApplicationRow) error {
	cols := map[string]string{"Application Status": row.Status}
	if row.ResumeURL != "" {
		cols["Custom Resume URL"] = row.ResumeURL
	}
	if err := p.waitUpload(ctx); err != nil {
		return err
	}
	return p.sheets.UpdateByURL(ctx, jobURL, cols)
}

func (p *Publisher) waitUpload(ctx context.Context) error {
	if engine.Cfg.Pacer != nil {
		return engine.Cfg.Pacer.WaitUpload(ctx)
	}
	return nil
}
