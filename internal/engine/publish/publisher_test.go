package publish

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

type fakeUploader struct {
	url      string
	err      error
	calls    int
	lastPath string
}

func (f *fakeUploader) Upload(_ context.Context, path string) (string, error) {
	f.calls++
	f.lastPath = path
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeAppender struct {
	added   bool
	err     error
	rows    []ApplicationRow
	updates map[string]map[string]string
}

func (f *fakeAppender) Append(_ context.Context, row ApplicationRow) (bool, error) {
	f.rows = append(f.rows, row)
	if f.err != nil {
		return false, f.err
	}
	return f.added, nil
}

func (f *fakeAppender) UpdateByURL(_ context.Context, jobURL string, cols map[string]string) error {
	if f.err != nil {
		return f.err
	}
	if f.updates == nil {
		f.updates = map[string]map[string]string{}
	}
	f.updates[jobURL] = cols
	return nil
}

func testJob() engine.JobPosting {
	return engine.JobPosting{
		Title: "Go Developer", Company: "Acme", Location: "Remote",
		JobType: "Full-time", Salary: "$120,000 - $150,000",
		URL: "https://example.com/jobs/1", Source: "adzuna",
		Description: "Build Go services.",
	}
}

func newTestPublisher(t *testing.T, drive Uploader, sheet RowAppender) (*Publisher, *jobs.Tracker) {
	t.Helper()
	engine.Init(engine.Config{Pacer: engine.NewPacer(0, 0, 0)})
	tr, err := jobs.OpenTracker(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("OpenTracker: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return New(drive, sheet, tr), tr
}

func trackedRow(t *testing.T, tr *jobs.Tracker, url string) jobs.TrackedJob {
	t.Helper()
	rows, err := tr.List(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, r := range rows {
		if r.URL == url {
			return r
		}
	}
	t.Fatalf("url %s not tracked", url)
	return jobs.TrackedJob{}
}

func TestPublishFullFlow(t *testing.T) {
	up := &fakeUploader{url: "https://drive.example/abc"}
	sheet := &fakeAppender{added: true}
	pub, tr := newTestPublisher(t, up, sheet)

	res := pub.Publish(context.Background(), "out/Jane_Doe_Acme.docx", testJob())

	if res.LocalPath != "out/Jane_Doe_Acme.docx" {
		t.Errorf("LocalPath = %q", res.LocalPath)
	}
	if res.RemoteURL != "https://drive.example/abc" {
		t.Errorf("RemoteURL = %q", res.RemoteURL)
	}
	if res.TrackingStatus != jobs.StatusTracked {
		t.Errorf("TrackingStatus = %q, want %q", res.TrackingStatus, jobs.StatusTracked)
	}
	if up.calls != 1 || up.lastPath != "out/Jane_Doe_Acme.docx" {
		t.Errorf("uploader calls = %d path = %q", up.calls, up.lastPath)
	}
	if len(sheet.rows) != 1 {
		t.Fatalf("sheet rows = %d, want 1", len(sheet.rows))
	}
	row := sheet.rows[0]
	if row.JobURL != "https://example.com/jobs/1" || row.ResumeURL != "https://drive.example/abc" {
		t.Errorf("row = %+v", row)
	}
	if row.Status != "Resume Generated" || row.Source != "adzuna" {
		t.Errorf("row = %+v", row)
	}

	got := trackedRow(t, tr, "https://example.com/jobs/1")
	if got.Status != jobs.StatusTracked {
		t.Errorf("tracker status = %q", got.Status)
	}
	if got.ResumePath != "out/Jane_Doe_Acme.docx" || got.ResumeURL != "https://drive.example/abc" {
		t.Errorf("tracker resume fields = %+v", got)
	}
}

func TestPublishDriveFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("quota exceeded")}
	sheet := &fakeAppender{added: true}
	pub, tr := newTestPublisher(t, up, sheet)

	res := pub.Publish(context.Background(), "out/r.docx", testJob())

	if res.RemoteURL != "" {
		t.Errorf("RemoteURL = %q, want empty after upload failure", res.RemoteURL)
	}
	if res.TrackingStatus != jobs.StatusTracked {
		t.Errorf("TrackingStatus = %q, sheet write should still count", res.TrackingStatus)
	}
	if len(sheet.rows) != 1 || sheet.rows[0].ResumeURL != "" {
		t.Errorf("sheet row should carry no resume link: %+v", sheet.rows)
	}
	if got := trackedRow(t, tr, "https://example.com/jobs/1"); got.ResumeURL != "" {
		t.Errorf("tracker ResumeURL = %q", got.ResumeURL)
	}
}

func TestPublishSheetsFailure(t *testing.T) {
	up := &fakeUploader{url: "https://drive.example/abc"}
	sheet := &fakeAppender{err: errors.New("api down")}
	pub, tr := newTestPublisher(t, up, sheet)

	res := pub.Publish(context.Background(), "out/r.docx", testJob())

	if res.TrackingStatus != jobs.StatusUploaded {
		t.Errorf("TrackingStatus = %q, want %q", res.TrackingStatus, jobs.StatusUploaded)
	}
	if res.RemoteURL != "https://drive.example/abc" {
		t.Errorf("RemoteURL = %q", res.RemoteURL)
	}
	if got := trackedRow(t, tr, "https://example.com/jobs/1"); got.Status != jobs.StatusUploaded {
		t.Errorf("tracker status = %q", got.Status)
	}
}

func TestPublishLocalOnly(t *testing.T) {
	pub, tr := newTestPublisher(t, nil, nil)

	res := pub.Publish(context.Background(), "out/r.docx", testJob())

	if res.TrackingStatus != jobs.StatusGenerated {
		t.Errorf("TrackingStatus = %q, want %q", res.TrackingStatus, jobs.StatusGenerated)
	}
	if res.RemoteURL != "" {
		t.Errorf("RemoteURL = %q", res.RemoteURL)
	}
	got := trackedRow(t, tr, "https://example.com/jobs/1")
	if got.Status != jobs.StatusGenerated || got.ResumePath != "out/r.docx" {
		t.Errorf("tracker row = %+v", got)
	}
}

func TestPublishDuplicateSheetRow(t *testing.T) {
	up := &fakeUploader{url: "https://drive.example/abc"}
	sheet := &fakeAppender{added: false}
	pub, _ := newTestPublisher(t, up, sheet)

	res := pub.Publish(context.Background(), "out/r.docx", testJob())
	if res.TrackingStatus != jobs.StatusTracked {
		t.Errorf("TrackingStatus = %q, an existing row still counts as tracked", res.TrackingStatus)
	}

	cols := sheet.updates["https://example.com/jobs/1"]
	if cols == nil {
		t.Fatal("existing row was not completed in place")
	}
	if cols["Custom Resume URL"] != "https://drive.example/abc" {
		t.Errorf("resume column = %q", cols["Custom Resume URL"])
	}
	if cols["Application Status"] != "Resume Generated" {
		t.Errorf("status column = %q", cols["Application Status"])
	}
}

func TestNewApplicationRow(t *testing.T) {
	job := testJob()
	job.Description = strings.Repeat("abcdef ", 100)
	row := NewApplicationRow(job, "https://drive.example/abc")

	if len(row.Description) > descriptionLimit {
		t.Errorf("description not truncated: len=%d", len(row.Description))
	}
	if !strings.HasSuffix(row.Description, "abcdef") {
		t.Errorf("description cut mid-word: %q", row.Description[len(row.Description)-10:])
	}
	if _, err := time.Parse("2006-01-02", row.DateAdded); err != nil {
		t.Errorf("DateAdded = %q: %v", row.DateAdded, err)
	}

	v := row.values()
	if len(v) != len(sheetColumns) {
		t.Fatalf("values len = %d, want %d", len(v), len(sheetColumns))
	}
	if v[urlColumn] != job.URL {
		t.Errorf("values[%d] = %v, want job url", urlColumn, v[urlColumn])
	}
	if v[resumeColumn] != "https://drive.example/abc" {
		t.Errorf("values[%d] = %v, want resume link", resumeColumn, v[resumeColumn])
	}
}

func TestColumnHelpers(t *testing.T) {
	if got := columnIndex("Custom Resume URL"); got != resumeColumn {
		t.Errorf("columnIndex = %d, want %d", got, resumeColumn)
	}
	if got := columnIndex("notes"); got != 13 {
		t.Errorf("columnIndex(notes) = %d, want 13", got)
	}
	if got := columnIndex("Bogus"); got != -1 {
		t.Errorf("columnIndex(Bogus) = %d, want -1", got)
	}
	if got := columnLetter(resumeColumn); got != "H" {
		t.Errorf("columnLetter = %q, want H", got)
	}
	if got := cellString([]interface{}{"a", "b"}, 5); got != "" {
		t.Errorf("cellString out of range = %q", got)
	}
	if got := cellString([]interface{}{"a", 42}, 1); got != "" {
		t.Errorf("cellString non-string = %q", got)
	}
}

func TestNeedsResume(t *testing.T) {
	tests := []struct {
		name string
		row  ApplicationRow
		want bool
	}{
		{"hand-added blank status", ApplicationRow{JobURL: "u"}, true},
		{"not started", ApplicationRow{JobURL: "u", Status: "Not Started"}, true},
		{"interrupted upload", ApplicationRow{JobURL: "u", Status: "Resume Generated"}, true},
		{"already has resume", ApplicationRow{JobURL: "u", ResumeURL: "link", Status: "Not Started"}, false},
		{"applied", ApplicationRow{JobURL: "u", Status: "Applied"}, false},
		{"rejected", ApplicationRow{JobURL: "u", Status: "Rejected"}, false},
		{"no url", ApplicationRow{Status: "Not Started"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsResume(tt.row); got != tt.want {
				t.Errorf("needsResume(%+v) = %t, want %t", tt.row, got, tt.want)
			}
		})
	}
}

func TestEscapeQuery(t *testing.T) {
	if got := escapeQuery("Bob's Tracker"); got != `Bob\'s Tracker` {
		t.Errorf("escapeQuery = %q", got)
	}
}

func TestRowFromCells(t *testing.T) {
	cells := []interface{}{
		"Go Developer", "Acme", "London", "permanent", "£70k-£85k",
		"https://example.com/jobs/5", "Applied", "", "Sam Lee",
		"sam@acme.example", "2026-08-20", "Build services.", "reed",
	}

	row := rowFromCells(cells)
	if row.JobTitle != "Go Developer" || row.Company != "Acme" || row.JobURL != "https://example.com/jobs/5" {
		t.Errorf("row = %+v", row)
	}
	if row.HiringManager != "Sam Lee" || row.ContactEmail != "sam@acme.example" {
		t.Errorf("contact fields = %q, %q", row.HiringManager, row.ContactEmail)
	}
	if row.Notes != "" {
		t.Errorf("Notes = %q, want empty for a short row", row.Notes)
	}

	job := row.Posting()
	if job.Title != "Go Developer" || job.Company != "Acme" || job.Location != "London" {
		t.Errorf("posting = %+v", job)
	}
	if job.Salary != "£70k-£85k" || job.JobType != "permanent" || job.Source != "reed" {
		t.Errorf("posting detail = %+v", job)
	}
	if job.Description != "Build services." {
		t.Errorf("Description = %q", job.Description)
	}
}
