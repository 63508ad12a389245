package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// sheetColumns is the header row, in the order rows are appended.
var sheetColumns = []string{
	"Job Title", "Company", "Location", "Job Type", "Salary Range",
	"Job URL", "Application Status", "Custom Resume URL", "Hiring Manager",
	"Contact Email", "Date Added", "Job Description", "Source", "Notes",
}

const (
	urlColumn    = 5 // F, the dedup key
	resumeColumn = 7 // H

	spreadsheetMIME  = "application/vnd.google-apps.spreadsheet"
	descriptionLimit = 500
)

// ApplicationRow is one spreadsheet line.
type ApplicationRow struct {
	JobTitle      string
	Company       string
	Location      string
	JobType       string
	SalaryRange   string
	JobURL        string
	Status        string
	ResumeURL     string
	HiringManager string
	ContactEmail  string
	DateAdded     string
	Description   string
	Source        string
	Notes         string
}

// NewApplicationRow builds the sheet line for one processed posting.
// Hiring manager, contact and notes start empty; those columns are filled
// by hand as the application progresses.
func NewApplicationRow(job engine.JobPosting, resumeURL string) ApplicationRow {
	return ApplicationRow{
		JobTitle:    job.Title,
		Company:     job.Company,
		Location:    job.Location,
		JobType:     job.JobType,
		SalaryRange: job.Salary,
		JobURL:      job.URL,
		Status:      "Resume Generated",
		ResumeURL:   resumeURL,
		DateAdded:   time.Now().Format("2006-01-02"),
		Description: engine.TruncateAtWord(job.Description, descriptionLimit),
		Source:      job.Source,
	}
}

func (r ApplicationRow) values() []interface{} {
	return []interface{}{
		r.JobTitle, r.Company, r.Location, r.JobType, r.SalaryRange,
		r.JobURL, r.Status, r.ResumeURL, r.HiringManager,
		r.ContactEmail, r.DateAdded, r.Description, r.Source, r.Notes,
	}
}

// SheetsTracker mirrors applications into a spreadsheet found or created by
// title. The job URL column is the dedup key.
type SheetsTracker struct {
	sheets *sheets.Service
	drive  *drive.Service
	title  string
	id     string
}

// NewSheetsTracker builds a tracker from a service account credentials file.
// The Drive service handles the title lookup; Sheets has no open-by-name call.
func NewSheetsTracker(ctx context.Context, credentialsPath, title string) (*SheetsTracker, error) {
	sv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("sheets: service: %w", err)
	}
	dv, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("sheets: drive service: %w", err)
	}
	return &SheetsTracker{sheets: sv, drive: dv, title: title}, nil
}

// Append adds one application line; a URL already present is skipped.
func (s *SheetsTracker) Append(ctx context.Context, row ApplicationRow) (added bool, err error) {
	if _, err := s.ensure(ctx); err != nil {
		return false, err
	}
	idx, err := s.urlIndex(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := idx[row.JobURL]; ok {
		slog.Debug("job already in sheet", "url", row.JobURL)
		return false, nil
	}

	engine.IncrSheetsOps()
	_, err = s.sheets.Spreadsheets.Values.Append(s.id, "A:N", &sheets.ValueRange{
		Values: [][]interface{}{row.values()},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("sheets: append %s: %w", row.JobURL, err)
	}
	return true, nil
}

// UpdateByURL rewrites named columns of the row tracking jobURL. Used to
// attach resume links to rows that predate the generated document.
func (s *SheetsTracker) UpdateByURL(ctx context.Context, jobURL string, cols map[string]string) error {
	if _, err := s.ensure(ctx); err != nil {
		return err
	}
	idx, err := s.urlIndex(ctx)
	if err != nil {
		return err
	}
	rowNum, ok := idx[jobURL]
	if !ok {
		return fmt.Errorf("sheets: url not tracked: %s", jobURL)
	}

	var data []*sheets.ValueRange
	for name, value := range cols {
		col := columnIndex(name)
		if col < 0 {
			return fmt.Errorf("sheets: unknown column %q", name)
		}
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s%d", columnLetter(col), rowNum),
			Values: [][]interface{}{{value}},
		})
	}

	engine.IncrSheetsOps()
	_, err = s.sheets.Spreadsheets.Values.BatchUpdate(s.id, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", jobURL, err)
	}
	return nil
}

// RowsNeedingResumes lists sheet rows that have a job URL but no resume
// link yet, so a later run can generate documents for them.
func (s *SheetsTracker) RowsNeedingResumes(ctx context.Context) ([]ApplicationRow, error) {
	if _, err := s.ensure(ctx); err != nil {
		return nil, err
	}

	engine.IncrSheetsOps()
	resp, err := s.sheets.Spreadsheets.Values.Get(s.id, "A2:N").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read rows: %w", err)
	}
	var rows []ApplicationRow
	for _, cells := range resp.Values {
		row := rowFromCells(cells)
		if needsResume(row) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// needsResume reports whether a row should get a generated document: it
// has a URL, no resume link, and the operator has not moved it past the
// resume stage. A blank status is a hand-added row.
func needsResume(row ApplicationRow) bool {
	if row.JobURL == "" || row.ResumeURL != "" {
		return false
	}
	switch row.Status {
	case "", "Not Started", "Resume Generated":
		return true
	}
	return false
}

// rowFromCells rebuilds an ApplicationRow from raw cell values.
func rowFromCells(cells []interface{}) ApplicationRow {
	return ApplicationRow{
		JobTitle:      cellString(cells, 0),
		Company:       cellString(cells, 1),
		Location:      cellString(cells, 2),
		JobType:       cellString(cells, 3),
		SalaryRange:   cellString(cells, 4),
		JobURL:        cellString(cells, urlColumn),
		Status:        cellString(cells, 6),
		ResumeURL:     cellString(cells, resumeColumn),
		HiringManager: cellString(cells, 8),
		ContactEmail:  cellString(cells, 9),
		DateAdded:     cellString(cells, 10),
		Description:   cellString(cells, 11),
		Source:        cellString(cells, 12),
		Notes:         cellString(cells, 13),
	}
}

// Posting converts a sheet row back into the pipeline's job shape.
func (r ApplicationRow) Posting() engine.JobPosting {
	return engine.JobPosting{
		Title:       r.JobTitle,
		Company:     r.Company,
		Location:    r.Location,
		JobType:     r.JobType,
		Salary:      r.SalaryRange,
		URL:         r.JobURL,
		Description: r.Description,
		Source:      r.Source,
	}
}

func (s *SheetsTracker) ensure(ctx context.Context) (string, error) {
	if s.id != "" {
		return s.id, nil
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(s.title), spreadsheetMIME)
	list, err := s.drive.Files.List().Q(q).Spaces("drive").
		Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets: find %q: %w", s.title, err)
	}
	if len(list.Files) > 0 {
		s.id = list.Files[0].Id
	} else {
		created, err := s.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{Title: s.title},
		}).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("sheets: create %q: %w", s.title, err)
		}
		slog.Info("created tracking spreadsheet", "title", s.title, "id", created.SpreadsheetId)
		s.id = created.SpreadsheetId
	}

	if err := s.ensureHeader(ctx); err != nil {
		s.id = ""
		return "", err
	}
	return s.id, nil
}

func (s *SheetsTracker) ensureHeader(ctx context.Context) error {
	resp, err := s.sheets.Spreadsheets.Values.Get(s.id, "A1:N1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: read header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := make([]interface{}, len(sheetColumns))
	for i, c := range sheetColumns {
		header[i] = c
	}
	engine.IncrSheetsOps()
	_, err = s.sheets.Spreadsheets.Values.Update(s.id, "A1", &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: write header: %w", err)
	}

	// Bold white-on-gray strip so the sheet matches the one it replaces.
	_, err = s.sheets.Spreadsheets.BatchUpdate(s.id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{StartRowIndex: 0, EndRowIndex: 1},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: 0.26, Green: 0.26, Blue: 0.26},
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		slog.Warn("header formatting failed", "error", err)
	}
	return nil
}

// urlIndex maps job URL to its 1-based sheet row.
func (s *SheetsTracker) urlIndex(ctx context.Context) (map[string]int, error) {
	resp, err := s.sheets.Spreadsheets.Values.Get(s.id, "F2:F").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read urls: %w", err)
	}
	idx := make(map[string]int, len(resp.Values))
	for i, row := range resp.Values {
		u := cellString(row, 0)
		if u == "" {
			continue
		}
		if _, dup := idx[u]; !dup {
			idx[u] = i + 2
		}
	}
	return idx, nil
}

func columnIndex(name string) int {
	for i, c := range sheetColumns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func columnLetter(i int) string { return string(rune('A' + i)) }

func cellString(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}
