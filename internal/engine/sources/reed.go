package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

const reedAPI = "https://www.reed.co.uk/api/1.0/search"

// Reed queries the Reed.co.uk jobseeker API. The API key is sent as the
// basic auth username with an empty password, which is how Reed issues
// credentials.
type Reed struct{}

func (Reed) Name() string { return "reed" }

type reedResponse struct {
	Results []reedResult `json:"results"`
}

type reedResult struct {
	JobID          int64   `json:"jobId"`
	EmployerName   string  `json:"employerName"`
	JobTitle       string  `json:"jobTitle"`
	LocationName   string  `json:"locationName"`
	MinimumSalary  float64 `json:"minimumSalary"`
	MaximumSalary  float64 `json:"maximumSalary"`
	Date           string  `json:"date"`
	JobDescription string  `json:"jobDescription"`
	JobURL         string  `json:"jobUrl"`
}

func (Reed) Search(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	engine.IncrReedRequests()

	limit := q.MaxResults
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	u, err := url.Parse(reedAPI)
	if err != nil {
		return nil, fmt.Errorf("reed url: %w", err)
	}
	params := u.Query()
	params.Set("keywords", q.Keyword)
	if q.Location != "" {
		params.Set("locationName", q.Location)
		params.Set("distanceFromLocation", "20")
	}
	params.Set("resultsToTake", strconv.Itoa(limit))
	params.Set("permanent", "true")
	params.Set("fullTime", "true")
	if q.MinSalary > 0 {
		params.Set("minimumSalary", strconv.Itoa(q.MinSalary))
	}
	u.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("reed request: %w", err)
	}
	req.SetBasicAuth(engine.Cfg.ReedAPIKey, "")
	req.Header.Set("User-Agent", engine.UserAgentBot)
	req.Header.Set("Accept", "application/json")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("reed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reed status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reed read: %w", err)
	}

	jobs, err := parseReedResponse(body, time.Now())
	if err != nil {
		return nil, err
	}
	slog.Debug("reed search done", "keyword", q.Keyword, "location", q.Location, "jobs", len(jobs))
	return jobs, nil
}

func parseReedResponse(body []byte, now time.Time) ([]engine.JobPosting, error) {
	var rr reedResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("reed parse: %w", err)
	}

	jobs := make([]engine.JobPosting, 0, len(rr.Results))
	for _, r := range rr.Results {
		if r.JobTitle == "" || r.JobURL == "" {
			continue
		}
		jobs = append(jobs, engine.JobPosting{
			Title:       strings.TrimSpace(r.JobTitle),
			Company:     strings.TrimSpace(r.EmployerName),
			Location:    strings.TrimSpace(r.LocationName),
			Description: CleanDescription(r.JobDescription),
			Salary:      formatSalaryRange("£", int(r.MinimumSalary), int(r.MaximumSalary)),
			SalaryMin:   int(r.MinimumSalary),
			JobType:     "Full-time",
			Source:      "reed",
			URL:         r.JobURL,
			Posted:      reedPostedDate(r.Date),
			FoundAt:     now,
		})
	}
	return jobs, nil
}

// reedPostedDate converts Reed's DD/MM/YYYY dates to ISO form.
func reedPostedDate(date string) string {
	t, err := time.Parse("02/01/2006", date)
	if err != nil {
		return date
	}
	return t.Format("2006-01-02")
}
