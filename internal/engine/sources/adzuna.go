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

const adzunaAPI = "https://api.adzuna.com/v1/api/jobs"

// Adzuna queries the Adzuna aggregator REST API. Credentials come from
// ADZUNA_APP_ID / ADZUNA_APP_KEY.
type Adzuna struct{}

func (Adzuna) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description  string  `json:"description"`
	RedirectURL  string  `json:"redirect_url"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	Created      string  `json:"created"`
	ContractTime string  `json:"contract_time"`
}

func (Adzuna) Search(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	engine.IncrAdzunaRequests()

	limit := q.MaxResults
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s/search/1", adzunaAPI, engine.Cfg.Country))
	if err != nil {
		return nil, fmt.Errorf("adzuna url: %w", err)
	}
	params := u.Query()
	params.Set("app_id", engine.Cfg.AdzunaAppID)
	params.Set("app_key", engine.Cfg.AdzunaAppKey)
	params.Set("what", q.Keyword)
	if q.Location != "" {
		params.Set("where", q.Location)
	}
	params.Set("results_per_page", strconv.Itoa(limit))
	params.Set("content-type", "application/json")
	if q.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(q.MinSalary))
	}
	u.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna request: %w", err)
	}
	req.Header.Set("User-Agent", engine.UserAgentBot)
	req.Header.Set("Accept", "application/json")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("adzuna fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("adzuna read: %w", err)
	}

	jobs, err := parseAdzunaResponse(body, time.Now())
	if err != nil {
		return nil, err
	}
	slog.Debug("adzuna search done", "keyword", q.Keyword, "location", q.Location, "jobs", len(jobs))
	return jobs, nil
}

func parseAdzunaResponse(body []byte, now time.Time) ([]engine.JobPosting, error) {
	var ar adzunaResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("adzuna parse: %w", err)
	}

	jobs := make([]engine.JobPosting, 0, len(ar.Results))
	for _, r := range ar.Results {
		if r.Title == "" || r.RedirectURL == "" {
			continue
		}
		jobs = append(jobs, engine.JobPosting{
			Title:       strings.TrimSpace(r.Title),
			Company:     strings.TrimSpace(r.Company.DisplayName),
			Location:    strings.TrimSpace(r.Location.DisplayName),
			Description: CleanDescription(r.Description),
			Salary:      formatSalaryRange("$", int(r.SalaryMin), int(r.SalaryMax)),
			SalaryMin:   int(r.SalaryMin),
			JobType:     adzunaJobType(r.ContractTime),
			Source:      "adzuna",
			URL:         r.RedirectURL,
			Posted:      adzunaPostedDate(r.Created),
			FoundAt:     now,
		})
	}
	return jobs, nil
}

// adzunaJobType maps contract_time values like "full_time" to display form.
func adzunaJobType(ct string) string {
	switch ct {
	case "full_time":
		return "Full-time"
	case "part_time":
		return "Part-time"
	case "":
		return "Not specified"
	default:
		return strings.ReplaceAll(ct, "_", " ")
	}
}

// adzunaPostedDate trims the ISO timestamp down to its date part.
func adzunaPostedDate(created string) string {
	if len(created) >= 10 {
		return created[:10]
	}
	return created
}
