package engine

import "time"

// JobPosting is one job found on a board. Created by a source adapter,
// read-only downstream. URL is the sole dedup key across a run.
type JobPosting struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	SalaryMin   int       `json:"salary_min,omitempty"`
	JobType     string    `json:"job_type,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Posted      string    `json:"posted,omitempty"`
	FoundAt     time.Time `json:"found_at"`
}

// DefaultExcludedKeywords drops seniority levels the operator is not targeting.
// Substring match against title and description, case-insensitive.
var DefaultExcludedKeywords = []string{
	"senior", "sr.", "sr ", "lead", "principal", "staff",
	"manager", "director", "head of", "chief",
}

// DefaultRemoteIndicators are description phrases that mark a posting as
// genuinely remote.
var DefaultRemoteIndicators = []string{
	"fully remote", "100% remote", "remote position", "work from home",
	"work from anywhere", "remote work", "remote opportunity", "remote-first",
}

// DefaultOnsiteIndicators are description phrases that disqualify a posting
// from the remote policy. These win over remote indicators.
var DefaultOnsiteIndicators = []string{
	"hybrid", "in office", "in-office", "on site", "on-site", "onsite",
	"must be in", "must work in", "must live in", "must be located",
	"must relocate", "required to work", "days per week in", "days in office",
	"office presence", "office attendance", "come to the office",
}
