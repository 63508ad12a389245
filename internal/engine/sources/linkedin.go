package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

const (
	linkedInSearchURL   = "https://www.linkedin.com/jobs/search/"
	linkedInLoginURL    = "https://www.linkedin.com/login"
	linkedInGuestJobURL = "https://www.linkedin.com/jobs-guest/jobs/api/jobPosting/"

	// browserBudget bounds one full board session: launch, optional
	// login, search page, detail pages.
	browserBudget = 4 * time.Minute
)

// LinkedIn drives a real Chrome session. LinkedIn renders search results
// client-side and blocks plain HTTP clients by TLS fingerprint, so the
// adapter navigates a headless browser, scrolls the result list to force
// lazy cards to load, and parses the rendered HTML.
type LinkedIn struct{}

func (LinkedIn) Name() string { return "linkedin" }

// jobCard is one parsed result card from the rendered search page.
type jobCard struct {
	Title    string
	Company  string
	Location string
	URL      string
	Posted   string
	Salary   string
}

// jobIDRe matches both /jobs/view/4335742219 and
// /jobs/view/golang-developer-at-acme-4335742219.
var jobIDRe = regexp.MustCompile(`/jobs/view/[^?]*?(\d{7,})`)

// ExtractJobID extracts the numeric LinkedIn job ID from a job URL.
func ExtractJobID(jobURL string) string {
	if m := jobIDRe.FindStringSubmatch(jobURL); m != nil {
		return m[1]
	}
	return ""
}

func (LinkedIn) Search(ctx context.Context, q Query) ([]engine.JobPosting, error) {
	engine.IncrLinkedInRequests()

	limit := q.MaxResults
	if limit <= 0 || limit > 25 {
		limit = 25
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !engine.Cfg.ShowBrowser),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(engine.UserAgentChrome),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelBudget := context.WithTimeout(browserCtx, browserBudget)
	defer cancelBudget()

	if engine.Cfg.LinkedInEmail != "" && engine.Cfg.LinkedInPassword != "" {
		if err := linkedInLogin(browserCtx); err != nil {
			slog.Warn("linkedin login failed, continuing unauthenticated", "error", err)
		}
	}

	var pageHTML string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(buildLinkedInSearchURL(q)),
		chromedp.WaitVisible(`div.job-search-card, ul.jobs-search__results-list`, chromedp.ByQuery),
		scrollResults(4),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("linkedin search page: %w", err)
	}

	cards := parseJobCards(pageHTML)
	if len(cards) > limit {
		cards = cards[:limit]
	}

	guest, err := engine.NewBrowserClient()
	if err != nil {
		slog.Warn("tls client unavailable, descriptions via browser only", "error", err)
	}

	now := time.Now()
	jobs := make([]engine.JobPosting, 0, len(cards))
	for _, c := range cards {
		desc, err := fetchLinkedInDescription(browserCtx, guest, c.URL)
		if err != nil {
			slog.Warn("linkedin description fetch failed", "url", c.URL, "error", err)
		}
		jobs = append(jobs, engine.JobPosting{
			Title:       c.Title,
			Company:     c.Company,
			Location:    c.Location,
			Description: desc,
			Salary:      linkedInSalary(c.Salary),
			SalaryMin:   parseSalaryFloor(c.Salary),
			JobType:     "Not specified",
			Source:      "linkedin",
			URL:         c.URL,
			Posted:      c.Posted,
			FoundAt:     now,
		})
	}
	slog.Debug("linkedin search done", "keyword", q.Keyword, "location", q.Location, "jobs", len(jobs))
	return jobs, nil
}

// linkedInLogin signs the session in so search results include
// member-only postings. A checkpoint or captcha page makes the post-login
// wait time out; the caller treats that as non-fatal.
func linkedInLogin(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	return chromedp.Run(ctx,
		chromedp.Navigate(linkedInLoginURL),
		chromedp.WaitVisible("#username", chromedp.ByID),
		chromedp.SendKeys("#username", engine.Cfg.LinkedInEmail, chromedp.ByID),
		chromedp.SendKeys("#password", engine.Cfg.LinkedInPassword, chromedp.ByID),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.WaitVisible(`#global-nav, .feed-identity-module`, chromedp.ByQuery),
	)
}

func buildLinkedInSearchURL(q Query) string {
	u, _ := url.Parse(linkedInSearchURL)
	params := u.Query()
	params.Set("keywords", q.Keyword)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	if q.RemoteOnly {
		params.Set("f_WT", "3")
	}
	params.Set("sortBy", "DD")
	u.RawQuery = params.Encode()
	return u.String()
}

// scrollResults pages the lazy result list. Each pass jumps to the bottom
// and gives the feed a moment to append cards.
func scrollResults(passes int) chromedp.Tasks {
	var tasks chromedp.Tasks
	for i := 0; i < passes; i++ {
		tasks = append(tasks,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(800*time.Millisecond),
		)
	}
	return tasks
}

// fetchLinkedInDescription pulls one job description. The same posting
// often appears under several keyword and location queries, so cached
// text is served without touching LinkedIn again. On a miss the guest
// posting endpoint is tried first, since it serves the full text without
// JavaScript; a blocked or empty response falls back to navigating the
// job page in the existing browser session.
func fetchLinkedInDescription(ctx context.Context, guest *engine.BrowserClient, jobURL string) (string, error) {
	if desc, ok := engine.CachedDescription(jobURL); ok {
		return desc, nil
	}
	if err := engine.Cfg.Pacer.WaitSearch(ctx); err != nil {
		return "", err
	}
	if desc := guestDescription(guest, jobURL); desc != "" {
		engine.StoreDescription(jobURL, desc)
		return desc, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var markup string
	err := chromedp.Run(ctx,
		chromedp.Navigate(jobURL),
		chromedp.WaitVisible(`.show-more-less-html__markup, .description__text`, chromedp.ByQuery),
		chromedp.OuterHTML(`.show-more-less-html__markup, .description__text`, &markup, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	desc := CleanDescription(markup)
	engine.StoreDescription(jobURL, desc)
	return desc, nil
}

// guestDescription fetches the no-JS posting fragment for a job ID.
func guestDescription(guest *engine.BrowserClient, jobURL string) string {
	if guest == nil {
		return ""
	}
	id := ExtractJobID(jobURL)
	if id == "" {
		return ""
	}
	body, status, err := guest.Get(linkedInGuestJobURL+id, linkedInSearchURL)
	if err != nil || status != 200 {
		return ""
	}
	return parseGuestDescription(body)
}

// parseGuestDescription extracts the description block from a guest
// posting fragment.
func parseGuestDescription(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	markup, err := doc.Find(".show-more-less-html__markup, .description__text").First().Html()
	if err != nil || markup == "" {
		return ""
	}
	return CleanDescription(markup)
}

// parseJobCards extracts result cards from the rendered search page HTML.
func parseJobCards(pageHTML string) []jobCard {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var cards []jobCard
	doc.Find("div.base-card, div.job-search-card").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find("a.base-card__full-link").First().Attr("href")
		if href == "" {
			href, _ = s.Parent().Find("a.base-card__full-link").First().Attr("href")
		}
		href = canonicalJobURL(href)
		if href == "" || seen[href] {
			return
		}

		c := jobCard{
			URL:      href,
			Title:    engine.CollapseWhitespace(s.Find(".base-search-card__title").First().Text()),
			Company:  engine.CollapseWhitespace(s.Find(".base-search-card__subtitle").First().Text()),
			Location: engine.CollapseWhitespace(s.Find(".job-search-card__location").First().Text()),
			Salary:   engine.CollapseWhitespace(s.Find(".job-search-card__salary-info").First().Text()),
		}
		if c.Title == "" {
			return
		}
		if dt, ok := s.Find("time").First().Attr("datetime"); ok {
			c.Posted = dt
		} else {
			c.Posted = engine.CollapseWhitespace(s.Find(".job-search-card__listdate").First().Text())
		}

		seen[href] = true
		cards = append(cards, c)
	})
	return cards
}

// canonicalJobURL strips tracking query parameters from a job link.
func canonicalJobURL(href string) string {
	if href == "" {
		return ""
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	return strings.TrimSpace(href)
}

func linkedInSalary(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

var salaryNumRe = regexp.MustCompile(`[\d,]+`)

// parseSalaryFloor pulls the first figure out of a display string like
// "$120,000.00 - $150,000.00" for threshold comparisons.
func parseSalaryFloor(s string) int {
	m := salaryNumRe.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
