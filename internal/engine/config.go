package engine

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all pipeline configuration, injected from main.
// Built once at startup; components read it through Cfg and never re-read files.
type Config struct {
	// Search plan
	Keywords         []string
	Locations        []string
	ExcludedKeywords []string
	RemotePositive   []string
	RemoteNegative   []string
	RemoteOnly       bool
	MinSalary        int
	MaxPerBoard      int
	Country          string // Adzuna country code

	// Board toggles
	AdzunaEnabled   bool
	ReedEnabled     bool
	LinkedInEnabled bool

	// Credentials (env only, never the JSON file)
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AdzunaAppID       string
	AdzunaAppKey      string
	ReedAPIKey        string
	LinkedInEmail     string
	LinkedInPassword  string
	GoogleCredentials string // service account JSON path

	// LLM
	LLMModel             string
	LLMTemperature       float64 // summary + experience bullets
	LLMSkillsTemperature float64 // skills reformatting
	LLMMaxTokens         int

	// Resume + documents
	ResumePath    string
	TemplatePath  string // optional; empty or missing file → from-scratch layout
	OutputDir     string
	ProcessedDir  string
	CategoryOrder []string
	LabelOnly     []string // categories rendered as standalone bold labels

	// Publishing
	SpreadsheetName string
	DriveFolderName string

	// Pacing + transport
	SearchPerMinute     float64
	CompletionPerMinute float64
	UploadPerMinute     float64
	FetchTimeout        time.Duration
	ShowBrowser         bool

	QuickTest bool

	HTTPClient *http.Client
	LLMClient  Completer
	Pacer      *Pacer
}

var cfg Config

// Cfg exposes the pipeline configuration for sub-packages (sources, jobs, docx, publish).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}

// LoadConfig reads config.json (viper) and the environment into a Config.
// Secrets come exclusively from the environment; the JSON file holds the
// search plan and rendering preferences. Missing file falls back to defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	// Missing file is fine (defaults apply, setup writes an example);
	// a present but malformed file is a startup error.
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c := Config{
		Keywords:         v.GetStringSlice("job_search.keywords"),
		Locations:        v.GetStringSlice("job_search.locations"),
		ExcludedKeywords: v.GetStringSlice("job_search.excluded_keywords"),
		RemotePositive:   v.GetStringSlice("job_search.remote_indicators"),
		RemoteNegative:   v.GetStringSlice("job_search.onsite_indicators"),
		RemoteOnly:       v.GetBool("job_search.remote_only"),
		MinSalary:        v.GetInt("job_search.min_salary"),
		MaxPerBoard:      v.GetInt("job_search.max_results_per_board"),
		Country:          v.GetString("job_search.country"),

		AdzunaEnabled:   v.GetBool("job_boards.adzuna"),
		ReedEnabled:     v.GetBool("job_boards.reed"),
		LinkedInEnabled: v.GetBool("job_boards.linkedin"),

		LLMModel:             v.GetString("openai.model"),
		LLMTemperature:       v.GetFloat64("openai.temperature"),
		LLMSkillsTemperature: v.GetFloat64("openai.skills_temperature"),
		LLMMaxTokens:         v.GetInt("openai.max_tokens"),

		ResumePath:    v.GetString("resume.data_path"),
		TemplatePath:  v.GetString("resume.template_path"),
		OutputDir:     v.GetString("resume.output_dir"),
		ProcessedDir:  v.GetString("resume.processed_dir"),
		CategoryOrder: v.GetStringSlice("resume.category_order"),
		LabelOnly:     v.GetStringSlice("resume.label_only_categories"),

		SpreadsheetName: v.GetString("google.spreadsheet_name"),
		DriveFolderName: v.GetString("google.drive_folder_name"),

		SearchPerMinute:     v.GetFloat64("rate_limits.search_per_minute"),
		CompletionPerMinute: v.GetFloat64("rate_limits.completion_per_minute"),
		UploadPerMinute:     v.GetFloat64("rate_limits.upload_per_minute"),
		FetchTimeout:        v.GetDuration("rate_limits.fetch_timeout"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		AdzunaAppID:       os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:      os.Getenv("ADZUNA_APP_KEY"),
		ReedAPIKey:        os.Getenv("REED_API_KEY"),
		LinkedInEmail:     os.Getenv("LINKEDIN_EMAIL"),
		LinkedInPassword:  os.Getenv("LINKEDIN_PASSWORD"),
		GoogleCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		QuickTest:         envBool("QUICK_TEST"),
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("job_search.keywords", []string{"python developer"})
	v.SetDefault("job_search.locations", []string{"Remote"})
	v.SetDefault("job_search.excluded_keywords", DefaultExcludedKeywords)
	v.SetDefault("job_search.remote_indicators", DefaultRemoteIndicators)
	v.SetDefault("job_search.onsite_indicators", DefaultOnsiteIndicators)
	v.SetDefault("job_search.remote_only", true)
	v.SetDefault("job_search.min_salary", 0)
	v.SetDefault("job_search.max_results_per_board", 25)
	v.SetDefault("job_search.country", "us")

	v.SetDefault("job_boards.adzuna", true)
	v.SetDefault("job_boards.reed", true)
	v.SetDefault("job_boards.linkedin", false)

	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.skills_temperature", 0.3)
	v.SetDefault("openai.max_tokens", 1024)

	v.SetDefault("resume.data_path", "assets/resume_data.json")
	v.SetDefault("resume.template_path", "")
	v.SetDefault("resume.output_dir", "generated_resumes")
	v.SetDefault("resume.processed_dir", "processed_jobs")
	v.SetDefault("resume.category_order", []string{
		"Programming Languages", "Frameworks & Libraries", "Databases",
		"Tools & Technologies", "Git", "Scrum",
	})
	v.SetDefault("resume.label_only_categories", []string{"Git", "Scrum"})

	v.SetDefault("google.spreadsheet_name", "Job Application Tracker")
	v.SetDefault("google.drive_folder_name", "Automated Job Application Resumes")

	v.SetDefault("rate_limits.search_per_minute", 20.0)
	v.SetDefault("rate_limits.completion_per_minute", 15.0)
	v.SetDefault("rate_limits.upload_per_minute", 10.0)
	v.SetDefault("rate_limits.fetch_timeout", "20s")
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Needs declares which optional capabilities the invoked command requires.
// Validation is per-need so `scrape` runs without an OpenAI key.
type Needs struct {
	Sources bool
	LLM     bool
	Google  bool
}

// Validate checks that every required credential and path is present.
// Called once at startup; any error aborts before a single job is processed.
func (c *Config) Validate(n Needs) error {
	var problems []string

	if n.Sources {
		if len(c.Keywords) == 0 {
			problems = append(problems, "job_search.keywords is empty")
		}
		if c.AdzunaEnabled && (c.AdzunaAppID == "" || c.AdzunaAppKey == "") {
			problems = append(problems, "adzuna enabled but ADZUNA_APP_ID/ADZUNA_APP_KEY unset")
		}
		if c.ReedEnabled && c.ReedAPIKey == "" {
			problems = append(problems, "reed enabled but REED_API_KEY unset")
		}
		if !c.AdzunaEnabled && !c.ReedEnabled && !c.LinkedInEnabled {
			problems = append(problems, "no job boards enabled")
		}
	}
	if n.LLM && c.OpenAIAPIKey == "" {
		problems = append(problems, "OPENAI_API_KEY unset")
	}
	if n.Google {
		if c.GoogleCredentials == "" {
			problems = append(problems, "GOOGLE_APPLICATION_CREDENTIALS unset")
		} else if _, err := os.Stat(c.GoogleCredentials); err != nil {
			problems = append(problems, fmt.Sprintf("credentials file %s unreadable", c.GoogleCredentials))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DataDir returns ~/.go_apply, creating it on first use.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home dir: %w", err)
	}
	dir := filepath.Join(home, ".go_apply")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("config: mkdir %s: %w", dir, err)
	}
	return dir, nil
}
