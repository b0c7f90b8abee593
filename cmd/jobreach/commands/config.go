package commands

import (
	"time"
	"jobreach/internal/deliver"
	"jobreach/internal/feed"
	"jobreach/lib/configutil"
)

type IdentityConfig struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
}

type TemplateConfig struct {
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	DefaultJobTitle string `json:"default_job_title"`
}

type BrowserConfig struct {
	Headless bool `json:"headless"`
	// path to a chromium binary, empty lets the launcher resolve one
	Bin string `json:"bin"`
	// seconds to pause after each scroll
	ScrollPauseSeconds int `json:"scroll_pause_seconds"`
}

type Config struct {
	Queries []string `json:"queries"`
	// one of: past-24h, past-week, past-month. empty disables filtering.
	DateFilter string `json:"date_filter"`
	// stop after this many posts per query, 0 means unbounded
	MaxPosts          int `json:"max_posts"`
	StallThreshold    int `json:"stall_threshold"`
	MaxScrollAttempts int `json:"max_scroll_attempts"`

	Smtp      deliver.SmtpConfig `json:"smtp"`
	Identity  IdentityConfig     `json:"identity"`
	Templates TemplateConfig     `json:"templates"`

	// exact resume path; when it does not exist ResumeDir is searched
	// for the first .pdf instead
	ResumePath string `json:"resume_path"`
	ResumeDir  string `json:"resume_dir"`

	LedgerPath   string `json:"ledger_path"`
	ArtifactPath string `json:"artifact_path"`
	CookiePath   string `json:"cookie_path"`

	Browser BrowserConfig `json:"browser"`
}

func (c Config) withDefaults() Config {
	if c.LedgerPath == "" {
		c.LedgerPath = "sent_emails.txt"
	}
	if c.ArtifactPath == "" {
		c.ArtifactPath = "candidates.db"
	}
	if c.CookiePath == "" {
		c.CookiePath = "linkedin_cookies.json"
	}
	if c.ResumeDir == "" {
		c.ResumeDir = "."
	}
	return c
}

func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

func (c Config) queries() []feed.Query {
	filter := feed.ParseDateFilter(c.DateFilter)
	out := make([]feed.Query, 0, len(c.Queries))
	for _, text := range c.Queries {
		out = append(out, feed.Query{Text: text, Filter: filter})
	}
	return out
}

func (c Config) traversal() feed.Options {
	return feed.Options{
		StallThreshold:    c.StallThreshold,
		MaxPosts:          c.MaxPosts,
		MaxScrollAttempts: c.MaxScrollAttempts,
	}
}

func (c Config) deliveryOptions() deliver.Options {
	return deliver.Options{
		Templates: deliver.TemplateSet{
			Subject:         c.Templates.Subject,
			Body:            c.Templates.Body,
			DefaultJobTitle: c.Templates.DefaultJobTitle,
		},
		Identity: deliver.Identity{
			Name:     c.Identity.Name,
			Email:    c.Identity.Email,
			Phone:    c.Identity.Phone,
			LinkedIn: c.Identity.LinkedIn,
		},
		ResumePath: c.ResumePath,
		ResumeDir:  c.ResumeDir,
	}
}

func (c Config) scrollPause() time.Duration {
	return time.Duration(c.Browser.ScrollPauseSeconds) * time.Second
}
