package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for resumefit.
type Config struct {
	Service      ServiceConfig
	Views        []ViewConfig
	DefaultView  string
	Download     DownloadConfig
	History      HistoryConfig
	Notification NotificationConfig
}

// ServiceConfig locates the analysis service. BaseURL is resolved once at
// startup and injected everywhere a URL is built.
type ServiceConfig struct {
	BaseURL     string        // e.g. http://localhost:5000, no trailing slash
	AnalyzePath string        // defaults to /analyze
	Timeout     time.Duration // per-request timeout
}

// AnalyzeURL returns the full URL of the analysis endpoint.
func (s ServiceConfig) AnalyzeURL() string {
	return s.BaseURL + s.AnalyzePath
}

// Link strategies for building the report download URL.
const (
	LinkBasename = "basename" // <base>/download/<file name>
	LinkVerbatim = "verbatim" // <base>/<report_path>
)

// Score scales for rendering match_score.
const (
	ScoreRaw     = "raw"
	ScorePercent = "percent"
)

// ViewConfig parameterizes one submission-and-render view.
type ViewConfig struct {
	Name         string `yaml:"name"`
	BusyGuard    bool   `yaml:"busy_guard"`    // reject submits while one is in flight
	ShowScore    bool   `yaml:"show_score"`    // render and require match_score
	LinkStrategy string `yaml:"link_strategy"` // "basename" or "verbatim"
	ScoreScale   string `yaml:"score_scale"`   // "raw" or "percent"
}

// DownloadConfig controls report downloads.
type DownloadConfig struct {
	Dir        string
	MaxRetries int
	BaseDelay  time.Duration
}

// HistoryConfig controls the optional SQLite history of analyses.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

const (
	defaultBaseURL     = "http://localhost:5000"
	defaultAnalyzePath = "/analyze"
	defaultHistoryPath = "history.db"
	defaultDownloadDir = "reports"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Service      rawServiceConfig   `yaml:"service"`
	Views        []ViewConfig       `yaml:"views"`
	DefaultView  string             `yaml:"default_view"`
	Download     rawDownloadConfig  `yaml:"download"`
	History      HistoryConfig      `yaml:"history"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawServiceConfig struct {
	BaseURL     string `yaml:"base_url"`
	AnalyzePath string `yaml:"analyze_path"`
	Timeout     string `yaml:"timeout"`
}

type rawDownloadConfig struct {
	Dir        string `yaml:"dir"`
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// LoadDotEnv loads a .env file into the process environment if present, so
// ${VARS} in the YAML can reference it. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. Environment variables are expanded
// before parsing.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := 60 * time.Second
	if raw.Service.Timeout != "" {
		d, err := time.ParseDuration(raw.Service.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse service.timeout %q: %w", raw.Service.Timeout, err)
		}
		timeout = d
	}

	baseDelay := 2 * time.Second
	if raw.Download.BaseDelay != "" {
		d, err := time.ParseDuration(raw.Download.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse download.base_delay %q: %w", raw.Download.BaseDelay, err)
		}
		baseDelay = d
	}

	maxRetries := 2
	if raw.Download.MaxRetries != nil {
		maxRetries = *raw.Download.MaxRetries
	}

	baseURL := strings.TrimRight(raw.Service.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	analyzePath := raw.Service.AnalyzePath
	if analyzePath == "" {
		analyzePath = defaultAnalyzePath
	}
	if !strings.HasPrefix(analyzePath, "/") {
		analyzePath = "/" + analyzePath
	}

	views := raw.Views
	if len(views) == 0 {
		views = DefaultViews()
	}
	for i := range views {
		if views[i].LinkStrategy == "" {
			views[i].LinkStrategy = LinkBasename
		}
		if views[i].ScoreScale == "" {
			views[i].ScoreScale = ScoreRaw
		}
	}

	defaultView := raw.DefaultView
	if defaultView == "" {
		defaultView = views[0].Name
	}

	history := raw.History
	if history.Path == "" {
		history.Path = defaultHistoryPath
	}

	downloadDir := raw.Download.Dir
	if downloadDir == "" {
		downloadDir = defaultDownloadDir
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	cfg := &Config{
		Service: ServiceConfig{
			BaseURL:     baseURL,
			AnalyzePath: analyzePath,
			Timeout:     timeout,
		},
		Views:       views,
		DefaultView: defaultView,
		Download: DownloadConfig{
			Dir:        downloadDir,
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		History:      history,
		Notification: notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		// The built-in defaults always validate.
		panic(err)
	}
	return cfg
}

// DefaultViews mirrors the two screens of the original web form: a guarded
// view that strips the report directory, and a score-aware view that links
// the report path as returned.
func DefaultViews() []ViewConfig {
	return []ViewConfig{
		{Name: "home", BusyGuard: true, ShowScore: false, LinkStrategy: LinkBasename, ScoreScale: ScoreRaw},
		{Name: "classic", BusyGuard: false, ShowScore: true, LinkStrategy: LinkVerbatim, ScoreScale: ScoreRaw},
	}
}

// View returns the named view. An empty name selects DefaultView.
func (c *Config) View(name string) (ViewConfig, error) {
	if name == "" {
		name = c.DefaultView
	}
	for _, v := range c.Views {
		if v.Name == name {
			return v, nil
		}
	}
	return ViewConfig{}, fmt.Errorf("unknown view %q", name)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service.base_url must be an http(s) URL, got %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout <= 0 {
		return fmt.Errorf("service.timeout must be positive, got %v", cfg.Service.Timeout)
	}

	seen := make(map[string]bool)
	for _, v := range cfg.Views {
		if v.Name == "" {
			return fmt.Errorf("views: every view needs a name")
		}
		if seen[v.Name] {
			return fmt.Errorf("views: duplicate view name %q", v.Name)
		}
		seen[v.Name] = true
		if v.LinkStrategy != LinkBasename && v.LinkStrategy != LinkVerbatim {
			return fmt.Errorf("views[%s].link_strategy must be %q or %q, got %q", v.Name, LinkBasename, LinkVerbatim, v.LinkStrategy)
		}
		if v.ScoreScale != ScoreRaw && v.ScoreScale != ScorePercent {
			return fmt.Errorf("views[%s].score_scale must be %q or %q, got %q", v.Name, ScoreRaw, ScorePercent, v.ScoreScale)
		}
	}
	if !seen[cfg.DefaultView] {
		return fmt.Errorf("default_view %q is not a configured view", cfg.DefaultView)
	}

	if cfg.Download.MaxRetries < 0 {
		return fmt.Errorf("download.max_retries must not be negative, got %d", cfg.Download.MaxRetries)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	} else if cfg.Notification.Type != "log" {
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
