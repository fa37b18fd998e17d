package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Zachkp/folio/internal/content"
)

type Config struct {
	Port           string        `mapstructure:"port"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	FetchPolicy    string        `mapstructure:"fetch_policy"`
	SnapshotTTL    time.Duration `mapstructure:"snapshot_ttl"`
	StatusReset    time.Duration `mapstructure:"status_reset"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	DatabasePath   string        `mapstructure:"database_path"`
	AdminToken     string        `mapstructure:"admin_token"`
	TemplatesDir   string        `mapstructure:"templates_dir"`
	OwnerName      string        `mapstructure:"owner_name"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`

	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    string `mapstructure:"smtp_port"`
	SMTPUser    string `mapstructure:"smtp_user"`
	SMTPPass    string `mapstructure:"smtp_pass"`
	NotifyEmail string `mapstructure:"notify_email"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("api_base_url", "")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("fetch_policy", string(content.PolicyAtomic))
	v.SetDefault("snapshot_ttl", 60*time.Second)
	v.SetDefault("status_reset", 5*time.Second)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("database_path", "portfolio.db")
	v.SetDefault("admin_token", "")
	v.SetDefault("templates_dir", "")
	v.SetDefault("owner_name", "Ananthakrishnan S")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", "")
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("notify_email", "")
}

// BindEnv makes every key readable from PORTFOLIO_<KEY>. The bare PORT,
// API_BASE_URL and SMTP_* variables used by common hosts are honoured too.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bare := map[string][]string{
		"port":         {"PORTFOLIO_PORT", "PORT"},
		"api_base_url": {"PORTFOLIO_API_BASE_URL", "API_BASE_URL"},
		"admin_token":  {"PORTFOLIO_ADMIN_TOKEN", "ADMIN_TOKEN"},
		"smtp_host":    {"PORTFOLIO_SMTP_HOST", "SMTP_HOST"},
		"smtp_port":    {"PORTFOLIO_SMTP_PORT", "SMTP_PORT"},
		"smtp_user":    {"PORTFOLIO_SMTP_USER", "SMTP_USER"},
		"smtp_pass":    {"PORTFOLIO_SMTP_PASS", "SMTP_PASS"},
		"notify_email": {"PORTFOLIO_NOTIFY_EMAIL", "TO_EMAIL"},
	}
	for key, envs := range bare {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url %q must be an http(s) URL", c.APIBaseURL)
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if _, err := content.ParsePolicy(c.FetchPolicy); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.StatusReset <= 0 {
		return errors.New("status_reset must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.SnapshotTTL < 0 {
		return errors.New("snapshot_ttl must be non-negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}

// Policy returns the parsed fetch policy. Validate has already vetted it.
func (c *Config) Policy() content.Policy {
	p, _ := content.ParsePolicy(c.FetchPolicy)
	return p
}
