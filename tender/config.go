package tender

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the client settings. Values come from bidanalyser.yaml
// (working directory or ~/.config/bidanalyser) overridden by
// BIDANALYSER_* environment variables; missing files fall back to the
// defaults below.
type Config struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	TargetLang  string `mapstructure:"target_lang"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	ReportFile  string `mapstructure:"report_file"`
	ReportsDir  string `mapstructure:"reports_dir"`
}

const defaultReportFile = "Bid_Analysis_Report.pdf"

// LoadConfig reads configuration from the given path, or from the
// default locations when the path is empty.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("api_key", "")
	v.SetDefault("target_lang", "English")
	v.SetDefault("timeout_secs", 120)
	v.SetDefault("report_file", defaultReportFile)
	v.SetDefault("reports_dir", ".")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bidanalyser")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/bidanalyser")
	}
	v.SetEnvPrefix("BIDANALYSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values so a sparse config file still
// yields a working client.
func (c *Config) applyDefaults() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if strings.TrimSpace(c.TargetLang) == "" {
		c.TargetLang = "English"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 120
	}
	if strings.TrimSpace(c.ReportFile) == "" {
		c.ReportFile = defaultReportFile
	}
	if strings.TrimSpace(c.ReportsDir) == "" {
		c.ReportsDir = "."
	}
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}
