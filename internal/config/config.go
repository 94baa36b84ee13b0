// Package config loads tuning knobs from an optional config file and
// REPSCOUT_* environment variables. CLI flags override everything.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Output  OutputConfig  `mapstructure:"output"`
}

// CrawlerConfig holds crawl-tuning parameters
type CrawlerConfig struct {
	MaxDepth        int           `mapstructure:"max_depth"`
	MaxLinksPerPage int           `mapstructure:"max_links_per_page"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	PageTimeout     time.Duration `mapstructure:"page_timeout"`
}

// OracleConfig holds completion-service parameters
type OracleConfig struct {
	Provider          string  `mapstructure:"provider"`
	Model             string  `mapstructure:"model"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// OutputConfig holds export parameters
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from path (or ./repscout.yaml when empty)
// plus the environment. A missing file is fine; a malformed one is not.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("crawler.max_depth", 2)
	v.SetDefault("crawler.max_links_per_page", 50)
	v.SetDefault("crawler.settle_delay", 2*time.Second)
	v.SetDefault("crawler.page_timeout", 30*time.Second)
	v.SetDefault("oracle.provider", "claude")
	v.SetDefault("oracle.model", "")
	v.SetDefault("oracle.requests_per_second", 2.0)
	v.SetDefault("output.dir", "rep_firm_data")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("repscout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REPSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if path != "" || !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
