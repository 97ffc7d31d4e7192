package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Default output names.
const (
	DefaultFeaturesFile  = "accident_cause_hotspots_features.csv"
	DefaultHeatmapFile   = "accident_cause_contribution_heatmap.png"
	DefaultDashboardFile = "accident_cause_hotspot_dashboard.png"
	DefaultFocusRegion   = "Mumbai"
	DefaultKafkaTopic    = "accident-hotspot-features"
)

// Config holds all settings. Values come from defaults, then the optional
// YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// FocusRegion is the region drawn in the dashboard's radar panel.
	FocusRegion string `yaml:"focus_region"`

	OutputDir     string `yaml:"output_dir"`
	FeaturesFile  string `yaml:"features_file"`
	HeatmapFile   string `yaml:"heatmap_file"`
	DashboardFile string `yaml:"dashboard_file"`
	// XLSXFile enables the workbook export when non-empty.
	XLSXFile string `yaml:"xlsx_file"`
	// OpenReports launches the host's default viewer on the rendered charts.
	// On by default; hosts without a viewer log a warning and carry on.
	OpenReports bool `yaml:"open_reports"`

	// MetricsTextfile enables a Prometheus textfile dump after each run.
	MetricsTextfile string `yaml:"metrics_textfile"`

	// HTTPAddr switches to serve mode when non-empty.
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"-"`

	// Optional sinks; empty disables them.
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	DatabaseURL  string   `yaml:"-"`

	// ConfigFile is the YAML file the config was read from, if any.
	ConfigFile string `yaml:"-"`
}

// Load reads configuration from CONFIG_FILE (when set) and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = shutdownTimeout

	cfg.LogLevel = sharedcfg.EnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = sharedcfg.EnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.FocusRegion = sharedcfg.EnvOrDefault("FOCUS_REGION", cfg.FocusRegion)
	cfg.OutputDir = sharedcfg.EnvOrDefault("OUTPUT_DIR", cfg.OutputDir)
	cfg.FeaturesFile = sharedcfg.EnvOrDefault("FEATURES_FILE", cfg.FeaturesFile)
	cfg.HeatmapFile = sharedcfg.EnvOrDefault("HEATMAP_FILE", cfg.HeatmapFile)
	cfg.DashboardFile = sharedcfg.EnvOrDefault("DASHBOARD_FILE", cfg.DashboardFile)
	cfg.XLSXFile = sharedcfg.EnvOrDefault("XLSX_FILE", cfg.XLSXFile)
	cfg.MetricsTextfile = sharedcfg.EnvOrDefault("METRICS_TEXTFILE", cfg.MetricsTextfile)
	cfg.HTTPAddr = sharedcfg.EnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.KafkaTopic = sharedcfg.EnvOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(v)
	}
	if v := os.Getenv("REPORT_OPEN"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid REPORT_OPEN")
		}
		cfg.OpenReports = open
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		FocusRegion:   DefaultFocusRegion,
		OutputDir:     ".",
		FeaturesFile:  DefaultFeaturesFile,
		HeatmapFile:   DefaultHeatmapFile,
		DashboardFile: DefaultDashboardFile,
		KafkaTopic:    DefaultKafkaTopic,
		OpenReports:   true,
	}
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.FeaturesFile == "" {
		return errors.New("FEATURES_FILE is required")
	}
	if cfg.HeatmapFile == "" {
		return errors.New("HEATMAP_FILE is required")
	}
	if cfg.DashboardFile == "" {
		return errors.New("DASHBOARD_FILE is required")
	}
	if cfg.FocusRegion == "" {
		return errors.New("FOCUS_REGION is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return errors.New("LOG_FORMAT must be json or text")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}

// KafkaEnabled reports whether the Kafka publisher is configured.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// DatabaseEnabled reports whether the Postgres store is configured.
func (c *Config) DatabaseEnabled() bool { return c.DatabaseURL != "" }
