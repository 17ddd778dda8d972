package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Merge   MergeConfig   `yaml:"merge" envconfig:"MERGE"`
	Train   TrainConfig   `yaml:"train" envconfig:"TRAIN"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/policysim.log"`
}

// FetchConfig contains source acquisition configuration
type FetchConfig struct {
	Timeout          time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"60s"`
	RatePDFURL       string        `yaml:"rate_pdf_url" envconfig:"RATE_PDF_URL" default:"https://www.cbn.gov.ng/Out/2025/BSD/WEEKLY%20INTEREST%20RATES%20AS%20AT%20SEPT%2012TH%202025.pdf"`
	CPIArchiveURL    string        `yaml:"cpi_archive_url" envconfig:"CPI_ARCHIVE_URL" default:"https://microdata.nigerianstat.gov.ng/index.php/catalog/154/download/1286"`
	UnemploymentURL  string        `yaml:"unemployment_url" envconfig:"UNEMPLOYMENT_URL" default:"https://tradingeconomics.com/nigeria/unemployment-rate"`
	WorldBankBaseURL string        `yaml:"world_bank_base_url" envconfig:"WORLD_BANK_BASE_URL" default:"https://api.worldbank.org/v2"`
	CountryCode      string        `yaml:"country_code" envconfig:"COUNTRY_CODE" default:"NGA"`
	YearFrom         int           `yaml:"year_from" envconfig:"YEAR_FROM" default:"2000"`
	YearTo           int           `yaml:"year_to" envconfig:"YEAR_TO" default:"2024"`
	Headless         bool          `yaml:"headless" envconfig:"HEADLESS" default:"true"`
}

// MergeConfig contains dataset merge configuration
type MergeConfig struct {
	// ForecastYear is the year assigned to the synthetic row built from
	// sub-year CPI observations. It is the one period not yet covered by
	// the authoritative annual sources.
	ForecastYear int `yaml:"forecast_year" envconfig:"FORECAST_YEAR" default:"2025"`
}

// TrainConfig contains model training configuration
type TrainConfig struct {
	Alpha        float64 `yaml:"alpha" envconfig:"ALPHA" default:"1.0"`
	TestFraction float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" default:"0.2"`
	Seed         int64   `yaml:"seed" envconfig:"SEED" default:"42"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	WebDir  string `yaml:"web_dir" envconfig:"WEB_DIR" default:"web"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over the YAML file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("POLICYSIM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values onto the env-processed config. A file
// value applies only when its field was not set explicitly through the
// environment: envconfig fills struct defaults for absent variables, so a
// zero-value check cannot tell "unset" from "defaulted" and the presence
// of the variable itself is what decides.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if !envSet("SERVER_PORT") && fileConfig.Server.Port != 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if !envSet("SERVER_READ_TIMEOUT") && fileConfig.Server.ReadTimeout != 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if !envSet("SERVER_WRITE_TIMEOUT") && fileConfig.Server.WriteTimeout != 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if !envSet("SERVER_RATE_LIMIT_RPS") && fileConfig.Server.RateLimitRPS != 0 {
		envConfig.Server.RateLimitRPS = fileConfig.Server.RateLimitRPS
	}
	if !envSet("LOGGING_LEVEL") && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if !envSet("LOGGING_OUTPUT") && fileConfig.Logging.Output != "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if !envSet("FETCH_COUNTRY_CODE") && fileConfig.Fetch.CountryCode != "" {
		envConfig.Fetch.CountryCode = fileConfig.Fetch.CountryCode
	}
	if !envSet("FETCH_YEAR_FROM") && fileConfig.Fetch.YearFrom != 0 {
		envConfig.Fetch.YearFrom = fileConfig.Fetch.YearFrom
	}
	if !envSet("FETCH_YEAR_TO") && fileConfig.Fetch.YearTo != 0 {
		envConfig.Fetch.YearTo = fileConfig.Fetch.YearTo
	}
	if !envSet("MERGE_FORECAST_YEAR") && fileConfig.Merge.ForecastYear != 0 {
		envConfig.Merge.ForecastYear = fileConfig.Merge.ForecastYear
	}
	if !envSet("TRAIN_ALPHA") && fileConfig.Train.Alpha != 0 {
		envConfig.Train.Alpha = fileConfig.Train.Alpha
	}
	if !envSet("TRAIN_TEST_FRACTION") && fileConfig.Train.TestFraction != 0 {
		envConfig.Train.TestFraction = fileConfig.Train.TestFraction
	}
	if !envSet("TRAIN_SEED") && fileConfig.Train.Seed != 0 {
		envConfig.Train.Seed = fileConfig.Train.Seed
	}
	return envConfig
}

// envSet reports whether the prefixed variable is present in the
// environment
func envSet(suffix string) bool {
	_, ok := os.LookupEnv("POLICYSIM_" + suffix)
	return ok
}

// getConfigFilePath returns the config file path, honoring the
// POLICYSIM_CONFIG override.
func getConfigFilePath() string {
	if path := os.Getenv("POLICYSIM_CONFIG"); path != "" {
		return path
	}
	return "policysim.yaml"
}

// validate checks configuration for invalid values
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Train.TestFraction <= 0 || c.Train.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0, 1), got %f", c.Train.TestFraction)
	}
	if c.Train.Alpha < 0 {
		return fmt.Errorf("ridge alpha must be non-negative, got %f", c.Train.Alpha)
	}
	if c.Fetch.YearFrom > c.Fetch.YearTo {
		return fmt.Errorf("year range inverted: %d > %d", c.Fetch.YearFrom, c.Fetch.YearTo)
	}
	return nil
}
