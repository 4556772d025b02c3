package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"RISScanner/internal/domain"
)

const (
	configPathEnv = "RIS_SCANNER_CONFIG"
	databaseEnv   = "RIS_SCANNER_DB"
	logLevelEnv   = "RIS_SCANNER_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging        LoggingConfig        `yaml:"logging"`
	HTTP           HTTPConfig           `yaml:"http"`
	Discovery      DiscoveryConfig      `yaml:"discovery"`
	Extraction     ExtractionConfig     `yaml:"extraction"`
	Database       DatabaseConfig       `yaml:"database"`
	Municipalities []MunicipalityConfig `yaml:"municipalities"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig tunes the shared fetch client and the download retry loop.
type HTTPConfig struct {
	UserAgent         string   `yaml:"userAgent"`
	ProbeTimeout      Duration `yaml:"probeTimeout"`
	PageTimeout       Duration `yaml:"pageTimeout"`
	DownloadTimeout   Duration `yaml:"downloadTimeout"`
	MaxConcurrent     int      `yaml:"maxConcurrent"`
	RequestsPerSecond float64  `yaml:"requestsPerSecond"`
	MaxAttempts       int      `yaml:"maxAttempts"`
	BackoffBase       Duration `yaml:"backoffBase"`
}

// DiscoveryConfig carries the discovery policy constants. The weights are
// heuristics without an authoritative source; they are configurable so
// deployments can tune them instead of patching code.
type DiscoveryConfig struct {
	MinConfidence float64 `yaml:"minConfidence"`
	MarkerWeight  float64 `yaml:"markerWeight"`
}

// ExtractionConfig bounds per-municipality extraction. Downloads are on by
// default; SkipDownloads turns the byte-fetch stage off.
type ExtractionConfig struct {
	MaxMeetings       int  `yaml:"maxMeetings"`
	SkipDownloads     bool `yaml:"skipDownloads"`
	MaxMunicipalities int  `yaml:"maxMunicipalities"`
}

// DatabaseConfig locates the optional session store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MunicipalityConfig is one input record. OfficialName is the full formal
// name ("Stadt Musterstadt") when it differs from the short display name.
type MunicipalityConfig struct {
	Name         string `yaml:"name"`
	OfficialName string `yaml:"officialName"`
	State        string `yaml:"state"`
	Level        string `yaml:"level"`
	Website      string `yaml:"website"`
}

// Municipality converts the config record to the domain type.
func (m MunicipalityConfig) Municipality() domain.Municipality {
	official := m.OfficialName
	if official == "" {
		official = m.Name
	}
	return domain.Municipality{
		Name:                m.Name,
		OfficialName:        official,
		State:               m.State,
		AdministrativeLevel: m.Level,
		Website:             m.Website,
	}
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.ProbeTimeout > 0 {
		base.HTTP.ProbeTimeout = override.HTTP.ProbeTimeout
	}
	if override.HTTP.PageTimeout > 0 {
		base.HTTP.PageTimeout = override.HTTP.PageTimeout
	}
	if override.HTTP.DownloadTimeout > 0 {
		base.HTTP.DownloadTimeout = override.HTTP.DownloadTimeout
	}
	if override.HTTP.MaxConcurrent > 0 {
		base.HTTP.MaxConcurrent = override.HTTP.MaxConcurrent
	}
	if override.HTTP.RequestsPerSecond > 0 {
		base.HTTP.RequestsPerSecond = override.HTTP.RequestsPerSecond
	}
	if override.HTTP.MaxAttempts > 0 {
		base.HTTP.MaxAttempts = override.HTTP.MaxAttempts
	}
	if override.HTTP.BackoffBase > 0 {
		base.HTTP.BackoffBase = override.HTTP.BackoffBase
	}

	if override.Discovery.MinConfidence > 0 {
		base.Discovery.MinConfidence = override.Discovery.MinConfidence
	}
	if override.Discovery.MarkerWeight > 0 {
		base.Discovery.MarkerWeight = override.Discovery.MarkerWeight
	}

	if override.Extraction.MaxMeetings > 0 {
		base.Extraction.MaxMeetings = override.Extraction.MaxMeetings
	}
	if override.Extraction.MaxMunicipalities > 0 {
		base.Extraction.MaxMunicipalities = override.Extraction.MaxMunicipalities
	}
	if override.Extraction.SkipDownloads {
		base.Extraction.SkipDownloads = true
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if len(override.Municipalities) > 0 {
		base.Municipalities = override.Municipalities
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		HTTP: HTTPConfig{
			UserAgent:         "Mozilla/5.0 (compatible; RISScanner/1.0)",
			ProbeTimeout:      Duration(10 * time.Second),
			PageTimeout:       Duration(30 * time.Second),
			DownloadTimeout:   Duration(60 * time.Second),
			MaxConcurrent:     5,
			RequestsPerSecond: 2,
			MaxAttempts:       3,
			BackoffBase:       Duration(500 * time.Millisecond),
		},
		Discovery: DiscoveryConfig{
			MinConfidence: 0.3,
			MarkerWeight:  0.35,
		},
		Extraction: ExtractionConfig{
			MaxMeetings:       50,
			MaxMunicipalities: 4,
		},
	}
}
