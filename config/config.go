// Package config holds the settings shared by every genebank command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"genebank/kmer"

	"github.com/mitchellh/mapstructure"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GENEBANK_DEGREE.
	EnvPrefix   = "GENEBANK_"
	EnvPath     = EnvPrefix + "CONFIG"
	DefaultPath = "./genebank.json"
)

// Config holds tree parameters and logging settings.
type Config struct {
	Degree     int  `json:"degree"` // 0 picks the degree that fills a 4 KiB block
	K          int  `json:"k"`
	CacheSize  int  `json:"cache_size"` // 0 disables the node cache
	SyncWrites bool `json:"sync_writes"`

	LogLevel      string `json:"log_level"`
	LogFormat     string `json:"log_format"` // auto, console or json
	LogFile       string `json:"log_file"`
	LogMaxSizeMB  int    `json:"log_max_size_mb"`
	LogMaxBackups int    `json:"log_max_backups"`
	LogMaxAgeDays int    `json:"log_max_age_days"`
	LogCompress   bool   `json:"log_compress"`
}

// Default returns a default config.
func Default() *Config {
	return &Config{
		Degree:        0,
		K:             6,
		CacheSize:     0,
		LogLevel:      "info",
		LogFormat:     "auto",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	}
}

// Load reads path over the defaults. An empty path falls back to
// GENEBANK_CONFIG, then ./genebank.json; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if envPath := os.Getenv(EnvPath); envPath != "" {
			path = envPath
		} else {
			path = DefaultPath
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}
	if err := decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func decode(raw map[string]interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// ApplyEnv overrides fields from prefixed environment variables.
func (cfg *Config) ApplyEnv(prefix string) {
	cfg.Degree = getenvInt(prefix+"DEGREE", cfg.Degree)
	cfg.K = getenvInt(prefix+"K", cfg.K)
	cfg.CacheSize = getenvInt(prefix+"CACHE_SIZE", cfg.CacheSize)
	cfg.SyncWrites = getenvBool(prefix+"SYNC_WRITES", cfg.SyncWrites)

	cfg.LogLevel = getenvStr(prefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvStr(prefix+"LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getenvStr(prefix+"LOG_FILE", cfg.LogFile)
	cfg.LogMaxSizeMB = getenvInt(prefix+"LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB)
	cfg.LogMaxBackups = getenvInt(prefix+"LOG_MAX_BACKUPS", cfg.LogMaxBackups)
	cfg.LogMaxAgeDays = getenvInt(prefix+"LOG_MAX_AGE_DAYS", cfg.LogMaxAgeDays)
	cfg.LogCompress = getenvBool(prefix+"LOG_COMPRESS", cfg.LogCompress)
}

// Validate reports every bad field at once.
func (cfg *Config) Validate() error {
	var bad []string
	if cfg.Degree < 0 || cfg.Degree == 1 {
		bad = append(bad, fmt.Sprintf("degree(%d)", cfg.Degree))
	}
	if !kmer.ValidLength(cfg.K) {
		bad = append(bad, fmt.Sprintf("k(%d)", cfg.K))
	}
	if cfg.CacheSize < 0 {
		bad = append(bad, fmt.Sprintf("cache_size(%d)", cfg.CacheSize))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "auto", "console", "json":
	default:
		bad = append(bad, fmt.Sprintf("log_format(%q)", cfg.LogFormat))
	}
	if cfg.LogFile != "" && cfg.LogMaxSizeMB <= 0 {
		bad = append(bad, fmt.Sprintf("log_max_size_mb(%d)", cfg.LogMaxSizeMB))
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(bad, ", "))
	}
	return nil
}

func (cfg *Config) String() string {
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}

func (cfg *Config) Dump(w io.Writer) {
	data, _ := json.MarshalIndent(cfg, "", "  ")
	_, _ = w.Write(data)
}

// ----------------------------------------------------
// Env helpers
// ----------------------------------------------------

func getenvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return fallback
}
