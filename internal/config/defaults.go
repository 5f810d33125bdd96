package config

import (
	"os"
	"strconv"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "v1"
	}

	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.ReadTimeoutMs == 0 {
		s.ReadTimeoutMs = 10000
	}
	if s.IdleTimeoutMs == 0 {
		s.IdleTimeoutMs = 60000
	}
	if s.ShutdownMs == 0 {
		s.ShutdownMs = 15000
	}

	w := &cfg.Wiki
	if w.BaseURL == "" {
		w.BaseURL = "https://en.wikipedia.org/w/api.php"
	}
	if w.UserAgent == "" {
		w.UserAgent = "topicexplorer/1.0 (https://github.com/gyaneshwarpardhi/topicexplorer)"
	}
	if w.TimeoutMs == 0 {
		w.TimeoutMs = 10000
	}
	if w.RateLimit == 0 {
		w.RateLimit = 5
	}
	if w.Burst == 0 {
		w.Burst = 2
	}
	if w.MaxLinkPages == 0 {
		w.MaxLinkPages = 4
	}
	b := &w.Breaker
	if b.MaxRequests == 0 {
		b.MaxRequests = 3
	}
	if b.IntervalMs == 0 {
		b.IntervalMs = 30000
	}
	if b.TimeoutMs == 0 {
		b.TimeoutMs = 30000
	}
	if b.FailureThreshold == 0 {
		b.FailureThreshold = 0.6
	}
	if b.MinRequests == 0 {
		b.MinRequests = 5
	}

	e := &cfg.Explorer
	if e.DefaultLimit == 0 {
		e.DefaultLimit = 500
	}
	if e.DefaultPreference == "" {
		e.DefaultPreference = "default"
	}
	if e.ActionQueueDepth == 0 {
		e.ActionQueueDepth = 256
	}
	if e.LookupWorkers == 0 {
		e.LookupWorkers = 2
	}
	if e.LookupQueueDepth == 0 {
		e.LookupQueueDepth = 8
	}
	if e.LookupTimeoutMs == 0 {
		e.LookupTimeoutMs = 20000
	}

	l := &cfg.Log
	if l.Level == "" {
		l.Level = "info"
	}
	if l.MaxSizeMB == 0 {
		l.MaxSizeMB = 10
	}
	if l.MaxBackups == 0 {
		l.MaxBackups = 5
	}
	if l.MaxAgeDays == 0 {
		l.MaxAgeDays = 30
	}
}

// Environment variables that override file settings.
const (
	EnvAddr          = "EXPLORER_ADDR"
	EnvWikiBaseURL   = "EXPLORER_WIKI_BASE_URL"
	EnvWikiUserAgent = "EXPLORER_WIKI_USER_AGENT"
	EnvLogLevel      = "EXPLORER_LOG_LEVEL"
	EnvLogFile       = "EXPLORER_LOG_FILE"
	EnvDefaultLimit  = "EXPLORER_DEFAULT_LIMIT"
)

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvWikiBaseURL); v != "" {
		cfg.Wiki.BaseURL = v
	}
	if v := os.Getenv(EnvWikiUserAgent); v != "" {
		cfg.Wiki.UserAgent = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv(EnvDefaultLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Explorer.DefaultLimit = n
		}
	}
}
