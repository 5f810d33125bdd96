package config

// Config is the top-level YAML structure.
type Config struct {
	Version  string       `yaml:"version" validate:"required"`
	Server   ServerConf   `yaml:"server"`
	Wiki     WikiConf     `yaml:"wiki"`
	Explorer ExplorerConf `yaml:"explorer"`
	Log      LogConf      `yaml:"log"`
}

// ServerConf holds HTTP listener settings. A zero write timeout keeps the
// view stream open indefinitely. CORS is enabled only when AllowedOrigins
// is non-empty.
type ServerConf struct {
	Addr           string   `yaml:"addr" validate:"required"`
	ReadTimeoutMs  int      `yaml:"read_timeout_ms" validate:"gte=0"`
	WriteTimeoutMs int      `yaml:"write_timeout_ms" validate:"gte=0"`
	IdleTimeoutMs  int      `yaml:"idle_timeout_ms" validate:"gte=0"`
	ShutdownMs     int      `yaml:"shutdown_ms" validate:"gte=0"`
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,required"`
}

// WikiConf configures the encyclopedia API client.
type WikiConf struct {
	BaseURL      string      `yaml:"base_url" validate:"required,url"`
	UserAgent    string      `yaml:"user_agent" validate:"required"`
	TimeoutMs    int         `yaml:"timeout_ms" validate:"gt=0"`
	RateLimit    float64     `yaml:"rate_limit" validate:"gt=0"` // requests per second
	Burst        int         `yaml:"burst" validate:"gt=0"`
	MaxLinkPages int         `yaml:"max_link_pages" validate:"gt=0"`
	Breaker      BreakerConf `yaml:"breaker"`
}

// BreakerConf configures the circuit breaker around API calls.
type BreakerConf struct {
	MaxRequests      uint32  `yaml:"max_requests" validate:"gt=0"`
	IntervalMs       int     `yaml:"interval_ms" validate:"gte=0"`
	TimeoutMs        int     `yaml:"timeout_ms" validate:"gt=0"`
	FailureThreshold float64 `yaml:"failure_threshold" validate:"gt=0,lte=1"`
	MinRequests      uint32  `yaml:"min_requests" validate:"gt=0"`
}

// ExplorerConf holds session defaults and concurrency settings. Changes
// take effect on the next start.
type ExplorerConf struct {
	DefaultLimit      int    `yaml:"default_limit" validate:"gt=0"`
	DefaultPreference string `yaml:"default_preference" validate:"oneof=default random"`
	ActionQueueDepth  int    `yaml:"action_queue_depth" validate:"gt=0"`
	LookupWorkers     int    `yaml:"lookup_workers" validate:"gt=0"`
	LookupQueueDepth  int    `yaml:"lookup_queue_depth" validate:"gt=0"`
	LookupTimeoutMs   int    `yaml:"lookup_timeout_ms" validate:"gt=0"`
}

// LogConf configures the logger. File is optional; when set, JSON logs are
// also written there with rotation.
type LogConf struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
	MaxSizeMB   int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups  int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays  int    `yaml:"max_age_days" validate:"gte=0"`
	Compress    bool   `yaml:"compress"`
}
