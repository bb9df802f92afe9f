package config

import "time"

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	PostgresDSN       string        `env:"POSTGRES_DSN,required"`
	MaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// LLMConfig holds generative AI provider settings.
// An empty APIKey, or the literal "mock", selects the offline mock client.
type LLMConfig struct {
	APIKey           string        `env:"LLM_API_KEY"`
	BaseURL          string        `env:"LLM_BASE_URL"`
	Model            string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	TranscribeModel  string        `env:"LLM_TRANSCRIBE_MODEL" envDefault:"whisper-1"`
	TTSModel         string        `env:"LLM_TTS_MODEL" envDefault:"tts-1"`
	TTSVoice         string        `env:"LLM_TTS_VOICE" envDefault:"nova"`
	CircuitThreshold int           `env:"LLM_CIRCUIT_THRESHOLD" envDefault:"5"`
	CircuitTimeout   time.Duration `env:"LLM_CIRCUIT_TIMEOUT" envDefault:"1m"`
	RateLimitRPS     int           `env:"RATE_LIMIT_RPS" envDefault:"1"`
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	Port             int           `env:"HTTP_PORT" envDefault:"8080"`
	RateLimitPerMin  int           `env:"HTTP_RATE_LIMIT_PER_MIN" envDefault:"120"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes     int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"26214400"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	CatalogPath        string        `env:"CATALOG_PATH"`
	HistoryLookback    time.Duration `env:"HISTORY_LOOKBACK" envDefault:"720h"`
	HistoryLimit       int           `env:"HISTORY_LIMIT" envDefault:"100"`
	BatchEmotionWindow int           `env:"BATCH_EMOTION_WINDOW" envDefault:"10"`
	DefaultTimeOfDay   string        `env:"DEFAULT_TIME_OF_DAY" envDefault:"afternoon"`
	DefaultVenue       string        `env:"DEFAULT_VENUE" envDefault:"mobile"`
}

// MaintenanceConfig holds background job settings.
// A zero EmotionRetention keeps emotion records forever.
type MaintenanceConfig struct {
	EmotionRetention   time.Duration `env:"EMOTION_RETENTION" envDefault:"8760h"`
	RetentionInterval  time.Duration `env:"RETENTION_INTERVAL" envDefault:"1h"`
	PopularityWindow   time.Duration `env:"POPULARITY_WINDOW" envDefault:"24h"`
	PopularityInterval time.Duration `env:"POPULARITY_INTERVAL" envDefault:"5m"`
	JobTimeout         time.Duration `env:"MAINTENANCE_JOB_TIMEOUT" envDefault:"5m"`
}
