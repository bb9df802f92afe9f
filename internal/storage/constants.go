package db

import "time"

// Pool defaults
const (
	defaultMaxConns          int32 = 25
	defaultMinConns          int32 = 5
	defaultMaxConnIdleTime         = 30 * time.Minute
	defaultMaxConnLifetime         = time.Hour
	defaultHealthCheckPeriod       = time.Minute
)

// Connection retry settings
const (
	maxConnectAttempts    = 10
	connectRetryBaseDelay = 500 * time.Millisecond
	connectRetryMaxDelay  = 10 * time.Second
)

// Advisory lock ids.
const (
	migrationLockID int64 = 2000
	pruneLockID     int64 = 2001
)

// Query limits
const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// Emotion record sources.
const (
	SourceText  = "text"
	SourceAudio = "audio"
	SourceVoice = "voice_chat"
)
