package constants

import "time"

const (
	PlayerFreshness = 60 * time.Second
	PlayerEviction  = 2 * PlayerFreshness
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	LoungeBaseURL   = "https://lounge.mkcentral.com"
	LoungeUserAgent = "MKWorld-Overlay/1.0"
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute

	DBBusyTimeoutMillis = 5000
)

const (
	ShutdownTimeout   = 5 * time.Second
	ReadHeaderTimeout = 10 * time.Second
)

const (
	HistoryDefaultLimit = 20
	HistoryMaxLimit     = 100
)
