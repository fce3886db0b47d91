package config

// QuotaConfig holds per-user daily usage limit configuration
type QuotaConfig struct {
	// DailyLimit is the maximum number of model calls a single user may
	// make per UTC calendar day.
	DailyLimit int `env:"QUOTA_DAILY_LIMIT" yaml:"daily_limit" default:"25"`
}
