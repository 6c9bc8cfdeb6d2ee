package config

import "time"

// Engine holds the recognized pricing options.
type Engine struct {
	CachePath string `env:"ENGINE_CACHE_PATH" envDefault:"data/lookup_table.json"`

	IgnoreAttachmentsInMarketValuation bool `env:"ENGINE_IGNORE_ATTACHMENTS" envDefault:"false"`
	IgnoreConditionEligibilityGate     bool `env:"ENGINE_IGNORE_CONDITION_GATE" envDefault:"false"`
	IgnoreMarketplaceLevelGate         bool `env:"ENGINE_IGNORE_LEVEL_GATE" envDefault:"false"`
	IgnoreVendorLockState              bool `env:"ENGINE_IGNORE_VENDOR_LOCK" envDefault:"false"`

	CommissionPercent float64 `env:"ENGINE_COMMISSION_PERCENT" envDefault:"0"`
	Notify            bool    `env:"ENGINE_NOTIFY" envDefault:"false"`

	HintTTL             time.Duration `env:"ENGINE_HINT_TTL" envDefault:"5m"`
	HintCleanupInterval time.Duration `env:"ENGINE_HINT_CLEANUP_INTERVAL" envDefault:"10m"`
}
