package config

import "time"

// RefPrice points at the external reference-price service consulted when no
// live listing qualifies for averaging.
type RefPrice struct {
	BaseURL  string        `env:"REFPRICE_BASE_URL,notEmpty"`
	Token    string        `env:"REFPRICE_TOKEN" json:"-"`
	Timeout  time.Duration `env:"REFPRICE_TIMEOUT" envDefault:"10s"`
	CacheTTL time.Duration `env:"REFPRICE_CACHE_TTL" envDefault:"1m"`
}
