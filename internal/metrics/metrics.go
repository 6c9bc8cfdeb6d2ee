package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine counters, registered on the default registry the prometheus server
// exposes.
//
//nolint:gochecknoglobals
var (
	SellDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_sell_decisions_total",
		Help: "Resolved sell decisions by destination channel.",
	}, []string{"channel"})

	PriceHints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_price_hints_total",
		Help: "Price-hint lookups by outcome.",
	}, []string{"outcome"})

	CacheBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_lookup_cache_builds_total",
		Help: "Lookup-table warm-ups by source (built or loaded).",
	}, []string{"source"})

	SettlementBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broker_settlement_batches_total",
		Help: "Processed settlement batches.",
	})
)

// Label values for the counters above.
const (
	ChannelVendor      = "vendor"
	ChannelMarketplace = "marketplace"
	ChannelUnsellable  = "unsellable"
	ChannelHint        = "hint"

	OutcomeHit  = "hit"
	OutcomeMiss = "miss"

	SourceBuilt  = "built"
	SourceLoaded = "loaded"
)
