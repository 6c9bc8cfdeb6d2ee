package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"broker_market/internal/config"
	"broker_market/internal/domain/entity"
	"broker_market/internal/domain/service/condition"
	"broker_market/internal/domain/service/market"
	"broker_market/internal/domain/service/settlement"
	vendorsvc "broker_market/internal/domain/service/vendor"
	"broker_market/internal/infrastructure/hintstore"
	"broker_market/internal/infrastructure/notifier"
	"broker_market/internal/infrastructure/persistence"
	"broker_market/internal/infrastructure/pricecache"
	"broker_market/internal/infrastructure/refprice"
	"broker_market/internal/server"
	"broker_market/pkg/application/connectors"
	"broker_market/pkg/application/modules"
	"broker_market/pkg/contextx"
	"broker_market/pkg/logx"
	"broker_market/pkg/middlewarex"
	"broker_market/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	settlementEventBuffer = 100
	logFieldMaxLen        = 4096
)

//nolint:funlen // the wiring is linear and reads top to bottom
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	pg := &connectors.Postgres{ //nolint:exhaustruct
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext: %w", err)
	}

	// catalogs are loaded once; any failure here is fatal, nothing can be
	// priced without them
	templateRepo := persistence.NewTemplateRepository(db)
	vendorRepo := persistence.NewVendorRepository(db)
	listingRepo := persistence.NewListingRepository(db)
	rulesRepo := persistence.NewRulesRepository(db)

	templates, err := templateRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("templateRepo.All: %w", err)
	}
	vendors, err := vendorRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("vendorRepo.All: %w", err)
	}
	rules, err := rulesRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("rulesRepo.Load: %w", err)
	}

	index := entity.NewTemplateIndex(templates)
	conditions := condition.NewModel(index)
	catalog := vendorsvc.NewCatalog(vendors, index, conditions, rules).
		WithIgnoreLockState(cfg.Engine.IgnoreVendorLockState)

	estimator := refprice.NewClient(
		cfg.RefPrice.BaseURL,
		cfg.RefPrice.Timeout,
		cfg.RefPrice.CacheTTL,
		cfg.RefPrice.Token,
	)
	valuation := market.NewValuation(index, conditions, listingRepo, estimator, rules).
		WithIgnoreAttachments(cfg.Engine.IgnoreAttachmentsInMarketValuation)

	table, err := pricecache.NewBuilder(templates, vendors, catalog, valuation, cfg.Engine.CachePath).Warm(ctx)
	if err != nil {
		return fmt.Errorf("pricecache.Warm: %w", err)
	}
	valuation.SetPriceSource(table)

	hints, closeHints := newHintStore(ctx, cfg)
	if closeHints != nil {
		defer closeHints()
	}

	router := settlement.NewRouter(catalog, valuation, conditions, index, rules, hints).
		WithVendorTable(table).
		WithCommissionPercent(cfg.Engine.CommissionPercent).
		WithIgnoreAttachments(cfg.Engine.IgnoreAttachmentsInMarketValuation).
		WithIgnoreConditionGate(cfg.Engine.IgnoreConditionEligibilityGate).
		WithIgnoreLevelGate(cfg.Engine.IgnoreMarketplaceLevelGate)

	if cfg.Engine.Notify && cfg.Bot.Token != "" {
		events := make(chan entity.Settlement, settlementEventBuffer)
		router.WithEvents(events)

		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error {
			if err := bot.Run(ctx, events); err != nil && ctx.Err() == nil {
				return fmt.Errorf("bot.Run: %w", err)
			}
			return nil
		})
	}

	srv := server.NewServer(
		server.NewSettlementServer(router, hints),
		server.NewTableServer(table, catalog, engineConfig(cfg)),
	)

	httpServer := &http.Server{ //nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           newHandler(srv),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.MetricServer{ListenAddress: cfg.HTTP.MetricListenAddress}.Run(ctx, g)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	logger(ctx).Info("engine warmed up and serving")

	return g.Wait() //nolint:wrapcheck
}

func newHandler(srv server.Server) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)
	srv.RegisterRoutes(r)

	return r
}

// newHintStore picks the shared redis store when configured and the
// in-process one otherwise.
func newHintStore(ctx context.Context, cfg config.Config) (hintstore.Store, func()) {
	if !cfg.Redis.Enabled {
		return hintstore.NewMemory(cfg.Engine.HintTTL, cfg.Engine.HintCleanupInterval), nil
	}

	rds := &connectors.Redis{ //nolint:exhaustruct
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}

	return hintstore.NewRedis(rds.Client(ctx), cfg.Engine.HintTTL), func() { rds.Close(ctx) }
}

func engineConfig(cfg config.Config) rest.EngineConfig {
	return rest.EngineConfig{
		IgnoreAttachmentsInMarketValuation: cfg.Engine.IgnoreAttachmentsInMarketValuation,
		IgnoreConditionEligibilityGate:     cfg.Engine.IgnoreConditionEligibilityGate,
		IgnoreMarketplaceLevelGate:         cfg.Engine.IgnoreMarketplaceLevelGate,
		IgnoreVendorLockState:              cfg.Engine.IgnoreVendorLockState,
		CommissionPercent:                  cfg.Engine.CommissionPercent,
		Notify:                             cfg.Engine.Notify,
	}
}
