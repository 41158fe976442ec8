// Package rewards provides the points and reward catalog bounded context
// module.
package rewards

import (
	"rewards_backend/internal/events"
	apphttp "rewards_backend/internal/http"
	"rewards_backend/internal/rewards/catalog"
	"rewards_backend/internal/rewards/gueststore"
	"rewards_backend/internal/rewards/handler"
	"rewards_backend/internal/rewards/ledger"
	"rewards_backend/internal/rewards/repository"
	"rewards_backend/internal/rewards/tier"
	"rewards_backend/platform/logger"
	"rewards_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the rewards bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	ledger  *ledger.Service
	catalog *catalog.Service
}

// NewModule wires the rewards services. notifier may be nil to disable
// points emails; guests must not be nil (use gueststore.NewMemoryStore
// when redis is unavailable).
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, guests gueststore.Store, notifier ledger.Notifier, val *validator.Validator, log *logger.Logger) (*Module, error) {
	tiers := tier.DefaultTiers()
	if err := tier.Validate(tiers); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	ledgerSvc := ledger.New(repo, guests, notifier, eventBus, log)
	catalogSvc := catalog.New(catalog.NewPGStore(pool), repo, repo, eventBus)

	return &Module{
		handler: handler.New(ledgerSvc, catalogSvc, val, tiers),
		ledger:  ledgerSvc,
		catalog: catalogSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string { return "rewards" }

// RegisterRoutes mounts the rewards routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.V1.Group("/rewards")
	rg.GET("/tiers", m.handler.Tiers)
	rg.GET("/catalog", m.handler.Catalog)

	// Earn and balance serve both authenticated users and keyed guests.
	rg.POST("/points/earn", ctx.JoinRateLimiter.RateLimit(), ctx.OptionalAuth, m.handler.Earn)
	rg.GET("/points", ctx.OptionalAuth, m.handler.Balance)

	protected := ctx.Protected.Group("/rewards")
	protected.POST("/catalog/:id/claim", m.handler.Claim)
	protected.GET("/claims", m.handler.Claims)
}
