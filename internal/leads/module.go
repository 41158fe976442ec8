// Package leads provides the lead acquisition and segmentation bounded
// context module.
package leads

import (
	"context"

	"rewards_backend/internal/events"
	apphttp "rewards_backend/internal/http"
	"rewards_backend/internal/leads/handler"
	"rewards_backend/internal/leads/management"
	"rewards_backend/internal/leads/repository"
	"rewards_backend/internal/leads/scoring"
	"rewards_backend/internal/leads/segment"
	"rewards_backend/internal/leads/segmentation"
	"rewards_backend/platform/config"
	"rewards_backend/platform/logger"
	"rewards_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	management   *management.Service
	segmentation *segmentation.Service
	repo         *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.SegmentationConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)

	engine := scoring.NewEngine(scoring.Config{
		CountLegacyCounters: cfg.GetScoreLegacyCounters(),
	})
	thresholds := segment.Thresholds{
		HotMinScore:  cfg.GetSegmentHotMinScore(),
		WarmMinScore: cfg.GetSegmentWarmMinScore(),
	}

	segSvc := segmentation.New(repo, engine, thresholds, cfg.GetSegmentPersistWorkers(), eventBus, log)
	mgmtSvc := management.New(repo, eventBus)

	m := &Module{
		handler:      handler.New(mgmtSvc, segSvc, val),
		management:   mgmtSvc,
		segmentation: segSvc,
		repo:         repo,
	}
	m.subscribe(eventBus, log)
	return m
}

// subscribe wires rewards-side events into the lead engagement trail so the
// scoring signals (shares, recent activity) stay current.
func (m *Module) subscribe(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.SocialShareRecorded{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.SocialShareRecorded)
		if !ok || e.Email == "" {
			return nil
		}
		if err := m.repo.AppendSocialShare(ctx, e.Email, e.Platform, e.URL); err != nil {
			log.Warn("failed to record social share on lead", "email", e.Email, "platform", e.Platform, "error", err)
		}
		return nil
	}))

	bus.Subscribe(events.PointsEarned{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.PointsEarned)
		if !ok || e.Email == "" {
			return nil
		}
		if err := m.repo.AppendActivity(ctx, e.Email, "earn_points"); err != nil {
			log.Warn("failed to record earn activity on lead", "email", e.Email, "error", err)
		}
		return nil
	}))
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// Segmentation exposes the batch service for the scheduler worker.
func (m *Module) Segmentation() *segmentation.Service { return m.segmentation }

// SetSegmentationEnqueuer wires the async segmentation trigger. Without it
// the enqueue endpoint reports the scheduler as unavailable.
func (m *Module) SetSegmentationEnqueuer(e handler.SegmentationEnqueuer) {
	m.handler.SetSegmentationEnqueuer(e)
}

// RegisterRoutes mounts the leads routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/leads")
	public.POST("/join", ctx.JoinRateLimiter.RateLimit(), m.handler.Join)

	admin := ctx.Admin.Group("/leads")
	admin.GET("", m.handler.List)
	admin.GET("/top", m.handler.TopLeads)
	admin.GET("/analytics/conversion", m.handler.ConversionRate)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
	admin.POST("/segmentation/run", m.handler.RunSegmentation)
	admin.POST("/segmentation/enqueue", m.handler.EnqueueSegmentation)
}
