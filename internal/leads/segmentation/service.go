// Package segmentation runs the batch job that scores every lead,
// classifies it, and persists the assignment.
package segmentation

import (
	"context"
	"sync/atomic"
	"time"

	"rewards_backend/internal/events"
	"rewards_backend/internal/leads/repository"
	"rewards_backend/internal/leads/scoring"
	"rewards_backend/internal/leads/segment"
	"rewards_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Repository is the data access needed by the batch job.
type Repository interface {
	ListAll(ctx context.Context) ([]repository.Lead, error)
	UpdateSegment(ctx context.Context, update repository.SegmentUpdate) error
}

// Result partitions the scored leads by segment. It reflects the in-memory
// classification even when some per-lead persists failed.
type Result struct {
	Hot  []repository.Lead
	Warm []repository.Lead
	Cold []repository.Lead
}

// Service orchestrates segmentation runs.
type Service struct {
	repo       Repository
	engine     *scoring.Engine
	thresholds segment.Thresholds
	workers    int
	bus        events.Bus
	log        *logger.Logger
}

// New creates a segmentation service. workers bounds the number of
// concurrent per-lead persistence updates.
func New(repo Repository, engine *scoring.Engine, thresholds segment.Thresholds, workers int, bus events.Bus, log *logger.Logger) *Service {
	if workers < 1 {
		workers = 8
	}
	return &Service{
		repo:       repo,
		engine:     engine,
		thresholds: thresholds,
		workers:    workers,
		bus:        bus,
		log:        log,
	}
}

// Run fetches all leads, scores and classifies each, persists the
// assignments concurrently, and returns the partition.
//
// Persistence is best-effort per lead: one failed update is logged and
// skipped without affecting the others, and the in-memory result is still
// returned so the caller always has something to render. Only the initial
// fetch can fail the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if !s.thresholds.Valid() {
		s.log.Warn("segment thresholds missing or malformed, classifying all leads as cold",
			"hotMinScore", s.thresholds.HotMinScore, "warmMinScore", s.thresholds.WarmMinScore)
	}

	leads, err := s.repo.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}

	now := time.Now().UTC()

	type scored struct {
		lead    repository.Lead
		score   int
		segment segment.Segment
	}

	assignments := make([]scored, 0, len(leads))
	var result Result
	for _, lead := range leads {
		lead := lead
		score := s.engine.Calculate(&lead, now)
		seg := segment.Classify(score, s.thresholds)
		assignments = append(assignments, scored{lead: lead, score: score, segment: seg})

		switch seg {
		case segment.Hot:
			result.Hot = append(result.Hot, lead)
		case segment.Warm:
			result.Warm = append(result.Warm, lead)
		default:
			result.Cold = append(result.Cold, lead)
		}
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, a := range assignments {
		a := a
		g.Go(func() error {
			update := repository.SegmentUpdate{
				ID:      a.lead.ID,
				Segment: string(a.segment),
				Score:   a.score,
				Metadata: repository.AppendSegmentHistory(a.lead.Metadata, repository.SegmentHistoryEntry{
					Segment:   string(a.segment),
					Timestamp: now,
					Score:     a.score,
				}),
				Now: now,
			}
			if err := s.repo.UpdateSegment(gctx, update); err != nil {
				failed.Add(1)
				s.log.Error("lead segment persist failed", "leadId", a.lead.ID, "segment", a.segment, "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()

	persisted := len(assignments) - int(failed.Load())
	s.log.Info("segmentation run complete",
		"hot", len(result.Hot), "warm", len(result.Warm), "cold", len(result.Cold),
		"persisted", persisted, "failed", failed.Load())

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadsSegmented{
			BaseEvent: events.NewBaseEvent(),
			Hot:       len(result.Hot),
			Warm:      len(result.Warm),
			Cold:      len(result.Cold),
			Persisted: persisted,
			Failed:    int(failed.Load()),
		})
	}

	return result, nil
}
