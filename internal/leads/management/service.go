// Package management handles waiting-list joins and lead status transitions.
package management

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"rewards_backend/internal/events"
	"rewards_backend/internal/leads/repository"
	"rewards_backend/internal/leads/transport"
	"rewards_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the management service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]repository.Lead, error)
	TopByScore(ctx context.Context, limit int) ([]repository.Lead, error)
	GetConversionStats(ctx context.Context) (repository.ConversionStats, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Lead, error)
}

// Service handles lead management operations.
type Service struct {
	repo Repository
	bus  events.Bus
}

// New creates a new lead management service.
func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Join creates a lead from a waiting-list signup, assigning fresh referral
// and discount codes.
func (s *Service) Join(ctx context.Context, req transport.JoinRequest) (transport.LeadResponse, error) {
	source := req.Source
	if source == "" {
		source = "waiting_list"
	}

	params := repository.CreateLeadParams{
		Email:        req.Email,
		Source:       source,
		ReferralCode: generateCode("REF"),
		DiscountCode: generateCode("SAVE"),
	}
	if req.Name != "" {
		params.Name = &req.Name
	}
	if req.Phone != "" {
		params.Phone = &req.Phone
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.LeadResponse{}, apperr.Conflict("email already on the waiting list")
		}
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadJoined{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       lead.ID,
			Email:        lead.Email,
			Name:         req.Name,
			Source:       lead.Source,
			ReferralCode: lead.ReferralCode,
			DiscountCode: lead.DiscountCode,
		})
	}

	return transport.ToLeadResponse(lead), nil
}

// List returns leads matching the filter.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadResponses(leads), nil
}

// TopLeads returns the highest-scored leads.
func (s *Service) TopLeads(ctx context.Context, limit int) ([]transport.LeadResponse, error) {
	leads, err := s.repo.TopByScore(ctx, limit)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadResponses(leads), nil
}

// ConversionRate returns the percentage of leads that converted.
func (s *Service) ConversionRate(ctx context.Context) (transport.ConversionResponse, error) {
	stats, err := s.repo.GetConversionStats(ctx)
	if err != nil {
		return transport.ConversionResponse{}, err
	}

	resp := transport.ConversionResponse{
		TotalLeads:     stats.Total,
		ConvertedLeads: stats.Converted,
	}
	if stats.Total > 0 {
		resp.ConversionRate = float64(stats.Converted) / float64(stats.Total) * 100
	}
	return resp, nil
}

// validTransitions is the one-directional status pipeline. There is no way
// back from converted.
var validTransitions = map[string]string{
	repository.StatusNew:       repository.StatusContacted,
	repository.StatusContacted: repository.StatusConverted,
}

// UpdateStatus advances a lead's status. Only forward transitions are allowed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if validTransitions[lead.Status] != newStatus {
		return transport.LeadResponse{}, apperr.Validation(
			fmt.Sprintf("cannot transition lead from %s to %s", lead.Status, newStatus))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
			OldStatus: lead.Status,
			NewStatus: newStatus,
		})
	}

	return transport.ToLeadResponse(updated), nil
}

// generateCode builds a short uppercase code like REF-7K2M9KQ4.
func generateCode(prefix string) string {
	const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read failing means the system entropy source is broken;
		// fall back to a uuid-derived code rather than crash a signup.
		return prefix + "-" + uuid.NewString()[:8]
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return prefix + "-" + string(buf)
}
