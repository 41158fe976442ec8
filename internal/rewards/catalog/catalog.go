// Package catalog models the reward catalog as tagged variants and handles
// claims. A reward's kind decides how eligibility is judged: standard and
// milestone rewards gate on the points balance, seasonal rewards add a
// calendar window, achievement rewards are granted by the backend and only
// need to be active.
package catalog

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"rewards_backend/internal/events"
	"rewards_backend/internal/rewards/repository"
	"rewards_backend/platform/apperr"

	"github.com/google/uuid"
)

// Reward kinds.
const (
	KindStandard    = "standard"
	KindSeasonal    = "seasonal"
	KindAchievement = "achievement"
	KindMilestone   = "milestone"
)

const statusActive = "active"

// Reward is one catalog entry.
type Reward struct {
	ID              uuid.UUID  `json:"id"`
	Kind            string     `json:"kind"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	PointsThreshold int        `json:"pointsThreshold"`
	SeasonStart     *time.Time `json:"seasonStart,omitempty"`
	SeasonEnd       *time.Time `json:"seasonEnd,omitempty"`
	Status          string     `json:"status"`
}

// Eligible reports whether the reward can be claimed with the given balance
// at the given time.
func (r Reward) Eligible(points int, now time.Time) bool {
	if r.Status != statusActive {
		return false
	}

	switch r.Kind {
	case KindSeasonal:
		if r.SeasonStart != nil && now.Before(*r.SeasonStart) {
			return false
		}
		if r.SeasonEnd != nil && now.After(*r.SeasonEnd) {
			return false
		}
		return points >= r.PointsThreshold
	case KindAchievement:
		return true
	default:
		return points >= r.PointsThreshold
	}
}

// Describe returns a short human label for the reward's gate.
func (r Reward) Describe() string {
	switch r.Kind {
	case KindSeasonal:
		if r.SeasonEnd != nil {
			return fmt.Sprintf("%d points, until %s", r.PointsThreshold, r.SeasonEnd.Format("Jan 2"))
		}
		return fmt.Sprintf("%d points, limited season", r.PointsThreshold)
	case KindAchievement:
		return "unlocked by achievement"
	case KindMilestone:
		return fmt.Sprintf("milestone at %d points", r.PointsThreshold)
	default:
		return fmt.Sprintf("%d points", r.PointsThreshold)
	}
}

// Store is the catalog's persistence port.
type Store interface {
	ListRewards(ctx context.Context) ([]Reward, error)
	GetReward(ctx context.Context, id uuid.UUID) (Reward, error)
}

// BalanceReader reads the claimer's balance.
type BalanceReader interface {
	GetPoints(ctx context.Context, userID uuid.UUID) (int, error)
}

// ClaimStore records issued redemptions.
type ClaimStore interface {
	InsertClaim(ctx context.Context, claim repository.ClaimedReward) (repository.ClaimedReward, error)
	ListClaims(ctx context.Context, userID uuid.UUID) ([]repository.ClaimedReward, error)
}

// Service lists catalog rewards and processes claims.
type Service struct {
	store    Store
	balances BalanceReader
	claims   ClaimStore
	bus      events.Bus
	now      func() time.Time
}

func New(store Store, balances BalanceReader, claims ClaimStore, bus events.Bus) *Service {
	return &Service{store: store, balances: balances, claims: claims, bus: bus, now: time.Now}
}

// CatalogEntry is a reward annotated with its gate description.
type CatalogEntry struct {
	Reward
	Requirement string `json:"requirement"`
}

// List returns all active catalog rewards.
func (s *Service) List(ctx context.Context) ([]CatalogEntry, error) {
	rewards, err := s.store.ListRewards(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(rewards))
	for _, r := range rewards {
		if r.Status != statusActive {
			continue
		}
		entries = append(entries, CatalogEntry{Reward: r, Requirement: r.Describe()})
	}
	return entries, nil
}

// Claim issues a redemption code for the reward if the user is eligible.
func (s *Service) Claim(ctx context.Context, userID uuid.UUID, rewardID uuid.UUID) (repository.ClaimedReward, error) {
	reward, err := s.store.GetReward(ctx, rewardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ClaimedReward{}, apperr.NotFound("reward not found")
		}
		return repository.ClaimedReward{}, err
	}

	points, err := s.balances.GetPoints(ctx, userID)
	if err != nil {
		return repository.ClaimedReward{}, fmt.Errorf("read balance: %w", err)
	}

	if !reward.Eligible(points, s.now()) {
		return repository.ClaimedReward{}, apperr.Validation(
			fmt.Sprintf("not eligible for %q (%s)", reward.Name, reward.Describe()))
	}

	claim, err := s.claims.InsertClaim(ctx, repository.ClaimedReward{
		UserID:         userID,
		RewardID:       reward.ID,
		RewardKind:     reward.Kind,
		RedemptionCode: newRedemptionCode(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyClaimed) {
			return repository.ClaimedReward{}, apperr.Conflict("reward already claimed")
		}
		return repository.ClaimedReward{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.RewardClaimed{
			BaseEvent:      events.NewBaseEvent(),
			UserID:         userID,
			RewardID:       reward.ID,
			RewardKind:     reward.Kind,
			RedemptionCode: claim.RedemptionCode,
		})
	}

	return claim, nil
}

// Claims returns the user's claim history.
func (s *Service) Claims(ctx context.Context, userID uuid.UUID) ([]repository.ClaimedReward, error) {
	return s.claims.ListClaims(ctx, userID)
}

func newRedemptionCode() string {
	const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "RWD-" + uuid.NewString()[:10]
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return "RWD-" + string(buf)
}
