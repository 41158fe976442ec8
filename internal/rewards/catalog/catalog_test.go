package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"rewards_backend/internal/rewards/repository"
	"rewards_backend/platform/apperr"

	"github.com/google/uuid"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestRewardEligible(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		reward Reward
		points int
		want   bool
	}{
		{
			name:   "standard below threshold",
			reward: Reward{Kind: KindStandard, PointsThreshold: 500, Status: "active"},
			points: 499,
			want:   false,
		},
		{
			name:   "standard at threshold",
			reward: Reward{Kind: KindStandard, PointsThreshold: 500, Status: "active"},
			points: 500,
			want:   true,
		},
		{
			name:   "milestone gates on points",
			reward: Reward{Kind: KindMilestone, PointsThreshold: 1000, Status: "active"},
			points: 1500,
			want:   true,
		},
		{
			name: "seasonal inside window",
			reward: Reward{
				Kind: KindSeasonal, PointsThreshold: 100, Status: "active",
				SeasonStart: timePtr(now.Add(-24 * time.Hour)),
				SeasonEnd:   timePtr(now.Add(24 * time.Hour)),
			},
			points: 200,
			want:   true,
		},
		{
			name: "seasonal before window",
			reward: Reward{
				Kind: KindSeasonal, PointsThreshold: 100, Status: "active",
				SeasonStart: timePtr(now.Add(24 * time.Hour)),
			},
			points: 200,
			want:   false,
		},
		{
			name: "seasonal after window",
			reward: Reward{
				Kind: KindSeasonal, PointsThreshold: 100, Status: "active",
				SeasonEnd: timePtr(now.Add(-24 * time.Hour)),
			},
			points: 200,
			want:   false,
		},
		{
			name:   "achievement ignores balance",
			reward: Reward{Kind: KindAchievement, PointsThreshold: 9999, Status: "active"},
			points: 0,
			want:   true,
		},
		{
			name:   "inactive never eligible",
			reward: Reward{Kind: KindStandard, PointsThreshold: 0, Status: "retired"},
			points: 5000,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reward.Eligible(tt.points, now); got != tt.want {
				t.Fatalf("Eligible(%d) = %v, want %v", tt.points, got, tt.want)
			}
		})
	}
}

type fakeStore struct {
	rewards map[uuid.UUID]Reward
}

func (f *fakeStore) ListRewards(ctx context.Context) ([]Reward, error) {
	out := make([]Reward, 0, len(f.rewards))
	for _, r := range f.rewards {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) GetReward(ctx context.Context, id uuid.UUID) (Reward, error) {
	r, ok := f.rewards[id]
	if !ok {
		return Reward{}, repository.ErrNotFound
	}
	return r, nil
}

type fakeBalances map[uuid.UUID]int

func (f fakeBalances) GetPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	return f[userID], nil
}

type fakeClaims struct {
	claims []repository.ClaimedReward
}

func (f *fakeClaims) InsertClaim(ctx context.Context, claim repository.ClaimedReward) (repository.ClaimedReward, error) {
	for _, c := range f.claims {
		if c.UserID == claim.UserID && c.RewardID == claim.RewardID {
			return repository.ClaimedReward{}, repository.ErrAlreadyClaimed
		}
	}
	claim.ID = uuid.New()
	claim.ClaimedAt = time.Now()
	f.claims = append(f.claims, claim)
	return claim, nil
}

func (f *fakeClaims) ListClaims(ctx context.Context, userID uuid.UUID) ([]repository.ClaimedReward, error) {
	var out []repository.ClaimedReward
	for _, c := range f.claims {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestClaim(t *testing.T) {
	rewardID := uuid.New()
	userID := uuid.New()

	store := &fakeStore{rewards: map[uuid.UUID]Reward{
		rewardID: {ID: rewardID, Kind: KindStandard, Name: "Free shipping", PointsThreshold: 500, Status: "active"},
	}}
	balances := fakeBalances{userID: 600}
	claims := &fakeClaims{}
	svc := New(store, balances, claims, nil)

	claim, err := svc.Claim(context.Background(), userID, rewardID)
	if err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if claim.RedemptionCode == "" {
		t.Fatal("claim missing redemption code")
	}
	if claim.RewardKind != KindStandard {
		t.Fatalf("claim kind = %q, want %q", claim.RewardKind, KindStandard)
	}

	_, err = svc.Claim(context.Background(), userID, rewardID)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("second claim err = %v, want conflict", err)
	}
}

func TestClaimIneligible(t *testing.T) {
	rewardID := uuid.New()
	userID := uuid.New()

	store := &fakeStore{rewards: map[uuid.UUID]Reward{
		rewardID: {ID: rewardID, Kind: KindStandard, Name: "Free shipping", PointsThreshold: 500, Status: "active"},
	}}
	svc := New(store, fakeBalances{userID: 100}, &fakeClaims{}, nil)

	_, err := svc.Claim(context.Background(), userID, rewardID)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestClaimUnknownReward(t *testing.T) {
	svc := New(&fakeStore{rewards: map[uuid.UUID]Reward{}}, fakeBalances{}, &fakeClaims{}, nil)

	_, err := svc.Claim(context.Background(), uuid.New(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
