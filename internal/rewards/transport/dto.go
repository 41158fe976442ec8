// Package transport defines request/response DTOs for the rewards module.
package transport

import (
	"time"

	"rewards_backend/internal/rewards/repository"
	"rewards_backend/internal/rewards/tier"

	"github.com/google/uuid"
)

// EarnRequest credits points. For purchase earns the amount is derived from
// the order total; every other reason has a configured amount.
type EarnRequest struct {
	Reason     string  `json:"reason" validate:"required,max=64"`
	Platform   string  `json:"platform" validate:"omitempty,oneof=twitter facebook instagram linkedin tiktok whatsapp"`
	OrderTotal float64 `json:"orderTotal" validate:"omitempty,gt=0"`
}

// EarnResponse reports the credited amount and the new balance.
type EarnResponse struct {
	Amount   int    `json:"amount"`
	NewTotal int    `json:"newTotal"`
	Reason   string `json:"reason"`
	Guest    bool   `json:"guest"`
}

// BalanceResponse reports the balance plus resolved tier placement.
type BalanceResponse struct {
	Points      int        `json:"points"`
	CurrentTier tier.Tier  `json:"currentTier"`
	NextTier    *tier.Tier `json:"nextTier,omitempty"`
	ToNextTier  int        `json:"toNextTier,omitempty"`
	Guest       bool       `json:"guest"`
}

// TiersResponse lists the ladder and, when a balance is supplied, placement.
type TiersResponse struct {
	Tiers       []tier.Tier `json:"tiers"`
	CurrentTier *tier.Tier  `json:"currentTier,omitempty"`
	NextTier    *tier.Tier  `json:"nextTier,omitempty"`
}

// ClaimResponse is an issued redemption.
type ClaimResponse struct {
	ID             uuid.UUID `json:"id"`
	RewardID       uuid.UUID `json:"rewardId"`
	RewardKind     string    `json:"rewardKind"`
	RedemptionCode string    `json:"redemptionCode"`
	ClaimedAt      time.Time `json:"claimedAt"`
}

// ToClaimResponse maps a repository claim to its API shape.
func ToClaimResponse(claim repository.ClaimedReward) ClaimResponse {
	return ClaimResponse{
		ID:             claim.ID,
		RewardID:       claim.RewardID,
		RewardKind:     claim.RewardKind,
		RedemptionCode: claim.RedemptionCode,
		ClaimedAt:      claim.ClaimedAt,
	}
}
