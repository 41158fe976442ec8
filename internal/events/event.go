// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rewards_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
var NewInMemoryBus = events.NewInMemoryBus

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadJoined is published when a visitor joins the waiting list.
type LeadJoined struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Source       string    `json:"source"`
	ReferralCode string    `json:"referralCode"`
	DiscountCode string    `json:"discountCode"`
}

func (e LeadJoined) EventName() string { return "leads.joined" }

// LeadStatusChanged is published when a lead moves through the
// new -> contacted -> converted pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadsSegmented is published when a segmentation batch run completes.
type LeadsSegmented struct {
	BaseEvent
	Hot       int `json:"hot"`
	Warm      int `json:"warm"`
	Cold      int `json:"cold"`
	Persisted int `json:"persisted"`
	Failed    int `json:"failed"`
}

func (e LeadsSegmented) EventName() string { return "leads.segmented" }

// =============================================================================
// Rewards Domain Events
// =============================================================================

// PointsEarned is published when an authenticated user earns points.
type PointsEarned struct {
	BaseEvent
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email,omitempty"`
	Amount   int       `json:"amount"`
	Reason   string    `json:"reason"`
	Platform string    `json:"platform,omitempty"`
	NewTotal int       `json:"newTotal"`
}

func (e PointsEarned) EventName() string { return "rewards.points.earned" }

// SocialShareRecorded is published when a share on a social platform is tracked.
type SocialShareRecorded struct {
	BaseEvent
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email,omitempty"`
	Platform string    `json:"platform"`
	URL      string    `json:"url,omitempty"`
}

func (e SocialShareRecorded) EventName() string { return "rewards.social_share.recorded" }

// RewardClaimed is published when a user claims a catalog reward.
type RewardClaimed struct {
	BaseEvent
	UserID         uuid.UUID `json:"userId"`
	RewardID       uuid.UUID `json:"rewardId"`
	RewardKind     string    `json:"rewardKind"`
	RedemptionCode string    `json:"redemptionCode"`
}

func (e RewardClaimed) EventName() string { return "rewards.reward.claimed" }
