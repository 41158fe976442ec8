// Package transport defines request/response DTOs for the leads module.
package transport

import (
	"time"

	"rewards_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// JoinRequest is a waiting-list signup.
type JoinRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"omitempty,max=120"`
	Phone  string `json:"phone" validate:"omitempty,max=32"`
	Source string `json:"source" validate:"omitempty,oneof=waiting_list referral direct social"`
}

// UpdateStatusRequest advances a lead through the pipeline.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=contacted converted"`
}

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	ID                       uuid.UUID                        `json:"id"`
	Email                    string                           `json:"email"`
	Name                     *string                          `json:"name,omitempty"`
	Phone                    *string                          `json:"phone,omitempty"`
	Source                   string                           `json:"source"`
	Status                   string                           `json:"status"`
	Segment                  *string                          `json:"segment,omitempty"`
	LeadScore                int                              `json:"leadScore"`
	ReferralCode             string                           `json:"referralCode"`
	DiscountCode             string                           `json:"discountCode"`
	PageViews                int                              `json:"pageViews"`
	SocialShares             int                              `json:"socialShares"`
	ReferralsMadeCount       int                              `json:"referralsMadeCount"`
	SuccessfulReferralsCount int                              `json:"successfulReferralsCount"`
	IsSubscribedToNewsletter bool                             `json:"isSubscribedToNewsletter"`
	HasPurchased             bool                             `json:"hasPurchased"`
	EmailVerified            bool                             `json:"emailVerified"`
	CreatedAt                *time.Time                       `json:"createdAt,omitempty"`
	ConvertedAt              *time.Time                       `json:"convertedAt,omitempty"`
	UpdatedAt                time.Time                        `json:"updatedAt"`
}

// SegmentationResponse is the result of a segmentation run.
type SegmentationResponse struct {
	Hot  []LeadResponse `json:"hot"`
	Warm []LeadResponse `json:"warm"`
	Cold []LeadResponse `json:"cold"`
}

// ConversionResponse reports the lead conversion metric.
type ConversionResponse struct {
	TotalLeads     int     `json:"totalLeads"`
	ConvertedLeads int     `json:"convertedLeads"`
	ConversionRate float64 `json:"conversionRate"`
}

// ToLeadResponse maps a repository lead to its API shape.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                       lead.ID,
		Email:                    lead.Email,
		Name:                     lead.Name,
		Phone:                    lead.Phone,
		Source:                   lead.Source,
		Status:                   lead.Status,
		Segment:                  lead.Segment,
		LeadScore:                lead.LeadScore,
		ReferralCode:             lead.ReferralCode,
		DiscountCode:             lead.DiscountCode,
		PageViews:                lead.PageViews,
		SocialShares:             lead.SocialShares,
		ReferralsMadeCount:       lead.ReferralsMadeCount,
		SuccessfulReferralsCount: lead.SuccessfulReferralsCount,
		IsSubscribedToNewsletter: lead.IsSubscribedToNewsletter,
		HasPurchased:             lead.HasPurchased,
		EmailVerified:            lead.EmailVerified,
		CreatedAt:                lead.CreatedAt,
		ConvertedAt:              lead.ConvertedAt,
		UpdatedAt:                lead.UpdatedAt,
	}
}

// ToLeadResponses maps a slice of leads.
func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	responses := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, ToLeadResponse(lead))
	}
	return responses
}
