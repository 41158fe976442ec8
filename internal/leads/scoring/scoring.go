// Package scoring computes engagement scores for leads.
//
// Scoring is pure arithmetic over a lead snapshot: independent additive
// signals are summed and then discounted by an account-age decay factor.
// Missing or zero-valued fields simply contribute nothing; a nil lead
// scores zero.
package scoring

import (
	"math"
	"time"

	"rewards_backend/internal/leads/repository"
)

// Signal weights. Each contribution is independent of the others.
const (
	pointsNewsletter         = 5
	pointsPurchased          = 20
	pointsPerLegacyShare     = 2
	pointsPerLegacyReferral  = 5
	pointsHighPageViews      = 5
	pointsEmailVerified      = 10
	pointsHasPhone           = 5
	pointsHasReferralCode    = 8
	pointsPerRecentActivity  = 2
	pointsPerShareDetail     = 2
	pointsPerSharePlatform   = 3
	pointsPerReferralMade    = 5
	pointsPerSuccessReferral = 8

	// Page views only count once they pass this threshold.
	pageViewThreshold = 10

	// Activities within this trailing window count as recent.
	recentActivityWindow = 7 * 24 * time.Hour

	// Decay: score is scaled by max(minDecay, 1 - age/decayHorizonDays).
	decayHorizonDays = 30.0
	minDecay         = 0.5
)

// Config tunes the scoring engine.
type Config struct {
	// CountLegacyCounters keeps the flat social_shares / referrals_made
	// counters contributing alongside the structured counters
	// (social_shares_details, referrals_made_count). The live system has
	// always double-counted these, so the default preserves that; set
	// false to score each signal exactly once.
	CountLegacyCounters bool
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{CountLegacyCounters: true}
}

// Engine computes lead scores.
type Engine struct {
	cfg Config
}

// NewEngine creates a scoring engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Calculate returns the score for a lead as of now. It never returns a
// negative value and never fails: a nil lead scores 0.
func (e *Engine) Calculate(lead *repository.Lead, now time.Time) int {
	if lead == nil {
		return 0
	}

	score := 0.0

	if lead.IsSubscribedToNewsletter {
		score += pointsNewsletter
	}
	if lead.HasPurchased {
		score += pointsPurchased
	}
	if e.cfg.CountLegacyCounters {
		if lead.SocialShares > 0 {
			score += float64(lead.SocialShares * pointsPerLegacyShare)
		}
		if lead.ReferralsMade > 0 {
			score += float64(lead.ReferralsMade * pointsPerLegacyReferral)
		}
	}
	if lead.PageViews > pageViewThreshold {
		score += pointsHighPageViews
	}
	if lead.EmailVerified {
		score += pointsEmailVerified
	}
	if lead.Phone != nil && *lead.Phone != "" {
		score += pointsHasPhone
	}
	if lead.ReferralCode != "" {
		score += pointsHasReferralCode
	}

	score += float64(countRecentActivities(lead.Activities, now) * pointsPerRecentActivity)

	if len(lead.SocialSharesDetails) > 0 {
		score += float64(len(lead.SocialSharesDetails) * pointsPerShareDetail)
		score += float64(countDistinctPlatforms(lead.SocialSharesDetails) * pointsPerSharePlatform)
	}

	if lead.ReferralsMadeCount > 0 {
		score += float64(lead.ReferralsMadeCount * pointsPerReferralMade)
	}
	if lead.SuccessfulReferralsCount > 0 {
		score += float64(lead.SuccessfulReferralsCount * pointsPerSuccessReferral)
	}

	if lead.CreatedAt != nil {
		score *= decayFactor(*lead.CreatedAt, now)
	}

	return int(math.Round(score))
}

// decayFactor discounts older accounts: 1.0 at creation, linearly down to
// a floor of 0.5 at 30 days and beyond.
func decayFactor(createdAt, now time.Time) float64 {
	days := now.Sub(createdAt).Hours() / 24
	return math.Max(minDecay, 1-days/decayHorizonDays)
}

func countRecentActivities(activities []repository.Activity, now time.Time) int {
	count := 0
	for _, a := range activities {
		if a.Timestamp.IsZero() {
			continue
		}
		age := now.Sub(a.Timestamp)
		if age >= 0 && age <= recentActivityWindow {
			count++
		}
	}
	return count
}

func countDistinctPlatforms(shares []repository.SocialShare) int {
	platforms := make(map[string]struct{}, len(shares))
	for _, s := range shares {
		platforms[s.Platform] = struct{}{}
	}
	return len(platforms)
}
