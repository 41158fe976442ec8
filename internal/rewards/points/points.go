// Package points maps earn reasons to their point amounts.
package points

import (
	"fmt"
	"math"
)

// Earn reasons accepted by the ledger.
const (
	ReasonSignupBonus       = "signup_bonus"
	ReasonReferralBonus     = "referral_bonus"
	ReasonSocialShare       = "social_share"
	ReasonProductReview     = "product_review"
	ReasonDailyLogin        = "daily_login"
	ReasonPurchase          = "purchase"
	ReasonBirthday          = "birthday_bonus"
	ReasonMonthlyEngagement = "monthly_engagement"
)

// pointsPerDollar applies to purchase earns.
const pointsPerDollar = 0.1

var amounts = map[string]int{
	ReasonSignupBonus:       100,
	ReasonReferralBonus:     150,
	ReasonSocialShare:       25,
	ReasonProductReview:     50,
	ReasonDailyLogin:        10,
	ReasonBirthday:          250,
	ReasonMonthlyEngagement: 100,
}

// AmountFor resolves a reason to its configured amount. Purchase earns scale
// with the order total and round to the nearest point.
func AmountFor(reason string, orderTotal float64) (int, error) {
	if reason == ReasonPurchase {
		if orderTotal <= 0 {
			return 0, fmt.Errorf("purchase earn requires a positive order total")
		}
		return int(math.Round(orderTotal * pointsPerDollar)), nil
	}

	amount, ok := amounts[reason]
	if !ok {
		return 0, fmt.Errorf("unknown earn reason %q", reason)
	}
	return amount, nil
}
