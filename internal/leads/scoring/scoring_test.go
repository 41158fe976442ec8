package scoring

import (
	"testing"
	"time"

	"rewards_backend/internal/leads/repository"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestCalculateNilLead(t *testing.T) {
	e := NewEngine(DefaultConfig())
	if got := e.Calculate(nil, time.Now()); got != 0 {
		t.Fatalf("nil lead scored %d, want 0", got)
	}
}

func TestCalculateEmptyLead(t *testing.T) {
	e := NewEngine(DefaultConfig())
	if got := e.Calculate(&repository.Lead{}, time.Now()); got != 0 {
		t.Fatalf("empty lead scored %d, want 0", got)
	}
}

func TestCalculateSignals(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		lead repository.Lead
		want int
	}{
		{
			name: "newsletter only",
			lead: repository.Lead{IsSubscribedToNewsletter: true},
			want: 5,
		},
		{
			name: "purchase only",
			lead: repository.Lead{HasPurchased: true},
			want: 20,
		},
		{
			name: "page views at threshold do not count",
			lead: repository.Lead{PageViews: 10},
			want: 0,
		},
		{
			name: "page views above threshold",
			lead: repository.Lead{PageViews: 11},
			want: 5,
		},
		{
			name: "verified with phone and referral code",
			lead: repository.Lead{
				EmailVerified: true,
				Phone:         strPtr("+15551234567"),
				ReferralCode:  "REF-ABC12345",
			},
			want: 23,
		},
		{
			name: "empty phone string does not count",
			lead: repository.Lead{Phone: strPtr("")},
			want: 0,
		},
		{
			name: "legacy counters",
			lead: repository.Lead{SocialShares: 3, ReferralsMade: 2},
			want: 16,
		},
		{
			name: "structured referral counters",
			lead: repository.Lead{ReferralsMadeCount: 2, SuccessfulReferralsCount: 1},
			want: 18,
		},
		{
			// 2 shares x2 + 1 referral x5 + verified 10 + phone 5 + code 8
			// = 32, fresh account so decay is ~1.0
			name: "engaged lead crosses the hot threshold",
			lead: repository.Lead{
				SocialShares:  2,
				ReferralsMade: 1,
				EmailVerified: true,
				Phone:         strPtr("555"),
				ReferralCode:  "ABC",
				CreatedAt:     timePtr(now),
			},
			want: 32,
		},
		{
			// 2 details x2 + 2 distinct platforms x3 + verified 10 = 20
			name: "structured share details with platform variety",
			lead: repository.Lead{
				EmailVerified: true,
				SocialSharesDetails: []repository.SocialShare{
					{Platform: "twitter", Timestamp: now.Add(-48 * time.Hour)},
					{Platform: "facebook", Timestamp: now.Add(-24 * time.Hour)},
				},
			},
			want: 20,
		},
	}

	e := NewEngine(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Calculate(&tt.lead, now); got != tt.want {
				t.Fatalf("Calculate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateRecentActivities(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	lead := repository.Lead{
		Activities: []repository.Activity{
			{Type: "earn_points", Timestamp: now.Add(-24 * time.Hour)},
			{Type: "earn_points", Timestamp: now.Add(-6 * 24 * time.Hour)},
			{Type: "earn_points", Timestamp: now.Add(-8 * 24 * time.Hour)},  // too old
			{Type: "earn_points", Timestamp: now.Add(24 * time.Hour)},       // future
			{Type: "earn_points"},                                           // zero timestamp
		},
	}

	e := NewEngine(DefaultConfig())
	if got := e.Calculate(&lead, now); got != 4 {
		t.Fatalf("Calculate() = %d, want 4 (two recent activities x2)", got)
	}
}

func TestCalculateDecay(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt *time.Time
		want      int
	}{
		{"no created_at applies no decay", nil, 20},
		{"fresh account keeps full score", timePtr(now), 20},
		{"fifteen days halves the decay span", timePtr(now.Add(-15 * 24 * time.Hour)), 10},
		{"thirty days floors at half", timePtr(now.Add(-30 * 24 * time.Hour)), 10},
		{"a year still floors at half", timePtr(now.Add(-365 * 24 * time.Hour)), 10},
	}

	e := NewEngine(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := repository.Lead{HasPurchased: true, CreatedAt: tt.createdAt}
			if got := e.Calculate(&lead, now); got != tt.want {
				t.Fatalf("Calculate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateLegacyCountersDisabled(t *testing.T) {
	e := NewEngine(Config{CountLegacyCounters: false})
	lead := repository.Lead{SocialShares: 3, ReferralsMade: 2}
	if got := e.Calculate(&lead, time.Now()); got != 0 {
		t.Fatalf("Calculate() = %d, want 0 with legacy counters disabled", got)
	}
}

func TestCalculateMonotoneInSignals(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	e := NewEngine(DefaultConfig())

	base := repository.Lead{IsSubscribedToNewsletter: true}
	more := base
	more.HasPurchased = true
	more.EmailVerified = true

	if e.Calculate(&more, now) <= e.Calculate(&base, now) {
		t.Fatal("adding signals should never lower the score")
	}
}
