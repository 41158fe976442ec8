package points

import "testing"

func TestAmountFor(t *testing.T) {
	tests := []struct {
		reason string
		want   int
	}{
		{ReasonSignupBonus, 100},
		{ReasonReferralBonus, 150},
		{ReasonSocialShare, 25},
		{ReasonProductReview, 50},
		{ReasonDailyLogin, 10},
		{ReasonBirthday, 250},
		{ReasonMonthlyEngagement, 100},
	}

	for _, tt := range tests {
		got, err := AmountFor(tt.reason, 0)
		if err != nil {
			t.Errorf("AmountFor(%q) error: %v", tt.reason, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AmountFor(%q) = %d, want %d", tt.reason, got, tt.want)
		}
	}
}

func TestAmountForPurchase(t *testing.T) {
	tests := []struct {
		total float64
		want  int
	}{
		{100, 10},
		{49.99, 5},
		{4, 0}, // rounds below one point
	}

	for _, tt := range tests {
		got, err := AmountFor(ReasonPurchase, tt.total)
		if err != nil {
			t.Fatalf("AmountFor(purchase, %v) error: %v", tt.total, err)
		}
		if got != tt.want {
			t.Errorf("AmountFor(purchase, %v) = %d, want %d", tt.total, got, tt.want)
		}
	}

	if _, err := AmountFor(ReasonPurchase, 0); err == nil {
		t.Fatal("expected error for zero order total")
	}
}

func TestAmountForUnknownReason(t *testing.T) {
	if _, err := AmountFor("free_money", 0); err == nil {
		t.Fatal("expected error for unknown reason")
	}
}
