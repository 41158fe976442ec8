package email

import (
	"strings"
	"testing"
)

func TestRenderWelcomeTemplate(t *testing.T) {
	out, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{Title: "Welcome", Heading: "You're on the list!"},
		Name:          "Sam",
		ReferralCode:  "REF-ABC123",
		DiscountCode:  "SAVE-XYZ789",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Sam", "REF-ABC123", "SAVE-XYZ789", "You're on the list!"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered welcome email missing %q", want)
		}
	}
}

func TestRenderPointsEarnedTemplate(t *testing.T) {
	out, err := renderEmailTemplate("points_earned.html", pointsEarnedEmailData{
		baseEmailData: baseEmailData{Title: "Points", Heading: "You earned 25 points"},
		Amount:        25,
		NewTotal:      125,
		Reason:        reasonLabel("social_share"),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"25", "125", "Social share"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered points email missing %q", want)
		}
	}
}

func TestReasonLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"signup_bonus", "Signup bonus"},
		{"purchase", "Purchase"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := reasonLabel(tt.in); got != tt.want {
			t.Errorf("reasonLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
