package tier

import "testing"

func TestResolve(t *testing.T) {
	tiers := DefaultTiers()

	tests := []struct {
		points      int
		wantCurrent string
		wantNext    string // "" means nil
	}{
		{-10, "Bronze", "Silver"},
		{0, "Bronze", "Silver"},
		{499, "Bronze", "Silver"},
		{500, "Silver", "Gold"},
		{1000, "Gold", "Platinum"},
		{2499, "Gold", "Platinum"},
		{2500, "Platinum", "Diamond"},
		{5000, "Diamond", ""},
		{99999, "Diamond", ""},
	}

	for _, tt := range tests {
		current, next := Resolve(tt.points, tiers)
		if current.Name != tt.wantCurrent {
			t.Errorf("Resolve(%d) current = %q, want %q", tt.points, current.Name, tt.wantCurrent)
		}
		if tt.wantNext == "" {
			if next != nil {
				t.Errorf("Resolve(%d) next = %q, want nil", tt.points, next.Name)
			}
		} else if next == nil || next.Name != tt.wantNext {
			t.Errorf("Resolve(%d) next = %v, want %q", tt.points, next, tt.wantNext)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(DefaultTiers()); err != nil {
		t.Fatalf("default tiers invalid: %v", err)
	}

	tests := []struct {
		name  string
		tiers []Tier
	}{
		{"empty", nil},
		{"nonzero base", []Tier{{Name: "A", MinPoints: 10}}},
		{"not ascending", []Tier{{Name: "A", MinPoints: 0}, {Name: "B", MinPoints: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.tiers); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
