// Package tier defines the loyalty tier ladder and resolves a points
// balance to its current and next tier.
package tier

import "fmt"

// Tier is one rung of the loyalty ladder.
type Tier struct {
	Name      string   `json:"name"`
	MinPoints int      `json:"minPoints"`
	Color     string   `json:"color"`
	Rewards   []string `json:"rewards"`
}

// DefaultTiers is the standard ladder, ascending by threshold.
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name:      "Bronze",
			MinPoints: 0,
			Color:     "#CD7F32",
			Rewards:   []string{"Welcome bonus", "Birthday reward"},
		},
		{
			Name:      "Silver",
			MinPoints: 500,
			Color:     "#C0C0C0",
			Rewards:   []string{"Free shipping", "Early sale access"},
		},
		{
			Name:      "Gold",
			MinPoints: 1000,
			Color:     "#FFD700",
			Rewards:   []string{"Exclusive products", "Double points events"},
		},
		{
			Name:      "Platinum",
			MinPoints: 2500,
			Color:     "#E5E4E2",
			Rewards:   []string{"Personal shopper", "VIP support"},
		},
		{
			Name:      "Diamond",
			MinPoints: 5000,
			Color:     "#B9F2FF",
			Rewards:   []string{"Annual gift", "Concierge service", "Invite-only events"},
		},
	}
}

// Validate checks that the ladder is non-empty, starts at zero, and is
// strictly ascending.
func Validate(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tier ladder is empty")
	}
	if tiers[0].MinPoints != 0 {
		return fmt.Errorf("first tier %q must start at 0 points, got %d", tiers[0].Name, tiers[0].MinPoints)
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinPoints <= tiers[i-1].MinPoints {
			return fmt.Errorf("tier %q threshold %d does not exceed %q threshold %d",
				tiers[i].Name, tiers[i].MinPoints, tiers[i-1].Name, tiers[i-1].MinPoints)
		}
	}
	return nil
}

// Resolve returns the tier the balance sits in and the next tier up.
// Next is nil at or above the top tier. Negative balances resolve to the
// base tier.
func Resolve(points int, tiers []Tier) (current Tier, next *Tier) {
	if len(tiers) == 0 {
		return Tier{}, nil
	}

	current = tiers[0]
	for _, t := range tiers {
		if points >= t.MinPoints {
			current = t
		}
	}
	for i := range tiers {
		if tiers[i].MinPoints > points {
			next = &tiers[i]
			break
		}
	}
	return current, next
}
