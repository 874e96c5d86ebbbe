package plan

// Tier identifies one of the three subscription tiers offered by the
// directory. Tiers are totally ordered for upgrade/downgrade decisions:
// free < pro < enterprise.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// tierRank defines the ordering used for upgrade comparisons.
var tierRank = map[Tier]int{
	TierFree:       0,
	TierPro:        1,
	TierEnterprise: 2,
}

// Tiers returns all known tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierFree, TierPro, TierEnterprise}
}

// ParseTier maps a stored tier name to a known Tier.
// Unknown or empty values resolve to TierFree so that malformed profile data
// degrades to the most restrictive interpretation instead of failing.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierFree, TierPro, TierEnterprise:
		return Tier(s)
	default:
		return TierFree
	}
}

// IsValid reports whether t is one of the three known tiers.
func (t Tier) IsValid() bool {
	_, ok := tierRank[t]
	return ok
}

// IsPaid reports whether the tier requires a billing subscription.
func (t Tier) IsPaid() bool {
	return t == TierPro || t == TierEnterprise
}

// Compare returns -1, 0 or 1 if t is below, equal to or above other.
// Unknown tiers rank below free.
func (t Tier) Compare(other Tier) int {
	tr, ok := tierRank[t]
	if !ok {
		tr = -1
	}
	or, ok := tierRank[other]
	if !ok {
		or = -1
	}
	switch {
	case tr < or:
		return -1
	case tr > or:
		return 1
	default:
		return 0
	}
}

// UpgradeCandidates returns the tiers strictly above t, in ascending order.
// A tenant on pro sees only enterprise; a tenant on enterprise sees none.
func UpgradeCandidates(t Tier) []Tier {
	candidates := make([]Tier, 0, 2)
	for _, candidate := range Tiers() {
		if candidate.Compare(t) > 0 {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}
