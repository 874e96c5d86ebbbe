package billing

import (
	"github.com/providerdir/providerdir/pkg/plan"
)

// PriceConfig carries the provider price IDs for each purchasable plan and
// interval, plus the featured-location add-on. The defaults match the
// sandbox catalog; production sets real price IDs through the environment.
type PriceConfig struct {
	ProMonthly        string `env:"PRICE_PRO_MONTHLY" envDefault:"price_pro_monthly"`
	ProAnnual         string `env:"PRICE_PRO_ANNUAL" envDefault:"price_pro_annual"`
	EnterpriseMonthly string `env:"PRICE_ENTERPRISE_MONTHLY" envDefault:"price_enterprise_monthly"`
	EnterpriseAnnual  string `env:"PRICE_ENTERPRISE_ANNUAL" envDefault:"price_enterprise_annual"`
	FeaturedMonthly   string `env:"PRICE_FEATURED_MONTHLY" envDefault:"price_featured_monthly"`
	FeaturedAnnual    string `env:"PRICE_FEATURED_ANNUAL" envDefault:"price_featured_annual"`
}

type priceKey struct {
	tier     plan.Tier
	interval Interval
}

// PriceTable resolves (tier, interval) to a provider price ID. It is built
// once from PriceConfig and never mutated.
type PriceTable struct {
	prices   map[priceKey]string
	featured map[Interval]string
}

// NewPriceTable builds the static price lookup from config.
func NewPriceTable(cfg PriceConfig) PriceTable {
	return PriceTable{
		prices: map[priceKey]string{
			{plan.TierPro, IntervalMonth}:        cfg.ProMonthly,
			{plan.TierPro, IntervalYear}:         cfg.ProAnnual,
			{plan.TierEnterprise, IntervalMonth}: cfg.EnterpriseMonthly,
			{plan.TierEnterprise, IntervalYear}:  cfg.EnterpriseAnnual,
		},
		featured: map[Interval]string{
			IntervalMonth: cfg.FeaturedMonthly,
			IntervalYear:  cfg.FeaturedAnnual,
		},
	}
}

// PriceID resolves a purchasable tier and interval to a price ID.
// Free and unknown tiers return ErrInvalidPlan; a known tier with no
// configured price returns ErrPriceNotConfigured.
func (t PriceTable) PriceID(tier plan.Tier, interval Interval) (string, error) {
	if !tier.IsPaid() {
		return "", ErrInvalidPlan
	}
	id, ok := t.prices[priceKey{tier, interval}]
	if !ok || id == "" {
		return "", ErrPriceNotConfigured
	}
	return id, nil
}

// FeaturedPriceID resolves the featured-location add-on price for an interval.
func (t PriceTable) FeaturedPriceID(interval Interval) (string, error) {
	id, ok := t.featured[interval]
	if !ok || id == "" {
		return "", ErrPriceNotConfigured
	}
	return id, nil
}
