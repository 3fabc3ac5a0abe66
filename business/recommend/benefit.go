package recommend

import (
	"cardPilot/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Benefit is the monetary value an eligible rule yields for a transaction.
// Kind is copied from the rule verbatim; the calculator never converts
// points to currency.
type Benefit struct {
	Amount decimal.Decimal
	Kind   domain.RewardKind
}

// computeBenefit applies reward = min(amount × percent / 100, cap) and
// rounds to 2 decimal places, half away from zero at the cent boundary.
// A nil MaxReward means uncapped, which is not the same as a cap of zero.
// The caller must have passed the rule through isEligible first.
func computeBenefit(rule domain.CashbackRule, txn domain.Transaction) Benefit {
	raw := txn.Amount.Mul(rule.RewardPercent).Div(hundred)

	if rule.MaxReward != nil && raw.GreaterThan(*rule.MaxReward) {
		raw = *rule.MaxReward
	}

	return Benefit{
		Amount: raw.Round(2),
		Kind:   rule.RewardType,
	}
}
