package recommend

import (
	"fmt"

	"cardPilot/domain"
)

// Explain renders the deterministic justification string for a rule:
// "{rate}% {kind}", then " (max ₹{cap})" when capped, then " per {cycle}"
// when the rule has a reward cycle. Derived from the rule alone, so equal
// rules always explain identically.
func (c Config) Explain(rule domain.CashbackRule) string {
	explanation := fmt.Sprintf("%s%% %s", rule.RewardPercent.String(), rule.RewardType.Label())

	if rule.MaxReward != nil {
		explanation += fmt.Sprintf(" (max %s%s)", c.CurrencySymbol, rule.MaxReward.String())
	}

	if rule.RewardCycle != "" {
		explanation += fmt.Sprintf(" per %s", rule.RewardCycle)
	}

	return explanation
}
