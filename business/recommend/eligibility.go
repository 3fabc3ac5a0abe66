package recommend

import (
	"strings"
	"time"

	"cardPilot/domain"
)

// isEligible decides whether a rule applies to a transaction at a point in
// time. The caller has already validated the transaction amount; category
// mismatch, inactive card or rule, a validity window miss, an amount bound
// miss, or a merchant exclusion hit each make the rule ineligible.
//
// Exclusions with only a type label and no merchant pattern never fail
// eligibility here; there is no transaction field to check them against,
// so they are surfaced in listings instead.
func isEligible(card domain.Card, rule domain.CashbackRule, txn domain.Transaction, now time.Time) bool {
	if rule.CategoryID != txn.CategoryID {
		return false
	}
	if !card.Active || !rule.Active {
		return false
	}

	if rule.StartDate != nil && now.Before(*rule.StartDate) {
		return false
	}
	if rule.EndDate != nil && now.After(*rule.EndDate) {
		return false
	}

	if rule.MinTxnAmount != nil && txn.Amount.LessThan(*rule.MinTxnAmount) {
		return false
	}
	if rule.MaxTxnAmount != nil && txn.Amount.GreaterThan(*rule.MaxTxnAmount) {
		return false
	}

	// minSpend duplicates minTxnAmount semantics but is kept as a separate
	// field for rule-data compatibility
	if rule.MinSpend != nil && txn.Amount.LessThan(*rule.MinSpend) {
		return false
	}

	if txn.Merchant != "" && merchantExcluded(rule.Exclusions, txn.Merchant) {
		return false
	}

	return true
}

func merchantExcluded(exclusions []domain.Exclusion, merchant string) bool {
	m := strings.ToLower(merchant)
	for _, ex := range exclusions {
		if ex.ExcludedMerchant == "" {
			continue
		}
		if strings.Contains(m, strings.ToLower(ex.ExcludedMerchant)) {
			return true
		}
	}
	return false
}
