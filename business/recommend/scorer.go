package recommend

import (
	"fmt"
	"sort"
	"time"

	"cardPilot/domain"

	"github.com/shopspring/decimal"
)

// ScoreWeights is the configurable weight set of the heuristic scorer: a
// plain weighted sum over six features, nothing learned. The default values
// mirror the rule-driven backend distribution; alternative distributions
// are just other values of this struct, persisted per name as JSONB.
type ScoreWeights struct {
	RewardRate      float64 `json:"reward_rate"`
	CategoryMatch   float64 `json:"category_match"`
	Utilization     float64 `json:"utilization"`
	SpendingHistory float64 `json:"spending_history"`
	AvailableCredit float64 `json:"available_credit"`
	DueDate         float64 `json:"due_date"`
}

const (
	defaultWRewardRate      = 0.35
	defaultWCategoryMatch   = 0.25
	defaultWUtilization     = 0.20
	defaultWSpendingHistory = 0.10
	defaultWAvailableCredit = 0.05
	defaultWDueDate         = 0.05

	// below this many observed expenses the weights are left untouched
	minOutcomeSamples = 10

	learningRate = 0.1
)

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		RewardRate:      defaultWRewardRate,
		CategoryMatch:   defaultWCategoryMatch,
		Utilization:     defaultWUtilization,
		SpendingHistory: defaultWSpendingHistory,
		AvailableCredit: defaultWAvailableCredit,
		DueDate:         defaultWDueDate,
	}
}

func (w ScoreWeights) sum() float64 {
	return w.RewardRate + w.CategoryMatch + w.Utilization +
		w.SpendingHistory + w.AvailableCredit + w.DueDate
}

// Normalized rescales the weights to sum to 1.
func (w ScoreWeights) Normalized() ScoreWeights {
	s := w.sum()
	if s == 0 {
		return DefaultScoreWeights()
	}
	return ScoreWeights{
		RewardRate:      w.RewardRate / s,
		CategoryMatch:   w.CategoryMatch / s,
		Utilization:     w.Utilization / s,
		SpendingHistory: w.SpendingHistory / s,
		AvailableCredit: w.AvailableCredit / s,
		DueDate:         w.DueDate / s,
	}
}

// ScoreFeatures are the per-card inputs to the weighted sum, each already
// normalized into [0, 1].
type ScoreFeatures struct {
	RewardRate      float64
	CategoryMatch   float64
	Utilization     float64
	SpendingHistory float64
	AvailableCredit float64
	DueDate         float64
}

// Score is the weighted sum on a 0-100 scale.
func (w ScoreWeights) Score(f ScoreFeatures) float64 {
	return (f.RewardRate*w.RewardRate +
		f.CategoryMatch*w.CategoryMatch +
		f.Utilization*w.Utilization +
		f.SpendingHistory*w.SpendingHistory +
		f.AvailableCredit*w.AvailableCredit +
		f.DueDate*w.DueDate) * 100
}

// OutcomeStats summarizes observed expense outcomes for weight tuning.
// CategoryImpact is the share of high-reward expenses that were earned in a
// specific category rather than the fallback one; UtilizationImpact is the
// corresponding signal for utilization.
type OutcomeStats struct {
	CategoryImpact    float64
	UtilizationImpact float64
	Samples           int
}

// UpdateWeights derives a new weight set from observed outcomes. It is a
// pure function: the caller decides when to apply and persist the result,
// the scorer itself never mutates its weights. With fewer than
// minOutcomeSamples observations the input is returned unchanged.
func UpdateWeights(current ScoreWeights, outcomes OutcomeStats) ScoreWeights {
	if outcomes.Samples < minOutcomeSamples {
		return current
	}

	next := current

	if outcomes.CategoryImpact > 0.7 {
		next.CategoryMatch += learningRate * 0.1
		next.RewardRate -= learningRate * 0.05
	}

	if outcomes.UtilizationImpact > 0.6 {
		next.Utilization += learningRate * 0.1
		next.RewardRate -= learningRate * 0.05
	}

	return next.Normalized()
}

// SpendingProfile is what the expense history contributes to scoring:
// how often the user spends in each category (share of transactions) and
// the average reward each wallet card has historically returned.
type SpendingProfile struct {
	CategoryPreference map[uint64]float64
	CardPerformance    map[uint64]float64
}

// ScoreWallet ranks the wallet with the heuristic scorer instead of the
// rule engine. Unlike RecommendForTransaction it never drops a card: every
// wallet entry gets a score, so the caller can show why a card placed low.
func (e *Engine) ScoreWallet(
	wallet []domain.UserCard,
	txn domain.Transaction,
	now time.Time,
	weights ScoreWeights,
	profile SpendingProfile,
) ([]domain.ScoredCard, error) {
	if txn.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	scored := make([]domain.ScoredCard, 0, len(wallet))

	for _, entry := range wallet {
		features := e.extractFeatures(entry, txn, now, profile)
		score := weights.Score(features)

		benefit := decimal.Zero
		if option, ok := e.bestOptionForCard(entry, txn, now); ok {
			benefit = option.Benefit
		}

		scored = append(scored, domain.ScoredCard{
			Card: domain.CardSummary{
				ID:          entry.Card.ID,
				Name:        entry.Card.CardName,
				Bank:        entry.Card.Bank.Name,
				Network:     entry.Card.CardNetwork,
				Last4Digits: entry.Last4Digits,
			},
			Score:       score,
			Benefit:     benefit,
			Confidence:  confidence(features),
			Reasons:     reasons(features),
			Utilization: utilizationAfter(entry, txn.Amount) * 100,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Card.ID < scored[j].Card.ID
	})

	return scored, nil
}

func (e *Engine) extractFeatures(entry domain.UserCard, txn domain.Transaction, now time.Time, profile SpendingProfile) ScoreFeatures {
	card := entry.Card

	// best active rate the card offers for the category, normalized against
	// a nominal 10% ceiling
	bestRate := 0.0
	hasRule := false
	for _, rule := range card.CashbackRules {
		if rule.CategoryID != txn.CategoryID || !rule.Active {
			continue
		}
		hasRule = true
		if rate, _ := rule.RewardPercent.Float64(); rate > bestRate {
			bestRate = rate
		}
	}
	rewardRate := min(1, bestRate/10)

	categoryMatch := 0.5
	if pref, ok := profile.CategoryPreference[txn.CategoryID]; ok {
		categoryMatch = pref
	}
	if !hasRule {
		categoryMatch *= 0.5
	}

	utilization := max(0, 1-utilizationAfter(entry, txn.Amount))

	history := profile.CardPerformance[card.ID]
	history = min(1, max(0, history))

	available := entry.CreditLimit.Sub(entry.CurrentBalance)
	creditScore := 0.0
	if available.GreaterThanOrEqual(txn.Amount) {
		creditScore = 1.0
	}

	dueScore := 0.0
	if entry.DueDate != nil {
		days := entry.DueDate.Sub(now).Hours() / 24
		dueScore = min(1, max(0, days/30))
	}

	return ScoreFeatures{
		RewardRate:      rewardRate,
		CategoryMatch:   categoryMatch,
		Utilization:     utilization,
		SpendingHistory: history,
		AvailableCredit: creditScore,
		DueDate:         dueScore,
	}
}

// utilizationAfter is the card's balance-to-limit ratio once the
// transaction lands, in [0, 1+]. Cards with no recorded limit report 0.
func utilizationAfter(entry domain.UserCard, amount decimal.Decimal) float64 {
	if entry.CreditLimit.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	ratio, _ := entry.CurrentBalance.Add(amount).Div(entry.CreditLimit).Float64()
	return ratio
}

// confidence grows with the number of strong features, capped at 95%.
func confidence(f ScoreFeatures) int {
	strong := 0
	for _, v := range []float64{f.RewardRate, f.CategoryMatch, f.Utilization, f.SpendingHistory, f.AvailableCredit, f.DueDate} {
		if v > 0.7 {
			strong++
		}
	}
	c := min(0.95, float64(strong)/6*0.8+0.2)
	return int(c*100 + 0.5)
}

func reasons(f ScoreFeatures) []string {
	out := make([]string, 0, 4)
	if f.RewardRate > 0.7 {
		out = append(out, "high reward rate for this category")
	}
	if f.CategoryMatch > 0.8 {
		out = append(out, "matches your usual spending")
	}
	if f.Utilization > 0.7 {
		out = append(out, "keeps utilization healthy")
	}
	if f.SpendingHistory > 0.5 {
		out = append(out, "strong historical rewards on this card")
	}
	if len(out) == 0 {
		out = append(out, "good overall match")
	}
	return out
}
