package domain

import (
	"github.com/shopspring/decimal"
)

// Transaction is the ephemeral input to the recommendation engine. It is
// never persisted by the engine.
type Transaction struct {
	CategoryID uint64          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Merchant   string          `json:"merchant"`
}

// CardSummary identifies a card in a recommendation payload.
type CardSummary struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Bank        string `json:"bank"`
	Network     string `json:"network"`
	Last4Digits string `json:"last4_digits,omitempty"`
}

// RuleSummary is the slice of a cashback rule a client needs to understand
// why a card was recommended.
type RuleSummary struct {
	ID            uint64           `json:"id"`
	RewardType    RewardKind       `json:"reward_type"`
	RewardPercent decimal.Decimal  `json:"reward_percent"`
	MaxReward     *decimal.Decimal `json:"max_reward"`
	RewardCycle   string           `json:"reward_cycle,omitempty"`
}

// CardOption is one ranked entry: the card, the rule the engine selected
// for it, and the benefit that rule yields for the transaction.
type CardOption struct {
	Card        CardSummary      `json:"card"`
	Rule        RuleSummary      `json:"rule"`
	Benefit     decimal.Decimal  `json:"benefit"`
	RewardType  RewardKind       `json:"reward_type"`
	PointsValue *decimal.Decimal `json:"points_value,omitempty"`
	Explanation string           `json:"explanation"`
}

// RankedResult is the full engine answer. Success is false only when the
// wallet itself is empty; an empty AllOptions with Success true means cards
// exist but no rule matched the transaction.
type RankedResult struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	BestCard   *CardOption  `json:"best_card,omitempty"`
	AllOptions []CardOption `json:"all_options"`
}

// BestCardSummary is the amount-independent "which card should I reach for
// in this category" answer, compared by rate rather than computed benefit.
type BestCardSummary struct {
	CategoryID    uint64           `json:"category_id"`
	Category      string           `json:"category"`
	Card          CardSummary      `json:"card"`
	RewardPercent decimal.Decimal  `json:"reward_percent"`
	RewardType    RewardKind       `json:"reward_type"`
	MaxReward     *decimal.Decimal `json:"max_reward"`
}

// CategoryCard is one entry of the wallet-independent category listing used
// for compare/marketing views. Exclusion type labels are surfaced here even
// though only merchant patterns are enforced.
type CategoryCard struct {
	Card          CardSummary      `json:"card"`
	RuleID        uint64           `json:"rule_id"`
	RewardType    RewardKind       `json:"reward_type"`
	RewardPercent decimal.Decimal  `json:"reward_percent"`
	MaxReward     *decimal.Decimal `json:"max_reward"`
	MinTxnAmount  *decimal.Decimal `json:"min_txn"`
	MaxTxnAmount  *decimal.Decimal `json:"max_txn"`
	Exclusions    []string         `json:"exclusions"`
}

// ScoredCard is one entry of the heuristic weighted-scorer ranking. Score
// is on a 0-100 scale; Confidence is a percentage.
type ScoredCard struct {
	Card        CardSummary     `json:"card"`
	Score       float64         `json:"score"`
	Benefit     decimal.Decimal `json:"benefit"`
	Confidence  int             `json:"confidence"`
	Reasons     []string        `json:"reasons"`
	Utilization float64         `json:"utilization_after"`
}
