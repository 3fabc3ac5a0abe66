package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RewardKind is the closed set of reward types a rule can pay out. The
// arithmetic is identical for all three; the kind only changes how the
// result is labelled and presented.
type RewardKind string

const (
	RewardCashback RewardKind = "cashback"
	RewardPoints   RewardKind = "points"
	RewardWaiver   RewardKind = "waiver"
)

func (k RewardKind) Valid() bool {
	switch k {
	case RewardCashback, RewardPoints, RewardWaiver:
		return true
	}
	return false
}

// Label returns the human-readable form used in explanations.
func (k RewardKind) Label() string {
	switch k {
	case RewardWaiver:
		return "surcharge waiver"
	case RewardPoints:
		return "reward points"
	default:
		return "cashback"
	}
}

// CREATE TABLE public.cashback_rules (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     card_id         BIGINT NOT NULL REFERENCES credit_cards(id),
//     category_id     BIGINT NOT NULL REFERENCES categories(id),
//     reward_type     TEXT NOT NULL,
//     reward_percent  NUMERIC NOT NULL,
//     max_reward      NUMERIC,
//     min_txn_amount  NUMERIC,
//     max_txn_amount  NUMERIC,
//     min_spend       NUMERIC,
//     reward_cycle    TEXT,
//     start_date      TIMESTAMPTZ,
//     end_date        TIMESTAMPTZ,
//     active          BOOLEAN DEFAULT TRUE,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

// CashbackRule describes one reward rule owned by a card for one category.
// Nil optional fields have documented meaning: nil MaxReward = uncapped,
// nil MinTxnAmount/MaxTxnAmount/MinSpend = no bound, nil StartDate/EndDate
// = always valid. A nil field is never the same as zero.
type CashbackRule struct {
	ID            uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID        uint64           `gorm:"column:card_id;not null" json:"card_id"`
	CategoryID    uint64           `gorm:"column:category_id;not null" json:"category_id"`
	RewardType    RewardKind       `gorm:"column:reward_type;type:text;not null" json:"reward_type"`
	RewardPercent decimal.Decimal  `gorm:"column:reward_percent;type:numeric;not null" json:"reward_percent"`
	MaxReward     *decimal.Decimal `gorm:"column:max_reward;type:numeric" json:"max_reward"`
	MinTxnAmount  *decimal.Decimal `gorm:"column:min_txn_amount;type:numeric" json:"min_txn_amount"`
	MaxTxnAmount  *decimal.Decimal `gorm:"column:max_txn_amount;type:numeric" json:"max_txn_amount"`
	MinSpend      *decimal.Decimal `gorm:"column:min_spend;type:numeric" json:"min_spend"`
	RewardCycle   string           `gorm:"column:reward_cycle;type:text" json:"reward_cycle"`
	StartDate     *time.Time       `gorm:"column:start_date" json:"start_date"`
	EndDate       *time.Time       `gorm:"column:end_date" json:"end_date"`
	Active        bool             `gorm:"column:active;default:true" json:"active"`
	Exclusions    []Exclusion      `gorm:"foreignKey:CashbackRuleID" json:"exclusions,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (CashbackRule) TableName() string {
	return "cashback_rules"
}

// CREATE TABLE public.cashback_exclusions (
//     id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     cashback_rule_id  BIGINT NOT NULL REFERENCES cashback_rules(id),
//     exclusion_type    TEXT,
//     excluded_merchant TEXT,
//     created_at        TIMESTAMPTZ DEFAULT NOW()
// );

// Exclusion removes an otherwise eligible rule from consideration.
// ExcludedMerchant is matched as a case-insensitive substring of the
// transaction merchant. Type-only exclusions (no merchant pattern) are
// informational: they are reported alongside the rule but there is no
// transaction field to enforce them against.
type Exclusion struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CashbackRuleID   uint64    `gorm:"column:cashback_rule_id;not null" json:"cashback_rule_id"`
	ExclusionType    string    `gorm:"column:exclusion_type;type:text" json:"exclusion_type"`
	ExcludedMerchant string    `gorm:"column:excluded_merchant;type:text" json:"excluded_merchant"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Exclusion) TableName() string {
	return "cashback_exclusions"
}
