package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.expenses (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id      BIGINT NOT NULL REFERENCES users(id),
//     user_card_id BIGINT REFERENCES user_cards(id),
//     category_id  BIGINT NOT NULL REFERENCES categories(id),
//     amount       NUMERIC NOT NULL,
//     merchant     TEXT,
//     rewards_earned NUMERIC DEFAULT 0,
//     spent_at     TIMESTAMPTZ NOT NULL,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Expense struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint            `gorm:"column:user_id;not null" json:"user_id"`
	UserCardID    *uint64         `gorm:"column:user_card_id" json:"user_card_id"`
	CategoryID    uint64          `gorm:"column:category_id;not null" json:"category_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric;not null" json:"amount"`
	Merchant      string          `gorm:"column:merchant;type:text" json:"merchant"`
	RewardsEarned decimal.Decimal `gorm:"column:rewards_earned;type:numeric;default:0" json:"rewards_earned"`
	SpentAt       time.Time       `gorm:"column:spent_at;not null" json:"spent_at"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

// ExpenseSummary aggregates a user's spending for the scorer features and
// the dashboard view.
type ExpenseSummary struct {
	TotalSpending      decimal.Decimal            `json:"total_spending"`
	TransactionCount   int                        `json:"transaction_count"`
	AverageTransaction decimal.Decimal            `json:"average_transaction"`
	ByCategory         map[uint64]decimal.Decimal `json:"by_category"`
	ByMonth            map[string]decimal.Decimal `json:"by_month"`
}
