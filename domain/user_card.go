package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.user_cards (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id         BIGINT NOT NULL REFERENCES users(id),
//     card_id         BIGINT NOT NULL REFERENCES credit_cards(id),
//     last4_digits    TEXT,
//     verified        BOOLEAN DEFAULT FALSE,
//     credit_limit    NUMERIC DEFAULT 0,
//     current_balance NUMERIC DEFAULT 0,
//     due_date        TIMESTAMPTZ,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (user_id, card_id)
// );

// UserCard links a user to a card in their wallet. It carries no reward
// data itself; rules are reached through the Card association. The credit
// limit, balance and due date are the user's own numbers and only feed the
// heuristic scorer, never the rule-driven engine.
type UserCard struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint            `gorm:"column:user_id;not null;uniqueIndex:idx_user_card" json:"user_id"`
	CardID         uint64          `gorm:"column:card_id;not null;uniqueIndex:idx_user_card" json:"card_id"`
	Card           Card            `gorm:"foreignKey:CardID" json:"card"`
	Last4Digits    string          `gorm:"column:last4_digits;type:text" json:"last4_digits"`
	Verified       bool            `gorm:"column:verified;default:false" json:"verified"`
	CreditLimit    decimal.Decimal `gorm:"column:credit_limit;type:numeric;default:0" json:"credit_limit"`
	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:numeric;default:0" json:"current_balance"`
	DueDate        *time.Time      `gorm:"column:due_date" json:"due_date"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (UserCard) TableName() string {
	return "user_cards"
}
