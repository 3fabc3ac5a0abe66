package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.credit_cards (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     bank_id          BIGINT NOT NULL REFERENCES banks(id),
//     card_name        TEXT NOT NULL,
//     card_network     TEXT,
//     annual_fee       NUMERIC DEFAULT 0,
//     fee_waiver_spend NUMERIC,
//     active           BOOLEAN DEFAULT TRUE,
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (bank_id, card_name)
// );

type Card struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	BankID         uint64           `gorm:"column:bank_id;not null;uniqueIndex:idx_bank_card" json:"bank_id"`
	Bank           Bank             `gorm:"foreignKey:BankID" json:"bank"`
	CardName       string           `gorm:"column:card_name;type:text;not null;uniqueIndex:idx_bank_card" json:"card_name"`
	CardNetwork    string           `gorm:"column:card_network;type:text" json:"card_network"`
	AnnualFee      decimal.Decimal  `gorm:"column:annual_fee;type:numeric;default:0" json:"annual_fee"`
	FeeWaiverSpend *decimal.Decimal `gorm:"column:fee_waiver_spend;type:numeric" json:"fee_waiver_spend"`
	Active         bool             `gorm:"column:active;default:true" json:"active"`
	CashbackRules  []CashbackRule   `gorm:"foreignKey:CardID" json:"cashback_rules,omitempty"`
	CreatedAt      time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Card) TableName() string {
	return "credit_cards"
}
