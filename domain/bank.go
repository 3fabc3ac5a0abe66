package domain

import (
	"time"
)

// CREATE TABLE public.banks (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name            TEXT NOT NULL UNIQUE,
//     logo_url        TEXT,
//     api_identifier  TEXT,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Bank struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"column:name;type:text;unique;not null" json:"name"`
	LogoURL       string    `gorm:"column:logo_url;type:text" json:"logo_url"`
	APIIdentifier string    `gorm:"column:api_identifier;type:text" json:"api_identifier"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Bank) TableName() string {
	return "banks"
}
