package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ScorerConfig is a named, persisted weight set for the heuristic scorer.
// Weights are stored as JSONB so an admin can tune them without a schema
// change; WeightsRaw is the DB column, the decoded struct lives in the
// recommend package.
type ScorerConfig struct {
	Name       string         `gorm:"column:name;primaryKey" json:"name"`
	WeightsRaw datatypes.JSON `gorm:"column:weights;type:jsonb" json:"weights"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ScorerConfig) TableName() string {
	return "scorer_configs"
}
