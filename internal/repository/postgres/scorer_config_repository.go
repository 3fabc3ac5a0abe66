package postgres

import (
	"context"
	"errors"
	"fmt"

	"cardPilot/business/recommend"
	"cardPilot/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScorerConfigRepository persists named scorer weight sets as JSONB rows.
type ScorerConfigRepository struct {
	DB *gorm.DB
}

func NewScorerConfigRepository(db *gorm.DB) *ScorerConfigRepository {
	return &ScorerConfigRepository{
		DB: db,
	}
}

func (r *ScorerConfigRepository) GetWeights(ctx context.Context, name string) (recommend.ScoreWeights, bool, error) {
	if err := ctx.Err(); err != nil {
		return recommend.ScoreWeights{}, false, fmt.Errorf("context error: %w", err)
	}

	var row domain.ScorerConfig
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return recommend.ScoreWeights{}, false, nil
		}
		return recommend.ScoreWeights{}, false, fmt.Errorf("failed to load scorer config: %w", err)
	}

	weights, err := recommend.UnmarshalWeights(row.WeightsRaw)
	if err != nil {
		return recommend.ScoreWeights{}, false, fmt.Errorf("failed to decode scorer config %q: %w", name, err)
	}

	return weights, true, nil
}

func (r *ScorerConfigRepository) SaveWeights(ctx context.Context, name string, weights recommend.ScoreWeights) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := recommend.MarshalWeights(weights)
	if err != nil {
		return fmt.Errorf("failed to encode scorer config: %w", err)
	}

	row := domain.ScorerConfig{
		Name:       name,
		WeightsRaw: datatypes.JSON(raw),
	}

	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"weights", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save scorer config: %w", err)
	}

	return nil
}
