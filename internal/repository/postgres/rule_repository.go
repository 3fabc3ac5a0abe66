package postgres

import (
	"context"
	"errors"
	"fmt"

	"cardPilot/domain"

	"gorm.io/gorm"
)

type RuleRepository struct {
	DB *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{
		DB: db,
	}
}

func (r *RuleRepository) Create(ctx context.Context, rule *domain.CashbackRule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

func (r *RuleRepository) FindByID(ctx context.Context, id uint64) (domain.CashbackRule, error) {
	if err := ctx.Err(); err != nil {
		return domain.CashbackRule{}, fmt.Errorf("context error: %w", err)
	}

	var rule domain.CashbackRule

	err := r.DB.WithContext(ctx).
		Preload("Exclusions").
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CashbackRule{}, domain.ErrRuleNotFound
		}
		return domain.CashbackRule{}, fmt.Errorf("failed to find rule: %w", err)
	}

	return rule, nil
}

func (r *RuleRepository) FindByCard(ctx context.Context, cardID uint64) ([]domain.CashbackRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rules []domain.CashbackRule
	err := r.DB.WithContext(ctx).
		Preload("Exclusions").
		Where("card_id = ?", cardID).
		Order("id asc").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find rules: %w", err)
	}

	return rules, nil
}

func (r *RuleRepository) Update(ctx context.Context, rule *domain.CashbackRule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// nil-able bounds are written verbatim so a cleared field really
	// clears the column
	updateData := map[string]interface{}{
		"category_id":    rule.CategoryID,
		"reward_type":    rule.RewardType,
		"reward_percent": rule.RewardPercent,
		"max_reward":     rule.MaxReward,
		"min_txn_amount": rule.MinTxnAmount,
		"max_txn_amount": rule.MaxTxnAmount,
		"min_spend":      rule.MinSpend,
		"reward_cycle":   rule.RewardCycle,
		"start_date":     rule.StartDate,
		"end_date":       rule.EndDate,
		"active":         rule.Active,
	}

	result := r.DB.WithContext(ctx).Model(&domain.CashbackRule{}).Where("id = ?", rule.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("cashback_rule_id = ?", id).Delete(&domain.Exclusion{}).Error; err != nil {
		return fmt.Errorf("failed to delete rule exclusions: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.CashbackRule{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

func (r *RuleRepository) AddExclusion(ctx context.Context, exclusion *domain.Exclusion) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(exclusion).Error; err != nil {
		return fmt.Errorf("failed to create exclusion: %w", err)
	}

	return nil
}

func (r *RuleRepository) DeleteExclusion(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Exclusion{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete exclusion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}
