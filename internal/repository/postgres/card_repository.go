package postgres

import (
	"context"
	"errors"
	"fmt"

	"cardPilot/domain"

	"gorm.io/gorm"
)

type CardRepository struct {
	DB *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{
		DB: db,
	}
}

func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

func (r *CardRepository) FindByID(ctx context.Context, id uint64) (domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return domain.Card{}, fmt.Errorf("context error: %w", err)
	}

	var card domain.Card

	err := r.DB.WithContext(ctx).
		Preload("Bank").
		Preload("CashbackRules").
		Preload("CashbackRules.Exclusions").
		Where("id = ?", id).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Card{}, domain.ErrCardNotFound
		}
		return domain.Card{}, fmt.Errorf("failed to find card: %w", err)
	}

	return card, nil
}

func (r *CardRepository) FindAll(ctx context.Context) ([]domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var cards []domain.Card
	err := r.DB.WithContext(ctx).
		Preload("Bank").
		Preload("CashbackRules").
		Preload("CashbackRules.Exclusions").
		Order("id asc").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cards: %w", err)
	}

	return cards, nil
}

// FindActiveWithRulesForCategory loads only the active cards that carry at
// least one rule for the category; each card comes back with just its rules
// for that category, exclusions included.
func (r *CardRepository) FindActiveWithRulesForCategory(ctx context.Context, categoryID uint64) ([]domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var cards []domain.Card
	err := r.DB.WithContext(ctx).
		Preload("Bank").
		Preload("CashbackRules", "category_id = ?", categoryID).
		Preload("CashbackRules.Exclusions").
		Where("active = ?", true).
		Where("id IN (?)", r.DB.Model(&domain.CashbackRule{}).
			Select("card_id").
			Where("category_id = ?", categoryID)).
		Order("id asc").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cards for category: %w", err)
	}

	return cards, nil
}

func (r *CardRepository) Update(ctx context.Context, card *domain.Card) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"bank_id":      card.BankID,
		"card_name":    card.CardName,
		"card_network": card.CardNetwork,
		"annual_fee":   card.AnnualFee,
	}
	if card.FeeWaiverSpend != nil {
		updateData["fee_waiver_spend"] = *card.FeeWaiverSpend
	}

	result := r.DB.WithContext(ctx).Model(&domain.Card{}).Where("id = ?", card.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func (r *CardRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Card{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to set card active: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Card{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}
