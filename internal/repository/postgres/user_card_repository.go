package postgres

import (
	"context"
	"errors"
	"fmt"

	"cardPilot/domain"

	"gorm.io/gorm"
)

type UserCardRepository struct {
	DB *gorm.DB
}

func NewUserCardRepository(db *gorm.DB) *UserCardRepository {
	return &UserCardRepository{
		DB: db,
	}
}

func (r *UserCardRepository) Create(ctx context.Context, entry *domain.UserCard) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create wallet entry: %w", err)
	}

	return nil
}

func (r *UserCardRepository) FindByID(ctx context.Context, id uint64) (domain.UserCard, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserCard{}, fmt.Errorf("context error: %w", err)
	}

	var entry domain.UserCard

	err := r.DB.WithContext(ctx).
		Preload("Card").
		Preload("Card.Bank").
		Preload("Card.CashbackRules").
		Preload("Card.CashbackRules.Exclusions").
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserCard{}, domain.ErrUserCardNotFound
		}
		return domain.UserCard{}, fmt.Errorf("failed to find wallet entry: %w", err)
	}

	return entry, nil
}

// FindByUser is the wallet read the whole recommendation path runs on;
// cards come back fully hydrated so the engine never touches the database.
func (r *UserCardRepository) FindByUser(ctx context.Context, userID uint) ([]domain.UserCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.UserCard
	err := r.DB.WithContext(ctx).
		Preload("Card").
		Preload("Card.Bank").
		Preload("Card.CashbackRules").
		Preload("Card.CashbackRules.Exclusions").
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}

	return entries, nil
}

func (r *UserCardRepository) FindByUserAndCard(ctx context.Context, userID uint, cardID uint64) (domain.UserCard, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserCard{}, fmt.Errorf("context error: %w", err)
	}

	var entry domain.UserCard

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserCard{}, domain.ErrUserCardNotFound
		}
		return domain.UserCard{}, fmt.Errorf("failed to find wallet entry: %w", err)
	}

	return entry, nil
}

func (r *UserCardRepository) Update(ctx context.Context, entry *domain.UserCard) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.UserCard{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
		"credit_limit":    entry.CreditLimit,
		"current_balance": entry.CurrentBalance,
		"due_date":        entry.DueDate,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserCardNotFound
	}

	return nil
}

func (r *UserCardRepository) SetVerified(ctx context.Context, id uint64, verified bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.UserCard{}).Where("id = ?", id).Update("verified", verified)
	if result.Error != nil {
		return fmt.Errorf("failed to set wallet entry verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserCardNotFound
	}

	return nil
}

func (r *UserCardRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.UserCard{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete wallet entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserCardNotFound
	}

	return nil
}
