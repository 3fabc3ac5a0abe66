package postgres

import (
	"context"
	"errors"
	"fmt"

	"cardPilot/domain"

	"gorm.io/gorm"
)

type BankRepository struct {
	DB *gorm.DB
}

func NewBankRepository(db *gorm.DB) *BankRepository {
	return &BankRepository{
		DB: db,
	}
}

func (r *BankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(bank).Error; err != nil {
		return fmt.Errorf("failed to create bank: %w", err)
	}

	return nil
}

func (r *BankRepository) FindByID(ctx context.Context, id uint64) (domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bank{}, fmt.Errorf("context error: %w", err)
	}

	var bank domain.Bank

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&bank).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bank{}, domain.ErrBankNotFound
		}
		return domain.Bank{}, fmt.Errorf("failed to find bank: %w", err)
	}

	return bank, nil
}

func (r *BankRepository) FindAll(ctx context.Context) ([]domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var banks []domain.Bank
	err := r.DB.WithContext(ctx).Order("id asc").Find(&banks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find banks: %w", err)
	}

	return banks, nil
}

func (r *BankRepository) Update(ctx context.Context, bank *domain.Bank) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":           bank.Name,
		"logo_url":       bank.LogoURL,
		"api_identifier": bank.APIIdentifier,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Bank{}).Where("id = ?", bank.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update bank: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBankNotFound
	}

	return nil
}

func (r *BankRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Bank{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete bank: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBankNotFound
	}

	return nil
}
