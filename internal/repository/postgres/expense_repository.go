package postgres

import (
	"context"
	"errors"
	"fmt"

	"cardPilot/domain"

	"gorm.io/gorm"
)

type ExpenseRepository struct {
	DB *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{
		DB: db,
	}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id uint64) (domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return domain.Expense{}, fmt.Errorf("context error: %w", err)
	}

	var expense domain.Expense

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Expense{}, errors.New("expense not found")
		}
		return domain.Expense{}, fmt.Errorf("failed to find expense: %w", err)
	}

	return expense, nil
}

func (r *ExpenseRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var expenses []domain.Expense
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("spent_at desc").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expenses: %w", err)
	}

	return expenses, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Expense{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("expense not found")
	}

	return nil
}
