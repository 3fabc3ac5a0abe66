package expense

import (
	"context"
	"fmt"
	"time"

	"cardPilot/business/recommend"
	"cardPilot/domain"
	"cardPilot/pkg/logger"

	"github.com/shopspring/decimal"
)

// ExpenseRepository contract interface
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	FindByID(ctx context.Context, id uint64) (domain.Expense, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Expense, error)
	Delete(ctx context.Context, id uint64) error
}

type WalletRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.UserCard, error)
}

// expenseService records spending and derives the rewards each expense
// earned from the card's own rules, so the history the scorer learns from
// matches what the engine would have recommended.
type expenseService struct {
	expenseRepo ExpenseRepository
	walletRepo  WalletRepository
	engine      *recommend.Engine
}

func NewExpenseService(expenseRepo ExpenseRepository, walletRepo WalletRepository, engine *recommend.Engine) *expenseService {
	return &expenseService{
		expenseRepo: expenseRepo,
		walletRepo:  walletRepo,
		engine:      engine,
	}
}

func (s *expenseService) AddExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if expense.UserID == 0 || expense.CategoryID == 0 {
		return nil, fmt.Errorf("%w: user and category are required", domain.ErrInvalidInput)
	}
	if expense.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if expense.SpentAt.IsZero() {
		expense.SpentAt = time.Now()
	}

	if expense.UserCardID != nil {
		entry, err := s.walletRepo.FindByID(ctx, *expense.UserCardID)
		if err != nil {
			return nil, err
		}
		if entry.UserID != expense.UserID {
			return nil, domain.ErrUserCardNotFound
		}
		expense.RewardsEarned = s.rewardsFor(entry, expense)
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		logger.Error("failed to record expense", err)
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	logger.Info("expense recorded",
		"user_id", expense.UserID,
		"category_id", expense.CategoryID,
		"amount", expense.Amount.String(),
		"rewards", expense.RewardsEarned.String(),
	)
	return expense, nil
}

// rewardsFor runs the paying card alone through the rule engine at the
// spend time; no eligible rule means zero rewards, never an error.
func (s *expenseService) rewardsFor(entry domain.UserCard, expense *domain.Expense) decimal.Decimal {
	txn := domain.Transaction{
		CategoryID: expense.CategoryID,
		Amount:     expense.Amount,
		Merchant:   expense.Merchant,
	}

	result, err := s.engine.RecommendForTransaction([]domain.UserCard{entry}, txn, expense.SpentAt)
	if err != nil || result.BestCard == nil {
		return decimal.Zero
	}
	return result.BestCard.Benefit
}

func (s *expenseService) GetExpenses(ctx context.Context, userID uint) ([]domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	return s.expenseRepo.FindByUser(ctx, userID)
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID uint, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if expense.UserID != userID {
		return fmt.Errorf("%w: expense not found", domain.ErrInvalidInput)
	}

	return s.expenseRepo.Delete(ctx, id)
}

// GetSummary aggregates a user's history: totals, per-category and
// per-month (YYYY-MM) breakdowns.
func (s *expenseService) GetSummary(ctx context.Context, userID uint) (domain.ExpenseSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 {
		return domain.ExpenseSummary{}, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}

	expenses, err := s.expenseRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("failed to load expenses", err)
		return domain.ExpenseSummary{}, err
	}

	summary := domain.ExpenseSummary{
		ByCategory: map[uint64]decimal.Decimal{},
		ByMonth:    map[string]decimal.Decimal{},
	}

	for _, expense := range expenses {
		summary.TotalSpending = summary.TotalSpending.Add(expense.Amount)
		summary.TransactionCount++
		summary.ByCategory[expense.CategoryID] = summary.ByCategory[expense.CategoryID].Add(expense.Amount)
		month := expense.SpentAt.Format("2006-01")
		summary.ByMonth[month] = summary.ByMonth[month].Add(expense.Amount)
	}

	if summary.TransactionCount > 0 {
		summary.AverageTransaction = summary.TotalSpending.
			Div(decimal.NewFromInt(int64(summary.TransactionCount))).
			Round(2)
	}

	return summary, nil
}
