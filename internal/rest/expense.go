package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"cardPilot/domain"
	"cardPilot/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ExpenseService interface {
	AddExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	GetExpenses(ctx context.Context, userID uint) ([]domain.Expense, error)
	GetSummary(ctx context.Context, userID uint) (domain.ExpenseSummary, error)
	DeleteExpense(ctx context.Context, userID uint, id uint64) error
}

type ExpenseHandler struct {
	expenseService ExpenseService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewExpenseHandler(expenseService ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type AddExpenseRequest struct {
	UserCardID *uint64         `json:"user_card_id"`
	CategoryID uint64          `json:"category_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Merchant   string          `json:"merchant"`
	SpentAt    *time.Time      `json:"spent_at"`
}

func (h *ExpenseHandler) AddExpense(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AddExpenseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	expense := &domain.Expense{
		UserID:     userID,
		UserCardID: req.UserCardID,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Merchant:   req.Merchant,
	}
	if req.SpentAt != nil {
		expense.SpentAt = *req.SpentAt
	}

	recorded, err := h.expenseService.AddExpense(ctx, expense)
	if err != nil {
		logger.Error("failed to record expense", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(recorded))
}

func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	expenses, err := h.expenseService.GetExpenses(ctx, userID)
	if err != nil {
		logger.Error("failed to load expenses", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(expenses))
}

func (h *ExpenseHandler) GetSummary(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.expenseService.GetSummary(ctx, userID)
	if err != nil {
		logger.Error("failed to build expense summary", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	expenseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid expense id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.expenseService.DeleteExpense(ctx, userID, expenseID); err != nil {
		logger.Error("failed to delete expense", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(expenseID))
}
