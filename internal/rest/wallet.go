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

type WalletService interface {
	AddCard(ctx context.Context, entry *domain.UserCard) (*domain.UserCard, string, error)
	VerifyCard(ctx context.Context, userID uint, code string) error
	GetWallet(ctx context.Context, userID uint) ([]domain.UserCard, error)
	UpdateCardNumbers(ctx context.Context, userID uint, entryID uint64, update *domain.UserCard) (*domain.UserCard, error)
	RemoveCard(ctx context.Context, userID uint, entryID uint64) error
}

type WalletHandler struct {
	walletService WalletService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewWalletHandler(walletService WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type (
	AddCardRequest struct {
		CardID         uint64          `json:"card_id" validate:"required"`
		Last4Digits    string          `json:"last4_digits" validate:"required,len=4,numeric"`
		CreditLimit    decimal.Decimal `json:"credit_limit"`
		CurrentBalance decimal.Decimal `json:"current_balance"`
		DueDate        *time.Time      `json:"due_date"`
	}

	VerifyCardRequest struct {
		Code string `json:"code" validate:"required"`
	}

	UpdateCardNumbersRequest struct {
		CreditLimit    decimal.Decimal `json:"credit_limit"`
		CurrentBalance decimal.Decimal `json:"current_balance"`
		DueDate        *time.Time      `json:"due_date"`
	}
)

func (h *WalletHandler) AddCard(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AddCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entry, code, err := h.walletService.AddCard(ctx, &domain.UserCard{
		UserID:         userID,
		CardID:         req.CardID,
		Last4Digits:    req.Last4Digits,
		CreditLimit:    req.CreditLimit,
		CurrentBalance: req.CurrentBalance,
		DueDate:        req.DueDate,
	})
	if err != nil {
		logger.Error("failed to add card to wallet", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"card":              entry,
		"verification_code": code,
	}))
}

func (h *WalletHandler) VerifyCard(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req VerifyCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.walletService.VerifyCard(ctx, userID, req.Code); err != nil {
		logger.Error("failed to verify card", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("card verified"))
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wallet, err := h.walletService.GetWallet(ctx, userID)
	if err != nil {
		logger.Error("failed to load wallet", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(wallet))
}

func (h *WalletHandler) UpdateCardNumbers(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wallet entry id"})
	}

	var req UpdateCardNumbersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entry, err := h.walletService.UpdateCardNumbers(ctx, userID, entryID, &domain.UserCard{
		CreditLimit:    req.CreditLimit,
		CurrentBalance: req.CurrentBalance,
		DueDate:        req.DueDate,
	})
	if err != nil {
		logger.Error("failed to update wallet entry", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entry))
}

func (h *WalletHandler) RemoveCard(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid wallet entry id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.walletService.RemoveCard(ctx, userID, entryID); err != nil {
		logger.Error("failed to remove card from wallet", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entryID))
}
