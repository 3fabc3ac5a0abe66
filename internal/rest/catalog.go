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

// CatalogService is the admin surface over banks, cards and cashback
// rules.
type CatalogService interface {
	CreateBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error)
	GetAllBanks(ctx context.Context) ([]domain.Bank, error)
	UpdateBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error)
	DeleteBank(ctx context.Context, id uint64) error

	CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error)
	GetCardByID(ctx context.Context, id uint64) (domain.Card, error)
	GetAllCards(ctx context.Context) ([]domain.Card, error)
	UpdateCard(ctx context.Context, card *domain.Card) (*domain.Card, error)
	ToggleCardActive(ctx context.Context, id uint64) (domain.Card, error)
	DeleteCard(ctx context.Context, id uint64) error

	CreateRule(ctx context.Context, rule *domain.CashbackRule) (*domain.CashbackRule, error)
	GetRulesByCard(ctx context.Context, cardID uint64) ([]domain.CashbackRule, error)
	UpdateRule(ctx context.Context, rule *domain.CashbackRule) (*domain.CashbackRule, error)
	DeleteRule(ctx context.Context, id uint64) error

	AddExclusion(ctx context.Context, exclusion *domain.Exclusion) (*domain.Exclusion, error)
	DeleteExclusion(ctx context.Context, id uint64) error
}

type CatalogHandler struct {
	catalogService CatalogService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type (
	BankRequest struct {
		Name          string `json:"name" validate:"required"`
		LogoURL       string `json:"logo_url"`
		APIIdentifier string `json:"api_identifier"`
	}

	CardRequest struct {
		BankID         uint64           `json:"bank_id" validate:"required"`
		CardName       string           `json:"card_name" validate:"required"`
		CardNetwork    string           `json:"card_network"`
		AnnualFee      decimal.Decimal  `json:"annual_fee"`
		FeeWaiverSpend *decimal.Decimal `json:"fee_waiver_spend"`
	}

	RuleRequest struct {
		CardID        uint64           `json:"card_id" validate:"required"`
		CategoryID    uint64           `json:"category_id" validate:"required"`
		RewardType    string           `json:"reward_type" validate:"required,oneof=cashback points waiver"`
		RewardPercent decimal.Decimal  `json:"reward_percent" validate:"required"`
		MaxReward     *decimal.Decimal `json:"max_reward"`
		MinTxnAmount  *decimal.Decimal `json:"min_txn_amount"`
		MaxTxnAmount  *decimal.Decimal `json:"max_txn_amount"`
		MinSpend      *decimal.Decimal `json:"min_spend"`
		RewardCycle   string           `json:"reward_cycle"`
		StartDate     *time.Time       `json:"start_date"`
		EndDate       *time.Time       `json:"end_date"`
		Active        *bool            `json:"active"`
	}

	ExclusionRequest struct {
		CashbackRuleID   uint64 `json:"cashback_rule_id" validate:"required"`
		ExclusionType    string `json:"exclusion_type"`
		ExcludedMerchant string `json:"excluded_merchant"`
	}
)

// ---- banks ----

func (h *CatalogHandler) CreateBank(c echo.Context) error {
	var req BankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bank, err := h.catalogService.CreateBank(ctx, &domain.Bank{
		Name:          req.Name,
		LogoURL:       req.LogoURL,
		APIIdentifier: req.APIIdentifier,
	})
	if err != nil {
		logger.Error("failed to create bank", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(bank))
}

func (h *CatalogHandler) GetAllBanks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	banks, err := h.catalogService.GetAllBanks(ctx)
	if err != nil {
		logger.Error("failed to find banks", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(banks))
}

func (h *CatalogHandler) UpdateBank(c echo.Context) error {
	bankID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid bank id"})
	}

	var req BankRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bank, err := h.catalogService.UpdateBank(ctx, &domain.Bank{
		ID:            bankID,
		Name:          req.Name,
		LogoURL:       req.LogoURL,
		APIIdentifier: req.APIIdentifier,
	})
	if err != nil {
		logger.Error("failed to update bank", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bank))
}

func (h *CatalogHandler) DeleteBank(c echo.Context) error {
	bankID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid bank id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.catalogService.DeleteBank(ctx, bankID); err != nil {
		logger.Error("failed to delete bank", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bankID))
}

// ---- cards ----

func (h *CatalogHandler) CreateCard(c echo.Context) error {
	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.catalogService.CreateCard(ctx, &domain.Card{
		BankID:         req.BankID,
		CardName:       req.CardName,
		CardNetwork:    req.CardNetwork,
		AnnualFee:      req.AnnualFee,
		FeeWaiverSpend: req.FeeWaiverSpend,
		Active:         true,
	})
	if err != nil {
		logger.Error("failed to create card", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(card))
}

func (h *CatalogHandler) GetCardByID(c echo.Context) error {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid card id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.catalogService.GetCardByID(ctx, cardID)
	if err != nil {
		logger.Error("failed to find card", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(card))
}

func (h *CatalogHandler) GetAllCards(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cards, err := h.catalogService.GetAllCards(ctx)
	if err != nil {
		logger.Error("failed to find cards", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cards))
}

func (h *CatalogHandler) UpdateCard(c echo.Context) error {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid card id"})
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.catalogService.UpdateCard(ctx, &domain.Card{
		ID:             cardID,
		BankID:         req.BankID,
		CardName:       req.CardName,
		CardNetwork:    req.CardNetwork,
		AnnualFee:      req.AnnualFee,
		FeeWaiverSpend: req.FeeWaiverSpend,
	})
	if err != nil {
		logger.Error("failed to update card", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(card))
}

func (h *CatalogHandler) ToggleCardActive(c echo.Context) error {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid card id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.catalogService.ToggleCardActive(ctx, cardID)
	if err != nil {
		logger.Error("failed to toggle card", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(card))
}

func (h *CatalogHandler) DeleteCard(c echo.Context) error {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid card id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.catalogService.DeleteCard(ctx, cardID); err != nil {
		logger.Error("failed to delete card", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cardID))
}

// ---- cashback rules ----

func (h *CatalogHandler) ruleFromRequest(req RuleRequest) *domain.CashbackRule {
	rule := &domain.CashbackRule{
		CardID:        req.CardID,
		CategoryID:    req.CategoryID,
		RewardType:    domain.RewardKind(req.RewardType),
		RewardPercent: req.RewardPercent,
		MaxReward:     req.MaxReward,
		MinTxnAmount:  req.MinTxnAmount,
		MaxTxnAmount:  req.MaxTxnAmount,
		MinSpend:      req.MinSpend,
		RewardCycle:   req.RewardCycle,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Active:        true,
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	return rule
}

func (h *CatalogHandler) CreateRule(c echo.Context) error {
	var req RuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rule, err := h.catalogService.CreateRule(ctx, h.ruleFromRequest(req))
	if err != nil {
		logger.Error("failed to create rule", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(rule))
}

func (h *CatalogHandler) GetRulesByCard(c echo.Context) error {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid card id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rules, err := h.catalogService.GetRulesByCard(ctx, cardID)
	if err != nil {
		logger.Error("failed to find rules", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rules))
}

func (h *CatalogHandler) UpdateRule(c echo.Context) error {
	ruleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid rule id"})
	}

	var req RuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rule := h.ruleFromRequest(req)
	rule.ID = ruleID

	updated, err := h.catalogService.UpdateRule(ctx, rule)
	if err != nil {
		logger.Error("failed to update rule", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *CatalogHandler) DeleteRule(c echo.Context) error {
	ruleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid rule id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.catalogService.DeleteRule(ctx, ruleID); err != nil {
		logger.Error("failed to delete rule", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ruleID))
}

// ---- exclusions ----

func (h *CatalogHandler) AddExclusion(c echo.Context) error {
	var req ExclusionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	exclusion, err := h.catalogService.AddExclusion(ctx, &domain.Exclusion{
		CashbackRuleID:   req.CashbackRuleID,
		ExclusionType:    req.ExclusionType,
		ExcludedMerchant: req.ExcludedMerchant,
	})
	if err != nil {
		logger.Error("failed to add exclusion", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(exclusion))
}

func (h *CatalogHandler) DeleteExclusion(c echo.Context) error {
	exclusionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid exclusion id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.catalogService.DeleteExclusion(ctx, exclusionID); err != nil {
		logger.Error("failed to delete exclusion", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(exclusionID))
}
