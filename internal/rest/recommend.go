package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cardPilot/business/recommend"
	"cardPilot/domain"
	"cardPilot/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ResponseError is the plain error envelope returned by handlers.
type ResponseError struct {
	Message string `json:"message"`
}

// errStatus maps the domain error taxonomy to HTTP codes; anything
// unrecognized is a 500.
func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrBankNotFound),
		errors.Is(err, domain.ErrRuleNotFound),
		errors.Is(err, domain.ErrUserCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRepositoryUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
		timeout          time.Duration
	}

	RecommendService interface {
		Recommend(ctx context.Context, userID uint, categoryID uint64, amount decimal.Decimal, merchant string) (domain.RankedResult, error)
		BestCardsPerCategory(ctx context.Context, userID uint) (map[uint64]domain.BestCardSummary, error)
		CardsForCategory(ctx context.Context, categoryID uint64) ([]domain.CategoryCard, error)
		SmartRecommend(ctx context.Context, userID uint, categoryID uint64, amount decimal.Decimal, merchant string) ([]domain.ScoredCard, error)
		RetuneWeights(ctx context.Context, userID uint) (recommend.ScoreWeights, error)
	}

	RecommendRequest struct {
		CategoryID uint64          `json:"category_id" validate:"required"`
		Amount     decimal.Decimal `json:"amount" validate:"required"`
		Merchant   string          `json:"merchant"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
		timeout:          10 * time.Second,
	}
}

// Recommend answers which wallet card should pay for one transaction.
// POST /api/v1/recommendations
func (h *RecommendHandler) Recommend(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.recommendService.Recommend(ctx, userID, req.CategoryID, req.Amount, req.Merchant)
	if err != nil {
		logger.Error("recommendation failed", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// Compare returns the full ranked list for one transaction, never just
// the winner.
// POST /api/v1/recommendations/compare
func (h *RecommendHandler) Compare(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.recommendService.Recommend(ctx, userID, req.CategoryID, req.Amount, req.Merchant)
	if err != nil {
		logger.Error("comparison failed", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"success": result.Success,
		"message": result.Message,
		"options": result.AllOptions,
	}))
}

// Smart ranks the whole wallet with the weighted scorer.
// POST /api/v1/recommendations/smart
func (h *RecommendHandler) Smart(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	scored, err := h.recommendService.SmartRecommend(ctx, userID, req.CategoryID, req.Amount, req.Merchant)
	if err != nil {
		logger.Error("smart recommendation failed", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(scored))
}

// CardsForCategory lists every catalog card carrying a live rule for a
// category, wallet-independent.
// GET /api/v1/recommendations/category/:categoryId
func (h *RecommendHandler) CardsForCategory(c echo.Context) error {
	categoryID, err := strconv.ParseUint(c.Param("categoryId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.recommendService.CardsForCategory(ctx, categoryID)
	if err != nil {
		logger.Error("category listing failed", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entries))
}

// BestCards reports the best wallet card per category.
// GET /api/v1/recommendations/user/:id/best-cards
func (h *RecommendHandler) BestCards(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.recommendService.BestCardsPerCategory(ctx, uint(userID))
	if err != nil {
		logger.Error("best cards lookup failed", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// RetuneWeights recomputes the scorer weight set from the caller's
// expense history.
// POST /api/v1/recommendations/retune
func (h *RecommendHandler) RetuneWeights(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	weights, err := h.recommendService.RetuneWeights(ctx, userID)
	if err != nil {
		logger.Error("weight retune failed", err)
		return c.JSON(errStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(weights))
}
