package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardPilot/domain"
	"cardPilot/pkg/logger"
	"cardPilot/pkg/metrics"

	"github.com/shopspring/decimal"
)

// ---- Repository interfaces ----

// WalletRepository resolves a user's wallet with card, bank, rules and
// exclusions preloaded. The engine consumes the result read-only.
type WalletRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.UserCard, error)
}

// CardRepository supplies the system-wide card catalog for the
// wallet-independent category listing.
type CardRepository interface {
	FindActiveWithRulesForCategory(ctx context.Context, categoryID uint64) ([]domain.Card, error)
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

type ExpenseRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.Expense, error)
}

// ScorerConfigRepository reads a persisted weight set by name.
type ScorerConfigRepository interface {
	GetWeights(ctx context.Context, name string) (ScoreWeights, bool, error)
	SaveWeights(ctx context.Context, name string, weights ScoreWeights) error
}

// BestCardsCache is an optional read-through cache for the per-category
// aggregate; a nil cache disables caching entirely.
type BestCardsCache interface {
	Get(ctx context.Context, userID uint) (map[uint64]domain.BestCardSummary, bool, error)
	Set(ctx context.Context, userID uint, result map[uint64]domain.BestCardSummary) error
}

// DefaultWeightsName is the scorer config row the smart ranking reads.
const DefaultWeightsName = "default"

// ---- Usecase / Service ----

type RecommendService struct {
	engine       *Engine
	cfg          Config
	walletRepo   WalletRepository
	cardRepo     CardRepository
	categoryRepo CategoryRepository
	expenseRepo  ExpenseRepository
	scorerRepo   ScorerConfigRepository
	cache        BestCardsCache
}

func NewRecommendService(
	cfg Config,
	walletRepo WalletRepository,
	cardRepo CardRepository,
	categoryRepo CategoryRepository,
	expenseRepo ExpenseRepository,
	scorerRepo ScorerConfigRepository,
	cache BestCardsCache,
) *RecommendService {
	return &RecommendService{
		engine:       NewEngine(cfg),
		cfg:          cfg,
		walletRepo:   walletRepo,
		cardRepo:     cardRepo,
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
		scorerRepo:   scorerRepo,
		cache:        cache,
	}
}

// Recommend answers "which of my cards should pay for this" for one
// prospective transaction.
func (s *RecommendService) Recommend(ctx context.Context, userID uint, categoryID uint64, amount decimal.Decimal, merchant string) (domain.RankedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RankedResult{}, fmt.Errorf("context error: %w", err)
	}

	if userID == 0 || categoryID == 0 {
		return domain.RankedResult{}, fmt.Errorf("%w: user and category are required", domain.ErrInvalidInput)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.RankedResult{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return domain.RankedResult{}, s.repoErr("load category", err)
	}

	wallet, err := s.walletRepo.FindByUser(ctx, userID)
	if err != nil {
		return domain.RankedResult{}, s.repoErr("load wallet", err)
	}

	start := time.Now()
	txn := domain.Transaction{CategoryID: categoryID, Amount: amount, Merchant: merchant}
	result, err := s.engine.RecommendForTransaction(wallet, txn, time.Now())
	if err != nil {
		return domain.RankedResult{}, err
	}

	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	metrics.RecommendTotal.Inc()
	if len(result.AllOptions) == 0 {
		metrics.NoEligibleCardTotal.Inc()
	}

	logger.Debug("recommend",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"category_id", categoryID,
		"amount", amount.String(),
		"options", len(result.AllOptions),
	)

	return result, nil
}

// BestCardsPerCategory is the amount-independent aggregate over every
// category in the system, cached per user when a cache is wired.
func (s *RecommendService) BestCardsPerCategory(ctx context.Context, userID uint) (map[uint64]domain.BestCardSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
			metrics.BestCardsCacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.BestCardsCacheHits.WithLabelValues("miss").Inc()
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, s.repoErr("load categories", err)
	}

	wallet, err := s.walletRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, s.repoErr("load wallet", err)
	}

	result := s.engine.BestCardPerCategory(categories, wallet)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, result); err != nil {
			logger.Warn("failed to cache best cards", "error", err, "user_id", userID)
		}
	}

	return result, nil
}

// CardsForCategory is wallet-independent: it ranks every active card in the
// system carrying a rule for the category, for compare/marketing views.
func (s *RecommendService) CardsForCategory(ctx context.Context, categoryID uint64) ([]domain.CategoryCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if categoryID == 0 {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, s.repoErr("load category", err)
	}

	cards, err := s.cardRepo.FindActiveWithRulesForCategory(ctx, categoryID)
	if err != nil {
		return nil, s.repoErr("load cards", err)
	}

	return s.engine.RankCardsForCategory(cards, categoryID, time.Now()), nil
}

// SmartRecommend ranks the wallet with the heuristic weighted scorer using
// the persisted weight set (falling back to the configured defaults) and
// the user's spending history.
func (s *RecommendService) SmartRecommend(ctx context.Context, userID uint, categoryID uint64, amount decimal.Decimal, merchant string) ([]domain.ScoredCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 || categoryID == 0 {
		return nil, fmt.Errorf("%w: user and category are required", domain.ErrInvalidInput)
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, s.repoErr("load category", err)
	}

	wallet, err := s.walletRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, s.repoErr("load wallet", err)
	}

	weights := s.loadWeights(ctx)
	profile := s.buildSpendingProfile(ctx, userID)

	txn := domain.Transaction{CategoryID: categoryID, Amount: amount, Merchant: merchant}
	return s.engine.ScoreWallet(wallet, txn, time.Now(), weights, profile)
}

// RetuneWeights recomputes the persisted weight set from the user's
// observed expense outcomes. The update itself is the pure UpdateWeights
// function; this method only gathers inputs and persists the result.
func (s *RecommendService) RetuneWeights(ctx context.Context, userID uint) (ScoreWeights, error) {
	if err := ctx.Err(); err != nil {
		return ScoreWeights{}, fmt.Errorf("context error: %w", err)
	}

	expenses, err := s.expenseRepo.FindByUser(ctx, userID)
	if err != nil {
		return ScoreWeights{}, s.repoErr("load expenses", err)
	}

	current := s.loadWeights(ctx)
	next := UpdateWeights(current, s.outcomeStats(ctx, expenses))

	if err := s.scorerRepo.SaveWeights(ctx, DefaultWeightsName, next); err != nil {
		return ScoreWeights{}, s.repoErr("save weights", err)
	}

	logger.Info("scorer weights retuned", "user_id", userID, "samples", len(expenses))
	return next, nil
}

func (s *RecommendService) loadWeights(ctx context.Context) ScoreWeights {
	if s.scorerRepo == nil {
		return s.cfg.Weights
	}
	weights, ok, err := s.scorerRepo.GetWeights(ctx, DefaultWeightsName)
	if err != nil || !ok {
		return s.cfg.Weights
	}
	return weights
}

// buildSpendingProfile turns raw expense history into the scorer's
// category-preference and card-performance features. Missing history is
// fine; the scorer has neutral defaults.
func (s *RecommendService) buildSpendingProfile(ctx context.Context, userID uint) SpendingProfile {
	profile := SpendingProfile{
		CategoryPreference: map[uint64]float64{},
		CardPerformance:    map[uint64]float64{},
	}

	if s.expenseRepo == nil {
		return profile
	}

	expenses, err := s.expenseRepo.FindByUser(ctx, userID)
	if err != nil || len(expenses) == 0 {
		return profile
	}

	counts := map[uint64]int{}
	rewardSums := map[uint64]decimal.Decimal{}
	rewardCounts := map[uint64]int{}

	for _, expense := range expenses {
		counts[expense.CategoryID]++
		if expense.UserCardID != nil {
			rewardSums[*expense.UserCardID] = rewardSums[*expense.UserCardID].Add(expense.RewardsEarned)
			rewardCounts[*expense.UserCardID]++
		}
	}

	total := float64(len(expenses))
	for categoryID, n := range counts {
		profile.CategoryPreference[categoryID] = float64(n) / total
	}
	for cardID, sum := range rewardSums {
		avg, _ := sum.Div(decimal.NewFromInt(int64(rewardCounts[cardID]))).Float64()
		// nominal ₹100 average reward maps to a full score
		profile.CardPerformance[cardID] = min(1, avg/100)
	}

	return profile
}

// outcomeStats measures how often a high reward came from a specific
// category rather than the fallback one. Utilization impact has no
// observable signal in expense rows yet, so it stays at the neutral 0.5.
func (s *RecommendService) outcomeStats(ctx context.Context, expenses []domain.Expense) OutcomeStats {
	fallbackID := s.fallbackCategoryID(ctx)

	highReward := 0
	categorical := 0
	threshold := decimal.New(3, -2)

	for _, expense := range expenses {
		if expense.RewardsEarned.LessThanOrEqual(expense.Amount.Mul(threshold)) {
			continue
		}
		highReward++
		if expense.CategoryID != fallbackID {
			categorical++
		}
	}

	impact := 0.0
	if highReward > 0 {
		impact = float64(categorical) / float64(highReward)
	}

	return OutcomeStats{
		CategoryImpact:    impact,
		UtilizationImpact: 0.5,
		Samples:           len(expenses),
	}
}

func (s *RecommendService) fallbackCategoryID(ctx context.Context) uint64 {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return 0
	}
	for _, category := range categories {
		if category.Name == "Others" {
			return category.ID
		}
	}
	return 0
}

// repoErr keeps the error taxonomy intact: not-found errors pass through
// untouched, anything else from storage becomes ErrRepositoryUnavailable.
func (s *RecommendService) repoErr(op string, err error) error {
	if errors.Is(err, domain.ErrCategoryNotFound) ||
		errors.Is(err, domain.ErrCardNotFound) ||
		errors.Is(err, domain.ErrUserCardNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrRepositoryUnavailable, err)
}

// MarshalWeights / UnmarshalWeights are used by the scorer config
// repository to move weight sets in and out of the JSONB column.
func MarshalWeights(w ScoreWeights) ([]byte, error) {
	return json.Marshal(w)
}

func UnmarshalWeights(raw []byte) (ScoreWeights, error) {
	var w ScoreWeights
	if err := json.Unmarshal(raw, &w); err != nil {
		return ScoreWeights{}, err
	}
	return w, nil
}
