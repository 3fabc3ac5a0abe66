package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cardPilot/domain"
)

type fakeWalletRepo struct {
	wallet []domain.UserCard
	err    error
}

func (f *fakeWalletRepo) FindByUser(ctx context.Context, userID uint) ([]domain.UserCard, error) {
	return f.wallet, f.err
}

type fakeCardRepo struct {
	cards []domain.Card
	err   error
}

func (f *fakeCardRepo) FindActiveWithRulesForCategory(ctx context.Context, categoryID uint64) ([]domain.Card, error) {
	return f.cards, f.err
}

type fakeCategoryRepo struct {
	categories []domain.Category
	err        error
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uint64) (domain.Category, error) {
	if f.err != nil {
		return domain.Category{}, f.err
	}
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("category %d: %w", id, domain.ErrCategoryNotFound)
}

type fakeExpenseRepo struct {
	expenses []domain.Expense
	err      error
}

func (f *fakeExpenseRepo) FindByUser(ctx context.Context, userID uint) ([]domain.Expense, error) {
	return f.expenses, f.err
}

type fakeScorerRepo struct {
	weights ScoreWeights
	ok      bool
	saved   *ScoreWeights
}

func (f *fakeScorerRepo) GetWeights(ctx context.Context, name string) (ScoreWeights, bool, error) {
	return f.weights, f.ok, nil
}

func (f *fakeScorerRepo) SaveWeights(ctx context.Context, name string, weights ScoreWeights) error {
	f.saved = &weights
	return nil
}

type fakeCache struct {
	stored map[uint64]domain.BestCardSummary
	hits   int
	sets   int
}

func (f *fakeCache) Get(ctx context.Context, userID uint) (map[uint64]domain.BestCardSummary, bool, error) {
	if f.stored != nil {
		f.hits++
		return f.stored, true, nil
	}
	return nil, false, nil
}

func (f *fakeCache) Set(ctx context.Context, userID uint, result map[uint64]domain.BestCardSummary) error {
	f.sets++
	f.stored = result
	return nil
}

func newTestService(wallet *fakeWalletRepo, categories *fakeCategoryRepo, cache BestCardsCache) *RecommendService {
	return NewRecommendService(
		DefaultConfig(),
		wallet,
		&fakeCardRepo{},
		categories,
		&fakeExpenseRepo{},
		&fakeScorerRepo{},
		cache,
	)
}

func seededCategories() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: allCategories()}
}

func TestServiceRecommend(t *testing.T) {
	svc := newTestService(&fakeWalletRepo{wallet: demoWallet()}, seededCategories(), nil)

	result, err := svc.Recommend(context.Background(), 1, catFuel, dec("3000"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BestCard == nil || result.BestCard.Card.Name != "Millennia" {
		t.Fatal("expected the Millennia fuel waiver to win")
	}
}

func TestServiceRecommendUnknownCategory(t *testing.T) {
	svc := newTestService(&fakeWalletRepo{wallet: demoWallet()}, seededCategories(), nil)

	_, err := svc.Recommend(context.Background(), 1, 999, dec("3000"), "")
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("error = %v, want ErrCategoryNotFound", err)
	}
}

func TestServiceRecommendValidation(t *testing.T) {
	svc := newTestService(&fakeWalletRepo{wallet: demoWallet()}, seededCategories(), nil)

	tests := []struct {
		name       string
		userID     uint
		categoryID uint64
		amount     string
	}{
		{"missing user", 0, catFuel, "100"},
		{"missing category", 1, 0, "100"},
		{"zero amount", 1, catFuel, "0"},
		{"negative amount", 1, catFuel, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Recommend(context.Background(), tt.userID, tt.categoryID, dec(tt.amount), "")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestServiceRecommendRepositoryFailure(t *testing.T) {
	svc := newTestService(
		&fakeWalletRepo{err: errors.New("connection refused")},
		seededCategories(),
		nil,
	)

	_, err := svc.Recommend(context.Background(), 1, catFuel, dec("3000"), "")
	if !errors.Is(err, domain.ErrRepositoryUnavailable) {
		t.Errorf("error = %v, want ErrRepositoryUnavailable", err)
	}
}

func TestServiceBestCardsPerCategoryCaches(t *testing.T) {
	cache := &fakeCache{}
	svc := newTestService(&fakeWalletRepo{wallet: demoWallet()}, seededCategories(), cache)

	first, err := svc.BestCardsPerCategory(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
	if _, ok := first[catOnline]; !ok {
		t.Fatal("expected an online-shopping winner")
	}

	second, err := svc.BestCardsPerCategory(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	if len(second) != len(first) {
		t.Error("cached result differs from computed result")
	}
}

func TestServiceCardsForCategory(t *testing.T) {
	svc := NewRecommendService(
		DefaultConfig(),
		&fakeWalletRepo{},
		&fakeCardRepo{cards: []domain.Card{millenniaCard(), amazonPayCard()}},
		seededCategories(),
		&fakeExpenseRepo{},
		&fakeScorerRepo{},
		nil,
	)

	entries, err := svc.CardsForCategory(context.Background(), catOnline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Card.Name != "Amazon Pay ICICI" {
		t.Errorf("top entry = %s, want the 5%% Amazon Pay rule", entries[0].Card.Name)
	}
}

func TestServiceSmartRecommendUsesPersistedWeights(t *testing.T) {
	custom := ScoreWeights{RewardRate: 1}
	svc := NewRecommendService(
		DefaultConfig(),
		&fakeWalletRepo{wallet: demoWallet()},
		&fakeCardRepo{},
		seededCategories(),
		&fakeExpenseRepo{},
		&fakeScorerRepo{weights: custom, ok: true},
		nil,
	)

	scored, err := svc.SmartRecommend(context.Background(), 1, catOnline, dec("1000"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("scored = %d, want every wallet card", len(scored))
	}
	// with all weight on reward rate the 5% online card must lead
	if scored[0].Card.Name != "Amazon Pay ICICI" {
		t.Errorf("top card = %s, want Amazon Pay ICICI", scored[0].Card.Name)
	}
}

func TestServiceRetuneWeightsPersists(t *testing.T) {
	expenses := make([]domain.Expense, 0, 20)
	for i := 0; i < 20; i++ {
		expenses = append(expenses, domain.Expense{
			UserID:        1,
			CategoryID:    catDining,
			Amount:        dec("1000"),
			RewardsEarned: dec("50"),
		})
	}

	scorer := &fakeScorerRepo{weights: DefaultScoreWeights(), ok: true}
	svc := NewRecommendService(
		DefaultConfig(),
		&fakeWalletRepo{},
		&fakeCardRepo{},
		seededCategories(),
		&fakeExpenseRepo{expenses: expenses},
		scorer,
		nil,
	)

	next, err := svc.RetuneWeights(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scorer.saved == nil {
		t.Fatal("retuned weights were not persisted")
	}
	if next.CategoryMatch <= DefaultScoreWeights().CategoryMatch {
		t.Error("consistently categorical rewards must raise the category weight")
	}
}
