package recommend

import (
	"math"
	"testing"
	"time"

	"cardPilot/domain"

	"github.com/shopspring/decimal"
)

func TestDefaultScoreWeightsSumToOne(t *testing.T) {
	if s := DefaultScoreWeights().sum(); math.Abs(s-1) > 1e-9 {
		t.Errorf("default weights sum = %f, want 1", s)
	}
}

func TestScoreBounds(t *testing.T) {
	w := DefaultScoreWeights()

	if got := w.Score(ScoreFeatures{}); got != 0 {
		t.Errorf("all-zero features score = %f, want 0", got)
	}

	full := ScoreFeatures{
		RewardRate:      1,
		CategoryMatch:   1,
		Utilization:     1,
		SpendingHistory: 1,
		AvailableCredit: 1,
		DueDate:         1,
	}
	if got := w.Score(full); math.Abs(got-100) > 1e-9 {
		t.Errorf("all-one features score = %f, want 100", got)
	}
}

func TestScoreWeightsAreIndependent(t *testing.T) {
	// a heavier reward-rate weight must move the score of a
	// reward-rate-only feature vector, nothing else
	base := DefaultScoreWeights()
	heavy := base
	heavy.RewardRate = 0.9

	f := ScoreFeatures{RewardRate: 1}
	if heavy.Score(f) <= base.Score(f) {
		t.Error("raising a weight must raise the matching feature's score")
	}

	g := ScoreFeatures{DueDate: 1}
	if heavy.Score(g) != base.Score(g) {
		t.Error("raising reward-rate weight must not change a due-date-only score")
	}
}

func TestUpdateWeightsBelowSampleFloor(t *testing.T) {
	current := DefaultScoreWeights()
	got := UpdateWeights(current, OutcomeStats{CategoryImpact: 0.9, UtilizationImpact: 0.9, Samples: 9})
	if got != current {
		t.Error("fewer than the minimum samples must leave weights untouched")
	}
}

func TestUpdateWeightsShiftsAndNormalizes(t *testing.T) {
	current := DefaultScoreWeights()
	got := UpdateWeights(current, OutcomeStats{CategoryImpact: 0.8, UtilizationImpact: 0.3, Samples: 50})

	if got.CategoryMatch <= current.CategoryMatch {
		t.Error("strong category impact must raise the category weight")
	}
	if got.RewardRate >= current.RewardRate {
		t.Error("the reward-rate weight gives up the shifted mass")
	}
	if s := got.sum(); math.Abs(s-1) > 1e-9 {
		t.Errorf("updated weights sum = %f, want 1", s)
	}
	if got.Utilization > current.Utilization {
		t.Error("weak utilization impact must not raise the utilization weight")
	}
}

func TestUpdateWeightsIsPure(t *testing.T) {
	current := DefaultScoreWeights()
	snapshot := current
	_ = UpdateWeights(current, OutcomeStats{CategoryImpact: 0.9, UtilizationImpact: 0.9, Samples: 100})
	if current != snapshot {
		t.Error("UpdateWeights must not mutate its input")
	}
}

func TestNormalizedZeroFallsBackToDefaults(t *testing.T) {
	if got := (ScoreWeights{}).Normalized(); got != DefaultScoreWeights() {
		t.Errorf("zero weights normalized to %+v, want defaults", got)
	}
}

func scoredEntry(card domain.Card, limit, balance string, due *time.Time) domain.UserCard {
	entry := walletEntry(card, "0000")
	entry.CreditLimit = dec(limit)
	entry.CurrentBalance = dec(balance)
	entry.DueDate = due
	return entry
}

func TestScoreWalletKeepsEveryCard(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// infinia has no food-delivery rule but must still be scored
	wallet := []domain.UserCard{
		scoredEntry(swiggyCard(), "200000", "10000", nil),
		scoredEntry(infiniaCard(), "500000", "20000", nil),
	}
	txn := domain.Transaction{CategoryID: catFoodDelivery, Amount: dec("2000")}

	scored, err := engine.ScoreWallet(wallet, txn, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != len(wallet) {
		t.Fatalf("scored = %d cards, want %d; the scorer never drops cards", len(scored), len(wallet))
	}
	if scored[0].Card.Name != "Swiggy HDFC" {
		t.Errorf("top card = %s, want Swiggy HDFC on its 10%% rule", scored[0].Card.Name)
	}
	if scored[0].Score <= scored[1].Score {
		t.Error("results must be ordered by score descending")
	}
	if got := scored[0].Benefit.StringFixed(2); got != "200.00" {
		t.Errorf("benefit = %s, want the rule engine's 200.00", got)
	}
	if !scored[1].Benefit.Equal(decimal.Zero) {
		t.Errorf("card without an eligible rule reports zero benefit, got %s", scored[1].Benefit)
	}
}

func TestScoreWalletInvalidAmount(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	_, err := engine.ScoreWallet(demoWallet(), domain.Transaction{CategoryID: catFuel, Amount: dec("0")}, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err == nil {
		t.Fatal("zero amount must be rejected")
	}
}

func TestScoreWalletUtilizationPenalty(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	healthy := scoredEntry(amazonPayCard(), "100000", "5000", nil)
	maxed := scoredEntry(amazonPayCard(), "100000", "95000", nil)
	txn := domain.Transaction{CategoryID: catOnline, Amount: dec("2000")}

	a, err := engine.ScoreWallet([]domain.UserCard{healthy}, txn, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := engine.ScoreWallet([]domain.UserCard{maxed}, txn, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a[0].Score <= b[0].Score {
		t.Errorf("high utilization must lower the score: healthy %f vs maxed %f", a[0].Score, b[0].Score)
	}
	if b[0].Utilization <= a[0].Utilization {
		t.Error("reported utilization must reflect the balance")
	}
}

func TestScoreWalletCategoryPreference(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	entry := scoredEntry(swiggyCard(), "100000", "0", nil)
	txn := domain.Transaction{CategoryID: catFoodDelivery, Amount: dec("1000")}

	plain, err := engine.ScoreWallet([]domain.UserCard{entry}, txn, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	preferred, err := engine.ScoreWallet([]domain.UserCard{entry}, txn, testNow, DefaultScoreWeights(), SpendingProfile{
		CategoryPreference: map[uint64]float64{catFoodDelivery: 0.9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if preferred[0].Score <= plain[0].Score {
		t.Error("a preferred category must score higher than the neutral default")
	}
}

func TestScoreWalletDueDateFeature(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	txn := domain.Transaction{CategoryID: catOnline, Amount: dec("1000")}

	far := scoredEntry(amazonPayCard(), "100000", "0", timePtr(testNow.AddDate(0, 0, 28)))
	near := scoredEntry(amazonPayCard(), "100000", "0", timePtr(testNow.AddDate(0, 0, 2)))

	a, err := engine.ScoreWallet([]domain.UserCard{far}, txn, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := engine.ScoreWallet([]domain.UserCard{near}, txn, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a[0].Score <= b[0].Score {
		t.Error("a farther due date buys more float and must score higher")
	}
}

func TestScoreWalletConfidenceRange(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	wallet := []domain.UserCard{
		scoredEntry(swiggyCard(), "200000", "0", timePtr(testNow.AddDate(0, 0, 29))),
	}
	txn := domain.Transaction{CategoryID: catFoodDelivery, Amount: dec("2000")}

	scored, err := engine.ScoreWallet(wallet, txn, testNow, DefaultScoreWeights(), SpendingProfile{
		CategoryPreference: map[uint64]float64{catFoodDelivery: 0.9},
		CardPerformance:    map[uint64]float64{4: 0.9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := scored[0].Confidence
	if got < 20 || got > 95 {
		t.Errorf("confidence = %d, want within [20, 95]", got)
	}
	if len(scored[0].Reasons) == 0 {
		t.Error("every scored card carries at least one reason")
	}
}

func TestScoreWalletTieBreaksOnCardID(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// identical cards except id produce identical scores
	a := amazonPayCard()
	b := amazonPayCard()
	b.ID = 7
	for i := range b.CashbackRules {
		b.CashbackRules[i].CardID = 7
	}
	wallet := []domain.UserCard{scoredEntry(b, "0", "0", nil), scoredEntry(a, "0", "0", nil)}

	scored, err := engine.ScoreWallet(wallet, domain.Transaction{CategoryID: catOnline, Amount: dec("1000")}, testNow, DefaultScoreWeights(), SpendingProfile{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored[0].Card.ID != 6 {
		t.Errorf("tie must break to the lower card id, got %d first", scored[0].Card.ID)
	}
}
