package recommend

import (
	"errors"
	"testing"
	"time"

	"cardPilot/domain"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestRecommendForTransaction(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name        string
		wallet      []domain.UserCard
		txn         domain.Transaction
		wantBest    string
		wantBenefit string
		wantKind    domain.RewardKind
		wantOptions int
	}{
		{
			name:        "fuel surcharge waiver within bounds",
			wallet:      demoWallet(),
			txn:         domain.Transaction{CategoryID: catFuel, Amount: dec("3000")},
			wantBest:    "Millennia",
			wantBenefit: "30.00",
			wantKind:    domain.RewardWaiver,
			wantOptions: 1,
		},
		{
			name:        "food delivery below cap",
			wallet:      demoWallet(),
			txn:         domain.Transaction{CategoryID: catFoodDelivery, Amount: dec("2000")},
			wantBest:    "Swiggy HDFC",
			wantBenefit: "200.00",
			wantKind:    domain.RewardCashback,
			wantOptions: 1,
		},
		{
			name:        "online ranks uncapped rule above capped",
			wallet:      demoWallet(),
			txn:         domain.Transaction{CategoryID: catOnline, Amount: dec("50000")},
			wantBest:    "Amazon Pay ICICI",
			wantBenefit: "2500.00",
			wantKind:    domain.RewardCashback,
			wantOptions: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.RecommendForTransaction(tt.wallet, tt.txn, testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Success {
				t.Fatalf("expected success, got message %q", result.Message)
			}
			if result.BestCard == nil {
				t.Fatal("expected a best card")
			}
			if result.BestCard.Card.Name != tt.wantBest {
				t.Errorf("best card = %q, want %q", result.BestCard.Card.Name, tt.wantBest)
			}
			if got := result.BestCard.Benefit.StringFixed(2); got != tt.wantBenefit {
				t.Errorf("benefit = %s, want %s", got, tt.wantBenefit)
			}
			if result.BestCard.RewardType != tt.wantKind {
				t.Errorf("reward type = %s, want %s", result.BestCard.RewardType, tt.wantKind)
			}
			if len(result.AllOptions) != tt.wantOptions {
				t.Errorf("options = %d, want %d", len(result.AllOptions), tt.wantOptions)
			}
		})
	}
}

func TestRecommendForTransactionFuelAboveMaxTxn(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	result, err := engine.RecommendForTransaction(
		demoWallet(),
		domain.Transaction{CategoryID: catFuel, Amount: dec("6000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("no matching rules is still a successful, empty answer")
	}
	if result.Message != MsgNoApplicableRules {
		t.Errorf("message = %q, want %q", result.Message, MsgNoApplicableRules)
	}
	if len(result.AllOptions) != 0 || result.BestCard != nil {
		t.Errorf("expected no options, got %d", len(result.AllOptions))
	}
}

func TestRecommendForTransactionEmptyWallet(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	result, err := engine.RecommendForTransaction(
		nil,
		domain.Transaction{CategoryID: catFuel, Amount: dec("1000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("empty wallet must not report success")
	}
	if result.Message != MsgNoCardsForUser {
		t.Errorf("message = %q, want %q", result.Message, MsgNoCardsForUser)
	}
}

func TestRecommendForTransactionInvalidAmount(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	for _, amount := range []string{"0", "-100"} {
		_, err := engine.RecommendForTransaction(
			demoWallet(),
			domain.Transaction{CategoryID: catFuel, Amount: dec(amount)},
			testNow,
		)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("amount %s: error = %v, want ErrInvalidInput", amount, err)
		}
	}
}

func TestRecommendForTransactionBenefitTieBreaksOnCardThenRule(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// both cards yield exactly 200.00 on a 4000 dining spend
	rival := domain.Card{
		ID:          9,
		Bank:        icici(),
		CardName:    "Sapphiro",
		CardNetwork: "Visa",
		Active:      true,
		CashbackRules: []domain.CashbackRule{
			{
				ID:            11,
				CardID:        9,
				CategoryID:    catDining,
				RewardType:    domain.RewardCashback,
				RewardPercent: dec("5"),
				Active:        true,
			},
		},
	}
	wallet := []domain.UserCard{
		walletEntry(rival, "1111"),
		walletEntry(dinersCard(), "7777"),
	}

	result, err := engine.RecommendForTransaction(
		wallet,
		domain.Transaction{CategoryID: catDining, Amount: dec("4000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllOptions) != 2 {
		t.Fatalf("options = %d, want 2", len(result.AllOptions))
	}
	if !result.AllOptions[0].Benefit.Equal(result.AllOptions[1].Benefit) {
		t.Fatalf("expected equal benefits, got %s and %s",
			result.AllOptions[0].Benefit, result.AllOptions[1].Benefit)
	}
	if result.BestCard.Rule.ID != 6 {
		t.Errorf("tie broke to rule %d, want rule 6 via the lower card id", result.BestCard.Rule.ID)
	}
}

func TestRecommendForTransactionPointsDecoration(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	wallet := []domain.UserCard{walletEntry(infiniaCard(), "0001")}

	result, err := engine.RecommendForTransaction(
		wallet,
		domain.Transaction{CategoryID: catTravel, Amount: dec("10000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	best := result.BestCard
	if best == nil {
		t.Fatal("expected a best card")
	}
	if got := best.Benefit.StringFixed(2); got != "330.00" {
		t.Errorf("benefit = %s, want 330.00", got)
	}
	if best.PointsValue == nil {
		t.Fatal("points option must carry a rupee value")
	}
	if got := best.PointsValue.StringFixed(2); got != "82.50" {
		t.Errorf("points value = %s, want 82.50", got)
	}
}

func TestRecommendForTransactionCashOptionHasNoPointsValue(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	result, err := engine.RecommendForTransaction(
		demoWallet(),
		domain.Transaction{CategoryID: catFoodDelivery, Amount: dec("500")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BestCard.PointsValue != nil {
		t.Error("cashback option must not carry a points value")
	}
}

func TestRecommendForTransactionMerchantExclusion(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	card := swiggyCard()
	card.CashbackRules[0].Exclusions = []domain.Exclusion{
		{ID: 10, CashbackRuleID: 3, ExcludedMerchant: "instamart"},
	}
	wallet := []domain.UserCard{walletEntry(card, "2345")}
	txn := domain.Transaction{CategoryID: catFoodDelivery, Amount: dec("1000")}

	txn.Merchant = "Swiggy Instamart Bangalore"
	result, err := engine.RecommendForTransaction(wallet, txn, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllOptions) != 0 {
		t.Error("excluded merchant substring must disqualify the rule")
	}

	txn.Merchant = "Swiggy Food"
	result, err = engine.RecommendForTransaction(wallet, txn, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllOptions) != 1 {
		t.Error("non-matching merchant must keep the rule eligible")
	}
}

func TestRecommendForTransactionPicksBestRulePerCard(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// one card, two rules for the same category; only the richer one may
	// surface and the benefits are never summed
	card := amazonPayCard()
	card.CashbackRules = append(card.CashbackRules, domain.CashbackRule{
		ID:            20,
		CardID:        card.ID,
		CategoryID:    catOnline,
		RewardType:    domain.RewardCashback,
		RewardPercent: dec("2"),
		Active:        true,
	})
	wallet := []domain.UserCard{walletEntry(card, "8901")}

	result, err := engine.RecommendForTransaction(
		wallet,
		domain.Transaction{CategoryID: catOnline, Amount: dec("1000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllOptions) != 1 {
		t.Fatalf("options = %d, want 1 per card", len(result.AllOptions))
	}
	if result.BestCard.Rule.ID != 7 {
		t.Errorf("rule = %d, want the 5%% rule 7", result.BestCard.Rule.ID)
	}
	if got := result.BestCard.Benefit.StringFixed(2); got != "50.00" {
		t.Errorf("benefit = %s, want 50.00", got)
	}
}

func TestRecommendForTransactionDeterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	txn := domain.Transaction{CategoryID: catOnline, Amount: dec("50000")}

	first, err := engine.RecommendForTransaction(demoWallet(), txn, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.RecommendForTransaction(demoWallet(), txn, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again.AllOptions) != len(first.AllOptions) {
			t.Fatal("option count changed between runs")
		}
		for j := range again.AllOptions {
			if again.AllOptions[j].Rule.ID != first.AllOptions[j].Rule.ID {
				t.Fatalf("run %d: ordering changed at position %d", i, j)
			}
			if !again.AllOptions[j].Benefit.Equal(first.AllOptions[j].Benefit) {
				t.Fatalf("run %d: benefit changed at position %d", i, j)
			}
		}
	}
}

func TestBestCardPerCategory(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	wallet := []domain.UserCard{
		walletEntry(millenniaCard(), "4567"),
		walletEntry(amazonPayCard(), "8901"),
		walletEntry(swiggyCard(), "2345"),
		walletEntry(infiniaCard(), "0001"),
		walletEntry(dinersCard(), "7777"),
	}

	result := engine.BestCardPerCategory(allCategories(), wallet)

	// rate comparison ignores the reward kind: 3.3% points wins travel
	travel, ok := result[catTravel]
	if !ok {
		t.Fatal("travel category missing")
	}
	if travel.Card.Name != "Infinia" || travel.RewardType != domain.RewardPoints {
		t.Errorf("travel best = %s/%s, want Infinia points", travel.Card.Name, travel.RewardType)
	}

	// dining is a 5% tie between rule 4 (cashback) and rule 6 (points);
	// the lower rule id wins regardless of kind
	dining, ok := result[catDining]
	if !ok {
		t.Fatal("dining category missing")
	}
	if dining.Card.Name != "Swiggy HDFC" {
		t.Errorf("dining best = %s, want Swiggy HDFC via lower rule id", dining.Card.Name)
	}

	online, ok := result[catOnline]
	if !ok {
		t.Fatal("online category missing")
	}
	if online.Card.Name != "Amazon Pay ICICI" {
		t.Errorf("online best = %s, want Amazon Pay ICICI", online.Card.Name)
	}

	// categories nobody covers are omitted, not zero-filled
	if _, ok := result[2]; ok {
		t.Error("grocery has no rule and must be absent")
	}
}

func TestBestCardPerCategorySkipsInactive(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	inactive := infiniaCard()
	inactive.Active = false
	wallet := []domain.UserCard{walletEntry(inactive, "0001")}

	result := engine.BestCardPerCategory(allCategories(), wallet)
	if _, ok := result[catTravel]; ok {
		t.Error("inactive card must not win a category")
	}
}

func TestRankCardsForCategory(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	expired := millenniaCard()
	expired.CashbackRules[1].EndDate = timePtr(testNow.AddDate(0, -1, 0))

	cards := []domain.Card{expired, amazonPayCard(), swiggyCard()}
	entries := engine.RankCardsForCategory(cards, catOnline, testNow)

	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 after dropping the expired rule", len(entries))
	}
	if entries[0].Card.Name != "Amazon Pay ICICI" {
		t.Errorf("top entry = %s, want Amazon Pay ICICI", entries[0].Card.Name)
	}
}

func TestRankCardsForCategorySurfacesExclusionLabels(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	entries := engine.RankCardsForCategory([]domain.Card{millenniaCard()}, catFuel, testNow)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if len(entries[0].Exclusions) != 3 {
		t.Fatalf("exclusion labels = %d, want 3", len(entries[0].Exclusions))
	}
	if entries[0].Exclusions[0] != "Wallet Load" {
		t.Errorf("first label = %q, want Wallet Load", entries[0].Exclusions[0])
	}
}

func TestRankCardsForCategoryOrdersByRate(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	cards := []domain.Card{millenniaCard(), amazonPayCard()}
	entries := engine.RankCardsForCategory(cards, catOnline, testNow)

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if !entries[0].RewardPercent.GreaterThan(entries[1].RewardPercent) {
		t.Errorf("entries not ordered by rate: %s then %s",
			entries[0].RewardPercent, entries[1].RewardPercent)
	}
}

func TestRecommendForTransactionValidityWindow(t *testing.T) {
	card := infiniaCard()
	card.CashbackRules[0].StartDate = timePtr(testNow.AddDate(0, 0, 1))
	wallet := []domain.UserCard{walletEntry(card, "0001")}

	engine := NewEngine(DefaultConfig())
	result, err := engine.RecommendForTransaction(
		wallet,
		domain.Transaction{CategoryID: catTravel, Amount: dec("10000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllOptions) != 0 {
		t.Error("rule starting tomorrow must not apply today")
	}

	// a window whose bounds equal now is inclusive on both ends
	card.CashbackRules[0].StartDate = timePtr(testNow)
	card.CashbackRules[0].EndDate = timePtr(testNow)
	result, err = engine.RecommendForTransaction(
		[]domain.UserCard{walletEntry(card, "0001")},
		domain.Transaction{CategoryID: catTravel, Amount: dec("10000")},
		testNow,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AllOptions) != 1 {
		t.Error("window bounds are inclusive")
	}
}

func TestExplainStrings(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		rule domain.CashbackRule
		want string
	}{
		{
			name: "waiver with cap and cycle",
			rule: millenniaCard().CashbackRules[0],
			want: "1% surcharge waiver (max ₹250) per statement",
		},
		{
			name: "capped cashback with cycle",
			rule: swiggyCard().CashbackRules[0],
			want: "10% cashback (max ₹1500) per monthly",
		},
		{
			name: "uncapped points",
			rule: infiniaCard().CashbackRules[0],
			want: "3.3% reward points",
		},
		{
			name: "uncapped cashback",
			rule: amazonPayCard().CashbackRules[0],
			want: "5% cashback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Explain(tt.rule); got != tt.want {
				t.Errorf("Explain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplainIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	rule := millenniaCard().CashbackRules[0]

	first := cfg.Explain(rule)
	for i := 0; i < 3; i++ {
		if got := cfg.Explain(rule); got != first {
			t.Fatalf("explanation changed between calls: %q vs %q", got, first)
		}
	}
}

func TestComputeBenefit(t *testing.T) {
	tests := []struct {
		name   string
		rule   domain.CashbackRule
		amount string
		want   string
	}{
		{
			name:   "plain percentage",
			rule:   domain.CashbackRule{RewardPercent: dec("5"), RewardType: domain.RewardCashback},
			amount: "1000",
			want:   "50.00",
		},
		{
			name:   "cap applies",
			rule:   domain.CashbackRule{RewardPercent: dec("10"), MaxReward: decPtr("1500"), RewardType: domain.RewardCashback},
			amount: "20000",
			want:   "1500.00",
		},
		{
			name:   "cap not reached",
			rule:   domain.CashbackRule{RewardPercent: dec("10"), MaxReward: decPtr("1500"), RewardType: domain.RewardCashback},
			amount: "2000",
			want:   "200.00",
		},
		{
			name:   "zero cap zeroes the benefit",
			rule:   domain.CashbackRule{RewardPercent: dec("5"), MaxReward: decPtr("0"), RewardType: domain.RewardCashback},
			amount: "1000",
			want:   "0.00",
		},
		{
			name:   "half rounds away from zero",
			rule:   domain.CashbackRule{RewardPercent: dec("1.5"), RewardType: domain.RewardCashback},
			amount: "333",
			want:   "5.00",
		},
		{
			name:   "sub-cent truncation rounds down",
			rule:   domain.CashbackRule{RewardPercent: dec("2.5"), RewardType: domain.RewardCashback},
			amount: "100.10",
			want:   "2.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeBenefit(tt.rule, domain.Transaction{Amount: dec(tt.amount)})
			if got.Amount.StringFixed(2) != tt.want {
				t.Errorf("benefit = %s, want %s", got.Amount.StringFixed(2), tt.want)
			}
		})
	}
}

func TestComputeBenefitCapMonotonicity(t *testing.T) {
	rule := domain.CashbackRule{
		RewardPercent: dec("10"),
		MaxReward:     decPtr("1500"),
		RewardType:    domain.RewardCashback,
	}

	prev := decimal.Zero
	for _, amount := range []string{"100", "5000", "15000", "15001", "100000"} {
		got := computeBenefit(rule, domain.Transaction{Amount: dec(amount)})
		if got.Amount.LessThan(prev) {
			t.Fatalf("benefit decreased as amount grew: %s after %s", got.Amount, prev)
		}
		if got.Amount.GreaterThan(*rule.MaxReward) {
			t.Fatalf("benefit %s exceeds cap", got.Amount)
		}
		prev = got.Amount
	}
}

func TestIsEligibleBounds(t *testing.T) {
	card := millenniaCard()
	rule := card.CashbackRules[0] // fuel, min 400, max 5000

	tests := []struct {
		amount string
		want   bool
	}{
		{"399.99", false},
		{"400", true},
		{"3000", true},
		{"5000", true},
		{"5000.01", false},
	}

	for _, tt := range tests {
		txn := domain.Transaction{CategoryID: catFuel, Amount: dec(tt.amount)}
		if got := isEligible(card, rule, txn, testNow); got != tt.want {
			t.Errorf("amount %s: eligible = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

func TestIsEligibleCategoryAndFlags(t *testing.T) {
	card := millenniaCard()
	rule := card.CashbackRules[0]
	txn := domain.Transaction{CategoryID: catFuel, Amount: dec("1000")}

	if !isEligible(card, rule, txn, testNow) {
		t.Fatal("baseline fixture should be eligible")
	}

	wrongCat := txn
	wrongCat.CategoryID = catDining
	if isEligible(card, rule, wrongCat, testNow) {
		t.Error("category mismatch must be ineligible")
	}

	inactiveCard := card
	inactiveCard.Active = false
	if isEligible(inactiveCard, rule, txn, testNow) {
		t.Error("inactive card must be ineligible")
	}

	inactiveRule := rule
	inactiveRule.Active = false
	if isEligible(card, inactiveRule, txn, testNow) {
		t.Error("inactive rule must be ineligible")
	}
}

func TestIsEligibleTypeOnlyExclusionsDoNotBlock(t *testing.T) {
	card := millenniaCard()
	rule := card.CashbackRules[0] // carries three type-only exclusions
	txn := domain.Transaction{CategoryID: catFuel, Amount: dec("1000"), Merchant: "Indian Oil"}

	if !isEligible(card, rule, txn, testNow) {
		t.Error("type-only exclusions have no merchant pattern and must not disqualify")
	}
}
