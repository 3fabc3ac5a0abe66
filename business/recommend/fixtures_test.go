package recommend

import (
	"time"

	"cardPilot/domain"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

const (
	catFuel         uint64 = 1
	catTravel       uint64 = 3
	catDining       uint64 = 4
	catOnline       uint64 = 5
	catFoodDelivery uint64 = 11
	catOthers       uint64 = 12
)

func hdfc() domain.Bank  { return domain.Bank{ID: 1, Name: "HDFC Bank"} }
func icici() domain.Bank { return domain.Bank{ID: 2, Name: "ICICI Bank"} }

func allCategories() []domain.Category {
	return []domain.Category{
		{ID: catFuel, Name: "Fuel"},
		{ID: 2, Name: "Grocery"},
		{ID: catTravel, Name: "Travel"},
		{ID: catDining, Name: "Dining"},
		{ID: catOnline, Name: "Online Shopping"},
		{ID: catFoodDelivery, Name: "Food Delivery"},
		{ID: catOthers, Name: "Others"},
	}
}

func millenniaCard() domain.Card {
	return domain.Card{
		ID:          3,
		BankID:      1,
		Bank:        hdfc(),
		CardName:    "Millennia",
		CardNetwork: "Visa",
		Active:      true,
		CashbackRules: []domain.CashbackRule{
			{
				ID:            1,
				CardID:        3,
				CategoryID:    catFuel,
				RewardType:    domain.RewardWaiver,
				RewardPercent: dec("1"),
				MaxReward:     decPtr("250"),
				MinTxnAmount:  decPtr("400"),
				MaxTxnAmount:  decPtr("5000"),
				RewardCycle:   "statement",
				Active:        true,
				Exclusions: []domain.Exclusion{
					{ID: 1, CashbackRuleID: 1, ExclusionType: "Wallet Load"},
					{ID: 2, CashbackRuleID: 1, ExclusionType: "Cash Withdrawal"},
					{ID: 3, CashbackRuleID: 1, ExclusionType: "Balance Transfer"},
				},
			},
			{
				ID:            2,
				CardID:        3,
				CategoryID:    catOnline,
				RewardType:    domain.RewardCashback,
				RewardPercent: dec("2.5"),
				MaxReward:     decPtr("750"),
				Active:        true,
			},
		},
	}
}

func swiggyCard() domain.Card {
	return domain.Card{
		ID:          4,
		BankID:      1,
		Bank:        hdfc(),
		CardName:    "Swiggy HDFC",
		CardNetwork: "Mastercard",
		Active:      true,
		CashbackRules: []domain.CashbackRule{
			{
				ID:            3,
				CardID:        4,
				CategoryID:    catFoodDelivery,
				RewardType:    domain.RewardCashback,
				RewardPercent: dec("10"),
				MaxReward:     decPtr("1500"),
				RewardCycle:   "monthly",
				Active:        true,
			},
			{
				ID:            4,
				CardID:        4,
				CategoryID:    catDining,
				RewardType:    domain.RewardCashback,
				RewardPercent: dec("5"),
				MaxReward:     decPtr("500"),
				Active:        true,
			},
		},
	}
}

func infiniaCard() domain.Card {
	return domain.Card{
		ID:          1,
		BankID:      1,
		Bank:        hdfc(),
		CardName:    "Infinia",
		CardNetwork: "Visa Infinite",
		Active:      true,
		CashbackRules: []domain.CashbackRule{
			{
				ID:            5,
				CardID:        1,
				CategoryID:    catTravel,
				RewardType:    domain.RewardPoints,
				RewardPercent: dec("3.3"),
				Active:        true,
			},
		},
	}
}

func dinersCard() domain.Card {
	return domain.Card{
		ID:          5,
		BankID:      1,
		Bank:        hdfc(),
		CardName:    "Diners Club Black",
		CardNetwork: "Diners Club",
		Active:      true,
		CashbackRules: []domain.CashbackRule{
			{
				ID:            6,
				CardID:        5,
				CategoryID:    catDining,
				RewardType:    domain.RewardPoints,
				RewardPercent: dec("5"),
				Active:        true,
			},
		},
	}
}

func amazonPayCard() domain.Card {
	return domain.Card{
		ID:          6,
		BankID:      2,
		Bank:        icici(),
		CardName:    "Amazon Pay ICICI",
		CardNetwork: "Visa",
		Active:      true,
		CashbackRules: []domain.CashbackRule{
			{
				ID:            7,
				CardID:        6,
				CategoryID:    catOnline,
				RewardType:    domain.RewardCashback,
				RewardPercent: dec("5"),
				Active:        true,
			},
			{
				ID:            8,
				CardID:        6,
				CategoryID:    catOthers,
				RewardType:    domain.RewardCashback,
				RewardPercent: dec("1"),
				Active:        true,
			},
		},
	}
}

func walletEntry(card domain.Card, last4 string) domain.UserCard {
	return domain.UserCard{
		ID:          card.ID,
		UserID:      1,
		CardID:      card.ID,
		Card:        card,
		Last4Digits: last4,
		Verified:    true,
	}
}

// demoWallet is the three-card wallet the seed script provisions.
func demoWallet() []domain.UserCard {
	return []domain.UserCard{
		walletEntry(millenniaCard(), "4567"),
		walletEntry(amazonPayCard(), "8901"),
		walletEntry(swiggyCard(), "2345"),
	}
}
