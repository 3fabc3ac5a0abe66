package postgres

import (
	"context"
	"fmt"
	"time"

	"cardPilot/domain"
	"cardPilot/pkg/logger"
	"cardPilot/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("seed: bad decimal %q", s))
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// Seed loads the starter catalog: categories, banks, Indian market cards
// with their cashback rules, plus a demo customer holding three of them.
// It is idempotent; a database that already has categories is left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := db.WithContext(ctx).Model(&domain.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		logger.Debug("seed skipped, catalog already present")
		return nil
	}

	categories := []domain.Category{
		{Name: "Fuel", Icon: "fuel"},
		{Name: "Grocery", Icon: "grocery"},
		{Name: "Travel", Icon: "travel"},
		{Name: "Dining", Icon: "dining"},
		{Name: "Online Shopping", Icon: "online"},
		{Name: "Entertainment", Icon: "entertainment"},
		{Name: "Utility Bills", Icon: "utility"},
		{Name: "Insurance", Icon: "insurance"},
		{Name: "Education", Icon: "education"},
		{Name: "Healthcare", Icon: "healthcare"},
		{Name: "Food Delivery", Icon: "food-delivery"},
		{Name: "Others", Icon: "others"},
	}

	banks := []domain.Bank{
		{Name: "HDFC Bank", APIIdentifier: "hdfc"},
		{Name: "ICICI Bank", APIIdentifier: "icici"},
		{Name: "SBI Card", APIIdentifier: "sbi"},
		{Name: "Axis Bank", APIIdentifier: "axis"},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		if err := tx.Create(&banks).Error; err != nil {
			return fmt.Errorf("failed to seed banks: %w", err)
		}

		catID := map[string]uint64{}
		for _, c := range categories {
			catID[c.Name] = c.ID
		}
		bankID := map[string]uint64{}
		for _, b := range banks {
			bankID[b.Name] = b.ID
		}

		cards := []domain.Card{
			{BankID: bankID["HDFC Bank"], CardName: "Infinia", CardNetwork: "Visa Infinite", AnnualFee: d("12500"), Active: true},
			{BankID: bankID["HDFC Bank"], CardName: "Regalia Gold", CardNetwork: "Visa", AnnualFee: d("2500"), FeeWaiverSpend: dp("400000"), Active: true},
			{BankID: bankID["HDFC Bank"], CardName: "Millennia", CardNetwork: "Visa", AnnualFee: d("1000"), FeeWaiverSpend: dp("100000"), Active: true},
			{BankID: bankID["HDFC Bank"], CardName: "Swiggy HDFC", CardNetwork: "Mastercard", AnnualFee: d("500"), Active: true},
			{BankID: bankID["HDFC Bank"], CardName: "Diners Club Black", CardNetwork: "Diners Club", AnnualFee: d("10000"), Active: true},
			{BankID: bankID["ICICI Bank"], CardName: "Amazon Pay ICICI", CardNetwork: "Visa", AnnualFee: d("0"), Active: true},
			{BankID: bankID["Axis Bank"], CardName: "Flipkart Axis", CardNetwork: "Mastercard", AnnualFee: d("500"), Active: true},
			{BankID: bankID["SBI Card"], CardName: "SBI Cashback", CardNetwork: "Visa", AnnualFee: d("999"), Active: true},
		}
		if err := tx.Create(&cards).Error; err != nil {
			return fmt.Errorf("failed to seed cards: %w", err)
		}

		cardID := map[string]uint64{}
		for _, c := range cards {
			cardID[c.CardName] = c.ID
		}

		rules := []domain.CashbackRule{
			{
				CardID:        cardID["Millennia"],
				CategoryID:    catID["Fuel"],
				RewardType:    domain.RewardWaiver,
				RewardPercent: d("1.0"),
				MaxReward:     dp("250"),
				MinTxnAmount:  dp("400"),
				MaxTxnAmount:  dp("5000"),
				RewardCycle:   "statement",
				Active:        true,
				Exclusions: []domain.Exclusion{
					{ExclusionType: "Wallet Load"},
					{ExclusionType: "Cash Withdrawal"},
					{ExclusionType: "Balance Transfer"},
				},
			},
			{
				CardID:        cardID["Millennia"],
				CategoryID:    catID["Online Shopping"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("2.5"),
				MaxReward:     dp("750"),
				Active:        true,
			},
			{
				CardID:        cardID["Swiggy HDFC"],
				CategoryID:    catID["Food Delivery"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("10"),
				MaxReward:     dp("1500"),
				RewardCycle:   "monthly",
				Active:        true,
			},
			{
				CardID:        cardID["Swiggy HDFC"],
				CategoryID:    catID["Dining"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("5"),
				MaxReward:     dp("500"),
				Active:        true,
			},
			{
				CardID:        cardID["Infinia"],
				CategoryID:    catID["Travel"],
				RewardType:    domain.RewardPoints,
				RewardPercent: d("3.3"),
				Active:        true,
			},
			{
				CardID:        cardID["Diners Club Black"],
				CategoryID:    catID["Dining"],
				RewardType:    domain.RewardPoints,
				RewardPercent: d("5"),
				Active:        true,
			},
			{
				CardID:        cardID["Amazon Pay ICICI"],
				CategoryID:    catID["Online Shopping"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("5"),
				Active:        true,
			},
			{
				CardID:        cardID["Amazon Pay ICICI"],
				CategoryID:    catID["Others"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("1"),
				Active:        true,
			},
			{
				CardID:        cardID["Flipkart Axis"],
				CategoryID:    catID["Online Shopping"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("5"),
				MaxReward:     dp("500"),
				Active:        true,
			},
			{
				CardID:        cardID["SBI Cashback"],
				CategoryID:    catID["Online Shopping"],
				RewardType:    domain.RewardCashback,
				RewardPercent: d("5"),
				MaxReward:     dp("5000"),
				RewardCycle:   "quarterly",
				Active:        true,
			},
		}
		if err := tx.Create(&rules).Error; err != nil {
			return fmt.Errorf("failed to seed rules: %w", err)
		}

		demoPassword, err := utils.HashPassword("demo1234")
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}
		demo := domain.User{
			FullName: "Demo User",
			Email:    "demo@cardpilot.dev",
			Password: demoPassword,
			Role:     "customer",
		}
		if err := tx.Create(&demo).Error; err != nil {
			return fmt.Errorf("failed to seed demo user: %w", err)
		}

		due := time.Now().AddDate(0, 0, 20)
		wallet := []domain.UserCard{
			{UserID: demo.ID, CardID: cardID["Millennia"], Last4Digits: "4567", Verified: true, CreditLimit: d("200000"), CurrentBalance: d("35000"), DueDate: &due},
			{UserID: demo.ID, CardID: cardID["Amazon Pay ICICI"], Last4Digits: "8901", Verified: true, CreditLimit: d("150000"), CurrentBalance: d("12000"), DueDate: &due},
			{UserID: demo.ID, CardID: cardID["Swiggy HDFC"], Last4Digits: "2345", Verified: true, CreditLimit: d("100000"), CurrentBalance: d("8000"), DueDate: &due},
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return fmt.Errorf("failed to seed demo wallet: %w", err)
		}

		logger.Info("seeded starter catalog",
			"categories", len(categories),
			"banks", len(banks),
			"cards", len(cards),
			"rules", len(rules),
		)
		return nil
	})
}
