package recommend

import (
	"fmt"
	"sort"
	"time"

	"cardPilot/domain"

	"github.com/shopspring/decimal"
)

// Engine is the pure recommendation core. It holds no mutable state and
// performs no I/O; every operation is a synchronous computation over the
// wallet data the caller supplies, so repeated calls with the same inputs
// always produce the same ordering and values.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

const (
	MsgNoCardsForUser    = "No cards found for user"
	MsgNoApplicableRules = "No applicable cashback rules found for this category"
)

// RecommendForTransaction ranks the wallet for one prospective transaction.
//
// Per card, the single eligible rule with the highest computed benefit is
// selected (ties to the lower rule id); cards without an eligible rule are
// left out entirely rather than ranked with a zero benefit. The surviving
// options are ordered by benefit descending, ties by card id then rule id
// ascending. An empty wallet is reported as success=false; a wallet whose
// cards simply have no matching rule is success=true with an empty list.
func (e *Engine) RecommendForTransaction(wallet []domain.UserCard, txn domain.Transaction, now time.Time) (domain.RankedResult, error) {
	if txn.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.RankedResult{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	if len(wallet) == 0 {
		return domain.RankedResult{
			Success:    false,
			Message:    MsgNoCardsForUser,
			AllOptions: []domain.CardOption{},
		}, nil
	}

	options := make([]domain.CardOption, 0, len(wallet))
	for _, entry := range wallet {
		option, ok := e.bestOptionForCard(entry, txn, now)
		if !ok {
			continue
		}
		options = append(options, option)
	}

	sort.Slice(options, func(i, j int) bool {
		if !options[i].Benefit.Equal(options[j].Benefit) {
			return options[i].Benefit.GreaterThan(options[j].Benefit)
		}
		if options[i].Card.ID != options[j].Card.ID {
			return options[i].Card.ID < options[j].Card.ID
		}
		return options[i].Rule.ID < options[j].Rule.ID
	})

	if len(options) == 0 {
		return domain.RankedResult{
			Success:    true,
			Message:    MsgNoApplicableRules,
			AllOptions: []domain.CardOption{},
		}, nil
	}

	best := options[0]
	return domain.RankedResult{
		Success:    true,
		BestCard:   &best,
		AllOptions: options,
	}, nil
}

// bestOptionForCard evaluates every rule the card carries for the
// transaction category and keeps the one yielding the highest benefit.
// Multiple rules on one card are never summed or averaged.
func (e *Engine) bestOptionForCard(entry domain.UserCard, txn domain.Transaction, now time.Time) (domain.CardOption, bool) {
	card := entry.Card

	var bestRule *domain.CashbackRule
	var bestBenefit Benefit

	for i := range card.CashbackRules {
		rule := card.CashbackRules[i]
		if !isEligible(card, rule, txn, now) {
			continue
		}

		benefit := computeBenefit(rule, txn)
		switch {
		case bestRule == nil,
			benefit.Amount.GreaterThan(bestBenefit.Amount),
			benefit.Amount.Equal(bestBenefit.Amount) && rule.ID < bestRule.ID:
			bestRule = &card.CashbackRules[i]
			bestBenefit = benefit
		}
	}

	if bestRule == nil {
		return domain.CardOption{}, false
	}

	option := domain.CardOption{
		Card: domain.CardSummary{
			ID:          card.ID,
			Name:        card.CardName,
			Bank:        card.Bank.Name,
			Network:     card.CardNetwork,
			Last4Digits: entry.Last4Digits,
		},
		Rule: domain.RuleSummary{
			ID:            bestRule.ID,
			RewardType:    bestRule.RewardType,
			RewardPercent: bestRule.RewardPercent,
			MaxReward:     bestRule.MaxReward,
			RewardCycle:   bestRule.RewardCycle,
		},
		Benefit:     bestBenefit.Amount,
		RewardType:  bestBenefit.Kind,
		Explanation: e.cfg.Explain(*bestRule),
	}

	if bestBenefit.Kind == domain.RewardPoints {
		value := bestBenefit.Amount.Mul(e.cfg.PointValue).Round(2)
		option.PointsValue = &value
	}

	return option, true
}

// BestCardPerCategory answers "which card should I reach for in each
// category" without a transaction amount: rules are compared by rate, not
// computed benefit, and the comparison ignores the reward kind. Every
// category known to the system is scanned; categories with no matching
// active rule in the wallet are omitted from the map.
func (e *Engine) BestCardPerCategory(categories []domain.Category, wallet []domain.UserCard) map[uint64]domain.BestCardSummary {
	result := make(map[uint64]domain.BestCardSummary)

	for _, category := range categories {
		var best *domain.CashbackRule
		var bestEntry domain.UserCard

		for _, entry := range wallet {
			card := entry.Card
			if !card.Active {
				continue
			}
			for i := range card.CashbackRules {
				rule := card.CashbackRules[i]
				if rule.CategoryID != category.ID || !rule.Active {
					continue
				}
				if best == nil ||
					rule.RewardPercent.GreaterThan(best.RewardPercent) ||
					(rule.RewardPercent.Equal(best.RewardPercent) && rule.ID < best.ID) {
					best = &card.CashbackRules[i]
					bestEntry = entry
				}
			}
		}

		if best == nil {
			continue
		}

		result[category.ID] = domain.BestCardSummary{
			CategoryID: category.ID,
			Category:   category.Name,
			Card: domain.CardSummary{
				ID:          bestEntry.Card.ID,
				Name:        bestEntry.Card.CardName,
				Bank:        bestEntry.Card.Bank.Name,
				Network:     bestEntry.Card.CardNetwork,
				Last4Digits: bestEntry.Last4Digits,
			},
			RewardPercent: best.RewardPercent,
			RewardType:    best.RewardType,
			MaxReward:     best.MaxReward,
		}
	}

	return result
}

// RankCardsForCategory builds the wallet-independent compare view: every
// active rule for the category across the supplied cards, ordered by rate
// descending (ties to the lower rule id), with rules already past their end
// date dropped. Exclusion type labels ride along for display.
func (e *Engine) RankCardsForCategory(cards []domain.Card, categoryID uint64, now time.Time) []domain.CategoryCard {
	entries := make([]domain.CategoryCard, 0)

	for _, card := range cards {
		if !card.Active {
			continue
		}
		for _, rule := range card.CashbackRules {
			if rule.CategoryID != categoryID || !rule.Active {
				continue
			}
			if rule.EndDate != nil && now.After(*rule.EndDate) {
				continue
			}

			labels := make([]string, 0, len(rule.Exclusions))
			for _, ex := range rule.Exclusions {
				if ex.ExclusionType != "" {
					labels = append(labels, ex.ExclusionType)
				}
			}

			entries = append(entries, domain.CategoryCard{
				Card: domain.CardSummary{
					ID:      card.ID,
					Name:    card.CardName,
					Bank:    card.Bank.Name,
					Network: card.CardNetwork,
				},
				RuleID:        rule.ID,
				RewardType:    rule.RewardType,
				RewardPercent: rule.RewardPercent,
				MaxReward:     rule.MaxReward,
				MinTxnAmount:  rule.MinTxnAmount,
				MaxTxnAmount:  rule.MaxTxnAmount,
				Exclusions:    labels,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].RewardPercent.Equal(entries[j].RewardPercent) {
			return entries[i].RewardPercent.GreaterThan(entries[j].RewardPercent)
		}
		return entries[i].RuleID < entries[j].RuleID
	})

	return entries
}
