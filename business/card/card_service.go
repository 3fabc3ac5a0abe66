package card

import (
	"context"
	"fmt"

	"cardPilot/domain"
	"cardPilot/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// BankRepository contract interface
type BankRepository interface {
	Create(ctx context.Context, bank *domain.Bank) error
	FindByID(ctx context.Context, id uint64) (domain.Bank, error)
	FindAll(ctx context.Context) ([]domain.Bank, error)
	Update(ctx context.Context, bank *domain.Bank) error
	Delete(ctx context.Context, id uint64) error
}

// CardRepository contract interface
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id uint64) (domain.Card, error)
	FindAll(ctx context.Context) ([]domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	SetActive(ctx context.Context, id uint64, active bool) error
	Delete(ctx context.Context, id uint64) error
}

// RuleRepository contract interface
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.CashbackRule) error
	FindByID(ctx context.Context, id uint64) (domain.CashbackRule, error)
	FindByCard(ctx context.Context, cardID uint64) ([]domain.CashbackRule, error)
	Update(ctx context.Context, rule *domain.CashbackRule) error
	Delete(ctx context.Context, id uint64) error
	AddExclusion(ctx context.Context, exclusion *domain.Exclusion) error
	DeleteExclusion(ctx context.Context, id uint64) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

// cardService is the admin side of the catalog: banks, cards and their
// cashback rules. The recommendation path never writes through here.
type cardService struct {
	bankRepo     BankRepository
	cardRepo     CardRepository
	ruleRepo     RuleRepository
	categoryRepo CategoryRepository
	validate     *validator.Validate
}

func NewCardService(
	bankRepo BankRepository,
	cardRepo CardRepository,
	ruleRepo RuleRepository,
	categoryRepo CategoryRepository,
	validate *validator.Validate,
) *cardService {
	return &cardService{
		bankRepo:     bankRepo,
		cardRepo:     cardRepo,
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		validate:     validate,
	}
}

// ---- banks ----

func (s *cardService) CreateBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validate.Var(bank.Name, "required,min=2"); err != nil {
		return nil, fmt.Errorf("%w: bank name is required", domain.ErrInvalidInput)
	}

	if err := s.bankRepo.Create(ctx, bank); err != nil {
		logger.Error("failed to create bank", err)
		return nil, fmt.Errorf("failed to create bank: %w", err)
	}

	logger.Info("bank created", "bank", bank.Name)
	return bank, nil
}

func (s *cardService) GetAllBanks(ctx context.Context) ([]domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.bankRepo.FindAll(ctx)
}

func (s *cardService) UpdateBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if bank.ID == 0 {
		return nil, fmt.Errorf("%w: bank id is required", domain.ErrInvalidInput)
	}

	if _, err := s.bankRepo.FindByID(ctx, bank.ID); err != nil {
		return nil, err
	}
	if err := s.bankRepo.Update(ctx, bank); err != nil {
		logger.Error("failed to update bank", err)
		return nil, fmt.Errorf("failed to update bank: %w", err)
	}
	return bank, nil
}

func (s *cardService) DeleteBank(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if _, err := s.bankRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.bankRepo.Delete(ctx, id)
}

// ---- cards ----

func (s *cardService) CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validate.Var(card.CardName, "required,min=2"); err != nil {
		return nil, fmt.Errorf("%w: card name is required", domain.ErrInvalidInput)
	}
	if card.BankID == 0 {
		return nil, fmt.Errorf("%w: bank id is required", domain.ErrInvalidInput)
	}
	if _, err := s.bankRepo.FindByID(ctx, card.BankID); err != nil {
		return nil, err
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		logger.Error("failed to create card", err)
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	logger.Info("card created", "card", card.CardName, "bank_id", card.BankID)
	return card, nil
}

func (s *cardService) GetCardByID(ctx context.Context, id uint64) (domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return domain.Card{}, fmt.Errorf("context error: %w", err)
	}
	if id == 0 {
		return domain.Card{}, fmt.Errorf("%w: card id is required", domain.ErrInvalidInput)
	}
	return s.cardRepo.FindByID(ctx, id)
}

func (s *cardService) GetAllCards(ctx context.Context) ([]domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return s.cardRepo.FindAll(ctx)
}

func (s *cardService) UpdateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if card.ID == 0 {
		return nil, fmt.Errorf("%w: card id is required", domain.ErrInvalidInput)
	}
	if _, err := s.cardRepo.FindByID(ctx, card.ID); err != nil {
		return nil, err
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		logger.Error("failed to update card", err)
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return card, nil
}

// ToggleCardActive flips the catalog-wide active flag. Inactive cards are
// invisible to every recommendation path, including wallets that already
// hold them.
func (s *cardService) ToggleCardActive(ctx context.Context, id uint64) (domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return domain.Card{}, fmt.Errorf("context error: %w", err)
	}

	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Card{}, err
	}

	if err := s.cardRepo.SetActive(ctx, id, !card.Active); err != nil {
		logger.Error("failed to toggle card", err)
		return domain.Card{}, fmt.Errorf("failed to toggle card: %w", err)
	}

	card.Active = !card.Active
	logger.Info("card toggled", "card_id", id, "active", card.Active)
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if _, err := s.cardRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.cardRepo.Delete(ctx, id)
}

// ---- cashback rules ----

func (s *cardService) validateRule(ctx context.Context, rule *domain.CashbackRule) error {
	if rule.CardID == 0 || rule.CategoryID == 0 {
		return fmt.Errorf("%w: card and category are required", domain.ErrInvalidInput)
	}
	if !rule.RewardType.Valid() {
		return fmt.Errorf("%w: unknown reward type %q", domain.ErrInvalidInput, rule.RewardType)
	}
	if rule.RewardPercent.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: reward percent must be positive", domain.ErrInvalidInput)
	}
	if rule.MaxReward != nil && rule.MaxReward.IsNegative() {
		return fmt.Errorf("%w: max reward cannot be negative", domain.ErrInvalidInput)
	}
	if rule.MinTxnAmount != nil && rule.MaxTxnAmount != nil &&
		rule.MinTxnAmount.GreaterThan(*rule.MaxTxnAmount) {
		return fmt.Errorf("%w: min txn amount exceeds max txn amount", domain.ErrInvalidInput)
	}
	if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidInput)
	}

	if _, err := s.cardRepo.FindByID(ctx, rule.CardID); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByID(ctx, rule.CategoryID); err != nil {
		return err
	}
	return nil
}

func (s *cardService) CreateRule(ctx context.Context, rule *domain.CashbackRule) (*domain.CashbackRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if err := s.validateRule(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		logger.Error("failed to create rule", err)
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	logger.Info("rule created", "rule_id", rule.ID, "card_id", rule.CardID, "category_id", rule.CategoryID)
	return rule, nil
}

func (s *cardService) GetRulesByCard(ctx context.Context, cardID uint64) ([]domain.CashbackRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if _, err := s.cardRepo.FindByID(ctx, cardID); err != nil {
		return nil, err
	}
	return s.ruleRepo.FindByCard(ctx, cardID)
}

func (s *cardService) UpdateRule(ctx context.Context, rule *domain.CashbackRule) (*domain.CashbackRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if rule.ID == 0 {
		return nil, fmt.Errorf("%w: rule id is required", domain.ErrInvalidInput)
	}
	if _, err := s.ruleRepo.FindByID(ctx, rule.ID); err != nil {
		return nil, err
	}
	if err := s.validateRule(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		logger.Error("failed to update rule", err)
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return rule, nil
}

func (s *cardService) DeleteRule(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if _, err := s.ruleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, id)
}

// ---- exclusions ----

func (s *cardService) AddExclusion(ctx context.Context, exclusion *domain.Exclusion) (*domain.Exclusion, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if exclusion.CashbackRuleID == 0 {
		return nil, fmt.Errorf("%w: rule id is required", domain.ErrInvalidInput)
	}
	if exclusion.ExclusionType == "" && exclusion.ExcludedMerchant == "" {
		return nil, fmt.Errorf("%w: exclusion needs a type or a merchant pattern", domain.ErrInvalidInput)
	}
	if _, err := s.ruleRepo.FindByID(ctx, exclusion.CashbackRuleID); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.AddExclusion(ctx, exclusion); err != nil {
		logger.Error("failed to add exclusion", err)
		return nil, fmt.Errorf("failed to add exclusion: %w", err)
	}
	return exclusion, nil
}

func (s *cardService) DeleteExclusion(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return s.ruleRepo.DeleteExclusion(ctx, id)
}
