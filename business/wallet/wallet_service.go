package wallet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cardPilot/domain"
	"cardPilot/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// WalletRepository contract interface
type WalletRepository interface {
	Create(ctx context.Context, entry *domain.UserCard) error
	FindByID(ctx context.Context, id uint64) (domain.UserCard, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.UserCard, error)
	FindByUserAndCard(ctx context.Context, userID uint, cardID uint64) (domain.UserCard, error)
	Update(ctx context.Context, entry *domain.UserCard) error
	SetVerified(ctx context.Context, id uint64, verified bool) error
	Delete(ctx context.Context, id uint64) error
}

type CardRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Card, error)
}

const verificationCodeTTLMinutes = 15

// walletService manages which catalog cards a user holds. Adding a card
// issues an encrypted verification code; until the code is redeemed the
// entry stays unverified but still participates in recommendations.
type walletService struct {
	walletRepo    WalletRepository
	cardRepo      CardRepository
	validate      *validator.Validate
	cardVerifyKey string
}

func NewWalletService(
	walletRepo WalletRepository,
	cardRepo CardRepository,
	validate *validator.Validate,
	cardVerifyKey string,
) *walletService {
	return &walletService{
		walletRepo:    walletRepo,
		cardRepo:      cardRepo,
		validate:      validate,
		cardVerifyKey: cardVerifyKey,
	}
}

// AddCard puts a catalog card into the user's wallet and returns the entry
// together with its one-time verification code.
func (s *walletService) AddCard(ctx context.Context, entry *domain.UserCard) (*domain.UserCard, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("context error: %w", err)
	}

	if entry.UserID == 0 || entry.CardID == 0 {
		return nil, "", fmt.Errorf("%w: user and card are required", domain.ErrInvalidInput)
	}
	if err := s.validate.Var(entry.Last4Digits, "required,len=4,numeric"); err != nil {
		return nil, "", fmt.Errorf("%w: last 4 digits must be 4 numbers", domain.ErrInvalidInput)
	}
	if entry.CurrentBalance.IsNegative() || entry.CreditLimit.IsNegative() {
		return nil, "", fmt.Errorf("%w: credit limit and balance cannot be negative", domain.ErrInvalidInput)
	}

	if _, err := s.cardRepo.FindByID(ctx, entry.CardID); err != nil {
		return nil, "", err
	}

	if existing, err := s.walletRepo.FindByUserAndCard(ctx, entry.UserID, entry.CardID); err == nil && existing.ID > 0 {
		return nil, "", fmt.Errorf("%w: card already in wallet", domain.ErrInvalidInput)
	}

	entry.Verified = false
	if err := s.walletRepo.Create(ctx, entry); err != nil {
		logger.Error("failed to add card to wallet", err)
		return nil, "", fmt.Errorf("failed to add card: %w", err)
	}

	code, err := s.verificationCode(entry.UserID, entry.CardID)
	if err != nil {
		logger.Error("failed to issue verification code", err)
		return nil, "", fmt.Errorf("failed to issue verification code: %w", err)
	}

	logger.Info("card added to wallet", "user_id", entry.UserID, "card_id", entry.CardID)
	return entry, code, nil
}

func (s *walletService) verificationCode(userID uint, cardID uint64) (string, error) {
	expAt := time.Now().Add(verificationCodeTTLMinutes * time.Minute).Unix()
	payload := fmt.Sprintf("%v|%v|%v", userID, cardID, expAt)

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(payload), []byte(s.cardVerifyKey))
	if err != nil {
		return "", err
	}
	return goshortcute.StringtoBase64Encode(encrypted), nil
}

// VerifyCard redeems a verification code and marks the wallet entry
// verified. The code binds the user, the card and an expiry.
func (s *walletService) VerifyCard(ctx context.Context, userID uint, code string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	decoded := goshortcute.StringtoBase64Decode(code)
	decrypted, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(s.cardVerifyKey))
	if err != nil {
		logger.Error("card verification failed", err)
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidInput)
	}

	parts := strings.Split(decrypted, "|")
	if len(parts) != 3 {
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidInput)
	}

	codeUserID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || uint(codeUserID) != userID {
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidInput)
	}
	cardID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidInput)
	}
	expAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || time.Now().After(time.Unix(expAt, 0)) {
		return fmt.Errorf("%w: invalid or expired code", domain.ErrInvalidInput)
	}

	entry, err := s.walletRepo.FindByUserAndCard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	if entry.Verified {
		return fmt.Errorf("%w: card already verified", domain.ErrInvalidInput)
	}

	if err := s.walletRepo.SetVerified(ctx, entry.ID, true); err != nil {
		logger.Error("failed to mark card verified", err)
		return fmt.Errorf("failed to verify card: %w", err)
	}

	logger.Info("wallet card verified", "user_id", userID, "card_id", cardID)
	return nil
}

func (s *walletService) GetWallet(ctx context.Context, userID uint) ([]domain.UserCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidInput)
	}
	return s.walletRepo.FindByUser(ctx, userID)
}

// UpdateCardNumbers refreshes the user-reported credit limit, balance and
// due date that feed the smart scorer.
func (s *walletService) UpdateCardNumbers(ctx context.Context, userID uint, entryID uint64, update *domain.UserCard) (*domain.UserCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	entry, err := s.walletRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUserCardNotFound
	}

	if update.CreditLimit.IsNegative() || update.CurrentBalance.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit and balance cannot be negative", domain.ErrInvalidInput)
	}

	entry.CreditLimit = update.CreditLimit
	entry.CurrentBalance = update.CurrentBalance
	entry.DueDate = update.DueDate

	if err := s.walletRepo.Update(ctx, &entry); err != nil {
		logger.Error("failed to update wallet entry", err)
		return nil, fmt.Errorf("failed to update wallet entry: %w", err)
	}
	return &entry, nil
}

func (s *walletService) RemoveCard(ctx context.Context, userID uint, entryID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	entry, err := s.walletRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return domain.ErrUserCardNotFound
	}

	if err := s.walletRepo.Delete(ctx, entryID); err != nil {
		logger.Error("failed to remove wallet entry", err)
		return fmt.Errorf("failed to remove card: %w", err)
	}

	logger.Info("card removed from wallet", "user_id", userID, "entry_id", entryID)
	return nil
}
