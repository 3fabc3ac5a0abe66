package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cardPilot/domain"
	"cardPilot/pkg/logger"
	"cardPilot/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
}

// TokenRepository stores issued session tokens so logout can revoke them
// before the JWT itself expires.
type TokenRepository interface {
	Store(ctx context.Context, userID uint, token string, ttl time.Duration) error
	Exists(ctx context.Context, userID uint, token string) (bool, error)
	Delete(ctx context.Context, userID uint) error
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	sessionTTL = 24 * time.Hour
)

var validRoles = map[string]bool{
	RoleCustomer: true,
	RoleAdmin:    true,
}

type userService struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
	validate  *validator.Validate
}

func NewUserService(userRepo UserRepository, tokenRepo TokenRepository, validate *validator.Validate) *userService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		validate:  validate,
	}
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existing.ID > 0 {
		return domain.User{}, fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
		Password: string(passwordHash),
		Role:     RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("failed to create user", err)
		return domain.User{}, err
	}

	logger.Info("user registered", "user_id", newUser.ID)

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Warn("login with unknown email", "email", email)
		return "", domain.User{}, errors.New("invalid credentials")
	}

	if !utils.CheckPassword(user.Password, password) {
		logger.Warn("login with wrong password", "user_id", user.ID)
		return "", domain.User{}, errors.New("invalid credentials")
	}

	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIDStr, user.Role, sessionTTL)
	if err != nil {
		logger.Error("failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if s.tokenRepo != nil {
		if err := s.tokenRepo.Store(ctx, user.ID, token, sessionTTL); err != nil {
			logger.Warn("failed to store session token", "error", err)
		}
	}

	user.Password = ""
	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, userID uint) error {
	if s.tokenRepo == nil {
		return nil
	}
	if err := s.tokenRepo.Delete(ctx, userID); err != nil {
		logger.Error("failed to revoke session", err)
		return err
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to get user by id", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, updateData *domain.User) (domain.User, error) {
	existing, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if updateData.FullName != "" {
		existing.FullName = updateData.FullName
	}
	if updateData.Phone != "" {
		existing.Phone = updateData.Phone
	}

	if updateData.Email != "" {
		if err := s.validate.Var(updateData.Email, "required,email"); err != nil {
			return domain.User{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
		}
		userWithEmail, err := s.userRepo.FindByEmail(ctx, updateData.Email)
		if err == nil && userWithEmail.ID != id {
			return domain.User{}, fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
		}
		existing.Email = updateData.Email
	}

	if updateData.Password != "" {
		if err := s.validate.Var(updateData.Password, "required,min=6"); err != nil {
			return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
		}
		passwordHash, err := utils.HashPassword(updateData.Password)
		if err != nil {
			logger.Error("failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existing.Password = string(passwordHash)
	}

	if updateData.Role != "" {
		if !validRoles[updateData.Role] {
			return domain.User{}, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
		}
		existing.Role = updateData.Role
	}

	if err := s.userRepo.Update(ctx, &existing); err != nil {
		logger.Error("failed to update user", err)
		return domain.User{}, err
	}

	existing.Password = ""
	return existing, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete user", err)
		return err
	}

	if s.tokenRepo != nil {
		if err := s.tokenRepo.Delete(ctx, id); err != nil {
			logger.Warn("failed to revoke session of deleted user", "error", err)
		}
	}

	return nil
}
