package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// UserService содержит бизнес-логику, связанную с учётными записями.
type UserService struct {
	accountRepo domain.AccountRepository
}

// NewUserService создаёт новый UserService.
func NewUserService(accountRepo domain.AccountRepository) *UserService {
	return &UserService{
		accountRepo: accountRepo,
	}
}

// Signup регистрирует новую учётную запись с bcrypt-хэшем пароля.
func (s *UserService) Signup(ctx context.Context, username, password string) (domain.Account, error) {
	if username == "" || password == "" {
		return domain.Account{}, domain.NewDomainError(domain.ErrorCodeSignUpBadRequest, domain.ErrMalformedRequest)
	}

	_, err := s.accountRepo.GetByUsername(ctx, username)

	if err == nil {
		return domain.Account{}, domain.NewDomainError(domain.ErrorCodeUsernameExists, domain.ErrUsernameExists)
	}

	if err != domain.ErrNotFound {
		return domain.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.accountRepo.Create(ctx, username, string(hash))

	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Login проверяет пароль и возвращает учётную запись.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.Account, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)

	if err != nil {
		if err == domain.ErrNotFound {
			return domain.Account{}, domain.NewDomainError(domain.ErrorCodeUsernameNotFound, domain.ErrUsernameNotFound)
		}

		return domain.Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return domain.Account{}, domain.NewDomainError(domain.ErrorCodeInvalidPassword, domain.ErrInvalidPassword)
	}

	return account, nil
}

// Exists проверяет, что логин занят; иначе возвращает ошибку USERNAME_NOT_FOUND.
func (s *UserService) Exists(ctx context.Context, username string) error {
	_, err := s.accountRepo.GetByUsername(ctx, username)

	if err == domain.ErrNotFound {
		return domain.NewDomainError(domain.ErrorCodeUsernameNotFound, domain.ErrUsernameNotFound)
	}

	return err
}

// EnsureAdmin создаёт учётную запись администратора при старте сервиса.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	return s.accountRepo.EnsureAdmin(ctx, username, string(hash))
}
