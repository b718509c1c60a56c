package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

// SessionService управляет сессиями: выдаёт токены при входе и
// разрешает токен в действующего пользователя.
type SessionService struct {
	sessionRepo domain.SessionRepository
	accountRepo domain.AccountRepository
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionService создаёт новый SessionService.
func NewSessionService(sessionRepo domain.SessionRepository, accountRepo domain.AccountRepository, ttl time.Duration) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Start открывает новую сессию для аккаунта и возвращает её токен.
// Попутно чистит истёкшие сессии.
func (s *SessionService) Start(ctx context.Context, accountID int64) (domain.Session, error) {
	now := s.now()

	// чистка по пути, отдельного фонового процесса нет
	_ = s.sessionRepo.DeleteExpired(ctx, now)

	session := domain.Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

// Resolve возвращает пользователя по токену сессии.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, domain.NewDomainError(domain.ErrorCodeUnauthorized, domain.ErrUnauthorized)
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)

	if err != nil {
		if err == domain.ErrNotFound {
			return domain.Actor{}, domain.NewDomainError(domain.ErrorCodeUnauthorized, domain.ErrUnauthorized)
		}

		return domain.Actor{}, err
	}

	account, err := s.accountRepo.GetByID(ctx, session.AccountID)

	if err != nil {
		if err == domain.ErrNotFound {
			return domain.Actor{}, domain.NewDomainError(domain.ErrorCodeUnauthorized, domain.ErrUnauthorized)
		}

		return domain.Actor{}, err
	}

	return domain.Actor{
		AccountID: account.ID,
		Username:  account.Username,
		IsAdmin:   account.IsAdmin,
	}, nil
}

// End закрывает сессию по токену.
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return s.sessionRepo.Delete(ctx, token)
}
