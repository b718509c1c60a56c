package service

import (
	"context"
	"testing"

	"github.com/cau-24swe-team14/ITS-BE/internal/domain"
)

func TestUserService_SignupAndLogin(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewUserService(accounts)
	ctx := context.Background()

	account, err := svc.Signup(ctx, "alice", "s3cret")

	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if account.Username != "alice" || account.ID == 0 {
		t.Fatalf("unexpected account: %+v", account)
	}

	// пароль не хранится в открытом виде
	stored, _ := accounts.GetByUsername(ctx, "alice")

	if stored.PasswordHash == "s3cret" {
		t.Fatalf("password must be hashed")
	}

	t.Run("empty credentials rejected", func(t *testing.T) {
		_, err := svc.Signup(ctx, "", "")
		assertCode(t, err, domain.ErrorCodeSignUpBadRequest)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.Signup(ctx, "alice", "other")
		assertCode(t, err, domain.ErrorCodeUsernameExists)
	})

	t.Run("login with correct password", func(t *testing.T) {
		got, err := svc.Login(ctx, "alice", "s3cret")

		if err != nil {
			t.Fatalf("login: %v", err)
		}

		if got.ID != account.ID {
			t.Fatalf("expected account %d, got %d", account.ID, got.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assertCode(t, err, domain.ErrorCodeInvalidPassword)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob", "s3cret")
		assertCode(t, err, domain.ErrorCodeUsernameNotFound)
	})
}

func TestUserService_Exists(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewUserService(accounts)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.Exists(ctx, "alice"); err != nil {
		t.Fatalf("exists: %v", err)
	}

	err := svc.Exists(ctx, "ghost")
	assertCode(t, err, domain.ErrorCodeUsernameNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewUserService(accounts)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin", "1234"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	account, err := svc.Login(ctx, "admin", "1234")

	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	if !account.IsAdmin {
		t.Fatalf("seeded account must be admin")
	}

	// повторный запуск не ломает уже существующую учётку
	if err := svc.EnsureAdmin(ctx, "admin", "changed"); err != nil {
		t.Fatalf("ensure admin twice: %v", err)
	}

	if _, err := svc.Login(ctx, "admin", "1234"); err != nil {
		t.Fatalf("original admin password must survive a restart: %v", err)
	}
}
