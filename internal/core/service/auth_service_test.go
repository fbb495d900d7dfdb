package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

func testPolicy() RegistrationPolicy {
	return RegistrationPolicy{
		MinUsernameLength: 4,
		MaxUsernameLength: 23,
		MinPasswordLength: 4,
		MaxPasswordLength: 31,
	}
}

func validRegistration() ports.RegisterInput {
	return ports.RegisterInput{
		Username:        "sigrun",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		Email:           "sigrun@example.com",
		Gender:          domain.GenderFemale,
		RegisterIP:      "203.0.113.9",
	}
}

func newAuth(registry *stubRegistry) *AuthService {
	return NewAuthService(registry, testPolicy(), "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)

	account, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.AccountID == 0 {
		t.Error("expected an assigned account id")
	}
	if account.UserID != "sigrun" || account.Gender != domain.GenderFemale {
		t.Errorf("account = %+v", account)
	}

	stored := registry.accounts[account.AccountID]
	if stored.PasswordHash == "" || stored.PasswordHash == "hunter22" {
		t.Error("password must be stored hashed")
	}
}

func TestAuthService_Register_ValidationChain(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.RegisterInput)
		want   error
	}{
		{"short username", func(in *ports.RegisterInput) { in.Username = "ab" }, domain.ErrUsernameTooShort},
		{"long username", func(in *ports.RegisterInput) { in.Username = "abcdefghijklmnopqrstuvwxyz" }, domain.ErrUsernameTooLong},
		{"short password", func(in *ports.RegisterInput) { in.Password, in.ConfirmPassword = "ab", "ab" }, domain.ErrPasswordTooShort},
		{"mismatch", func(in *ports.RegisterInput) { in.ConfirmPassword = "other" }, domain.ErrPasswordMismatch},
		{"bad email", func(in *ports.RegisterInput) { in.Email = "not-an-email" }, domain.ErrInvalidEmail},
		{"bad gender", func(in *ports.RegisterInput) { in.Gender = "X" }, domain.ErrInvalidGender},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuth(newStubRegistry())
			in := validRegistration()
			tc.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	in := validRegistration()
	in.Email = "other@example.com"
	_, err := svc.Register(ctx, in)
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	in := validRegistration()
	in.Username = "brynja"
	_, err := svc.Register(ctx, in)
	if !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmailAllowedByPolicy(t *testing.T) {
	registry := newStubRegistry()
	policy := testPolicy()
	policy.AllowDuplicateEmails = true
	svc := NewAuthService(registry, policy, "secret", time.Hour, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	in := validRegistration()
	in.Username = "brynja"
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("duplicate email allowed by policy, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, account, err := svc.Login(ctx, "sigrun", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.UserID != "sigrun" {
		t.Errorf("account = %+v", account)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["userid"] != "sigrun" {
		t.Errorf("token userid claim = %v", claims["userid"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)
	ctx := context.Background()

	_, _ = svc.Register(ctx, validRegistration())

	_, _, err := svc.Login(ctx, "sigrun", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newAuth(newStubRegistry())

	_, _, err := svc.Login(context.Background(), "nobody", "pass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_BannedAccount(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)
	ctx := context.Background()

	account, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	registry.accounts[account.AccountID].State = domain.StatePermanentlyBanned

	_, _, err = svc.Login(ctx, "sigrun", "hunter22")
	if !errors.Is(err, domain.ErrAccountBanned) {
		t.Fatalf("expected ErrAccountBanned, got %v", err)
	}
}

func TestAuthService_Login_ExpiredTempBanAllowed(t *testing.T) {
	registry := newStubRegistry()
	svc := newAuth(registry)
	ctx := context.Background()

	account, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	registry.accounts[account.AccountID].BanExpiresAt = time.Now().Add(-time.Hour)

	if _, _, err := svc.Login(ctx, "sigrun", "hunter22"); err != nil {
		t.Fatalf("expired temp ban must not block login: %v", err)
	}
}
