package ports

import (
	"context"

	"github.com/gameops/account-system/internal/core/domain"
)

// RegisterInput carries a raw registration request before validation.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	Gender          string
	RegisterIP      string
}

// AuthService validates credentials and registers new accounts.
type AuthService interface {
	// Login checks the username and password and returns a signed token
	// plus the account. Banned accounts cannot log in.
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)

	// Register runs the full validation chain and creates the account.
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
}
