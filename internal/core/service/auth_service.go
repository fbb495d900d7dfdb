package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

var emailPattern = regexp.MustCompile(`.+@.+`)

// RegistrationPolicy holds the configurable bounds applied to new accounts.
type RegistrationPolicy struct {
	MinUsernameLength    int
	MaxUsernameLength    int
	MinPasswordLength    int
	MaxPasswordLength    int
	AllowDuplicateEmails bool
}

// AuthService implements credential validation and account registration.
type AuthService struct {
	registry  ports.AccountRegistry
	policy    RegistrationPolicy
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(registry ports.AccountRegistry, policy RegistrationPolicy, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		registry:  registry,
		policy:    policy,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login validates the username and password and returns a signed bearer
// token. Accounts whose lifecycle projection marks them banned are rejected.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.registry.FindByUserID(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%w: account lookup: %w", domain.ErrStoreFailure, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if account.Banned(time.Now().UTC()) {
		return "", nil, domain.ErrAccountBanned
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("userid", account.UserID).Int64("account_id", account.AccountID).Msg("login")
	return token, account, nil
}

// Register runs the registration validation chain and creates the account.
// Checks run in the same order as the panel has always applied them, so the
// first failing rule is the one reported.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	switch {
	case len(in.Username) < s.policy.MinUsernameLength:
		return nil, domain.ErrUsernameTooShort
	case len(in.Username) > s.policy.MaxUsernameLength:
		return nil, domain.ErrUsernameTooLong
	case len(in.Password) < s.policy.MinPasswordLength:
		return nil, domain.ErrPasswordTooShort
	case len(in.Password) > s.policy.MaxPasswordLength:
		return nil, domain.ErrPasswordTooLong
	case in.Password != in.ConfirmPassword:
		return nil, domain.ErrPasswordMismatch
	case !emailPattern.MatchString(in.Email):
		return nil, domain.ErrInvalidEmail
	case in.Gender != domain.GenderMale && in.Gender != domain.GenderFemale:
		return nil, domain.ErrInvalidGender
	}

	if _, err := s.registry.FindByUserID(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: username check: %w", domain.ErrStoreFailure, err)
	}

	if !s.policy.AllowDuplicateEmails {
		inUse, err := s.registry.EmailInUse(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: email check: %w", domain.ErrStoreFailure, err)
		}
		if inUse {
			return nil, domain.ErrEmailInUse
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	accountID, err := s.registry.CreateAccount(ctx, ports.NewAccountInput{
		UserID:       in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Gender:       in.Gender,
		RegisterIP:   in.RegisterIP,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create account: %w", domain.ErrStoreFailure, err)
	}

	s.log.Info().Str("userid", in.Username).Int64("account_id", accountID).Str("reg_ip", in.RegisterIP).Msg("account registered")

	return &domain.Account{
		AccountID: accountID,
		UserID:    in.Username,
		Email:     in.Email,
		Gender:    in.Gender,
		State:     domain.StateNormal,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id": account.AccountID,
		"userid":     account.UserID,
		"level":      account.Level,
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
