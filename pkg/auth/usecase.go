package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kodbank/kodbank/pkg/account"
	"github.com/kodbank/kodbank/pkg/token"
)

// Errors surfaced by the use case layer.
var (
	ErrValidation = errors.New("all fields are required")

	// ErrInvalidCredentials is deliberately generic so callers cannot
	// tell whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UseCase describes registration, authentication and balance behavior.
type UseCase interface {
	Register(ctx context.Context, uid int64, username, email, password, phone string) (account.Account, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Balance(ctx context.Context, subject string) (float64, error)
}

// LoginResult carries everything the transport layer needs to answer a
// successful login.
type LoginResult struct {
	Account   account.Account
	Token     string
	ExpiresAt time.Time
}

type service struct {
	accounts   account.Repository
	ledger     token.Ledger
	tokens     TokenIssuer
	bcryptCost int
}

// NewService returns the default implementation of UseCase.
func NewService(accounts account.Repository, ledger token.Ledger, tokens TokenIssuer, bcryptCost int) UseCase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{accounts: accounts, ledger: ledger, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account. Role is always Customer and the
// balance is always the default; neither is settable by the caller.
func (s *service) Register(ctx context.Context, uid int64, username, email, password, phone string) (account.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if uid <= 0 || username == "" || email == "" || password == "" || phone == "" {
		return account.Account{}, ErrValidation
	}

	// Fail fast on a known duplicate; the insert below is still guarded
	// by the store's unique constraints, so a racing registration cannot
	// persist a partial record.
	exists, err := s.accounts.ExistsByIdentity(ctx, uid, username, email)
	if err != nil {
		return account.Account{}, err
	}
	if exists {
		return account.Account{}, account.ErrDuplicateIdentity
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return account.Account{}, err
	}

	acc := account.Account{
		UID:          uid,
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Balance:      account.DefaultBalance,
		Phone:        phone,
		Role:         account.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		return account.Account{}, err
	}
	return acc, nil
}

func (s *service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return LoginResult{}, ErrValidation
	}

	acc, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	tokenValue, expiresAt, err := s.tokens.Issue(ctx, acc.Username, acc.Role)
	if err != nil {
		return LoginResult{}, err
	}

	// The ledger entry must exist before the token leaves the process,
	// otherwise an already usable token would be unaccounted for.
	entry := token.SessionToken{
		ID:        uuid.New(),
		Token:     tokenValue,
		UID:       acc.UID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Account: acc, Token: tokenValue, ExpiresAt: expiresAt}, nil
}

// Balance resolves the verified token subject to the live account state.
// The token's role claim may be stale; balance and role always come from
// the credential store.
func (s *service) Balance(ctx context.Context, subject string) (float64, error) {
	acc, err := s.accounts.FindByUsername(ctx, subject)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}
