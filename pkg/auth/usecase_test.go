package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kodbank/kodbank/pkg/account"
	"github.com/kodbank/kodbank/pkg/token"
)

type fakeAccounts struct {
	accounts map[string]account.Account // keyed by username

	// blindExists makes ExistsByIdentity report no duplicates, simulating
	// a racing insert that lands between the check and the Create.
	blindExists bool
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]account.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, acc account.Account) error {
	for _, existing := range f.accounts {
		if existing.UID == acc.UID || existing.Username == acc.Username || existing.Email == acc.Email {
			return account.ErrDuplicateIdentity
		}
	}
	f.accounts[acc.Username] = acc
	return nil
}

func (f *fakeAccounts) FindByUsername(_ context.Context, username string) (account.Account, error) {
	acc, ok := f.accounts[username]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return acc, nil
}

func (f *fakeAccounts) FindByUID(_ context.Context, uid int64) (account.Account, error) {
	for _, acc := range f.accounts {
		if acc.UID == uid {
			return acc, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (f *fakeAccounts) ExistsByIdentity(_ context.Context, uid int64, username, email string) (bool, error) {
	if f.blindExists {
		return false, nil
	}
	for _, acc := range f.accounts {
		if acc.UID == uid || acc.Username == username || acc.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeLedger struct {
	entries   []token.SessionToken
	recordErr error
}

func (f *fakeLedger) Record(_ context.Context, t token.SessionToken) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.entries = append(f.entries, t)
	return nil
}

func (f *fakeLedger) FindByToken(_ context.Context, tokenValue string) (token.SessionToken, error) {
	for _, e := range f.entries {
		if e.Token == tokenValue {
			return e, nil
		}
	}
	return token.SessionToken{}, token.ErrNotFound
}

func (f *fakeLedger) Revoke(_ context.Context, tokenValue string) error {
	for i, e := range f.entries {
		if e.Token == tokenValue {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(_ context.Context, username string, role account.Role) (string, time.Time, error) {
	return fmt.Sprintf("tok-%s-%s", username, role), time.Now().UTC().Add(time.Hour).Truncate(time.Second), nil
}

func newTestService() (UseCase, *fakeAccounts, *fakeLedger) {
	accounts := newFakeAccounts()
	ledger := &fakeLedger{}
	return NewService(accounts, ledger, stubIssuer{}, bcrypt.MinCost), accounts, ledger
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	acc, err := svc.Register(context.Background(), 1, "alice", "a@x.com", "pw123", "555")
	require.NoError(t, err)

	assert.Equal(t, int64(1), acc.UID)
	assert.Equal(t, account.RoleCustomer, acc.Role, "public registration always yields Customer")
	assert.Equal(t, account.DefaultBalance, acc.Balance)
	assert.NotEqual(t, "pw123", acc.PasswordHash, "secret must never be stored in plaintext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("pw123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("pw124")))
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name     string
		uid      int64
		username string
		email    string
		password string
		phone    string
	}{
		{"no uid", 0, "alice", "a@x.com", "pw", "555"},
		{"no username", 1, "", "a@x.com", "pw", "555"},
		{"no email", 1, "alice", "", "pw", "555"},
		{"no password", 1, "alice", "a@x.com", "", "555"},
		{"no phone", 1, "alice", "a@x.com", "pw", ""},
		{"blank username", 1, "   ", "a@x.com", "pw", "555"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.uid, tc.username, tc.email, tc.password, tc.phone)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, "alice", "a@x.com", "pw123", "555")
	require.NoError(t, err)

	// Any single colliding identity field rejects the whole registration,
	// regardless of the other fields.
	cases := []struct {
		name     string
		uid      int64
		username string
		email    string
	}{
		{"same uid", 1, "bob", "b@x.com"},
		{"same username", 2, "alice", "b@x.com"},
		{"same email", 2, "bob", "a@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.uid, tc.username, tc.email, "other-pw", "556")
			assert.ErrorIs(t, err, account.ErrDuplicateIdentity)
		})
	}
}

func TestRegister_RaceLosesToConstraint(t *testing.T) {
	t.Parallel()
	accounts := newFakeAccounts()
	svc := NewService(accounts, &fakeLedger{}, stubIssuer{}, bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, "alice", "a@x.com", "pw", "555")
	require.NoError(t, err)

	// Even when the fast existence check misses the duplicate, the
	// store's unique constraint still rejects the insert.
	accounts.blindExists = true
	_, err = svc.Register(ctx, 1, "alice2", "a2@x.com", "pw", "555")
	assert.ErrorIs(t, err, account.ErrDuplicateIdentity)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	svc, _, ledger := newTestService()
	ctx := context.Background()

	acc, err := svc.Register(ctx, 1, "alice", "a@x.com", "pw123", "555")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)

	assert.Equal(t, "alice", result.Account.Username)
	assert.Equal(t, account.RoleCustomer, result.Account.Role)
	assert.NotEmpty(t, result.Token)

	// The ledger entry exists by the time Login returns, bound to the
	// right account with the token's own expiry.
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, result.Token, ledger.entries[0].Token)
	assert.Equal(t, acc.UID, ledger.entries[0].UID)
	assert.True(t, ledger.entries[0].ExpiresAt.Equal(result.ExpiresAt))
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	svc, _, ledger := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, "alice", "a@x.com", "pw123", "555")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, ledger.entries, "no token may be recorded for a failed login")
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_LedgerWriteFailureFailsLogin(t *testing.T) {
	t.Parallel()
	accounts := newFakeAccounts()
	ledger := &fakeLedger{recordErr: errors.New("storage down")}
	svc := NewService(accounts, ledger, stubIssuer{}, bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, "alice", "a@x.com", "pw123", "555")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "pw123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, ledger.entries)
}

func TestBalance(t *testing.T) {
	t.Parallel()
	svc, accounts, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, 1, "alice", "a@x.com", "pw123", "555")
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.DefaultBalance, balance)

	// Account deleted after token issuance: distinct, resource-level error.
	delete(accounts.accounts, "alice")
	_, err = svc.Balance(ctx, "alice")
	assert.ErrorIs(t, err, account.ErrNotFound)
}
