package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kodbank/kodbank/pkg/account"
)

// AccountRepository implements account.Repository backed by PostgreSQL (pgx).
// Uniqueness of uid, username and email is enforced by the schema, so a
// violated insert persists nothing.
type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) (*AccountRepository, error) {
	repo := &AccountRepository{db: db}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *AccountRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			uid BIGINT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			balance NUMERIC(14,2) NOT NULL DEFAULT 100000.00,
			phone TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'Customer',
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *AccountRepository) Create(ctx context.Context, acc account.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (uid, username, email, password_hash, balance, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, acc.UID, acc.Username, acc.Email, acc.PasswordHash, acc.Balance, acc.Phone, string(acc.Role), acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return account.ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (account.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT uid, username, email, password_hash, balance, phone, role, created_at
		FROM accounts WHERE username = $1
	`, username)
	return scanAccount(row)
}

func (r *AccountRepository) FindByUID(ctx context.Context, uid int64) (account.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT uid, username, email, password_hash, balance, phone, role, created_at
		FROM accounts WHERE uid = $1
	`, uid)
	return scanAccount(row)
}

// ExistsByIdentity checks all three identity fields in one lookup.
func (r *AccountRepository) ExistsByIdentity(ctx context.Context, uid int64, username, email string) (bool, error) {
	row := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM accounts WHERE uid = $1 OR username = $2 OR email = $3
		)
	`, uid, username, email)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanAccount(row pgx.Row) (account.Account, error) {
	var acc account.Account
	var role string
	var createdAt time.Time
	if err := row.Scan(&acc.UID, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.Balance, &acc.Phone, &role, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	acc.Role = account.Role(role)
	acc.CreatedAt = createdAt.UTC()
	return acc, nil
}
