package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore    = (*Store)(nil)
	_ storage.ExpenseStore = (*Store)(nil)
)

// Store provides Postgres-backed persistence for users and expenses.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pool and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks database connectivity for the health probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			category TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS expenses_owner_date_idx ON expenses (user_id, date DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row. Emails are stored lowercase so the
// unique constraint enforces case-insensitive uniqueness.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (id, username, email, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING id, username, email, password_hash, created_at;
	`
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, query, user.ID, user.Username, strings.ToLower(user.Email), user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email, matching case-insensitively.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id, username, email, password_hash, created_at
	FROM users
	WHERE email = LOWER($1);
	`
	row := s.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	const query = `
	SELECT id, username, email, password_hash, created_at
	FROM users
	WHERE id = $1;
	`
	row := s.pool.QueryRow(ctx, query, id)
	return scanUser(row)
}

// Create inserts a new expense row owned by expense.UserID.
func (s *Store) Create(ctx context.Context, expense models.Expense) (models.Expense, error) {
	const query = `
	INSERT INTO expenses (id, user_id, title, amount, category, date, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, user_id, title, amount::text, category, date, description, created_at, updated_at;
	`
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, query,
		expense.ID, expense.UserID, expense.Title, expense.Amount.String(),
		expense.Category, expense.Date, expense.Description)
	return scanExpense(row)
}

// ListByOwner returns all expenses owned by ownerID, newest date first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]models.Expense, error) {
	const query = `
	SELECT id, user_id, title, amount::text, category, date, description, created_at, updated_at
	FROM expenses
	WHERE user_id = $1
	ORDER BY date DESC, created_at DESC;
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update applies the non-nil patch fields to the row matching id AND owner
// in a single statement, so the ownership filter and the mutation are atomic.
func (s *Store) Update(ctx context.Context, id, ownerID string, patch models.ExpensePatch) (models.Expense, error) {
	const query = `
	UPDATE expenses SET
		title = COALESCE($3, title),
		amount = COALESCE($4::numeric, amount),
		category = COALESCE($5, category),
		date = COALESCE($6, date),
		description = COALESCE($7, description),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, title, amount::text, category, date, description, created_at, updated_at;
	`
	var amount *string
	if patch.Amount != nil {
		text := patch.Amount.String()
		amount = &text
	}
	row := s.pool.QueryRow(ctx, query, id, ownerID,
		patch.Title, amount, patch.Category, patch.Date, patch.Description)
	return scanExpense(row)
}

// Delete hard-deletes the row matching id AND owner.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2;`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// scanExpense reads an expense row. Amounts travel as NUMERIC text and are
// parsed into decimals to avoid float rounding.
func scanExpense(row pgx.Row) (models.Expense, error) {
	var (
		expense models.Expense
		amount  string
	)
	if err := row.Scan(&expense.ID, &expense.UserID, &expense.Title, &amount,
		&expense.Category, &expense.Date, &expense.Description,
		&expense.CreatedAt, &expense.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Expense{}, storage.ErrNotFound
		}
		return models.Expense{}, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Expense{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	expense.Amount = dec
	return expense, nil
}
