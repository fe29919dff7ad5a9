package storage

import (
	"context"
	"errors"

	"expense-tracker-api/internal/models"
)

// ErrNotFound indicates a record does not exist, or is not visible to the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth handlers.
type UserStore interface {
	// CreateUser inserts a new user and returns the stored row. A
	// case-insensitive email collision yields ErrAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// ExpenseStore captures persistence operations for expense records. Every
// read and mutation is scoped to an owner: rows belonging to other users are
// indistinguishable from absent rows.
type ExpenseStore interface {
	Create(ctx context.Context, expense models.Expense) (models.Expense, error)
	// ListByOwner returns the owner's expenses, newest date first, ties
	// broken by creation time.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Expense, error)
	// Update applies the non-nil patch fields to the row matching id AND
	// owner, returning ErrNotFound when no such row exists.
	Update(ctx context.Context, id, ownerID string, patch models.ExpensePatch) (models.Expense, error)
	// Delete hard-deletes the row matching id AND owner, returning
	// ErrNotFound when no such row exists.
	Delete(ctx context.Context, id, ownerID string) error
}
