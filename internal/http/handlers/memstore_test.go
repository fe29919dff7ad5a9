package handlers_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/storage"
)

// memStore is an in-memory implementation of the storage interfaces for
// handler tests. It mirrors the Postgres store's contracts: lowercase
// emails, case-insensitive uniqueness, owner-filtered expense operations.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	expenses map[string]models.Expense
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		expenses: map[string]models.Expense{},
	}
}

func (m *memStore) Ping(ctx context.Context) error { return nil }

func (m *memStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, existing := range m.users {
		if existing.Email == email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}

	user.ID = uuid.NewString()
	user.Email = email
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(email)
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) FindByID(ctx context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (m *memStore) Create(ctx context.Context, expense models.Expense) (models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	expense.ID = uuid.NewString()
	now := time.Now().Add(time.Duration(m.seq) * time.Microsecond)
	expense.CreatedAt = now
	expense.UpdatedAt = now
	m.expenses[expense.ID] = expense
	return expense, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Expense{}
	for _, expense := range m.expenses {
		if expense.UserID == ownerID {
			out = append(out, expense)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) Update(ctx context.Context, id, ownerID string, patch models.ExpensePatch) (models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expense, ok := m.expenses[id]
	if !ok || expense.UserID != ownerID {
		return models.Expense{}, storage.ErrNotFound
	}
	if patch.Title != nil {
		expense.Title = *patch.Title
	}
	if patch.Amount != nil {
		expense.Amount = *patch.Amount
	}
	if patch.Category != nil {
		expense.Category = *patch.Category
	}
	if patch.Date != nil {
		expense.Date = *patch.Date
	}
	if patch.Description != nil {
		expense.Description = *patch.Description
	}
	expense.UpdatedAt = time.Now()
	m.expenses[id] = expense
	return expense, nil
}

func (m *memStore) Delete(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expense, ok := m.expenses[id]
	if !ok || expense.UserID != ownerID {
		return storage.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}
