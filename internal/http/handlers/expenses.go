package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/http/respond"
	"expense-tracker-api/internal/middleware"
	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/models/dto"
	"expense-tracker-api/internal/storage"
)

// minAmount is the smallest accepted expense amount.
var minAmount = decimal.NewFromFloat(0.01)

// ExpenseHandler owns the ownership-scoped CRUD endpoints. Every operation
// requires a caller identity resolved by the auth middleware; the storage
// layer filters each query and mutation by that owner.
type ExpenseHandler struct {
	store storage.ExpenseStore
	cfg   *config.Config
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(store storage.ExpenseStore, cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{store: store, cfg: cfg}
}

// Register attaches expense routes to the router. The router group must
// already carry the auth middleware.
func (h *ExpenseHandler) Register(r chi.Router) {
	r.Post("/api/expenses", h.handleAdd)
	r.Get("/api/expenses", h.handleList)
	r.Patch("/api/expenses/{id}", h.handleUpdate)
	r.Put("/api/expenses/{id}", h.handleUpdate)
	r.Delete("/api/expenses/{id}", h.handleDelete)
}

func (h *ExpenseHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	expense := models.Expense{
		UserID: callerID,
		Date:   time.Now(),
	}
	fields := map[string]string{}

	if req.Title == nil {
		fields["title"] = "title is required"
	} else if msg := validateTitle(*req.Title); msg != "" {
		fields["title"] = msg
	} else {
		expense.Title = strings.TrimSpace(*req.Title)
	}

	if req.Amount == nil {
		fields["amount"] = "amount is required"
	} else if msg := validateAmount(*req.Amount); msg != "" {
		fields["amount"] = msg
	} else {
		expense.Amount = *req.Amount
	}

	if req.Category == nil {
		fields["category"] = "category is required"
	} else if msg := validateCategory(*req.Category); msg != "" {
		fields["category"] = msg
	} else {
		expense.Category = *req.Category
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			fields["date"] = err.Error()
		} else {
			expense.Date = date
		}
	}

	if req.Description != nil {
		if msg := validateDescription(*req.Description); msg != "" {
			fields["description"] = msg
		} else {
			expense.Description = strings.TrimSpace(*req.Description)
		}
	}

	if len(fields) > 0 {
		respond.ValidationError(w, fields)
		return
	}

	created, err := h.store.Create(r.Context(), expense)
	if err != nil {
		log.Printf("create expense error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authorization required")
		return
	}

	expenses, err := h.store.ListByOwner(r.Context(), callerID)
	if err != nil {
		log.Printf("list expenses error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	respond.JSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authorization required")
		return
	}
	id, ok := expenseID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	patch := models.ExpensePatch{}
	fields := map[string]string{}

	if req.Title != nil {
		if msg := validateTitle(*req.Title); msg != "" {
			fields["title"] = msg
		} else {
			title := strings.TrimSpace(*req.Title)
			patch.Title = &title
		}
	}
	if req.Amount != nil {
		if msg := validateAmount(*req.Amount); msg != "" {
			fields["amount"] = msg
		} else {
			patch.Amount = req.Amount
		}
	}
	if req.Category != nil {
		if msg := validateCategory(*req.Category); msg != "" {
			fields["category"] = msg
		} else {
			patch.Category = req.Category
		}
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			fields["date"] = err.Error()
		} else {
			patch.Date = &date
		}
	}
	if req.Description != nil {
		if msg := validateDescription(*req.Description); msg != "" {
			fields["description"] = msg
		} else {
			description := strings.TrimSpace(*req.Description)
			patch.Description = &description
		}
	}

	if len(fields) > 0 {
		respond.ValidationError(w, fields)
		return
	}

	updated, err := h.store.Update(r.Context(), id, callerID, patch)
	if err != nil {
		// Absent and not-owned rows are deliberately indistinguishable.
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Expense not found")
			return
		}
		log.Printf("update expense error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

func (h *ExpenseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authorization required")
		return
	}
	id, ok := expenseID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := h.store.Delete(r.Context(), id, callerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Expense not found")
			return
		}
		log.Printf("delete expense error: %v", err)
		respond.Internal(w, h.cfg.Development, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func expenseID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func validateTitle(title string) string {
	length := utf8.RuneCountInString(strings.TrimSpace(title))
	if length < 1 || length > 100 {
		return "title must be 1-100 characters"
	}
	return ""
}

func validateAmount(amount decimal.Decimal) string {
	if amount.LessThan(minAmount) {
		return "amount must be at least 0.01"
	}
	// The amount column is NUMERIC(12,2); finer values would be silently rounded.
	if !amount.Equal(amount.Round(2)) {
		return "amount cannot have more than 2 decimal places"
	}
	return ""
}

func validateCategory(category string) string {
	if !models.ValidCategory(category) {
		return fmt.Sprintf("category must be one of: %s", strings.Join(models.Categories, ", "))
	}
	return ""
}

func validateDescription(description string) string {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > 500 {
		return "description cannot exceed 500 characters"
	}
	return ""
}

// parseDate accepts RFC 3339 timestamps and bare calendar dates.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date, nil
	}
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, nil
	}
	return time.Time{}, errors.New("date must be RFC 3339 or YYYY-MM-DD")
}
