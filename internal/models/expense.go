package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Categories is the fixed label set an expense may belong to.
var Categories = []string{"Food", "Transport", "Shopping", "Entertainment", "Utilities", "Others"}

// ValidCategory reports whether category is one of the fixed labels.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Expense represents a financial expense record owned by exactly one user.
type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpensePatch carries the fields of a partial update. Nil fields are
// left unchanged; the owner reference is never patchable.
type ExpensePatch struct {
	Title       *string
	Amount      *decimal.Decimal
	Category    *string
	Date        *time.Time
	Description *string
}
