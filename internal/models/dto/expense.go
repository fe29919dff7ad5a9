package dto

import "github.com/shopspring/decimal"

// ExpenseRequest is the create/update payload. Pointer fields distinguish
// "absent" from "zero" so PATCH can leave unspecified fields untouched.
type ExpenseRequest struct {
	Title       *string          `json:"title"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
}
