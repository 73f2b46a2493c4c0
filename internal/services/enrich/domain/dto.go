// Package domain holds DTOs and ports for transaction enrichment
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionInput is one bank movement as sent by clients
type TransactionInput struct {
	Description *string          `json:"description" validate:"required,notblank" example:"Viaje en Uber Santiago"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,money" swaggertype:"number" example:"-4500"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02" example:"2025-04-28"`
}

// CategoryView is the enriched_category payload
type CategoryView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MerchantView is the enriched_merchant payload, Category is the category id
type MerchantView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"merchant_name"`
	Logo      *string    `json:"merchant_logo"`
	Category  *uuid.UUID `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EnrichedTransaction echoes the input with the resolved category and merchant
// Amount is written as a JSON number at its parsed scale
type EnrichedTransaction struct {
	Description string        `json:"description"`
	Amount      json.Number   `json:"amount" swaggertype:"number"`
	Date        string        `json:"date"`
	Category    *CategoryView `json:"enriched_category"`
	Merchant    *MerchantView `json:"enriched_merchant"`
}

// Metrics are batch level match rates, percentages rounded to 2 places
type Metrics struct {
	TotalTransactions          int     `json:"total_transactions"`
	CategorizationRate         float64 `json:"categorization_rate"`
	MerchantIdentificationRate float64 `json:"merchant_identification_rate"`
}

// EnrichResponse is the body of a successful enrichment
type EnrichResponse struct {
	Transactions []EnrichedTransaction `json:"transactions"`
	Metrics      Metrics               `json:"metrics"`
}

// Run is the aggregate a batch leaves behind for analytics
type Run struct {
	BatchID    string
	At         time.Time
	Total      int
	Categories int
	Merchants  int
	Keyword    int
	ByMerchant int
	ByCategory int
	Elapsed    time.Duration
}

// AmountNumber renders d without quotes, keeping its scale
func AmountNumber(d decimal.Decimal) json.Number {
	if e := d.Exponent(); e < 0 {
		return json.Number(d.StringFixed(-e))
	}
	return json.Number(d.String())
}
