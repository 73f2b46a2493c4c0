// Package domain holds DTOs and ports for catalog administration
package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryInput creates a category
type CategoryInput struct {
	Name string `json:"name" validate:"required,notblank,max=100" example:"Transporte"`
	Type string `json:"type" validate:"required,oneof=income expense" example:"expense"`
}

// MerchantInput creates a merchant, Category is optional
type MerchantInput struct {
	Name     string  `json:"merchant_name" validate:"required,notblank,max=100" example:"Uber"`
	Logo     *string `json:"merchant_logo,omitempty" validate:"omitempty,url,max=500" example:"https://cdn.example.com/uber.png"`
	Category *string `json:"category,omitempty" validate:"omitempty,uuid" example:"6f1c2a10-0000-4000-8000-000000000002"`
}

// KeywordInput creates a keyword, Merchant is optional
type KeywordInput struct {
	Phrase   string  `json:"keyword" validate:"required,notblank,max=100" example:"Uber Eats"`
	Merchant *string `json:"merchant,omitempty" validate:"omitempty,uuid" example:"7a2d3b20-0000-4000-8000-000000000001"`
}

// CategoryPatch changes the fields it carries, nil leaves a field as stored
type CategoryPatch struct {
	Name *string `json:"name,omitempty" validate:"omitnil,notblank,max=100" example:"Transporte"`
	Type *string `json:"type,omitempty" validate:"omitnil,oneof=income expense" example:"income"`
}

// MerchantPatch changes the fields it carries, an empty logo or category clears it
type MerchantPatch struct {
	Name     *string `json:"merchant_name,omitempty" validate:"omitnil,notblank,max=100" example:"Uber"`
	Logo     *string `json:"merchant_logo,omitempty" validate:"omitempty,url,max=500" example:"https://cdn.example.com/uber.png"`
	Category *string `json:"category,omitempty" validate:"omitempty,uuid" example:"6f1c2a10-0000-4000-8000-000000000002"`
}

// KeywordPatch changes the fields it carries, an empty merchant unassigns the keyword
type KeywordPatch struct {
	Phrase   *string `json:"keyword,omitempty" validate:"omitnil,notblank,max=100" example:"Uber Eats"`
	Merchant *string `json:"merchant,omitempty" validate:"omitempty,uuid" example:"7a2d3b20-0000-4000-8000-000000000001"`
}

// Patch turns a full category body into an update touching every field
func (in CategoryInput) Patch() CategoryPatch {
	return CategoryPatch{Name: &in.Name, Type: &in.Type}
}

// Patch turns a full merchant body into an update, omitted optional fields keep their value
func (in MerchantInput) Patch() MerchantPatch {
	return MerchantPatch{Name: &in.Name, Logo: in.Logo, Category: in.Category}
}

// Patch turns a full keyword body into an update, an omitted merchant keeps its value
func (in KeywordInput) Patch() KeywordPatch {
	return KeywordPatch{Phrase: &in.Phrase, Merchant: in.Merchant}
}

// Category is a stored category
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Merchant is a stored merchant, Category is the category id
type Merchant struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"merchant_name"`
	Logo      *string    `json:"merchant_logo"`
	Category  *uuid.UUID `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Keyword is a stored keyword, Merchant is the merchant id
type Keyword struct {
	ID        uuid.UUID  `json:"id"`
	Phrase    string     `json:"keyword"`
	Merchant  *uuid.UUID `json:"merchant"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ImportStats counts rows written by a catalog import, existing ids are left alone
type ImportStats struct {
	Categories int `json:"categories"`
	Merchants  int `json:"merchants"`
	Keywords   int `json:"keywords"`
}
