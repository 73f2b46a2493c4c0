package domain

import (
	"context"

	"enricher/internal/core/rulepack"

	"github.com/google/uuid"
)

// ServicePort is the catalog administration contract
// every successful write invalidates the compiled knowledge base
type ServicePort interface {
	Categories(ctx context.Context) ([]Category, error)
	Category(ctx context.Context, id uuid.UUID) (Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryPatch) (Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Merchants(ctx context.Context) ([]Merchant, error)
	Merchant(ctx context.Context, id uuid.UUID) (Merchant, error)
	CreateMerchant(ctx context.Context, in MerchantInput) (Merchant, error)
	UpdateMerchant(ctx context.Context, id uuid.UUID, in MerchantPatch) (Merchant, error)
	DeleteMerchant(ctx context.Context, id uuid.UUID) error

	Keywords(ctx context.Context) ([]Keyword, error)
	Keyword(ctx context.Context, id uuid.UUID) (Keyword, error)
	CreateKeyword(ctx context.Context, in KeywordInput) (Keyword, error)
	UpdateKeyword(ctx context.Context, id uuid.UUID, in KeywordPatch) (Keyword, error)
	DeleteKeyword(ctx context.Context, id uuid.UUID) error

	Import(ctx context.Context, c *rulepack.Catalog) (ImportStats, error)
}
