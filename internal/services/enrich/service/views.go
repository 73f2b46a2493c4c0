package service

import (
	"enricher/internal/core/knowledge"
	"enricher/internal/services/enrich/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeMetrics derives the batch rates from enriched transactions
// rates are percentages rounded half to even at 2 places, an empty batch is all zeros
func ComputeMetrics(ts []domain.EnrichedTransaction) domain.Metrics {
	m := domain.Metrics{TotalTransactions: len(ts)}
	if len(ts) == 0 {
		return m
	}
	var cats, merchants int64
	for _, t := range ts {
		if t.Category != nil {
			cats++
		}
		if t.Merchant != nil {
			merchants++
		}
	}
	m.CategorizationRate = Rate(cats, int64(len(ts)))
	m.MerchantIdentificationRate = Rate(merchants, int64(len(ts)))
	return m
}

// Rate is 100*n/total rounded to 2 places, 0 when total is 0
func Rate(n, total int64) float64 {
	if total <= 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(n).Mul(hundred).Div(decimal.NewFromInt(total)).RoundBank(2).Float64()
	return f
}

// CategoryView maps a category into its payload, nil stays nil
func CategoryView(c *knowledge.Category) *domain.CategoryView {
	if c == nil {
		return nil
	}
	return &domain.CategoryView{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// MerchantView maps a merchant into its payload, nil stays nil
func MerchantView(m *knowledge.Merchant) *domain.MerchantView {
	if m == nil {
		return nil
	}
	v := &domain.MerchantView{
		ID:        m.ID,
		Name:      m.Name,
		Logo:      m.Logo,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Category != nil {
		id := m.Category.ID
		v.Category = &id
	}
	return v
}
