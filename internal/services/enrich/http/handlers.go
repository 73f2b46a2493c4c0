// Package http provides http transport for enrichment
package http

import (
	stdhttp "net/http"

	"enricher/internal/modkit/httpkit"
	"enricher/internal/services/enrich/domain"
)

// Limits bound the enrichment request body
type Limits struct {
	MaxItems int
	MaxBytes int64
}

// Register mounts the enrichment and knowledge endpoints
func Register(r httpkit.Router, s domain.ServicePort, kp domain.KnowledgePort, l Limits) {
	h := &handlers{svc: s, kp: kp}

	// validation runs in the service so the batch CLI gets the same checks
	httpkit.PostList(r, "/transactions/enrich", h.enrich, httpkit.ListOptions{
		JSONOptions: httpkit.JSONOptions{MaxItems: l.MaxItems, MaxBytes: l.MaxBytes, SkipValidation: true},
		Raw:         true,
	})
	httpkit.GetJSON(r, "/knowledge/stats", h.stats)
	httpkit.PostNoBody(r, "/knowledge/invalidate", h.invalidate)
}

type handlers struct {
	svc domain.ServicePort
	kp  domain.KnowledgePort
}

// InvalidateResponse acknowledges a dropped knowledge base
type InvalidateResponse struct {
	Invalidated bool `json:"invalidated" example:"true"`
}

// @Summary Enrich a batch of transactions
// @Tags Enrich
// @Accept json
// @Produce json
// @Param payload body []domain.TransactionInput true "Transactions"
// @Success 200 {object} domain.EnrichResponse "ok"
// @Failure 400 {object} errors.Wire "validation error"
// @Failure 413 {object} errors.Wire "batch too large"
// @Router /transactions/enrich [post]
func (h *handlers) enrich(r *stdhttp.Request, in []domain.TransactionInput) (any, error) {
	return h.svc.Enrich(r.Context(), in)
}

// @Summary Knowledge base cache state
// @Tags Knowledge
// @Produce json
// @Success 200 {object} knowledge.LoaderStats "ok"
// @Router /knowledge/stats [get]
func (h *handlers) stats(_ *stdhttp.Request) (any, error) {
	return h.kp.Stats(), nil
}

// @Summary Drop the compiled knowledge base
// @Tags Knowledge
// @Produce json
// @Success 200 {object} InvalidateResponse "ok"
// @Router /knowledge/invalidate [post]
func (h *handlers) invalidate(_ *stdhttp.Request) (any, error) {
	h.kp.Invalidate()
	return InvalidateResponse{Invalidated: true}, nil
}
