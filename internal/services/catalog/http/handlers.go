// Package http provides http transport for catalog administration
package http

import (
	stdhttp "net/http"

	"enricher/internal/modkit/httpkit"
	perr "enricher/internal/platform/errors"
	"enricher/internal/services/catalog/domain"

	"github.com/google/uuid"
)

// Register mounts the catalog endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.GetJSON(r, "/categories", h.categories)
	httpkit.PostCreated(r, "/categories", h.createCategory)
	httpkit.GetJSON(r, "/categories/{id}", h.category)
	httpkit.Put(r, "/categories/{id}", h.replaceCategory)
	httpkit.Patch(r, "/categories/{id}", h.patchCategory)
	httpkit.Delete(r, "/categories/{id}", h.deleteCategory)

	httpkit.GetJSON(r, "/merchants", h.merchants)
	httpkit.PostCreated(r, "/merchants", h.createMerchant)
	httpkit.GetJSON(r, "/merchants/{id}", h.merchant)
	httpkit.Put(r, "/merchants/{id}", h.replaceMerchant)
	httpkit.Patch(r, "/merchants/{id}", h.patchMerchant)
	httpkit.Delete(r, "/merchants/{id}", h.deleteMerchant)

	httpkit.GetJSON(r, "/keywords", h.keywords)
	httpkit.PostCreated(r, "/keywords", h.createKeyword)
	httpkit.GetJSON(r, "/keywords/{id}", h.keyword)
	httpkit.Put(r, "/keywords/{id}", h.replaceKeyword)
	httpkit.Patch(r, "/keywords/{id}", h.patchKeyword)
	httpkit.Delete(r, "/keywords/{id}", h.deleteKeyword)
}

type handlers struct{ svc domain.ServicePort }

func pathID(r *stdhttp.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(httpkit.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, perr.WithField(perr.Validationf("id must be a valid UUID"), "id")
	}
	return id, nil
}

// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Category "ok"
// @Router /catalog/categories [get]
func (h *handlers) categories(r *stdhttp.Request) (any, error) {
	return h.svc.Categories(r.Context())
}

// @Summary Create a category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.CategoryInput true "Category"
// @Success 201 {object} domain.Category "created"
// @Failure 409 {object} errors.Wire "duplicate name"
// @Router /catalog/categories [post]
func (h *handlers) createCategory(r *stdhttp.Request, in domain.CategoryInput) (any, error) {
	return h.svc.CreateCategory(r.Context(), in)
}

// @Summary Get a category
// @Tags Catalog
// @Produce json
// @Param id path string true "Category id"
// @Success 200 {object} domain.Category "ok"
// @Failure 404 {object} errors.Wire "not found"
// @Router /catalog/categories/{id} [get]
func (h *handlers) category(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Category(r.Context(), id)
}

// @Summary Replace a category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category id"
// @Param payload body domain.CategoryInput true "Category"
// @Success 200 {object} domain.Category "ok"
// @Router /catalog/categories/{id} [put]
func (h *handlers) replaceCategory(r *stdhttp.Request, in domain.CategoryInput) (any, error) {
	return h.patchCategory(r, in.Patch())
}

// @Summary Update some fields of a category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category id"
// @Param payload body domain.CategoryPatch true "Changed fields"
// @Success 200 {object} domain.Category "ok"
// @Failure 409 {object} errors.Wire "duplicate name"
// @Router /catalog/categories/{id} [patch]
func (h *handlers) patchCategory(r *stdhttp.Request, in domain.CategoryPatch) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateCategory(r.Context(), id, in)
}

// @Summary Delete a category, refused while merchants reference it
// @Tags Catalog
// @Param id path string true "Category id"
// @Success 204
// @Failure 409 {object} errors.Wire "still referenced"
// @Router /catalog/categories/{id} [delete]
func (h *handlers) deleteCategory(r *stdhttp.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	return h.svc.DeleteCategory(r.Context(), id)
}

// @Summary List merchants
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Merchant "ok"
// @Router /catalog/merchants [get]
func (h *handlers) merchants(r *stdhttp.Request) (any, error) {
	return h.svc.Merchants(r.Context())
}

// @Summary Create a merchant
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.MerchantInput true "Merchant"
// @Success 201 {object} domain.Merchant "created"
// @Router /catalog/merchants [post]
func (h *handlers) createMerchant(r *stdhttp.Request, in domain.MerchantInput) (any, error) {
	return h.svc.CreateMerchant(r.Context(), in)
}

// @Summary Get a merchant
// @Tags Catalog
// @Produce json
// @Param id path string true "Merchant id"
// @Success 200 {object} domain.Merchant "ok"
// @Router /catalog/merchants/{id} [get]
func (h *handlers) merchant(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Merchant(r.Context(), id)
}

// @Summary Replace a merchant, omitted logo and category are kept
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Merchant id"
// @Param payload body domain.MerchantInput true "Merchant"
// @Success 200 {object} domain.Merchant "ok"
// @Router /catalog/merchants/{id} [put]
func (h *handlers) replaceMerchant(r *stdhttp.Request, in domain.MerchantInput) (any, error) {
	return h.patchMerchant(r, in.Patch())
}

// @Summary Update some fields of a merchant, an empty logo or category clears it
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Merchant id"
// @Param payload body domain.MerchantPatch true "Changed fields"
// @Success 200 {object} domain.Merchant "ok"
// @Failure 409 {object} errors.Wire "unknown category"
// @Router /catalog/merchants/{id} [patch]
func (h *handlers) patchMerchant(r *stdhttp.Request, in domain.MerchantPatch) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateMerchant(r.Context(), id, in)
}

// @Summary Delete a merchant and its keywords
// @Tags Catalog
// @Param id path string true "Merchant id"
// @Success 204
// @Router /catalog/merchants/{id} [delete]
func (h *handlers) deleteMerchant(r *stdhttp.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	return h.svc.DeleteMerchant(r.Context(), id)
}

// @Summary List keywords
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Keyword "ok"
// @Router /catalog/keywords [get]
func (h *handlers) keywords(r *stdhttp.Request) (any, error) {
	return h.svc.Keywords(r.Context())
}

// @Summary Create a keyword
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.KeywordInput true "Keyword"
// @Success 201 {object} domain.Keyword "created"
// @Router /catalog/keywords [post]
func (h *handlers) createKeyword(r *stdhttp.Request, in domain.KeywordInput) (any, error) {
	return h.svc.CreateKeyword(r.Context(), in)
}

// @Summary Get a keyword
// @Tags Catalog
// @Produce json
// @Param id path string true "Keyword id"
// @Success 200 {object} domain.Keyword "ok"
// @Router /catalog/keywords/{id} [get]
func (h *handlers) keyword(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Keyword(r.Context(), id)
}

// @Summary Replace a keyword, an omitted merchant is kept
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Keyword id"
// @Param payload body domain.KeywordInput true "Keyword"
// @Success 200 {object} domain.Keyword "ok"
// @Router /catalog/keywords/{id} [put]
func (h *handlers) replaceKeyword(r *stdhttp.Request, in domain.KeywordInput) (any, error) {
	return h.patchKeyword(r, in.Patch())
}

// @Summary Update some fields of a keyword, an empty merchant unassigns it
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Keyword id"
// @Param payload body domain.KeywordPatch true "Changed fields"
// @Success 200 {object} domain.Keyword "ok"
// @Router /catalog/keywords/{id} [patch]
func (h *handlers) patchKeyword(r *stdhttp.Request, in domain.KeywordPatch) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateKeyword(r.Context(), id, in)
}

// @Summary Delete a keyword
// @Tags Catalog
// @Param id path string true "Keyword id"
// @Success 204
// @Router /catalog/keywords/{id} [delete]
func (h *handlers) deleteKeyword(r *stdhttp.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	return h.svc.DeleteKeyword(r.Context(), id)
}
