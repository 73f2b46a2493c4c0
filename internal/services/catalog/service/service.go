// Package service contains catalog workflows
package service

import (
	"context"
	stderrs "errors"
	"strings"

	"enricher/internal/core/rulepack"
	"enricher/internal/modkit/repokit"
	perr "enricher/internal/platform/errors"
	"enricher/internal/platform/logger"
	pstrings "enricher/internal/platform/strings"
	"enricher/internal/services/catalog/domain"
	"enricher/internal/services/catalog/repo"
	enrichdom "enricher/internal/services/enrich/domain"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	inv    enrichdom.Invalidator
	newID  func() uuid.UUID
}

// New creates a catalog service, inv may be nil when nothing caches the catalog
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], inv enrichdom.Invalidator) *Svc {
	if db == nil {
		panic("catalog.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("catalog.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, inv: inv, newID: uuid.New}
}

// Categories lists categories by name
func (s *Svc) Categories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list categories")
	}
	return nonNil(out), nil
}

// Category reads one category
func (s *Svc) Category(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	c, err := s.Repo.Category(ctx, id)
	if err != nil {
		return domain.Category{}, s.readErr(err, "category", id)
	}
	return c, nil
}

// UpdateCategory applies in to a stored category, a type change moves it to the other partition
func (s *Svc) UpdateCategory(ctx context.Context, id uuid.UUID, in domain.CategoryPatch) (domain.Category, error) {
	var out domain.Category
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		c, err := r.Category(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			c.Name = strings.TrimSpace(*in.Name)
		}
		if in.Type != nil {
			c.Type = strings.ToLower(*in.Type)
		}
		out, err = r.UpdateCategory(ctx, c)
		return err
	})
	if err != nil {
		return domain.Category{}, s.updateErr(err, "category", id, deref(in.Name))
	}
	s.changed(ctx, "category updated")
	return out, nil
}

// CreateCategory stores a new category
func (s *Svc) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	c, err := s.Repo.InsertCategory(ctx, domain.Category{
		ID:   s.newID(),
		Name: strings.TrimSpace(in.Name),
		Type: strings.ToLower(in.Type),
	})
	if err != nil {
		return domain.Category{}, s.writeErr(err, "category", in.Name)
	}
	s.changed(ctx, "category created")
	return c, nil
}

// DeleteCategory removes a category nobody references
func (s *Svc) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		n, err := r.CountMerchantsOf(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return perr.Conflictf("category %s is used by %d merchant(s)", id, n)
		}
		return r.DeleteCategory(ctx, id)
	})
	if err != nil {
		return s.deleteErr(err, "category", id)
	}
	s.changed(ctx, "category deleted")
	return nil
}

// Merchants lists merchants by name
func (s *Svc) Merchants(ctx context.Context) ([]domain.Merchant, error) {
	out, err := s.Repo.Merchants(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list merchants")
	}
	return nonNil(out), nil
}

// Merchant reads one merchant
func (s *Svc) Merchant(ctx context.Context, id uuid.UUID) (domain.Merchant, error) {
	m, err := s.Repo.Merchant(ctx, id)
	if err != nil {
		return domain.Merchant{}, s.readErr(err, "merchant", id)
	}
	return m, nil
}

// UpdateMerchant applies in to a stored merchant, an unknown category is a conflict
func (s *Svc) UpdateMerchant(ctx context.Context, id uuid.UUID, in domain.MerchantPatch) (domain.Merchant, error) {
	var out domain.Merchant
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		m, err := r.Merchant(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			m.Name = strings.TrimSpace(*in.Name)
		}
		if in.Logo != nil {
			m.Logo = pstrings.TrimPtr(in.Logo)
		}
		if in.Category != nil {
			if m.Category, err = parseRef("category", in.Category); err != nil {
				return err
			}
		}
		out, err = r.UpdateMerchant(ctx, m)
		return err
	})
	if err != nil {
		return domain.Merchant{}, s.updateErr(err, "merchant", id, deref(in.Name))
	}
	s.changed(ctx, "merchant updated")
	return out, nil
}

// CreateMerchant stores a new merchant, an unknown category is a conflict
func (s *Svc) CreateMerchant(ctx context.Context, in domain.MerchantInput) (domain.Merchant, error) {
	cat, err := parseRef("category", in.Category)
	if err != nil {
		return domain.Merchant{}, err
	}
	m, err := s.Repo.InsertMerchant(ctx, domain.Merchant{
		ID:       s.newID(),
		Name:     strings.TrimSpace(in.Name),
		Logo:     pstrings.TrimPtr(in.Logo),
		Category: cat,
	})
	if err != nil {
		return domain.Merchant{}, s.writeErr(err, "merchant", in.Name)
	}
	s.changed(ctx, "merchant created")
	return m, nil
}

// DeleteMerchant removes a merchant and its keywords
func (s *Svc) DeleteMerchant(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteMerchant(ctx, id); err != nil {
		return s.deleteErr(err, "merchant", id)
	}
	s.changed(ctx, "merchant deleted")
	return nil
}

// Keywords lists keywords by phrase
func (s *Svc) Keywords(ctx context.Context) ([]domain.Keyword, error) {
	out, err := s.Repo.Keywords(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list keywords")
	}
	return nonNil(out), nil
}

// Keyword reads one keyword
func (s *Svc) Keyword(ctx context.Context, id uuid.UUID) (domain.Keyword, error) {
	k, err := s.Repo.Keyword(ctx, id)
	if err != nil {
		return domain.Keyword{}, s.readErr(err, "keyword", id)
	}
	return k, nil
}

// UpdateKeyword applies in to a stored keyword, moving it to another merchant changes what it enriches to
func (s *Svc) UpdateKeyword(ctx context.Context, id uuid.UUID, in domain.KeywordPatch) (domain.Keyword, error) {
	var out domain.Keyword
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		k, err := r.Keyword(ctx, id)
		if err != nil {
			return err
		}
		if in.Phrase != nil {
			k.Phrase = strings.TrimSpace(*in.Phrase)
		}
		if in.Merchant != nil {
			if k.Merchant, err = parseRef("merchant", in.Merchant); err != nil {
				return err
			}
		}
		out, err = r.UpdateKeyword(ctx, k)
		return err
	})
	if err != nil {
		return domain.Keyword{}, s.updateErr(err, "keyword", id, deref(in.Phrase))
	}
	s.changed(ctx, "keyword updated")
	return out, nil
}

// CreateKeyword stores a new keyword, an unknown merchant is a conflict
func (s *Svc) CreateKeyword(ctx context.Context, in domain.KeywordInput) (domain.Keyword, error) {
	mer, err := parseRef("merchant", in.Merchant)
	if err != nil {
		return domain.Keyword{}, err
	}
	k, err := s.Repo.InsertKeyword(ctx, domain.Keyword{
		ID:       s.newID(),
		Phrase:   strings.TrimSpace(in.Phrase),
		Merchant: mer,
	})
	if err != nil {
		return domain.Keyword{}, s.writeErr(err, "keyword", in.Phrase)
	}
	s.changed(ctx, "keyword created")
	return k, nil
}

// DeleteKeyword removes a keyword
func (s *Svc) DeleteKeyword(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteKeyword(ctx, id); err != nil {
		return s.deleteErr(err, "keyword", id)
	}
	s.changed(ctx, "keyword deleted")
	return nil
}

// Import writes a parsed catalog in one transaction, rows whose id exists are kept as is
func (s *Svc) Import(ctx context.Context, c *rulepack.Catalog) (domain.ImportStats, error) {
	var st domain.ImportStats
	if c == nil {
		return st, perr.InvalidArgf("nil catalog")
	}
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		st = domain.ImportStats{}
		r := s.binder.Bind(q)
		for _, cat := range c.Categories {
			ok, err := r.UpsertCategory(ctx, domain.Category{ID: cat.ID, Name: cat.Name, Type: string(cat.Type), CreatedAt: cat.CreatedAt})
			if err != nil {
				return perr.FromPostgresf(err, "import category %s", cat.ID)
			}
			st.Categories += count(ok)
		}
		for _, m := range c.Merchants {
			row := domain.Merchant{ID: m.ID, Name: m.Name, Logo: m.Logo, CreatedAt: m.CreatedAt}
			if m.Category != nil {
				id := m.Category.ID
				row.Category = &id
			}
			ok, err := r.UpsertMerchant(ctx, row)
			if err != nil {
				return perr.FromPostgresf(err, "import merchant %s", m.ID)
			}
			st.Merchants += count(ok)
		}
		for _, k := range c.Keywords {
			row := domain.Keyword{ID: k.ID, Phrase: k.Phrase}
			if k.Merchant != nil {
				id := k.Merchant.ID
				row.Merchant = &id
			}
			ok, err := r.UpsertKeyword(ctx, row)
			if err != nil {
				return perr.FromPostgresf(err, "import keyword %s", k.ID)
			}
			st.Keywords += count(ok)
		}
		return nil
	})
	if err != nil {
		return domain.ImportStats{}, err
	}
	if st != (domain.ImportStats{}) {
		s.changed(ctx, "catalog imported")
	}
	return st, nil
}

func (s *Svc) changed(ctx context.Context, what string) {
	logger.C(ctx).Info().Str("component", "catalog").Msg(what)
	if s.inv != nil {
		s.inv.Invalidate()
	}
}

func (s *Svc) writeErr(err error, kind, name string) error {
	switch {
	case perr.IsDuplicateKey(err):
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeDuplicateKey, "%s %q already exists", kind, strings.TrimSpace(name)), fieldOf(kind))
	case perr.IsForeignKeyViolation(err):
		return perr.FromPostgresf(err, "%s references an unknown %s", kind, parentOf(kind))
	}
	return perr.FromPostgresf(err, "create %s", kind)
}

func (s *Svc) deleteErr(err error, kind string, id uuid.UUID) error {
	switch {
	case stderrs.Is(err, perr.ErrNotFound):
		return perr.NotFoundf("%s %s not found", kind, id)
	case perr.IsForeignKeyViolation(err):
		return perr.FromPostgresf(err, "%s %s is still referenced", kind, id)
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.FromPostgresf(err, "delete %s %s", kind, id)
}

func (s *Svc) readErr(err error, kind string, id uuid.UUID) error {
	if stderrs.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("%s %s not found", kind, id)
	}
	return perr.FromPostgresf(err, "read %s %s", kind, id)
}

func (s *Svc) updateErr(err error, kind string, id uuid.UUID, name string) error {
	switch {
	case stderrs.Is(err, perr.ErrNotFound):
		return perr.NotFoundf("%s %s not found", kind, id)
	case perr.IsDuplicateKey(err), perr.IsForeignKeyViolation(err):
		return s.writeErr(err, kind, name)
	}
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.FromPostgresf(err, "update %s %s", kind, id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fieldOf(kind string) string {
	switch kind {
	case "merchant":
		return "merchant_name"
	case "keyword":
		return "keyword"
	}
	return "name"
}

func parentOf(kind string) string {
	if kind == "keyword" {
		return "merchant"
	}
	return "category"
}

func parseRef(field string, s *string) (*uuid.UUID, error) {
	if pstrings.Blank(s) {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, perr.WithField(perr.Validationf("%s must be a valid UUID", field), field)
	}
	return &id, nil
}

func count(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
