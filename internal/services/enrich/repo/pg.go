// Package repo provides the catalog snapshot sources and the run sink for enrichment
package repo

import (
	"context"
	"fmt"
	"time"

	"enricher/internal/core/knowledge"
	"enricher/internal/modkit/repokit"
	"enricher/internal/services/enrich/domain"

	"github.com/google/uuid"
)

type (
	// PG reads the catalog from Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a Postgres source binder
func NewPG() repokit.Binder[domain.SourcePort] { return PG{} }

// Bind binds a queryer to the source
func (PG) Bind(q repokit.Queryer) domain.SourcePort { return &queries{q: q} }

// TxSource reads the catalog through the pool, Snapshot reads it inside one transaction
type TxSource struct {
	db repokit.TxRunner
	domain.SourcePort
}

var _ knowledge.Snapshotter = (*TxSource)(nil)

// NewTxSource creates a source whose snapshots are consistent across the three tables
func NewTxSource(db repokit.TxRunner) *TxSource {
	return &TxSource{db: db, SourcePort: NewPG().Bind(db)}
}

// Snapshot reads categories, merchants and keywords under one repeatable read, read only transaction
func (s *TxSource) Snapshot(ctx context.Context) (knowledge.Catalog, error) {
	var c knowledge.Catalog
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		if _, err := q.Exec(ctx, `set transaction isolation level repeatable read, read only`); err != nil {
			return fmt.Errorf("begin snapshot: %w", err)
		}
		src := NewPG().Bind(q)
		var err error
		if c.Categories, err = src.Categories(ctx); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		if c.Merchants, err = src.Merchants(ctx); err != nil {
			return fmt.Errorf("list merchants: %w", err)
		}
		if c.Keywords, err = src.Keywords(ctx); err != nil {
			return fmt.Errorf("list keywords: %w", err)
		}
		return nil
	})
	if err != nil {
		return knowledge.Catalog{}, err
	}
	return c, nil
}

const categoryCols = `c.id::text, c.name, c.type, c.created_at, c.updated_at`

func (r *queries) Categories(ctx context.Context) ([]knowledge.Category, error) {
	const sql = `select ` + categoryCols + ` from categories c order by c.created_at, c.id`
	return repokit.Many(ctx, r.q, func(row repokit.Row) (knowledge.Category, error) {
		var rc rowCategory
		if err := row.Scan(rc.dest()...); err != nil {
			return knowledge.Category{}, err
		}
		c, _, err := rc.category()
		return c, err
	}, sql)
}

const merchantCols = `m.id::text, m.merchant_name, m.merchant_logo, m.created_at, m.updated_at`

func (r *queries) Merchants(ctx context.Context) ([]knowledge.Merchant, error) {
	const sql = `select ` + merchantCols + `, ` + categoryCols + `
from merchants m
left join categories c on c.id = m.category_id
order by m.created_at, m.id`
	return repokit.Many(ctx, r.q, func(row repokit.Row) (knowledge.Merchant, error) {
		var rm rowMerchant
		var rc rowCategory
		if err := row.Scan(append(rm.dest(), rc.nullableDest()...)...); err != nil {
			return knowledge.Merchant{}, err
		}
		return rm.merchant(rc)
	}, sql)
}

func (r *queries) Keywords(ctx context.Context) ([]knowledge.Keyword, error) {
	const sql = `select k.id::text, k.keyword,
m.id::text, m.merchant_name, m.merchant_logo, m.created_at, m.updated_at, ` + categoryCols + `
from keywords k
left join merchants m on m.id = k.merchant_id
left join categories c on c.id = m.category_id
order by k.created_at, k.id`
	return repokit.Many(ctx, r.q, func(row repokit.Row) (knowledge.Keyword, error) {
		var (
			kid, phrase string
			mid, mname  *string
			rm          rowMerchant
			rc          rowCategory
			mCreated    *time.Time
			mUpdated    *time.Time
		)
		dest := []any{&kid, &phrase, &mid, &mname, &rm.logo, &mCreated, &mUpdated}
		if err := row.Scan(append(dest, rc.nullableDest()...)...); err != nil {
			return knowledge.Keyword{}, err
		}
		id, err := uuid.Parse(kid)
		if err != nil {
			return knowledge.Keyword{}, fmt.Errorf("keyword id %q: %w", kid, err)
		}
		kw := knowledge.Keyword{ID: id, Phrase: phrase}
		if mid == nil {
			return kw, nil
		}
		rm.id, rm.name = *mid, deref(mname)
		rm.createdAt, rm.updatedAt = deref(mCreated), deref(mUpdated)
		m, err := rm.merchant(rc)
		if err != nil {
			return knowledge.Keyword{}, err
		}
		kw.Merchant = &m
		return kw, nil
	}, sql)
}

type rowCategory struct {
	id, name, typ        string
	createdAt, updatedAt time.Time

	nid, nname, ntyp   *string
	ncreated, nupdated *time.Time
}

func (r *rowCategory) dest() []any {
	return []any{&r.id, &r.name, &r.typ, &r.createdAt, &r.updatedAt}
}

func (r *rowCategory) nullableDest() []any {
	return []any{&r.nid, &r.nname, &r.ntyp, &r.ncreated, &r.nupdated}
}

// category resolves the scanned columns, ok is false for a null join
func (r *rowCategory) category() (knowledge.Category, bool, error) {
	if r.nid != nil {
		r.id, r.name, r.typ = *r.nid, deref(r.nname), deref(r.ntyp)
		r.createdAt, r.updatedAt = deref(r.ncreated), deref(r.nupdated)
	}
	if r.id == "" {
		return knowledge.Category{}, false, nil
	}
	id, err := uuid.Parse(r.id)
	if err != nil {
		return knowledge.Category{}, false, fmt.Errorf("category id %q: %w", r.id, err)
	}
	// an unknown type is kept so the compiler can count it as skipped
	return knowledge.Category{
		ID:        id,
		Name:      r.name,
		Type:      knowledge.MovementType(r.typ),
		CreatedAt: r.createdAt.UTC(),
		UpdatedAt: r.updatedAt.UTC(),
	}, true, nil
}

type rowMerchant struct {
	id, name             string
	logo                 *string
	createdAt, updatedAt time.Time
}

func (r *rowMerchant) dest() []any {
	return []any{&r.id, &r.name, &r.logo, &r.createdAt, &r.updatedAt}
}

func (r *rowMerchant) merchant(rc rowCategory) (knowledge.Merchant, error) {
	id, err := uuid.Parse(r.id)
	if err != nil {
		return knowledge.Merchant{}, fmt.Errorf("merchant id %q: %w", r.id, err)
	}
	m := knowledge.Merchant{
		ID:        id,
		Name:      r.name,
		Logo:      r.logo,
		CreatedAt: r.createdAt.UTC(),
		UpdatedAt: r.updatedAt.UTC(),
	}
	c, ok, err := rc.category()
	if err != nil {
		return knowledge.Merchant{}, err
	}
	if ok {
		m.Category = &c
	}
	return m, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
