// Package repo provides postgres access for the catalog
package repo

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"enricher/internal/modkit/repokit"
	"enricher/internal/services/catalog/domain"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schema string

// Schema returns the catalog DDL, every statement is idempotent
func Schema() string { return schema }

// Migrate applies the catalog schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}
	return nil
}

// Repo defines the repository contract for the catalog
type Repo interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id uuid.UUID) (domain.Category, error)
	InsertCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	CountMerchantsOf(ctx context.Context, category uuid.UUID) (int, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Merchants(ctx context.Context) ([]domain.Merchant, error)
	Merchant(ctx context.Context, id uuid.UUID) (domain.Merchant, error)
	InsertMerchant(ctx context.Context, m domain.Merchant) (domain.Merchant, error)
	UpdateMerchant(ctx context.Context, m domain.Merchant) (domain.Merchant, error)
	DeleteMerchant(ctx context.Context, id uuid.UUID) error

	Keywords(ctx context.Context) ([]domain.Keyword, error)
	Keyword(ctx context.Context, id uuid.UUID) (domain.Keyword, error)
	InsertKeyword(ctx context.Context, k domain.Keyword) (domain.Keyword, error)
	// Update* rewrite every mutable column, bump updated_at and answer ErrNotFound for an unknown id
	UpdateKeyword(ctx context.Context, k domain.Keyword) (domain.Keyword, error)
	DeleteKeyword(ctx context.Context, id uuid.UUID) error

	// Upsert* insert rows whose id is unknown and report whether a row was written
	UpsertCategory(ctx context.Context, c domain.Category) (bool, error)
	UpsertMerchant(ctx context.Context, m domain.Merchant) (bool, error)
	UpsertKeyword(ctx context.Context, k domain.Keyword) (bool, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanStamps(row repokit.Row) (time.Time, time.Time, error) {
	var c, u time.Time
	err := row.Scan(&c, &u)
	return c.UTC(), u.UTC(), err
}

const (
	categoryCols = `id::text, name, type, created_at, updated_at`
	merchantCols = `id::text, merchant_name, merchant_logo, category_id::text, created_at, updated_at`
	keywordCols  = `id::text, keyword, merchant_id::text, created_at, updated_at`
)

func scanCategory(row repokit.Row) (domain.Category, error) {
	var (
		c  domain.Category
		id string
	)
	if err := row.Scan(&id, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	var err error
	c.ID, err = uuid.Parse(id)
	c.CreatedAt, c.UpdatedAt = c.CreatedAt.UTC(), c.UpdatedAt.UTC()
	return c, err
}

func scanMerchant(row repokit.Row) (domain.Merchant, error) {
	var (
		m     domain.Merchant
		id    string
		catID *string
	)
	if err := row.Scan(&id, &m.Name, &m.Logo, &catID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return m, err
	}
	var err error
	if m.ID, err = uuid.Parse(id); err != nil {
		return m, err
	}
	m.CreatedAt, m.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	m.Category, err = parseRef(catID)
	return m, err
}

func scanKeyword(row repokit.Row) (domain.Keyword, error) {
	var (
		k     domain.Keyword
		id    string
		merID *string
	)
	if err := row.Scan(&id, &k.Phrase, &merID, &k.CreatedAt, &k.UpdatedAt); err != nil {
		return k, err
	}
	var err error
	if k.ID, err = uuid.Parse(id); err != nil {
		return k, err
	}
	k.CreatedAt, k.UpdatedAt = k.CreatedAt.UTC(), k.UpdatedAt.UTC()
	k.Merchant, err = parseRef(merID)
	return k, err
}

func (r *queries) Categories(ctx context.Context) ([]domain.Category, error) {
	return repokit.Many(ctx, r.q, scanCategory, `select `+categoryCols+` from categories order by name`)
}

func (r *queries) Category(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	return repokit.One(ctx, r.q, scanCategory, `select `+categoryCols+` from categories where id = $1::uuid`, id.String())
}

func (r *queries) UpdateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	const sql = `update categories set name = $2, type = $3, updated_at = now()
where id = $1::uuid returning ` + categoryCols
	return repokit.One(ctx, r.q, scanCategory, sql, c.ID.String(), c.Name, c.Type)
}

func (r *queries) InsertCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	const sql = `insert into categories (id, name, type) values ($1::uuid, $2, $3) returning created_at, updated_at`
	var err error
	c.CreatedAt, c.UpdatedAt, err = scanStamps(r.q.QueryRow(ctx, sql, c.ID.String(), c.Name, c.Type))
	return c, err
}

func (r *queries) CountMerchantsOf(ctx context.Context, category uuid.UUID) (int, error) {
	const sql = `select count(*)::int from merchants where category_id = $1::uuid`
	return repokit.Scalar[int](ctx, r.q, sql, category.String())
}

func (r *queries) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return repokit.ExecOne(ctx, r.q, `delete from categories where id = $1::uuid`, id.String())
}

func (r *queries) Merchants(ctx context.Context) ([]domain.Merchant, error) {
	return repokit.Many(ctx, r.q, scanMerchant, `select `+merchantCols+` from merchants order by merchant_name`)
}

func (r *queries) Merchant(ctx context.Context, id uuid.UUID) (domain.Merchant, error) {
	return repokit.One(ctx, r.q, scanMerchant, `select `+merchantCols+` from merchants where id = $1::uuid`, id.String())
}

func (r *queries) UpdateMerchant(ctx context.Context, m domain.Merchant) (domain.Merchant, error) {
	const sql = `update merchants set merchant_name = $2, merchant_logo = $3, category_id = $4::uuid, updated_at = now()
where id = $1::uuid returning ` + merchantCols
	return repokit.One(ctx, r.q, scanMerchant, sql, m.ID.String(), m.Name, m.Logo, refArg(m.Category))
}

func (r *queries) InsertMerchant(ctx context.Context, m domain.Merchant) (domain.Merchant, error) {
	const sql = `insert into merchants (id, merchant_name, merchant_logo, category_id)
values ($1::uuid, $2, $3, $4::uuid) returning created_at, updated_at`
	var err error
	m.CreatedAt, m.UpdatedAt, err = scanStamps(r.q.QueryRow(ctx, sql, m.ID.String(), m.Name, m.Logo, refArg(m.Category)))
	return m, err
}

func (r *queries) DeleteMerchant(ctx context.Context, id uuid.UUID) error {
	return repokit.ExecOne(ctx, r.q, `delete from merchants where id = $1::uuid`, id.String())
}

func (r *queries) Keywords(ctx context.Context) ([]domain.Keyword, error) {
	return repokit.Many(ctx, r.q, scanKeyword, `select `+keywordCols+` from keywords order by keyword`)
}

func (r *queries) Keyword(ctx context.Context, id uuid.UUID) (domain.Keyword, error) {
	return repokit.One(ctx, r.q, scanKeyword, `select `+keywordCols+` from keywords where id = $1::uuid`, id.String())
}

func (r *queries) UpdateKeyword(ctx context.Context, k domain.Keyword) (domain.Keyword, error) {
	const sql = `update keywords set keyword = $2, merchant_id = $3::uuid, updated_at = now()
where id = $1::uuid returning ` + keywordCols
	return repokit.One(ctx, r.q, scanKeyword, sql, k.ID.String(), k.Phrase, refArg(k.Merchant))
}

func (r *queries) InsertKeyword(ctx context.Context, k domain.Keyword) (domain.Keyword, error) {
	const sql = `insert into keywords (id, keyword, merchant_id) values ($1::uuid, $2, $3::uuid) returning created_at, updated_at`
	var err error
	k.CreatedAt, k.UpdatedAt, err = scanStamps(r.q.QueryRow(ctx, sql, k.ID.String(), k.Phrase, refArg(k.Merchant)))
	return k, err
}

func (r *queries) DeleteKeyword(ctx context.Context, id uuid.UUID) error {
	return repokit.ExecOne(ctx, r.q, `delete from keywords where id = $1::uuid`, id.String())
}

func (r *queries) UpsertCategory(ctx context.Context, c domain.Category) (bool, error) {
	const sql = `insert into categories (id, name, type, created_at, updated_at)
values ($1::uuid, $2, $3, coalesce($4::timestamptz, now()), coalesce($4::timestamptz, now())) on conflict (id) do nothing`
	return written(r.q.Exec(ctx, sql, c.ID.String(), c.Name, c.Type, stampArg(c.CreatedAt)))
}

func (r *queries) UpsertMerchant(ctx context.Context, m domain.Merchant) (bool, error) {
	const sql = `insert into merchants (id, merchant_name, merchant_logo, category_id, created_at, updated_at)
values ($1::uuid, $2, $3, $4::uuid, coalesce($5::timestamptz, now()), coalesce($5::timestamptz, now())) on conflict (id) do nothing`
	return written(r.q.Exec(ctx, sql, m.ID.String(), m.Name, m.Logo, refArg(m.Category), stampArg(m.CreatedAt)))
}

func (r *queries) UpsertKeyword(ctx context.Context, k domain.Keyword) (bool, error) {
	const sql = `insert into keywords (id, keyword, merchant_id, created_at, updated_at)
values ($1::uuid, $2, $3::uuid, coalesce($4::timestamptz, now()), coalesce($4::timestamptz, now())) on conflict (id) do nothing`
	return written(r.q.Exec(ctx, sql, k.ID.String(), k.Phrase, refArg(k.Merchant), stampArg(k.CreatedAt)))
}

func written(tag repokit.CommandTag, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func parseRef(s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// refArg passes a nullable reference as text, nil stays SQL null
func refArg(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

// stampArg passes a zero time as null so the column default applies
func stampArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
