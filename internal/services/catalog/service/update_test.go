package service

import (
	"context"
	"testing"

	"enricher/internal/core/knowledge"
	"enricher/internal/core/matcher"
	"enricher/internal/core/normalize"
	"enricher/internal/modkit/repokit"
	"enricher/internal/platform/cache"
	perr "enricher/internal/platform/errors"
	"enricher/internal/platform/testkit"
	"enricher/internal/services/catalog/domain"
	"enricher/internal/services/catalog/repo"

	"github.com/google/uuid"
)

var (
	transporte = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000001")
	comida     = uuid.MustParse("6f1c2a10-0000-4000-8000-000000000002")
	uber       = uuid.MustParse("7a2d3b20-0000-4000-8000-000000000001")
	rappi      = uuid.MustParse("7a2d3b20-0000-4000-8000-000000000002")
	uberEats   = uuid.MustParse("8b3e4c30-0000-4000-8000-000000000001")
)

func fixture() *fakeRepo {
	logo := "https://cdn.example.com/uber.png"
	return &fakeRepo{
		cats: []domain.Category{
			{ID: transporte, Name: "Transporte", Type: "expense", CreatedAt: stamp, UpdatedAt: stamp},
			{ID: comida, Name: "Comida", Type: "expense", CreatedAt: stamp, UpdatedAt: stamp},
		},
		merchants: []domain.Merchant{
			{ID: uber, Name: "Uber", Logo: &logo, Category: &transporte, CreatedAt: stamp, UpdatedAt: stamp},
			{ID: rappi, Name: "Rappi", Category: &comida, CreatedAt: stamp, UpdatedAt: stamp},
		},
		keywords: []domain.Keyword{
			{ID: uberEats, Phrase: "uber eats", Merchant: &uber, CreatedAt: stamp, UpdatedAt: stamp},
		},
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	s, _, _ := newSvc(fixture())
	ctx := context.Background()
	if c, err := s.Category(ctx, comida); err != nil || c.Name != "Comida" {
		t.Fatalf("Category = %+v, %v", c, err)
	}
	if m, err := s.Merchant(ctx, uber); err != nil || *m.Category != transporte {
		t.Fatalf("Merchant = %+v, %v", m, err)
	}
	if k, err := s.Keyword(ctx, uberEats); err != nil || *k.Merchant != uber {
		t.Fatalf("Keyword = %+v, %v", k, err)
	}

	_, err := s.Merchant(ctx, uuid.New())
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	testkit.MustContain(t, err.Error(), "merchant")
}

func TestUpdateCategory(t *testing.T) {
	t.Parallel()

	r := fixture()
	s, inv, tx := newSvc(r)
	c, err := s.UpdateCategory(context.Background(), comida, domain.CategoryPatch{Type: testkit.Ptr("Income")})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if c.Name != "Comida" || c.Type != "income" || !c.CreatedAt.Equal(stamp) || !c.UpdatedAt.Equal(later) {
		t.Fatalf("category = %+v", c)
	}
	if inv.n != 1 || tx.txs != 1 {
		t.Fatalf("inv=%d txs=%d", inv.n, tx.txs)
	}

	c, err = s.UpdateCategory(context.Background(), comida, domain.CategoryInput{Name: " Restaurantes ", Type: "expense"}.Patch())
	if err != nil || c.Name != "Restaurantes" || c.Type != "expense" {
		t.Fatalf("replace = %+v, %v", c, err)
	}
}

func TestUpdateMerchant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       domain.MerchantPatch
		logo     *string
		category *uuid.UUID
	}{
		{"rename keeps the rest", domain.MerchantPatch{Name: testkit.Ptr(" Uber Chile ")}, testkit.Ptr("https://cdn.example.com/uber.png"), &transporte},
		{"empty logo clears", domain.MerchantPatch{Logo: testkit.Ptr("")}, nil, &transporte},
		{"move category", domain.MerchantPatch{Category: testkit.Ptr(comida.String())}, testkit.Ptr("https://cdn.example.com/uber.png"), &comida},
		{"empty category unassigns", domain.MerchantPatch{Category: testkit.Ptr(" ")}, testkit.Ptr("https://cdn.example.com/uber.png"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, inv, _ := newSvc(fixture())
			m, err := s.UpdateMerchant(context.Background(), uber, tc.in)
			if err != nil {
				t.Fatalf("UpdateMerchant: %v", err)
			}
			if tc.in.Name != nil && m.Name != "Uber Chile" {
				t.Fatalf("name = %q", m.Name)
			}
			if (m.Logo == nil) != (tc.logo == nil) || (m.Logo != nil && *m.Logo != *tc.logo) {
				t.Fatalf("logo = %v, want %v", m.Logo, tc.logo)
			}
			if (m.Category == nil) != (tc.category == nil) || (m.Category != nil && *m.Category != *tc.category) {
				t.Fatalf("category = %v, want %v", m.Category, tc.category)
			}
			if !m.UpdatedAt.Equal(later) || inv.n != 1 {
				t.Fatalf("updated_at=%v inv=%d", m.UpdatedAt, inv.n)
			}
		})
	}
}

func TestUpdate_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		id    uuid.UUID
		err   error
		code  perr.ErrorCode
		field string
	}{
		{"missing", uuid.New(), nil, perr.ErrorCodeNotFound, ""},
		{"duplicate", uberEats, pgErr("23505", "keywords_keyword_key"), perr.ErrorCodeDuplicateKey, "keyword"},
		{"unknown merchant", uberEats, pgErr("23503", "keywords_merchant_id_fkey"), perr.ErrorCodeConflict, "merchant_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := fixture()
			r.updateErr = tc.err
			s, inv, _ := newSvc(r)
			_, err := s.UpdateKeyword(context.Background(), tc.id, domain.KeywordPatch{Phrase: testkit.Ptr("uber")})
			if got := perr.CodeOf(err); got != tc.code {
				t.Fatalf("code = %v, want %v (%v)", got, tc.code, err)
			}
			if e, _ := perr.As(err); tc.field != "" && e.Field() != tc.field {
				t.Fatalf("field = %q, want %q", e.Field(), tc.field)
			}
			if inv.n != 0 {
				t.Fatalf("failed writes must not invalidate")
			}
		})
	}

	s, inv, _ := newSvc(fixture())
	_, err := s.UpdateKeyword(context.Background(), uberEats, domain.KeywordPatch{Merchant: testkit.Ptr("nope")})
	if !perr.IsCode(err, perr.ErrorCodeValidation) || inv.n != 0 {
		t.Fatalf("bad reference = %v inv=%d", err, inv.n)
	}
}

// snapshot resolves the fake rows into the shape the knowledge base compiles
type snapshot struct{ r *fakeRepo }

func (s snapshot) Categories(context.Context) ([]knowledge.Category, error) {
	out := make([]knowledge.Category, 0, len(s.r.cats))
	for _, c := range s.r.cats {
		out = append(out, knowledge.Category{ID: c.ID, Name: c.Name, Type: knowledge.MovementType(c.Type)})
	}
	return out, nil
}

func (s snapshot) merchant(id *uuid.UUID) *knowledge.Merchant {
	if id == nil {
		return nil
	}
	m, err := s.r.Merchant(context.Background(), *id)
	if err != nil {
		return nil
	}
	km := &knowledge.Merchant{ID: m.ID, Name: m.Name, Logo: m.Logo}
	if m.Category != nil {
		c, _ := s.r.Category(context.Background(), *m.Category)
		km.Category = &knowledge.Category{ID: c.ID, Name: c.Name, Type: knowledge.MovementType(c.Type)}
	}
	return km
}

func (s snapshot) Merchants(context.Context) ([]knowledge.Merchant, error) {
	out := make([]knowledge.Merchant, 0, len(s.r.merchants))
	for _, m := range s.r.merchants {
		out = append(out, *s.merchant(&m.ID))
	}
	return out, nil
}

func (s snapshot) Keywords(context.Context) ([]knowledge.Keyword, error) {
	out := make([]knowledge.Keyword, 0, len(s.r.keywords))
	for _, k := range s.r.keywords {
		out = append(out, knowledge.Keyword{ID: k.ID, Phrase: k.Phrase, Merchant: s.merchant(k.Merchant)})
	}
	return out, nil
}

func TestUpdateKeyword_ReroutesEnrichment(t *testing.T) {
	t.Parallel()

	r := fixture()
	loader := knowledge.NewLoader(snapshot{r: r}, cache.New())
	s := New(&fakeTx{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r }), loader)
	ctx := context.Background()

	enrich := func() matcher.Result {
		t.Helper()
		b, err := loader.Get(ctx)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		return matcher.New(b).Match(normalize.Normalize("Pago UBER EATS Santiago"), knowledge.Expense)
	}

	got := enrich()
	if got.Stage != matcher.StageKeyword || got.Merchant == nil || got.Merchant.Name != "Uber" || got.Category.Name != "Transporte" {
		t.Fatalf("before = %+v", got)
	}

	if _, err := s.UpdateKeyword(ctx, uberEats, domain.KeywordPatch{Merchant: testkit.Ptr(rappi.String())}); err != nil {
		t.Fatalf("UpdateKeyword: %v", err)
	}
	if _, cached := loader.Current(); cached {
		t.Fatalf("update must drop the compiled base")
	}

	got = enrich()
	if got.Stage != matcher.StageKeyword || got.Merchant == nil || got.Merchant.Name != "Rappi" || got.Category.Name != "Comida" {
		t.Fatalf("after = %+v", got)
	}
}
