package knowledge

import (
	"errors"
	"testing"
	"time"

	"enricher/internal/core/phrase"

	"github.com/google/uuid"
)

func id(n byte) uuid.UUID {
	var u uuid.UUID
	u[15] = n
	return u
}

type fixture struct {
	cats      []Category
	merchants []Merchant
	keywords  []Keyword
}

func newFixture() fixture {
	sueldo := &Category{ID: id(1), Name: "Sueldo", Type: Income}
	transporte := &Category{ID: id(2), Name: "Transporte", Type: Expense}
	super := &Category{ID: id(3), Name: "Supermercado", Type: Expense}

	uber := &Merchant{ID: id(10), Name: "Uber", Category: transporte}
	uberEats := &Merchant{ID: id(11), Name: "Uber Eats", Category: transporte}
	lider := &Merchant{ID: id(12), Name: "Lider", Category: super}
	empresa := &Merchant{ID: id(13), Name: "Empresa X", Category: sueldo}

	return fixture{
		cats:      []Category{*sueldo, *transporte, *super},
		merchants: []Merchant{*uber, *uberEats, *lider, *empresa},
		keywords: []Keyword{
			{ID: id(20), Phrase: "uber", Merchant: uber},
			{ID: id(21), Phrase: "uber trip help", Merchant: uber},
			{ID: id(22), Phrase: "sueldo empresa x", Merchant: empresa},
		},
	}
}

func TestCompile_Partitions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	b := Compile(f.cats, f.merchants, f.keywords, Options{})

	inc, exp := b.Partition(Income), b.Partition(Expense)
	if len(inc.Keywords) != 1 || len(exp.Keywords) != 2 {
		t.Fatalf("keywords income=%d expense=%d", len(inc.Keywords), len(exp.Keywords))
	}
	if len(inc.Merchants) != 1 || len(exp.Merchants) != 3 {
		t.Fatalf("merchants income=%d expense=%d", len(inc.Merchants), len(exp.Merchants))
	}
	if len(inc.Categories) != 1 || len(exp.Categories) != 2 {
		t.Fatalf("categories income=%d expense=%d", len(inc.Categories), len(exp.Categories))
	}
	if b.Partition("transfer") != nil {
		t.Fatalf("unknown movement type must have no partition")
	}
	var nilBase *Base
	if nilBase.Partition(Income) != nil {
		t.Fatalf("nil base must have no partition")
	}
}

func TestCompile_LongestFirst(t *testing.T) {
	t.Parallel()

	f := newFixture()
	b := Compile(f.cats, f.merchants, f.keywords, Options{})
	exp := b.Partition(Expense)

	if got := exp.Keywords[0].Keyword.Phrase; got != "uber trip help" {
		t.Fatalf("first expense keyword = %q, want longest", got)
	}
	var names []string
	for _, e := range exp.Merchants {
		names = append(names, e.Merchant.Name)
	}
	if len(names) != 3 || names[0] != "Uber Eats" || names[1] != "Lider" || names[2] != "Uber" {
		t.Fatalf("expense merchants = %v, want [Uber Eats Lider Uber]", names)
	}
	for i := 1; i < len(exp.Keywords); i++ {
		if exp.Keywords[i-1].Length < exp.Keywords[i].Length {
			t.Fatalf("keywords not sorted by length desc")
		}
	}
}

func TestCompile_SkipsBrokenRelationships(t *testing.T) {
	t.Parallel()

	orphanMerchant := &Merchant{ID: id(30), Name: "Nadie"}
	badType := &Category{ID: id(31), Name: "Rara", Type: "transfer"}
	weird := &Merchant{ID: id(32), Name: "Weird", Category: badType}

	b := Compile(
		[]Category{*badType, {ID: id(33), Name: "de la", Type: Expense}},
		[]Merchant{*orphanMerchant, *weird, {ID: id(34), Name: "  ", Category: &Category{ID: id(35), Type: Expense}}},
		[]Keyword{
			{ID: id(40), Phrase: "sin merchant"},
			{ID: id(41), Phrase: "sin categoria", Merchant: orphanMerchant},
			{ID: id(42), Phrase: "tipo raro", Merchant: weird},
			{ID: id(43), Phrase: "...", Merchant: &Merchant{ID: id(44), Category: &Category{ID: id(45), Type: Income}}},
		},
		Options{},
	)

	want := Skipped{Keywords: 4, Merchants: 3, Categories: 2}
	if b.Skipped != want {
		t.Fatalf("Skipped = %+v, want %+v", b.Skipped, want)
	}
	st := b.Stats()
	if st.Income.Keywords+st.Expense.Keywords+st.Income.Merchants+st.Expense.Merchants != 0 {
		t.Fatalf("nothing should compile, stats=%+v", st)
	}
	if len(b.Diagnostics) != 0 {
		t.Fatalf("skips are not diagnostics, got %v", b.Diagnostics)
	}
}

func TestCompile_DiagnosticsForUnmatchablePhrases(t *testing.T) {
	t.Parallel()

	cat := &Category{ID: id(1), Name: "Otros", Type: Expense}
	m := &Merchant{ID: id(2), Name: "&&", Category: cat}

	b := Compile([]Category{*cat}, []Merchant{*m}, []Keyword{{ID: id(3), Phrase: "@ @", Merchant: m}}, Options{})

	if len(b.Diagnostics) != 2 {
		t.Fatalf("want 2 diagnostics, got %d: %+v", len(b.Diagnostics), b.Diagnostics)
	}
	for _, d := range b.Diagnostics {
		if !errors.Is(d.Err, phrase.ErrNoWordRune) {
			t.Fatalf("diagnostic err = %v, want ErrNoWordRune", d.Err)
		}
	}
	if b.Diagnostics[0].Kind != KindKeyword || b.Diagnostics[1].Kind != KindMerchant {
		t.Fatalf("diagnostic kinds = %s,%s", b.Diagnostics[0].Kind, b.Diagnostics[1].Kind)
	}
	if got := b.Stats().Diagnostics; got != 2 {
		t.Fatalf("Stats().Diagnostics = %d", got)
	}
}

func TestCompile_CategoryOrder(t *testing.T) {
	t.Parallel()

	mk := func() []Category {
		return []Category{
			{ID: id(9), Name: "Comida Rapida", Type: Expense},
			{ID: id(2), Name: "Comida", Type: Expense},
			{ID: id(5), Name: "Comida Casa", Type: Expense},
		}
	}

	byID := Compile(mk(), nil, nil, Options{CategoryOrder: OrderByID}).Partition(Expense).Categories
	for i, want := range []byte{2, 5, 9} {
		if byID[i].Category.ID != id(want) {
			t.Fatalf("by id [%d] = %s", i, byID[i].Category.ID)
		}
	}

	prov := Compile(mk(), nil, nil, Options{CategoryOrder: OrderProvider}).Partition(Expense).Categories
	for i, want := range []byte{9, 2, 5} {
		if prov[i].Category.ID != id(want) {
			t.Fatalf("provider [%d] = %s", i, prov[i].Category.ID)
		}
	}
}

func TestCompile_EqualLengthKeepsProviderOrder(t *testing.T) {
	t.Parallel()

	cat := &Category{ID: id(1), Name: "Otros", Type: Expense}
	ms := []Merchant{
		{ID: id(5), Name: "Sodimac", Category: cat},
		{ID: id(3), Name: "Easy", Category: cat},
		{ID: id(4), Name: "Jumbo", Category: cat},
		{ID: id(2), Name: "Unimarc", Category: cat},
	}
	got := Compile([]Category{*cat}, ms, nil, Options{}).Partition(Expense).Merchants
	want := []string{"Sodimac", "Unimarc", "Jumbo", "Easy"}
	for i, w := range want {
		if got[i].Merchant.Name != w {
			t.Fatalf("merchants[%d] = %s, want %s", i, got[i].Merchant.Name, w)
		}
	}
}

func TestCompile_CategoryWords(t *testing.T) {
	t.Parallel()

	b := Compile([]Category{{ID: id(1), Name: "Comida y Restaurantes de la Ciudad", Type: Expense}}, nil, nil, Options{})
	words := b.Partition(Expense).Categories[0].Words
	for _, w := range []string{"comida", "restaurantes", "ciudad"} {
		if _, ok := words[w]; !ok {
			t.Fatalf("missing word %q in %v", w, words)
		}
	}
	if len(words) != 3 {
		t.Fatalf("stop words leaked: %v", words)
	}
}

func TestCompile_BuiltAtAndStats(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture()
	b := Compile(f.cats, f.merchants, f.keywords, Options{Now: func() time.Time { return at }})

	st := b.Stats()
	if !st.BuiltAt.Equal(at) {
		t.Fatalf("BuiltAt = %v", st.BuiltAt)
	}
	if st.Expense.Keywords != 2 || st.Expense.Merchants != 3 || st.Expense.Categories != 2 {
		t.Fatalf("expense stats %+v", st.Expense)
	}
	// uber, trip, help, eats, lider
	if st.Expense.Words != 5 {
		t.Fatalf("expense words = %d, want 5", st.Expense.Words)
	}
	if (*Base)(nil).Stats() != (Stats{}) {
		t.Fatalf("nil base stats must be zero")
	}
}

func TestEntry_Candidate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	p := Compile(f.cats, f.merchants, f.keywords, Options{}).Partition(Expense)

	h := p.Scan("pago uber eats")
	var cands []string
	for i := range p.Merchants {
		if p.Merchants[i].Candidate(h) {
			cands = append(cands, p.Merchants[i].Merchant.Name)
		}
	}
	if len(cands) != 2 || cands[0] != "Uber Eats" || cands[1] != "Uber" {
		t.Fatalf("candidates = %v", cands)
	}

	var nilPart *Partition
	if nilPart.Scan("uber") != nil {
		t.Fatalf("nil partition scan must be nil")
	}
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()

	if m, ok := ParseMovementType(" Income "); !ok || m != Income {
		t.Fatalf("ParseMovementType income = %v,%v", m, ok)
	}
	if _, ok := ParseMovementType("transfer"); ok {
		t.Fatalf("transfer must be invalid")
	}
	if ParseOrder("provider") != OrderProvider || ParseOrder("") != OrderByID || ParseOrder("x") != OrderByID {
		t.Fatalf("ParseOrder fallbacks broken")
	}
	if !IsStopWord("de") || IsStopWord("comida") {
		t.Fatalf("IsStopWord broken")
	}
}
