package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "enricher/internal/platform/errors"

	"github.com/shopspring/decimal"
)

type item struct {
	Description *string          `json:"description" validate:"required,notblank"`
	Amount      *decimal.Decimal `json:"amount" validate:"required,money"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
}

type named struct {
	Name string `json:"name" validate:"required,max=5"`
	Kind string `json:"kind" validate:"oneof=income expense"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func details(t *testing.T, err error) []Violation {
	t.Helper()
	e, ok := perr.As(err)
	if !ok {
		t.Fatalf("not a project error: %v", err)
	}
	vs, ok := e.Details().([]Violation)
	if !ok {
		t.Fatalf("details = %#v", e.Details())
	}
	return vs
}

func TestParseJSONList_OK(t *testing.T) {
	t.Parallel()

	items, err := ParseJSONList[item](post(`[
		{"description":"Viaje en Uber","amount":-4500,"date":"2025-04-28"},
		{"description":"Sueldo","amount":"850000.50","date":"2025-04-28"},
		{"description":"Cero","amount":0,"date":"2025-04-28"}
	]`))
	if err != nil {
		t.Fatalf("ParseJSONList: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d", len(items))
	}
	if !items[1].Amount.Equal(decimal.RequireFromString("850000.5")) {
		t.Fatalf("amount = %s", items[1].Amount)
	}
	if !items[2].Amount.IsZero() {
		t.Fatalf("zero amount must be accepted")
	}
}

func TestParseJSONList_Empty(t *testing.T) {
	t.Parallel()

	items, err := ParseJSONList[item](post(` [] `))
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("empty array = %v, %v", items, err)
	}
}

func TestParseJSONList_ViolationsAreIndexedAndAtomic(t *testing.T) {
	t.Parallel()

	_, err := ParseJSONList[item](post(`[
		{"description":"ok","amount":1,"date":"2025-04-28"},
		{"description":"","amount":-100,"date":"2025-04-28"},
		{"description":null,"amount":-100,"date":"2025-04-28"},
		{"description":"Falta amount","date":"2025-04-28"},
		{"description":"x","amount":123456789.12,"date":"28-04-2025"}
	]`))
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("code = %v (%v)", perr.CodeOf(err), err)
	}

	vs := details(t, err)
	type key struct {
		idx   int
		field string
		rule  string
	}
	var got []key
	for _, v := range vs {
		got = append(got, key{*v.Index, v.Field, v.Rule})
	}
	want := []key{
		{1, "description", "notblank"},
		{2, "description", "required"},
		{3, "amount", "required"},
		{4, "amount", "money"},
		{4, "date", "datetime"},
	}
	if len(got) != len(want) {
		t.Fatalf("violations = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("violation[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !strings.Contains(vs[0].Message, "blank") || !strings.Contains(vs[1].Message, "null") {
		t.Fatalf("messages = %q / %q", vs[0].Message, vs[1].Message)
	}
	if !strings.Contains(vs[4].Message, "YYYY-MM-DD") {
		t.Fatalf("date message = %q", vs[4].Message)
	}
}

func TestParseJSONList_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		opts JSONOptions
		code perr.ErrorCode
	}{
		{"empty body", ``, JSONOptions{}, perr.ErrorCodeJSON},
		{"object", `{"description":"x"}`, JSONOptions{}, perr.ErrorCodeJSON},
		{"null", `null`, JSONOptions{}, perr.ErrorCodeJSON},
		{"broken", `[{"description":`, JSONOptions{}, perr.ErrorCodeJSON},
		{"unknown field", `[{"description":"x","amount":1,"date":"2025-01-01","foo":1}]`, JSONOptions{}, perr.ErrorCodeJSON},
		{"trailing", `[] []`, JSONOptions{}, perr.ErrorCodeJSON},
		{"too many", `[{"description":"a","amount":1,"date":"2025-01-01"},{"description":"b","amount":1,"date":"2025-01-01"}]`, JSONOptions{MaxItems: 1}, perr.ErrorCodeTooLarge},
		{"too big", `[` + strings.Repeat(" ", 64) + `]`, JSONOptions{MaxBytes: 16}, perr.ErrorCodeTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseJSONList[item](post(tc.body), tc.opts)
			if got := perr.CodeOf(err); got != tc.code {
				t.Fatalf("code = %v, want %v (%v)", got, tc.code, err)
			}
		})
	}
}

func TestParseJSONList_SkipValidation(t *testing.T) {
	t.Parallel()

	items, err := ParseJSONList[item](post(`[{"description":""}]`), JSONOptions{SkipValidation: true})
	if err != nil || len(items) != 1 {
		t.Fatalf("SkipValidation = %v, %v", items, err)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	got, err := ParseJSON[named](post(`{"name":"Uber","kind":"expense"}`))
	if err != nil || got.Name != "Uber" {
		t.Fatalf("ParseJSON = %+v, %v", got, err)
	}

	_, err = ParseJSON[named](post(`{"name":"Demasiado","kind":"transfer"}`))
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "name" {
		t.Fatalf("validation err = %v", err)
	}
	vs := details(t, err)
	if len(vs) != 2 || vs[0].Index != nil || vs[1].Rule != "oneof" {
		t.Fatalf("violations = %+v", vs)
	}
	if vs[0].Message != "name must be at most 5" {
		t.Fatalf("max message = %q", vs[0].Message)
	}

	if _, err := ParseJSON[named](post(``)); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("empty body code = %v", perr.CodeOf(err))
	}
	if _, err := ParseJSON[named](post(``), JSONOptions{AllowEmptyBody: true}); err != nil {
		t.Fatalf("AllowEmptyBody = %v", err)
	}
	if _, err := ParseJSON[named](post(`{"name":"a","kind":"income","x":1}`), JSONOptions{AllowUnknown: true}); err != nil {
		t.Fatalf("AllowUnknown = %v", err)
	}
}

func TestMoneyOK(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"0":            true,
		"-4500":        true,
		"12.50":        true,
		"0.05":         true,
		"99999999.99":  true,
		"100000000.00": false,
		"1.005":        false,
		"12345678901":  false,
		"0000012.1":    true,
		"":             false,
		"abc":          false,
		"1e5":          false,
		".5":           true,
		"+3":           true,
	}
	for in, want := range cases {
		if got := MoneyOK(in); got != want {
			t.Fatalf("MoneyOK(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	type even struct {
		N int `json:"n" validate:"even"`
	}
	if err := RegisterValidation("even", func(fl FieldLevel) bool { return fl.Field().Int()%2 == 0 }); err != nil {
		t.Fatalf("RegisterValidation: %v", err)
	}
	if err := Validate(&even{N: 2}); err != nil {
		t.Fatalf("even 2 = %v", err)
	}
	if err := Validate(&even{N: 3}); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("even 3 = %v", err)
	}
}

func TestReadJSONList(t *testing.T) {
	t.Parallel()

	items, err := ReadJSONList[item](strings.NewReader("\n[{\"description\":\"x\",\"amount\":1,\"date\":\"2025-04-28\"}]\n"))
	if err != nil || len(items) != 1 {
		t.Fatalf("ReadJSONList = %v, %v", items, err)
	}

	_, err = ReadJSONList[item](strings.NewReader(`[{"description":"`+strings.Repeat("x", 64)+`"}]`), JSONOptions{MaxBytes: 32})
	if !perr.IsCode(err, perr.ErrorCodeTooLarge) {
		t.Fatalf("want too large, got %v", err)
	}

	_, err = ReadJSONList[item](strings.NewReader(`[{"description":""}]`))
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want validation, got %v", err)
	}
}
