package phrase

import (
	"errors"
	"testing"
)

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words []string
		want  error
	}{
		{name: "nil", words: nil, want: ErrEmpty},
		{name: "empty word", words: []string{"uber", ""}, want: ErrBadWord},
		{name: "word with space", words: []string{"uber eats"}, want: ErrBadWord},
		{name: "invalid utf8", words: []string{string([]byte{0xff})}, want: ErrBadWord},
		{name: "symbols only", words: []string{"&"}, want: ErrNoWordRune},
		{name: "plus signs", words: []string{"pago", "++"}, want: ErrNoWordRune},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.words)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Compile(%q) err=%v, want %v", tt.words, err, tt.want)
			}
			if m != nil {
				t.Fatalf("expected nil matcher on error")
			}
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words []string
		text  string
		want  bool
	}{
		{name: "single word anywhere", words: []string{"uber"}, text: "viaje en uber santiago", want: true},
		{name: "single word at start", words: []string{"uber"}, text: "uber eats pago", want: true},
		{name: "single word at end", words: []string{"lider"}, text: "compra en lider", want: true},
		{name: "partial inside word rejected", words: []string{"uber"}, text: "superuberto", want: false},
		{name: "prefix of word rejected", words: []string{"enel"}, text: "enelsa pago", want: false},
		{name: "suffix of word rejected", words: []string{"sol"}, text: "pago parasol", want: false},
		{name: "ordered adjacent", words: []string{"falabella", "viajes"}, text: "reserva falabella viajes sky", want: true},
		{name: "ordered with gap", words: []string{"empresa", "x"}, text: "abono sueldo empresa grande x ltda", want: true},
		{name: "reordered rejected", words: []string{"viajes", "falabella"}, text: "reserva falabella viajes", want: false},
		{name: "repeat needs two tokens", words: []string{"uber", "uber"}, text: "uber eats", want: false},
		{name: "repeat satisfied", words: []string{"uber", "uber"}, text: "uber y uber", want: true},
		{name: "later whole occurrence after partial", words: []string{"sol"}, text: "parasol sol", want: true},
		{name: "unicode boundary", words: []string{"ñuñoa"}, text: "compra ñuñoa centro", want: true},
		{name: "unicode glued rejected", words: []string{"uñoa"}, text: "compra ñuñoa", want: false},
		{name: "digits are word runes", words: []string{"7"}, text: "tienda 77", want: false},
		{name: "symbol edged word", words: []string{"at&t"}, text: "pago at&t mensual", want: true},
		{name: "case folded words", words: []string{"UBER"}, text: "uber", want: true},
		{name: "empty text", words: []string{"uber"}, text: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.words)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if got := m.Match(tt.text); got != tt.want {
				t.Fatalf("Match(%q) with %q = %v, want %v", tt.text, tt.words, got, tt.want)
			}
		})
	}
}

func TestMatcher_NilAndString(t *testing.T) {
	t.Parallel()

	var m *Matcher
	if m.Match("anything") {
		t.Fatalf("nil matcher must not match")
	}
	mm := MustCompile("Sueldo", "Empresa")
	if mm.String() != "sueldo empresa" {
		t.Fatalf("String() = %q", mm.String())
	}
	ws := mm.Words()
	ws[0] = "mutated"
	if mm.Words()[0] != "sueldo" {
		t.Fatalf("Words must return a copy")
	}
}

func TestMustCompile_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = MustCompile()
}
