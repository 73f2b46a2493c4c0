// Package bind decodes JSON request bodies and validates them with go-playground/validator
package bind

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// Money bounds enforced by the money tag
const (
	MoneyDigits = 10
	MoneyPlaces = 2
)

// FieldLevel aliases validator.FieldLevel
type FieldLevel = validator.FieldLevel

// ValidatorSvc holds the validator and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Get returns the validator singleton
func Get() *ValidatorSvc {
	vOnce.Do(func() { vSvc = build() })
	return vSvc
}

func build() *ValidatorSvc {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// decimals validate as their exact string form, scale included
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		if e := d.Exponent(); e < 0 {
			return d.StringFixed(-e)
		}
		return d.String()
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("money", money)

	_ = en_translations.RegisterDefaultTranslations(v, trans)
	for tag, text := range messages {
		registerMessage(v, trans, tag, text)
	}
	registerDatetime(v, trans)

	return &ValidatorSvc{Validator: v, Translator: trans}
}

// RegisterValidation adds a custom tag to the singleton
func RegisterValidation(tag string, fn validator.Func) error {
	return Get().Validator.RegisterValidation(tag, fn)
}

func notBlank(fl FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

// money accepts a decimal string with at most MoneyDigits digits and MoneyPlaces places
func money(fl FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	return MoneyOK(f.String())
}

// MoneyOK reports whether s fits the money bounds
func MoneyOK(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return false
	}
	for _, part := range []string{whole, frac} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	whole = strings.TrimLeft(whole, "0")
	return len(frac) <= MoneyPlaces && len(whole)+len(frac) <= MoneyDigits
}

var messages = map[string]string{
	"required": "{0} is required and may not be null",
	"notblank": "{0} may not be blank",
	"money":    "{0} must have at most 10 digits and 2 decimal places",
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"oneof":    "{0} must be one of [{1}]",
	"uuid":     "{0} must be a valid UUID",
	"url":      "{0} must be an absolute URL",
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

func registerDatetime(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("datetime", trans,
		func(t ut.Translator) error {
			return t.Add("datetime", "{0} must be a date formatted as {1}", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			layout := fe.Param()
			if layout == "2006-01-02" {
				layout = "YYYY-MM-DD"
			}
			msg, _ := t.T("datetime", fe.Field(), layout)
			return msg
		},
	)
}
