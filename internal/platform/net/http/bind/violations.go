package bind

import (
	stderrs "errors"

	perr "enricher/internal/platform/errors"
	"enricher/internal/platform/logger"

	"github.com/go-playground/validator/v10"
)

// Violation is one failing field, Index is set for list items
type Violation struct {
	Index   *int   `json:"index,omitempty"`
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations flattens a validator error into translated violations
func Violations(err error) []Violation {
	var verrs validator.ValidationErrors
	if !stderrs.As(err, &verrs) {
		if err == nil {
			return nil
		}
		return []Violation{{Message: err.Error()}}
	}
	tr := Get().Translator
	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{Field: fe.Field(), Rule: fe.Tag(), Message: fe.Translate(tr)})
	}
	return out
}

// Validate checks one struct and returns a Validation error with details
func Validate(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if stderrs.As(err, &inv) {
		logger.Named("bind").Error().Err(inv).Msg("validator internal error")
		return perr.Validationf("validation error")
	}
	vs := Violations(err)
	return perr.WithField(perr.WithDetails(perr.Validationf("%s", vs[0].Message), vs), vs[0].Field)
}

// ValidateList checks every item and reports all violations in index order
// nothing is partially accepted, one bad item fails the list
func ValidateList[T any](items []T) error {
	var all []Violation
	for i := range items {
		err := Get().Validator.Struct(&items[i])
		if err == nil {
			continue
		}
		var inv *validator.InvalidValidationError
		if stderrs.As(err, &inv) {
			logger.Named("bind").Error().Err(inv).Int("index", i).Msg("validator internal error")
			return perr.Validationf("validation error")
		}
		for _, v := range Violations(err) {
			idx := i
			v.Index = &idx
			all = append(all, v)
		}
	}
	if len(all) == 0 {
		return nil
	}
	return perr.WithDetails(perr.Validationf("%d invalid field(s) in %d item(s)", len(all), countItems(all)), all)
}

func countItems(vs []Violation) int {
	n, last := 0, -1
	for _, v := range vs {
		if v.Index != nil && *v.Index != last {
			n++
			last = *v.Index
		}
	}
	return n
}
