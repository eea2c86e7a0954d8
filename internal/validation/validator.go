// internal/validation/validator.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// numeric(12,2) holds at most ten integer digits.
var maxMoney = decimal.New(1, 10)

// Validator wraps go-playground/validator and turns its errors into
// domain.ValidationError keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with English messages and the custom tags used by
// the request params:
//
//	coerced  the loosely typed input (Bool, Int, Decimal) parsed cleanly
//	money    a Decimal fits numeric(12,2)
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("registering validator translations: %v", err))
	}

	mustRegister(validate, trans, "coerced", "{0} has an invalid value", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(Coercible)
		return !ok || c.Coerced()
	})
	mustRegister(validate, trans, "money", "{0} must have at most ten integer digits", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(Decimal)
		if !ok || !d.Set || d.Invalid {
			return true
		}
		return d.Value.Abs().LessThan(maxMoney)
	})

	return &Validator{validate: validate, trans: trans}
}

func mustRegister(v *validator.Validate, trans ut.Translator, tag, message string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}

	register := func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}
	translate := func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	}
	if err := v.RegisterTranslation(tag, trans, register, translate); err != nil {
		panic(fmt.Sprintf("registering %s translation: %v", tag, err))
	}
}

// Struct validates s. Rule failures come back as *domain.ValidationError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %T: %w", s, err)
	}

	out := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), fe.Translate(v.trans))
	}
	return out
}

// ID checks an id taken from a path, query string or RPC input.
func ID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "id is a required field")
	}
	return nil
}

// fieldPath drops the struct names from the namespace, so
// "UpdateCompanyParams.NewCompanyParams.domains[0]" becomes "domains[0]".
// Embedded params structs show up as upper-case segments.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for _, p := range parts[1:] {
		if p == "" || unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}
