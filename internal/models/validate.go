package models

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := ParseClock(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("grapheme", func(fl validator.FieldLevel) bool {
			return IsSingleGrapheme(fl.Field().String())
		})
	})
	return validate
}

// Validate checks struct tags on Task, TodoItem and GeneratedTask.
func Validate(v any) error {
	return validatorInstance().Struct(v)
}

// IsSingleGrapheme reports whether s renders as one user-perceived character,
// so ZWJ sequences and flags count once.
func IsSingleGrapheme(s string) bool {
	return uniseg.GraphemeClusterCount(s) == 1
}
