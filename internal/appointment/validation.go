package appointment

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

const nameMessage = "name must be non-empty and contain only letters and spaces"

func newValidator() *validator.Validate {
	v := validator.New()
	// personname: letters and whitespace only, at least one letter.
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return isPersonName(fl.Field().String())
	})
	return v
}

func isPersonName(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return hasLetter
}

// ParseAge converts raw age text. Anything that is not a whole number is an
// InvalidAge validation failure, the same outcome as an out of range value.
func ParseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("age", "age must be a whole number", ErrInvalidAge)
		return 0, vErr
	}
	return age, nil
}

// CheckName applies the registration name rule on its own, for callers that
// must report a bad name alongside an age that failed to parse.
func CheckName(name string) error {
	if err := validate.Var(strings.TrimSpace(name), "required,personname"); err != nil {
		vErr := &ValidationError{}
		vErr.add("name", nameMessage, ErrInvalidName)
		return vErr
	}
	return nil
}

// validateInput runs the struct tags on a registration input and converts the
// validator output into a ValidationError.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &ValidationError{}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Name":
			vErr.add("name", nameMessage, ErrInvalidName)
		case "Age":
			vErr.add("age", ageMessage(fe), ErrInvalidAge)
		default:
			vErr.add(strings.ToLower(fe.Field()), fe.Field()+" is invalid", ErrValidation)
		}
	}
	return vErr
}

func ageMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "age must be at least " + fe.Param()
	case "lte":
		return "age must be at most " + fe.Param()
	}
	return "age is invalid"
}
