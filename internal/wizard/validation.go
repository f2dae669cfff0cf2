package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// detailsInput данные шага 4 в виде, пригодном для validator
type detailsInput struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	CountryCode string `json:"countryCode" validate:"required,dial_code"`
	Phone       string `json:"phone" validate:"required,phone_for_country"`
	Address     string `json:"address" validate:"max=300"`
	Notes       string `json:"notes" validate:"max=1000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// тег country_code - встроенный алиас validator (ISO 3166)
	mustRegister(v, "dial_code", func(fl validator.FieldLevel) bool {
		_, ok := domain.CountryCodes[fl.Field().String()]
		return ok
	})

	mustRegister(v, "phone_for_country", func(fl validator.FieldLevel) bool {
		countryCode := fl.Parent().FieldByName("CountryCode").String()
		return ValidatePhone(countryCode, fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("wizard: register validation %q: %v", tag, err))
	}
}

// validateClientDetails проверяет контактные данные шага 4
func validateClientDetails(details domain.ClientDetails) error {
	input := detailsInput{
		FirstName:   strings.TrimSpace(details.FirstName),
		LastName:    strings.TrimSpace(details.LastName),
		Email:       strings.TrimSpace(details.Email),
		CountryCode: details.CountryCode,
		Phone:       details.Phone,
		Address:     details.Address,
		Notes:       details.Notes,
	}

	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	result := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		result.Fields[fe.Field()] = fieldMessage(fe)
	}
	return result
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "please enter a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "dial_code":
		return "unsupported country code"
	case "phone_for_country":
		return "please enter a valid phone number for the selected country"
	default:
		return "invalid value"
	}
}

// validateHours проверяет значение ползунка: [2, 10] с шагом 0.5
func validateHours(hours float64) error {
	if hours < domain.MinSliderHours || hours > domain.MaxSliderHours || !domain.IsHalfHourMultiple(hours) {
		return newValidationError("hours", fmt.Sprintf("must be between %.0f and %.0f in steps of %.1f",
			domain.MinSliderHours, domain.MaxSliderHours, domain.HoursStep))
	}
	return nil
}
