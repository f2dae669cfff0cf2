package wizard

import (
	"regexp"
	"strings"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone оставляет только цифры национального номера
// Код страны в начале номера отбрасывается
func NormalizePhone(countryCode, phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	code := nonDigits.ReplaceAllString(countryCode, "")

	rule, ok := domain.CountryCodes[countryCode]
	if ok && code != "" && strings.HasPrefix(digits, code) && !lengthAllowed(rule, len(digits)) {
		digits = strings.TrimPrefix(digits, code)
	}
	return digits
}

// ValidatePhone проверяет номер по правилам страны
func ValidatePhone(countryCode, phone string) bool {
	rule, ok := domain.CountryCodes[countryCode]
	if !ok {
		return false
	}

	digits := NormalizePhone(countryCode, phone)
	if !lengthAllowed(rule, len(digits)) {
		return false
	}
	if rule.LeadingDigits != "" && !strings.ContainsRune(rule.LeadingDigits, rune(digits[0])) {
		return false
	}
	return true
}

func lengthAllowed(rule domain.PhoneRule, n int) bool {
	for _, l := range rule.Lengths {
		if l == n {
			return true
		}
	}
	return false
}
