package domain

import "github.com/shopspring/decimal"

// ServiceCategory категория услуги; определяет, какой оценщик часов активен
type ServiceCategory string

const (
	CategoryHome   ServiceCategory = "home"
	CategoryOffice ServiceCategory = "office"
)

// IsValid проверяет, что категория известна
func (c ServiceCategory) IsValid() bool {
	return c == CategoryHome || c == CategoryOffice
}

// ServiceType услуга из каталога
type ServiceType struct {
	ID               string
	Title            string
	Description      string
	HourlyRate       decimal.Decimal
	RecommendedHours float64
	Category         ServiceCategory
	IsActive         bool
}

// IsOffice returns true for office cleaning services
func (s *ServiceType) IsOffice() bool {
	return s != nil && s.Category == CategoryOffice
}

// MinHours минимальная допустимая длительность для категории
func (s *ServiceType) MinHours() float64 {
	if s.IsOffice() {
		return MinOfficeHours
	}
	return MinHomeHours
}

// HoursInRange проверяет инвариант длительности для категории услуги:
// [2, 10] для домашних услуг, >= 3 для офисных, всегда кратно 0.5
func (s *ServiceType) HoursInRange(hours float64) bool {
	if !IsHalfHourMultiple(hours) {
		return false
	}
	if s.IsOffice() {
		return hours >= MinOfficeHours
	}
	return hours >= MinHomeHours && hours <= MaxHomeHours
}

// IsHalfHourMultiple проверяет кратность 0.5
func IsHalfHourMultiple(hours float64) bool {
	doubled := hours * 2
	return doubled == float64(int64(doubled))
}
