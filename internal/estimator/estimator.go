// Package estimator maps room counts to billable cleaning hours.
//
// Arithmetic is done in decimal so a raw value lying exactly on a half-hour
// boundary never rounds up to the next half hour.
package estimator

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Веса домашнего оценщика (часы на единицу)
var (
	kitchenWeight  = decimal.RequireFromString("0.75")
	bathroomWeight = decimal.RequireFromString("0.5")
	bedroomWeight  = decimal.RequireFromString("0.3")
	livingWeight   = decimal.RequireFromString("0.25")
)

// Веса офисного оценщика
var (
	roomWeight      = decimal.RequireFromString("0.3")
	cafeteriaWeight = decimal.RequireFromString("0.67")
	deskWeight      = decimal.RequireFromString("0.133")
	washroomWeight  = decimal.RequireFromString("0.42")
	officeBase      = decimal.RequireFromString("0.75")
)

var (
	two  = decimal.NewFromInt(2)
	half = decimal.RequireFromString("0.5")
)

// HomeRaw невыровненная оценка часов для дома
func HomeRaw(c domain.HomeCounts) decimal.Decimal {
	return kitchenWeight.Mul(decimal.NewFromInt(int64(c.Kitchen))).
		Add(bathroomWeight.Mul(decimal.NewFromInt(int64(c.Bathrooms)))).
		Add(bedroomWeight.Mul(decimal.NewFromInt(int64(c.Bedrooms)))).
		Add(livingWeight.Mul(decimal.NewFromInt(int64(c.Living))))
}

// OfficeRaw невыровненная оценка часов для офиса (с базовой надбавкой)
func OfficeRaw(c domain.OfficeCounts) decimal.Decimal {
	return roomWeight.Mul(decimal.NewFromInt(int64(c.Rooms))).
		Add(cafeteriaWeight.Mul(decimal.NewFromInt(int64(c.Cafeteria)))).
		Add(deskWeight.Mul(decimal.NewFromInt(int64(c.Desks)))).
		Add(washroomWeight.Mul(decimal.NewFromInt(int64(c.Washrooms)))).
		Add(officeBase)
}

// HomeHours max(2, RoundUpToHalf(raw))
func HomeHours(c domain.HomeCounts) float64 {
	return clampMin(RoundUpToHalf(HomeRaw(c)), domain.MinHomeHours)
}

// OfficeHours max(3, RoundUpToHalf(raw))
func OfficeHours(c domain.OfficeCounts) float64 {
	return clampMin(RoundUpToHalf(OfficeRaw(c)), domain.MinOfficeHours)
}

// RoundUpToHalf ceil(x*2)/2
func RoundUpToHalf(x decimal.Decimal) decimal.Decimal {
	return x.Mul(two).Ceil().Mul(half)
}

func clampMin(hours decimal.Decimal, min float64) float64 {
	value := hours.InexactFloat64()
	if value < min {
		return min
	}
	return value
}
