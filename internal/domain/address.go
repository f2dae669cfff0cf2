package domain

// Coordinates географические координаты
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// AddressCandidate подсказка адреса от геокодера
type AddressCandidate struct {
	Description string
	PlaceID     string
}
