package domain

// CounterField имя счетчика оценщика
type CounterField string

const (
	FieldBedrooms  CounterField = "bedrooms"
	FieldBathrooms CounterField = "bathrooms"
	FieldKitchen   CounterField = "kitchen"
	FieldLiving    CounterField = "living"

	FieldRooms     CounterField = "rooms"
	FieldCafeteria CounterField = "cafeteria"
	FieldDesks     CounterField = "desks"
	FieldWashrooms CounterField = "washrooms"
)

// HomeCounts счетчики помещений для домашней уборки
type HomeCounts struct {
	Bedrooms  int
	Bathrooms int
	Kitchen   int
	Living    int
}

// OfficeCounts счетчики помещений для уборки офиса
type OfficeCounts struct {
	Rooms     int
	Cafeteria int
	Desks     int
	Washrooms int
}

// DefaultHomeCounts значения счетчиков при старте мастера
func DefaultHomeCounts() HomeCounts {
	return HomeCounts{Bedrooms: 2, Bathrooms: 1, Kitchen: 1, Living: 1}
}

// DefaultOfficeCounts значения счетчиков при переключении на офисную услугу
func DefaultOfficeCounts() OfficeCounts {
	return OfficeCounts{Rooms: 6, Cafeteria: 0, Desks: 20, Washrooms: 2}
}

// HomeFields порядок полей домашнего оценщика
var HomeFields = []CounterField{FieldBedrooms, FieldBathrooms, FieldKitchen, FieldLiving}

// OfficeFields порядок полей офисного оценщика
var OfficeFields = []CounterField{FieldRooms, FieldCafeteria, FieldDesks, FieldWashrooms}
