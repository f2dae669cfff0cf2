package estimator

import (
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Counters счетчики обоих оценщиков одной сессии
// Активна ровно одна группа, в зависимости от категории услуги
type Counters struct {
	Home   domain.HomeCounts
	Office domain.OfficeCounts
}

// NewCounters счетчики со значениями по умолчанию
func NewCounters() Counters {
	return Counters{
		Home:   domain.DefaultHomeCounts(),
		Office: domain.DefaultOfficeCounts(),
	}
}

// Hours оценка часов по активной группе
func (c *Counters) Hours(category domain.ServiceCategory) float64 {
	if category == domain.CategoryOffice {
		return OfficeHours(c.Office)
	}
	return HomeHours(c.Home)
}

// Reset сбрасывает группу категории к значениям по умолчанию
func (c *Counters) Reset(category domain.ServiceCategory) {
	if category == domain.CategoryOffice {
		c.Office = domain.DefaultOfficeCounts()
		return
	}
	c.Home = domain.DefaultHomeCounts()
}

// Get возвращает значение счетчика
func (c *Counters) Get(field domain.CounterField) (int, error) {
	ref, err := c.ref(field)
	if err != nil {
		return 0, err
	}
	return *ref, nil
}

// Increment увеличивает счетчик на 1
func (c *Counters) Increment(field domain.CounterField) error {
	ref, err := c.ref(field)
	if err != nil {
		return err
	}
	if *ref >= domain.MaxCounterValue {
		return fmt.Errorf("%w: %s max is %d", ErrCounterTooLarge, field, domain.MaxCounterValue)
	}
	*ref++
	return nil
}

// Decrement уменьшает счетчик на 1; при нуле ничего не меняет и возвращает ErrDecrementDisabled
func (c *Counters) Decrement(field domain.CounterField) error {
	ref, err := c.ref(field)
	if err != nil {
		return err
	}
	if *ref <= 0 {
		return ErrDecrementDisabled
	}
	*ref--
	return nil
}

// Set устанавливает значение; отрицательные значения приводятся к 0
func (c *Counters) Set(field domain.CounterField, value int) error {
	ref, err := c.ref(field)
	if err != nil {
		return err
	}
	if value > domain.MaxCounterValue {
		return fmt.Errorf("%w: %s max is %d", ErrCounterTooLarge, field, domain.MaxCounterValue)
	}
	if value < 0 {
		value = 0
	}
	*ref = value
	return nil
}

// CanDecrement false, если кнопка уменьшения должна быть неактивна
func (c *Counters) CanDecrement(field domain.CounterField) bool {
	value, err := c.Get(field)
	return err == nil && value > 0
}

// Category категория, к которой относится поле
func Category(field domain.CounterField) (domain.ServiceCategory, error) {
	switch field {
	case domain.FieldBedrooms, domain.FieldBathrooms, domain.FieldKitchen, domain.FieldLiving:
		return domain.CategoryHome, nil
	case domain.FieldRooms, domain.FieldCafeteria, domain.FieldDesks, domain.FieldWashrooms:
		return domain.CategoryOffice, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

func (c *Counters) ref(field domain.CounterField) (*int, error) {
	switch field {
	case domain.FieldBedrooms:
		return &c.Home.Bedrooms, nil
	case domain.FieldBathrooms:
		return &c.Home.Bathrooms, nil
	case domain.FieldKitchen:
		return &c.Home.Kitchen, nil
	case domain.FieldLiving:
		return &c.Home.Living, nil
	case domain.FieldRooms:
		return &c.Office.Rooms, nil
	case domain.FieldCafeteria:
		return &c.Office.Cafeteria, nil
	case domain.FieldDesks:
		return &c.Office.Desks, nil
	case domain.FieldWashrooms:
		return &c.Office.Washrooms, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}
