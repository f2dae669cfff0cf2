package domain

// ClientDetails контактные данные клиента
type ClientDetails struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CountryCode string
	Address     string
	Notes       string
}

// FullName имя и фамилия через пробел
func (c ClientDetails) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// UserProfile данные авторизованного пользователя для предзаполнения формы
type UserProfile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// ClientDetails переносит только разрешенные поля профиля
// Заметки и статус оплаты никогда не наследуются
func (p *UserProfile) ClientDetails() ClientDetails {
	if p == nil {
		return ClientDetails{CountryCode: DefaultCountryCode}
	}
	return ClientDetails{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		CountryCode: DefaultCountryCode,
	}
}
