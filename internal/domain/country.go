package domain

// DefaultCountryCode код страны по умолчанию
const DefaultCountryCode = "+1"

// PhoneRule правило проверки номера телефона для кода страны
type PhoneRule struct {
	Country string
	// Допустимые длины национального номера (без кода страны)
	Lengths []int
	// Допустимые первые цифры национального номера; пусто = любые
	LeadingDigits string
}

// CountryCodes поддерживаемые коды стран
var CountryCodes = map[string]PhoneRule{
	"+1":  {Country: "Canada / United States", Lengths: []int{10}, LeadingDigits: "23456789"},
	"+44": {Country: "United Kingdom", Lengths: []int{10}, LeadingDigits: "1237"},
	"+33": {Country: "France", Lengths: []int{9}, LeadingDigits: "123456789"},
	"+49": {Country: "Germany", Lengths: []int{10, 11}},
	"+61": {Country: "Australia", Lengths: []int{9}, LeadingDigits: "23478"},
	"+91": {Country: "India", Lengths: []int{10}, LeadingDigits: "6789"},
	"+52": {Country: "Mexico", Lengths: []int{10}},
	"+86": {Country: "China", Lengths: []int{11}, LeadingDigits: "1"},
}
