package iplocation

// GeoLocation ответ ipapi.co
type GeoLocation struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Country     string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Error       bool    `json:"error,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}
