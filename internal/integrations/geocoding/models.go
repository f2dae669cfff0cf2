package geocoding

// Статусы ответов Google Maps Platform
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusRequestDenied  = "REQUEST_DENIED"
	statusInvalidRequest = "INVALID_REQUEST"
)

// autocompleteResponse ответ Places Autocomplete API
type autocompleteResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Predictions  []prediction `json:"predictions"`
}

type prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// geocodeResponse ответ Geocoding API
type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	PlaceID          string `json:"place_id"`
}
