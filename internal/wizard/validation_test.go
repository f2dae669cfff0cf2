package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

func validDetails() domain.ClientDetails {
	return domain.ClientDetails{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "(416) 555-0199",
		CountryCode: domain.DefaultCountryCode,
	}
}

func TestValidateClientDetails_DialCodes(t *testing.T) {
	for code := range domain.CountryCodes {
		details := validDetails()
		details.CountryCode = code
		details.Phone = ""

		err := validateClientDetails(details)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "code %s", code)
		assert.NotContains(t, verr.Fields, "countryCode", "code %s", code)
		assert.Contains(t, verr.Fields, "phone", "code %s", code)
	}
}

func TestValidateClientDetails(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(d *domain.ClientDetails)
		wantFields []string
	}{
		{
			name:   "valid with default dial code",
			modify: func(d *domain.ClientDetails) {},
		},
		{
			name:   "phone with dial code prefix",
			modify: func(d *domain.ClientDetails) { d.Phone = "+1 416 555 0199" },
		},
		{
			name: "valid uk number",
			modify: func(d *domain.ClientDetails) {
				d.CountryCode = "+44"
				d.Phone = "20 7946 0018"
			},
		},
		{
			name:       "unsupported dial code",
			modify:     func(d *domain.ClientDetails) { d.CountryCode = "+999" },
			wantFields: []string{"countryCode", "phone"},
		},
		{
			name:       "iso country code is not a dial code",
			modify:     func(d *domain.ClientDetails) { d.CountryCode = "CA" },
			wantFields: []string{"countryCode", "phone"},
		},
		{
			name:       "missing names",
			modify:     func(d *domain.ClientDetails) { d.FirstName, d.LastName = " ", "" },
			wantFields: []string{"firstName", "lastName"},
		},
		{
			name:       "bad email and short phone",
			modify:     func(d *domain.ClientDetails) { d.Email, d.Phone = "jane@", "555" },
			wantFields: []string{"email", "phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := validDetails()
			tt.modify(&details)

			err := validateClientDetails(details)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
			if _, ok := verr.Fields["countryCode"]; ok {
				assert.Equal(t, "unsupported country code", verr.Fields["countryCode"])
			}
		})
	}
}
