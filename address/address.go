package address

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, serialised as yyyy-mm-dd.
// Address validity ranges are whole days.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// CanonicalAddress is a single address record in the form emitted by the
// OS Places API and embedded verbatim in issued credentials. Empty fields
// are omitted from the credential payload.
type CanonicalAddress struct {
	UPRN             string `json:"uprn,omitempty"`
	OrganisationName string `json:"organisationName,omitempty"`
	BuildingName     string `json:"buildingName,omitempty"`
	BuildingNumber   string `json:"buildingNumber,omitempty"`
	StreetName       string `json:"streetName,omitempty"`
	PostTown         string `json:"postTown,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	CountryCode      string `json:"countryCode,omitempty"`

	// ValidFrom is the date the subject moved in. Set by the caller, not
	// by the lookup.
	ValidFrom Date `json:"validFrom,omitzero"`

	// ValidUntil is the date the subject moved out. Unset on the current
	// address; derived on previous addresses by LinkDates.
	ValidUntil Date `json:"validUntil,omitzero"`
}
