package postcodelookup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/address"
)

var (
	// ErrInvalidPostcode is returned for an empty or blank postcode.
	ErrInvalidPostcode = errors.New("invalid postcode")

	// ErrLookupFailed is returned when the address API could not be
	// reached or answered with an unexpected status.
	ErrLookupFailed = errors.New("postcode lookup failed")
)

// HTTPDoer is the subset of http.Client the service relies on, narrowed so
// tests can inject a fake transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service resolves a postcode to candidate addresses using the OS Places
// postcode API.
type Service struct {
	client HTTPDoer
	apiURL string
	apiKey string
}

func NewService(client HTTPDoer, apiURL, apiKey string) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{
		client: client,
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

// osResponse mirrors the slice of the OS Places payload the service
// consumes. Each result wraps a single DPA record.
type osResponse struct {
	Results []struct {
		DPA osDeliveryPointAddress `json:"DPA"`
	} `json:"results"`
}

type osDeliveryPointAddress struct {
	UPRN             string `json:"UPRN"`
	OrganisationName string `json:"ORGANISATION_NAME"`
	BuildingName     string `json:"BUILDING_NAME"`
	BuildingNumber   string `json:"BUILDING_NUMBER"`
	ThoroughfareName string `json:"THOROUGHFARE_NAME"`
	PostTown         string `json:"POST_TOWN"`
	Postcode         string `json:"POSTCODE"`
	CountryCode      string `json:"COUNTRY_CODE"`
}

// LookupPostcode returns the addresses registered at a postcode. An unknown
// postcode yields an empty slice, not an error.
func (s *Service) LookupPostcode(ctx context.Context, postcode string) ([]address.CanonicalAddress, error) {
	if strings.TrimSpace(postcode) == "" {
		return nil, ErrInvalidPostcode
	}

	reqURL, err := url.Parse(s.apiURL)
	if err != nil {
		return nil, errors.Wrap(ErrLookupFailed, "[Service.LookupPostcode] invalid api url")
	}
	q := reqURL.Query()
	q.Set("postcode", postcode)
	q.Set("key", s.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.LookupPostcode] NewRequest")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrLookupFailed, "[Service.LookupPostcode] %v", err)
	}
	defer resp.Body.Close()

	// The API answers 404 for postcodes with no registered addresses.
	if resp.StatusCode == http.StatusNotFound {
		return []address.CanonicalAddress{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrLookupFailed, "[Service.LookupPostcode] status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrLookupFailed, "[Service.LookupPostcode] read body: %v", err)
	}

	var osResp osResponse
	if err := json.Unmarshal(body, &osResp); err != nil {
		return nil, errors.Wrapf(ErrLookupFailed, "[Service.LookupPostcode] decode body: %v", err)
	}

	addresses := make([]address.CanonicalAddress, 0, len(osResp.Results))
	for _, result := range osResp.Results {
		addresses = append(addresses, canonicalise(result.DPA))
	}
	return addresses, nil
}

func canonicalise(dpa osDeliveryPointAddress) address.CanonicalAddress {
	return address.CanonicalAddress{
		UPRN:             dpa.UPRN,
		OrganisationName: dpa.OrganisationName,
		BuildingName:     dpa.BuildingName,
		BuildingNumber:   dpa.BuildingNumber,
		StreetName:       dpa.ThoroughfareName,
		PostTown:         dpa.PostTown,
		Postcode:         dpa.Postcode,
		CountryCode:      dpa.CountryCode,
	}
}
