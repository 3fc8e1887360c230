package config

type LookupConfig interface {
	GetOSAPIURL() string
	GetOSAPIKey() string
}

type Lookup struct{}

var _ LookupConfig = Lookup{}

func (Lookup) GetOSAPIURL() string {
	return GetEnv("OS_API_URL", "https://api.os.uk/search/places/v1/postcode")
}

func (Lookup) GetOSAPIKey() string {
	return GetEnv("OS_API_KEY", "")
}
