package config

type Config interface {
	EnvConfig
	SessionConfig
	CredentialConfig
	LookupConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAWSRegion() string
}

type mainConfig struct {
	EnvVars
	Session
	Credential
	Lookup
}

func New() Config {
	return mainConfig{}
}
