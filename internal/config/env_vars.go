package config

import (
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	awsRegionVar  = "AWS_REGION"
	defaultRegion = "eu-west-2"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Address CRI")
}

func (e EnvVars) GetEnv() string {
	return GetEnv(envVar, "development")
}

func (e EnvVars) GetAWSRegion() string {
	return GetEnv(awsRegionVar, defaultRegion)
}

// GetEnv returns the value of an environment variable or a default when it
// is unset or blank.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
