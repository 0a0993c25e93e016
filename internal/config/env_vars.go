package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	baseURLVar       = "BASE_URL"
	approvalPageVar  = "APPROVAL_PAGE_URL"
	signingSecretVar = "TOKEN_SIGNING_SECRET"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Orbital")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the externally visible base URL of this server
// (e.g. "https://auth.example.com"). Used for issuer URLs and the
// verification URI handed to device-grant clients.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetApprovalPageURL returns the web frontend page the /device redirect
// sends the user to. The user code is appended as a query parameter.
func (EnvVars) GetApprovalPageURL() string {
	return GetEnv(approvalPageVar, "http://localhost:3000/device")
}

func (EnvVars) GetTokenSigningSecret() string {
	return GetEnv(signingSecretVar, "dev-only-signing-secret")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
