package config

type Config interface {
	EnvConfig
	CorsConfig
	DeviceGrantConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetApprovalPageURL() string
	GetTokenSigningSecret() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	DeviceGrant
}

func New() Config {
	return mainConfig{}
}
