package config

const (
	defaultEndpoint  = "https://api.opensubtitles.org/xml-rpc"
	defaultUserAgent = "subfetch v1.0"
	defaultLanguages = "eng"
	defaultLimit     = 10
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Endpoint:  defaultEndpoint,
			UserAgent: defaultUserAgent,
		},
		Search: Search{
			Languages: defaultLanguages,
			Limit:     defaultLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
