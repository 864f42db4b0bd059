package config

const (
	defaultDataDir        = "~/.local/share/subcue"
	defaultLogDir         = "~/.local/share/subcue/logs"
	defaultAPIBind        = "127.0.0.1:7490"
	defaultIndexPolicy    = "strict"
	defaultFetchTimeout   = 30
	defaultFetchUserAgent = "subcue/dev"
	defaultFetchMaxBytes  = 4 << 20
	defaultQuizMinWords   = 3
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Parser: Parser{
			IndexPolicy: defaultIndexPolicy,
			StripAds:    true,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeout,
			UserAgent:      defaultFetchUserAgent,
			MaxBytes:       defaultFetchMaxBytes,
		},
		Quiz: Quiz{
			MinWords: defaultQuizMinWords,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
