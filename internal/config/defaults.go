package config

const (
	defaultLibraryDir          = "~/games"
	defaultDataDir             = "~/.local/share/ludex/data"
	defaultLogDir              = "~/.local/share/ludex/logs"
	defaultAPIBind             = "127.0.0.1:7512"
	defaultScanIntervalSeconds = 300
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Scanner: Scanner{
			IntervalSeconds: defaultScanIntervalSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
