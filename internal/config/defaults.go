package config

const (
	defaultConfigPath                = "~/.config/contentstore/config.toml"
	defaultDataDir                   = "~/.local/share/contentstore"
	defaultAssetDir                  = "~/.local/share/contentstore/assets"
	defaultLogDir                    = "~/.local/share/contentstore/logs"
	defaultOriginPattern             = ".+"
	defaultConcurrency               = 10
	defaultFetchTimeout              = 60
	defaultUserAgent                 = "contentstore/dev"
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
	defaultWorkflowQueuePollInterval = 5
	defaultWorkflowErrorRetry        = 10
	defaultWorkflowHeartbeatInterval = 15
	defaultWorkflowHeartbeatTimeout  = 120
)

var defaultIgnoreContentTypes = []string{"application/octet-stream", "binary/octet-stream"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			AssetDir: defaultAssetDir,
			LogDir:   defaultLogDir,
		},
		Assets: Assets{
			OriginPattern:      defaultOriginPattern,
			Concurrency:        defaultConcurrency,
			IgnoreContentTypes: append([]string(nil), defaultIgnoreContentTypes...),
			FetchTimeout:       defaultFetchTimeout,
			UserAgent:          defaultUserAgent,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultWorkflowQueuePollInterval,
			ErrorRetryInterval: defaultWorkflowErrorRetry,
			HeartbeatInterval:  defaultWorkflowHeartbeatInterval,
			HeartbeatTimeout:   defaultWorkflowHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
