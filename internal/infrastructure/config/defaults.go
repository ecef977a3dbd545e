package config

import (
	"github.com/spf13/viper"

	"github.com/bnema/jsbridge/internal/domain/entity"
)

// Default values shared by DefaultConfig and the viper defaults.
const (
	DefaultExposedName    = "Android"
	DefaultReservedURL    = "http://gbjsfix/"
	DefaultMode           = "auto"
	DefaultInitFunction   = "android_init"
	DefaultFailurePolicy  = "fail"
	DefaultRuntimeVersion = "4.4.2"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			ExposedName:   DefaultExposedName,
			ReservedURL:   DefaultReservedURL,
			Mode:          DefaultMode,
			BrokenMin:     entity.DefaultBrokenMin,
			BrokenMax:     entity.DefaultBrokenMax,
			InitFunction:  DefaultInitFunction,
			FailurePolicy: DefaultFailurePolicy,
		},
		Engine: EngineConfig{
			RuntimeVersion: DefaultRuntimeVersion,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// setDefaults registers every default on v so that environment variables
// can override keys that are absent from the file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("bridge.exposed_name", d.Bridge.ExposedName)
	v.SetDefault("bridge.signature_prefix", d.Bridge.SignaturePrefix)
	v.SetDefault("bridge.reserved_url", d.Bridge.ReservedURL)
	v.SetDefault("bridge.mode", d.Bridge.Mode)
	v.SetDefault("bridge.broken_min", d.Bridge.BrokenMin)
	v.SetDefault("bridge.broken_max", d.Bridge.BrokenMax)
	v.SetDefault("bridge.init_function", d.Bridge.InitFunction)
	v.SetDefault("bridge.failure_policy", d.Bridge.FailurePolicy)

	v.SetDefault("engine.runtime_version", d.Engine.RuntimeVersion)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
}
