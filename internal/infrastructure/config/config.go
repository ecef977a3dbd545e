// Package config loads the jsbridge configuration from TOML files and
// JSBRIDGE_* environment variables.
package config

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config is the complete jsbridge configuration.
type Config struct {
	Bridge  BridgeConfig  `mapstructure:"bridge" toml:"bridge" json:"bridge" jsonschema:"description=Bridge attachment settings"`
	Engine  EngineConfig  `mapstructure:"engine" toml:"engine" json:"engine" jsonschema:"description=Headless engine settings"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics" json:"metrics"`
}

// BridgeConfig configures how the native surface is exposed to the page.
type BridgeConfig struct {
	// ExposedName is the page global holding the native methods.
	ExposedName string `mapstructure:"exposed_name" toml:"exposed_name" json:"exposed_name" jsonschema:"default=Android"`
	// SignaturePrefix selects the synchronous prompt transport when set.
	SignaturePrefix string `mapstructure:"signature_prefix" toml:"signature_prefix" json:"signature_prefix"`
	// ReservedURL is the navigation prefix claimed by the navigation transport.
	ReservedURL string `mapstructure:"reserved_url" toml:"reserved_url" json:"reserved_url" jsonschema:"default=http://gbjsfix/"`
	// Mode is auto, direct or shimmed.
	Mode string `mapstructure:"mode" toml:"mode" json:"mode" jsonschema:"enum=auto,enum=direct,enum=shimmed,default=auto"`
	// BrokenMin and BrokenMax bound the runtime versions that need the shim.
	BrokenMin string `mapstructure:"broken_min" toml:"broken_min" json:"broken_min" jsonschema:"default=2.3"`
	BrokenMax string `mapstructure:"broken_max" toml:"broken_max" json:"broken_max" jsonschema:"default=2.4"`
	// InitFunction is called in the page once the bridge is ready.
	InitFunction string `mapstructure:"init_function" toml:"init_function" json:"init_function" jsonschema:"default=android_init"`
	// FailurePolicy is fail or ignore.
	FailurePolicy string `mapstructure:"failure_policy" toml:"failure_policy" json:"failure_policy" jsonschema:"enum=fail,enum=ignore,default=fail"`
}

// EngineConfig configures the headless content view.
type EngineConfig struct {
	// RuntimeVersion is the version the view reports to the mode probe.
	RuntimeVersion string `mapstructure:"runtime_version" toml:"runtime_version" json:"runtime_version" jsonschema:"default=4.4.2"`
}

// LoggingConfig holds logging preferences.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=text,enum=json,default=console"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Listen is the address serving /metrics while a page runs; empty disables it.
	Listen string `mapstructure:"listen" toml:"listen" json:"listen"`
}
