package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager. An empty configFile searches
// the XDG config directory and the working directory for config.toml.
func NewManager(configFile string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// JSBRIDGE_BRIDGE_MODE, JSBRIDGE_ENGINE_RUNTIME_VERSION, ...
	v.SetEnvPrefix("JSBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The logger reads the same variables before config is loaded.
	if err := v.BindEnv("logging.level", "JSBRIDGE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind JSBRIDGE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "JSBRIDGE_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind JSBRIDGE_LOG_FORMAT: %w", err)
	}

	setDefaults(v)

	return &Manager{viper: v}, nil
}

// Load reads the config file if there is one, applies environment
// overrides and validates the result. A missing file is not an error.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.decode()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.viper.ConfigFileUsed(), err)
}

func (m *Manager) decode() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = config
	return nil
}

func normalizeConfig(config *Config) {
	config.Bridge.Mode = strings.ToLower(strings.TrimSpace(config.Bridge.Mode))
	if config.Bridge.Mode == "" {
		config.Bridge.Mode = DefaultMode
	}
	config.Bridge.FailurePolicy = strings.ToLower(strings.TrimSpace(config.Bridge.FailurePolicy))
	if config.Bridge.FailurePolicy == "" {
		config.Bridge.FailurePolicy = DefaultFailurePolicy
	}
	config.Logging.Level = strings.ToLower(config.Logging.Level)
	config.Logging.Format = strings.ToLower(config.Logging.Format)
}

// Get returns the loaded configuration, or the defaults before Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return DefaultConfig()
	}
	return m.config
}

// ConfigFileUsed returns the file read by Load, empty when none was found.
func (m *Manager) ConfigFileUsed() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viper.ConfigFileUsed()
}
