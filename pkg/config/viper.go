package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/prefs/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the PREFS_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (PREFS_HUB_LISTEN, PREFS_CLIENT_IDENTITY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: PREFS_HUB_LISTEN, PREFS_STORAGE_SQLITE_PATH, etc.
	v.SetEnvPrefix("PREFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Storage
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)

	// Hub
	v.SetDefault("hub.listen", d.Hub.Listen)
	v.SetDefault("hub.store", d.Hub.Store)
	v.SetDefault("hub.sqlite_path", d.Hub.SQLitePath)
	v.SetDefault("hub.database_url", d.Hub.DatabaseURL)
	v.SetDefault("hub.auth_token", d.Hub.AuthToken)

	// Client
	v.SetDefault("client.hub_target", d.Client.HubTarget)
	v.SetDefault("client.identity", d.Client.Identity)
	v.SetDefault("client.auth_token", d.Client.AuthToken)

	// Sync
	v.SetDefault("sync.interval_seconds", d.Sync.IntervalSeconds)
	v.SetDefault("sync.max_attempts", d.Sync.MaxAttempts)

	// Events
	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}
