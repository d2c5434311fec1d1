package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent prefs configuration stored as config.toml
// in the .prefs/ directory. The TOML layout uses sections for logical
// grouping, plus repeated [[preferences]] blocks declaring the preference
// set the CLI operates on.
type Config struct {
	Version     int                `toml:"version"`
	Storage     StorageConfig      `toml:"storage"`
	Hub         HubConfig          `toml:"hub"`
	Client      ClientConfig       `toml:"client"`
	Sync        SyncConfig         `toml:"sync"`
	Events      EventsConfig       `toml:"events"`
	Preferences []PreferenceConfig `toml:"preferences"`
}

// StorageConfig holds client-side local store settings.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// HubConfig holds hub server settings.
type HubConfig struct {
	Listen      string `toml:"listen,omitempty"`
	Store       string `toml:"store,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	DatabaseURL string `toml:"database_url,omitempty"`
	AuthToken   string `toml:"auth_token,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// hub (e.g. prefs get --sync, prefs sync). HubTarget is a full URL
// (scheme + host + port).
type ClientConfig struct {
	HubTarget string `toml:"hub_target,omitempty"`
	Identity  string `toml:"identity,omitempty"`
	AuthToken string `toml:"auth_token,omitempty"`
}

// SyncConfig holds remote load session settings.
type SyncConfig struct {
	IntervalSeconds uint `toml:"interval_seconds,omitempty"`
	MaxAttempts     uint `toml:"max_attempts,omitempty"`
}

// EventsConfig holds eventstream settings. Brokers is a comma-separated
// list of Kafka broker addresses.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// PreferenceConfig declares one preference for CLI use: key, storage type
// (local, remote, volatile), value type (string, bool, int, double), and
// the default's string form.
type PreferenceConfig struct {
	Key     string `toml:"key"`
	Storage string `toml:"storage"`
	Type    string `toml:"type,omitempty"`
	Default string `toml:"default,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported scalar config keys.
// Keys use dotted notation matching the TOML section structure. The
// [[preferences]] blocks are list-valued and are edited in the file
// directly rather than through this registry.
var configKeys = map[string]configKeyInfo{
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"hub.listen": {
		get: func(c *Config) string { return c.Hub.Listen },
		set: func(c *Config, v string) error { c.Hub.Listen = v; return nil },
	},
	"hub.store": {
		get: func(c *Config) string { return c.Hub.Store },
		set: func(c *Config, v string) error { c.Hub.Store = v; return nil },
	},
	"hub.sqlite_path": {
		get: func(c *Config) string { return c.Hub.SQLitePath },
		set: func(c *Config, v string) error { c.Hub.SQLitePath = v; return nil },
	},
	"hub.database_url": {
		get: func(c *Config) string { return c.Hub.DatabaseURL },
		set: func(c *Config, v string) error { c.Hub.DatabaseURL = v; return nil },
	},
	"hub.auth_token": {
		get: func(c *Config) string { return c.Hub.AuthToken },
		set: func(c *Config, v string) error { c.Hub.AuthToken = v; return nil },
	},
	"client.hub_target": {
		get: func(c *Config) string { return c.Client.HubTarget },
		set: func(c *Config, v string) error { c.Client.HubTarget = v; return nil },
	},
	"client.identity": {
		get: func(c *Config) string { return c.Client.Identity },
		set: func(c *Config, v string) error { c.Client.Identity = v; return nil },
	},
	"client.auth_token": {
		get: func(c *Config) string { return c.Client.AuthToken },
		set: func(c *Config, v string) error { c.Client.AuthToken = v; return nil },
	},
	"sync.interval_seconds": {
		get: func(c *Config) string {
			if c.Sync.IntervalSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Sync.IntervalSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for sync.interval_seconds: %w", err)
			}
			c.Sync.IntervalSeconds = uint(n)
			return nil
		},
	},
	"sync.max_attempts": {
		get: func(c *Config) string {
			return strconv.FormatUint(uint64(c.Sync.MaxAttempts), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for sync.max_attempts: %w", err)
			}
			c.Sync.MaxAttempts = uint(n)
			return nil
		},
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}
