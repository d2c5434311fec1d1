package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --identity
// on "prefs get", "prefs set", "prefs list", and "prefs sync").
type Flag struct {
	// Name is the long flag name (e.g. "identity").
	Name string

	// Shorthand is the one-letter short flag (e.g. "i"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "client.identity").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagHubListen      = "hub-listen"
	FlagHubStore       = "hub-store"
	FlagHubSQLite      = "hub-sqlite"
	FlagHubDatabaseURL = "hub-database-url"
	FlagHubToken       = "hub-token"
	FlagHubTarget      = "hub-target"
	FlagIdentity       = "identity"
	FlagClientToken    = "client-token"
	FlagSQLite         = "sqlite"
	FlagSyncInterval   = "sync-interval"
	FlagMaxAttempts    = "max-attempts"
	FlagEventsProvider = "events-provider"
	FlagEventsBrokers  = "events-brokers"
	FlagEventsTopic    = "events-topic"
)

// Flags is the shared registry used by the prefs commands.
var Flags = FlagSet{
	FlagHubListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "hub.listen",
		Description: "Address for the hub server to listen on",
	},
	FlagHubStore: {
		Name:        "store",
		ViperKey:    "hub.store",
		Description: "Hub store backend (inmemory, sqlite, postgres)",
	},
	FlagHubSQLite: {
		Name:        "hub-sqlite",
		ViperKey:    "hub.sqlite_path",
		Description: "Path to the hub SQLite database",
	},
	FlagHubDatabaseURL: {
		Name:        "database-url",
		ViperKey:    "hub.database_url",
		Description: "PostgreSQL connection string for the hub store",
	},
	FlagHubToken: {
		Name:        "token",
		ViperKey:    "hub.auth_token",
		Description: "Bearer token the hub requires on every request",
	},
	FlagHubTarget: {
		Name:        "hub",
		ViperKey:    "client.hub_target",
		Description: "URL of the prefs hub to sync against",
	},
	FlagIdentity: {
		Name:        "identity",
		Shorthand:   "i",
		ViperKey:    "client.identity",
		Description: "Identity the preference set is scoped to",
	},
	FlagClientToken: {
		Name:        "token",
		ViperKey:    "client.auth_token",
		Description: "Bearer token sent to the hub",
	},
	FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the local SQLite store (default: .prefs/prefs.db)",
	},
	FlagSyncInterval: {
		Name:        "sync-interval",
		ViperKey:    "sync.interval_seconds",
		Description: "Seconds between remote fetch attempts",
	},
	FlagMaxAttempts: {
		Name:        "max-attempts",
		ViperKey:    "sync.max_attempts",
		Description: "Maximum counted fetch attempts (0 = unbounded)",
	},
	FlagEventsProvider: {
		Name:        "events-provider",
		ViperKey:    "events.provider",
		Description: "Eventstream provider (nop, kafka)",
	},
	FlagEventsBrokers: {
		Name:        "events-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma-separated Kafka broker addresses",
	},
	FlagEventsTopic: {
		Name:        "events-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for preference change events",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
