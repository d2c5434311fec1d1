// Package configcmder provides the config command for managing persistent
// prefs configuration stored in the .prefs/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent prefs configuration.

Configuration is stored as config.toml in the .prefs/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.sqlite_path,
  hub.listen, hub.store, hub.sqlite_path, hub.database_url, hub.auth_token,
  client.hub_target, client.identity, client.auth_token,
  sync.interval_seconds, sync.max_attempts,
  events.provider, events.brokers, events.topic

The preference declarations themselves live in [[preferences]] blocks and
are edited in the file directly.

Use subcommands to get, set, or list configuration values:
  prefs config set <key> <value>    Set a configuration value
  prefs config get <key>            Get a configuration value
  prefs config list                 List all configuration values

Examples:
  prefs config set client.hub_target http://prefs-hub:8090
  prefs config set sync.interval_seconds 30
  prefs config get client.identity
  prefs config list`

const configShortDesc string = "Manage persistent prefs configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
