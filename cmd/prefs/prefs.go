// Package prefscmder
package prefscmder

import (
	"github.com/spf13/cobra"

	clearcmder "github.com/papercomputeco/prefs/cmd/prefs/clear"
	configcmder "github.com/papercomputeco/prefs/cmd/prefs/config"
	getcmder "github.com/papercomputeco/prefs/cmd/prefs/get"
	listcmder "github.com/papercomputeco/prefs/cmd/prefs/list"
	servecmder "github.com/papercomputeco/prefs/cmd/prefs/serve"
	setcmder "github.com/papercomputeco/prefs/cmd/prefs/set"
	synccmder "github.com/papercomputeco/prefs/cmd/prefs/sync"
	versioncmder "github.com/papercomputeco/prefs/cmd/version"
)

const prefsLongDesc string = `Prefs is a tri-modal preference store: local values persist on this
machine, remote values sync against a prefs hub, and volatile values
live only for the session.

Read and write preferences:
  prefs get <key>      Read a preference
  prefs set <key> <v>  Write a preference
  prefs list           List all declared preferences
  prefs sync           Fetch remote preferences from the hub

Run the hub:
  prefs serve          Run the prefs hub server`

const prefsShortDesc string = "Prefs - tri-modal preference store"

func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: prefsShortDesc,
		Long:  prefsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .prefs config directory")

	// Add subcommands
	cmd.AddCommand(getcmder.NewGetCmd())
	cmd.AddCommand(setcmder.NewSetCmd())
	cmd.AddCommand(clearcmder.NewClearCmd())
	cmd.AddCommand(listcmder.NewListCmd())
	cmd.AddCommand(synccmder.NewSyncCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
