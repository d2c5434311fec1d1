// Package synccmder provides the `prefs sync` CLI command.
package synccmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prefs/pkg/bootstrap"
	"github.com/papercomputeco/prefs/pkg/cliui"
	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/logger"
)

type syncCommander struct {
	identity string
	debug    bool
}

const syncLongDesc string = `Fetch remote preferences from the hub.

Performs an immediate one-shot fetch and merges every returned key into
the local view, regardless of its declared storage type. Requires
client.hub_target to be configured.

Examples:
  prefs sync
  prefs sync -i alice`

const syncShortDesc string = "Fetch remote preferences from the hub"

func NewSyncCmd() *cobra.Command {
	cmder := &syncCommander{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: syncShortDesc,
		Long:  syncLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.identity, "identity", "i", "", "Identity the preference set is scoped to")

	return cmd
}

func (c *syncCommander) run(ctx context.Context, configDir string) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Client.HubTarget == "" {
		return fmt.Errorf("no hub configured: set client.hub_target with `prefs config set client.hub_target <url>`")
	}

	m, cleanup, err := bootstrap.NewManager(cfg, bootstrap.Options{
		ConfigDir: configDir,
		Identity:  c.identity,
		WithHub:   true,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	m.LoadLocal(ctx)

	var synced bool
	if err := cliui.Step(os.Stdout, fmt.Sprintf("Syncing %s from %s", m.Identity(), cfg.Client.HubTarget), func() error {
		if synced = m.Reload(ctx); !synced {
			return fmt.Errorf("hub fetch failed")
		}
		return nil
	}); err != nil {
		return err
	}

	fmt.Printf("\n  %s Synced %d preference(s)\n\n", cliui.SuccessMark, m.Cache().Len())
	return nil
}
