// Package getcmder provides the `prefs get` CLI command.
package getcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prefs/pkg/bootstrap"
	"github.com/papercomputeco/prefs/pkg/cliui"
	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/logger"
)

type getCommander struct {
	identity string
	sync     bool
	debug    bool
}

const getLongDesc string = `Read a preference value.

The value comes from the local store for local preferences, or from the
last synced remote state for remote preferences. Undeclared keys are an
error; declared keys that have never been written print their default.

Pass --sync to fetch the latest remote state from the hub first.

Examples:
  prefs get theme
  prefs get theme --sync
  prefs get editor.font_size -i alice`

const getShortDesc string = "Read a preference value"

func NewGetCmd() *cobra.Command {
	cmder := &getCommander{}

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), args[0], configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.identity, "identity", "i", "", "Identity the preference set is scoped to")
	cmd.Flags().BoolVar(&cmder.sync, "sync", false, "Fetch remote preferences from the hub first")

	return cmd
}

func (c *getCommander) run(ctx context.Context, key, configDir string) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	m, cleanup, err := bootstrap.NewManager(cfg, bootstrap.Options{
		ConfigDir: configDir,
		Identity:  c.identity,
		WithHub:   c.sync,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if _, ok := m.Definition(key); !ok {
		return fmt.Errorf("unknown preference key: %q (declare it in config.toml)", key)
	}

	m.LoadLocal(ctx)

	if c.sync {
		if ok := m.Reload(ctx); !ok {
			fmt.Printf("  %s %s\n", cliui.FailMark, cliui.DimStyle.Render("hub fetch failed, showing last known values"))
		}
	}

	v, err := m.Get(key)
	if err != nil {
		return err
	}

	fmt.Printf("  %s\n", cliui.KV(key, v.Render()))
	return nil
}
