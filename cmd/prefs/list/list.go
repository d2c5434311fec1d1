// Package listcmder provides the `prefs list` CLI command.
package listcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prefs/pkg/bootstrap"
	"github.com/papercomputeco/prefs/pkg/cliui"
	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/logger"
	"github.com/papercomputeco/prefs/pkg/utils"
)

type listCommander struct {
	identity string
	sync     bool
	debug    bool
}

const listLongDesc string = `List all declared preferences and their current values.

Keys that have never been written show their declared default. Pass
--sync to fetch the latest remote state from the hub first.

Examples:
  prefs list
  prefs list --sync`

const listShortDesc string = "List all declared preferences"

func NewListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.identity, "identity", "i", "", "Identity the preference set is scoped to")
	cmd.Flags().BoolVar(&cmder.sync, "sync", false, "Fetch remote preferences from the hub first")

	return cmd
}

func (c *listCommander) run(ctx context.Context, configDir string) error {
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

	defs := m.Definitions()
	if len(defs) == 0 {
		fmt.Printf("  %s\n", cliui.DimStyle.Render("No preferences declared. Add [[preferences]] blocks to config.toml."))
		return nil
	}

	m.LoadLocal(ctx)

	if c.sync {
		if ok := m.Reload(ctx); !ok {
			fmt.Printf("  %s %s\n", cliui.FailMark, cliui.DimStyle.Render("hub fetch failed, showing last known values"))
		}
	}

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Identity:"),
		cliui.DimStyle.Render(m.Identity()),
	)

	for _, def := range defs {
		v, err := m.Get(def.Key)
		if err != nil {
			return err
		}

		preview := utils.Truncate(v.Render(), 72)
		fmt.Printf("  %s %s\n",
			cliui.KV(def.Key, preview),
			cliui.DimStyle.Render(fmt.Sprintf("(%s)", def.Storage)),
		)
	}
	fmt.Println()

	return nil
}
