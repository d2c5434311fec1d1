// Package clearcmder provides the `prefs clear` CLI command.
package clearcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prefs/pkg/bootstrap"
	"github.com/papercomputeco/prefs/pkg/cliui"
	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/logger"
)

type clearCommander struct {
	identity string
	debug    bool
}

const clearLongDesc string = `Reset a preference to its declared default.

The default is written through the normal set path, so local preferences
are rewritten in the local store and remote preferences are pushed to
the hub.

Examples:
  prefs clear theme`

const clearShortDesc string = "Reset a preference to its default"

func NewClearCmd() *cobra.Command {
	cmder := &clearCommander{}

	cmd := &cobra.Command{
		Use:   "clear <key>",
		Short: clearShortDesc,
		Long:  clearLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), args[0], configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.identity, "identity", "i", "", "Identity the preference set is scoped to")

	return cmd
}

func (c *clearCommander) run(ctx context.Context, key, configDir string) error {
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
		WithHub:   true,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	def, ok := m.Definition(key)
	if !ok {
		return fmt.Errorf("unknown preference key: %q (declare it in config.toml)", key)
	}

	if err := m.Clear(ctx, key); err != nil {
		return err
	}

	fmt.Printf("  %s Reset %s\n", cliui.SuccessMark, cliui.KV(key, def.Default.Render()))
	return nil
}
