// Package setcmder provides the `prefs set` CLI command.
package setcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prefs/pkg/bootstrap"
	"github.com/papercomputeco/prefs/pkg/cliui"
	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/logger"
	"github.com/papercomputeco/prefs/pkg/pref"
)

type setCommander struct {
	identity string
	debug    bool
}

const setLongDesc string = `Write a preference value.

The value is parsed according to the declared type of the key. Local
preferences persist to the local store, remote preferences are pushed to
the hub, and volatile preferences only last for the invocation (so setting
one from the CLI is effectively a no-op).

Examples:
  prefs set theme light
  prefs set editor.font_size 14
  prefs set notifications.enabled true`

const setShortDesc string = "Write a preference value"

func NewSetCmd() *cobra.Command {
	cmder := &setCommander{}

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), args[0], args[1], configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.identity, "identity", "i", "", "Identity the preference set is scoped to")

	return cmd
}

func (c *setCommander) run(ctx context.Context, key, raw, configDir string) error {
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

	// Parse the raw string with the key's declared type.
	v := pref.Decode(raw, pref.Encode(def.Default).DataType)

	if err := m.Set(ctx, key, v); err != nil {
		return err
	}

	fmt.Printf("  %s Set %s\n", cliui.SuccessMark, cliui.KV(key, v.Render()))

	if def.Storage == pref.StorageVolatile {
		fmt.Printf("  %s\n", cliui.DimStyle.Render("volatile preference: value lasts only for the session"))
	}

	return nil
}
