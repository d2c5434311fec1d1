// Package servecmder provides the serve command for running the prefs hub.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/prefs/api"
	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/dotdir"
	"github.com/papercomputeco/prefs/pkg/logger"
	"github.com/papercomputeco/prefs/pkg/storage"
	"github.com/papercomputeco/prefs/pkg/storage/inmemory"
	"github.com/papercomputeco/prefs/pkg/storage/postgres"
	"github.com/papercomputeco/prefs/pkg/storage/sqlite"
)

type serveCommander struct {
	listen      string
	store       string
	sqlitePath  string
	databaseURL string
	authToken   string
	debug       bool
	logger      *slog.Logger
}

// serveFlags are the registry keys bound to viper for this command.
var serveFlags = []string{
	config.FlagHubListen,
	config.FlagHubStore,
	config.FlagHubSQLite,
	config.FlagHubDatabaseURL,
	config.FlagHubToken,
}

const serveLongDesc string = `Run the prefs hub server.

The hub stores remote preferences per identity and serves them to syncing
clients over HTTP. Settings resolve with the usual precedence: CLI flags,
then PREFS_* environment variables, then config.toml, then defaults.

Store backends:
  inmemory    Volatile, for development (default)
  sqlite      Single-file persistence (hub.sqlite_path)
  postgres    Shared persistence (hub.database_url)

Examples:
  prefs serve
  prefs serve --listen :9000 --store sqlite --hub-sqlite hub.db
  prefs serve --store postgres --database-url postgres://localhost/prefs`

const serveShortDesc string = "Run the prefs hub server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)

			return cmder.run(cmd.Context(), v, configDir)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagHubListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagHubStore, &cmder.store)
	config.AddStringFlag(cmd, config.Flags, config.FlagHubSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagHubDatabaseURL, &cmder.databaseURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagHubToken, &cmder.authToken)

	return cmd
}

func (c *serveCommander) run(ctx context.Context, v *viper.Viper, configDir string) error {
	var closeLog func()
	c.logger, closeLog = newHubLogger(configDir, c.debug, os.Stdout)
	defer closeLog()

	store, err := c.newStore(ctx, v)
	if err != nil {
		return err
	}
	defer store.Close()

	serverConfig := api.Config{
		ListenAddr: v.GetString("hub.listen"),
		AuthToken:  v.GetString("hub.auth_token"),
	}

	server := api.NewServer(serverConfig, store, c.logger)

	// Rotate the auth token when config.toml changes on disk.
	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go c.watchConfig(watchCtx, configDir, server)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("hub server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

func (c *serveCommander) newStore(ctx context.Context, v *viper.Viper) (storage.Driver, error) {
	switch backend := v.GetString("hub.store"); backend {
	case "", "inmemory":
		c.logger.Info("using in-memory store")
		return inmemory.NewDriver(), nil

	case "sqlite":
		path := v.GetString("hub.sqlite_path")
		if path == "" {
			path = "hub.db"
		}
		driver, err := sqlite.NewDriver(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		c.logger.Info("using SQLite store", "path", path)
		return driver, nil

	case "postgres":
		connStr := v.GetString("hub.database_url")
		if connStr == "" {
			return nil, fmt.Errorf("hub.database_url is required for the postgres store")
		}
		driver, err := postgres.NewDriver(ctx, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres store: %w", err)
		}
		c.logger.Info("using Postgres store")
		return driver, nil

	default:
		return nil, fmt.Errorf("unknown hub store: %q (inmemory, sqlite, postgres)", backend)
	}
}

// newHubLogger writes pretty records to out and JSON records to hub.log in
// the dot directory. The returned func closes the log file. When the log
// file cannot be opened the hub still runs with pretty output only.
func newHubLogger(configDir string, debug bool, out io.Writer) (*slog.Logger, func()) {
	pretty := logger.New(logger.WithDebug(debug), logger.WithPretty(true), logger.WithWriter(out))

	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		pretty.Warn("file logging disabled", "error", err)
		return pretty, func() {}
	}

	path := filepath.Join(dir, "hub.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		pretty.Warn("file logging disabled", "path", path, "error", err)
		return pretty, func() {}
	}

	file := logger.New(logger.WithDebug(debug), logger.WithJSON(true), logger.WithWriter(f))
	return logger.Multi(pretty, file), func() { f.Close() }
}

// watchConfig applies auth token changes from config.toml to the running
// server. Listen address and store backend changes still need a restart.
func (c *serveCommander) watchConfig(ctx context.Context, configDir string, server *api.Server) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		c.logger.Warn("config watcher disabled", "error", err)
		return
	}

	err = config.Watch(ctx, cfger, c.logger, func(cfg *config.Config) {
		server.SetAuthToken(cfg.Hub.AuthToken)
	})
	if err != nil && ctx.Err() == nil {
		c.logger.Warn("config watcher stopped", "error", err)
	}
}
