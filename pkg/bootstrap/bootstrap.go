// Package bootstrap assembles a pref.Manager and its collaborators from
// persistent configuration, so CLI commands and embedding applications share
// one wiring path.
package bootstrap

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/papercomputeco/prefs/pkg/config"
	"github.com/papercomputeco/prefs/pkg/dotdir"
	"github.com/papercomputeco/prefs/pkg/eventstream"
	kafkastream "github.com/papercomputeco/prefs/pkg/eventstream/kafka"
	nopstream "github.com/papercomputeco/prefs/pkg/eventstream/nop"
	"github.com/papercomputeco/prefs/pkg/hubclient"
	"github.com/papercomputeco/prefs/pkg/pref"
	"github.com/papercomputeco/prefs/pkg/storage/sqlite"
)

// Options tunes how the manager is assembled.
type Options struct {
	// ConfigDir overrides dot-directory discovery for the local SQLite store.
	ConfigDir string

	// Identity overrides client.identity from config when non-empty.
	Identity string

	// WithHub wires the hub client as remote backend and connectivity
	// checker. One-shot commands that only touch local values leave it off.
	WithHub bool

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Definitions converts the [[preferences]] blocks from config into declared
// preferences. Defaults are decoded with the same codec used for remote
// values, so a malformed default degrades to the type's zero value rather
// than failing.
func Definitions(cfg *config.Config) ([]pref.Definition, error) {
	defs := make([]pref.Definition, 0, len(cfg.Preferences))
	for _, p := range cfg.Preferences {
		st, err := pref.ParseStorageType(p.Storage)
		if err != nil {
			return nil, fmt.Errorf("preference %q: %w", p.Key, err)
		}

		dataType := p.Type
		if dataType == "" {
			dataType = pref.TypeString
		}

		defs = append(defs, pref.Definition{
			Key:     p.Key,
			Storage: st,
			Default: pref.Decode(p.Default, dataType),
		})
	}
	return defs, nil
}

// NewManager builds a manager from config. The returned cleanup closes the
// local store and the event publisher; call it when done with the manager.
func NewManager(cfg *config.Config, opts Options) (*pref.Manager, func(), error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defs, err := Definitions(cfg)
	if err != nil {
		return nil, nil, err
	}

	identity := cfg.Client.Identity
	if opts.Identity != "" {
		identity = opts.Identity
	}

	localPath, err := resolveSQLitePath(cfg, opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving local store path: %w", err)
	}

	local, err := sqlite.NewDriver(localPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening local store: %w", err)
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		local.Close()
		return nil, nil, err
	}

	managerOpts := []pref.Option{
		pref.WithLocalStore(local),
		pref.WithIdentity(identity),
		pref.WithRetryInterval(time.Duration(cfg.Sync.IntervalSeconds) * time.Second),
		pref.WithMaxAttempts(int(cfg.Sync.MaxAttempts)),
		pref.WithOnChange(eventstream.ChangeNotifier(publisher, identity, logger)),
		pref.WithLogger(logger),
	}

	if opts.WithHub && cfg.Client.HubTarget != "" {
		var clientOpts []hubclient.Option
		if cfg.Client.AuthToken != "" {
			clientOpts = append(clientOpts, hubclient.WithToken(cfg.Client.AuthToken))
		}

		client, err := hubclient.New(cfg.Client.HubTarget, identity, clientOpts...)
		if err != nil {
			local.Close()
			publisher.Close()
			return nil, nil, fmt.Errorf("creating hub client: %w", err)
		}

		managerOpts = append(managerOpts,
			pref.WithRemoteBackend(client),
			pref.WithConnectivity(client),
		)
	}

	m, err := pref.New(defs, managerOpts...)
	if err != nil {
		local.Close()
		publisher.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := local.Close(); err != nil {
			logger.Warn("closing local store", "error", err)
		}
		if err := publisher.Close(); err != nil {
			logger.Warn("closing event publisher", "error", err)
		}
	}

	return m, cleanup, nil
}

// resolveSQLitePath returns storage.sqlite_path when set, otherwise prefs.db
// inside the dot directory.
func resolveSQLitePath(cfg *config.Config, configDir string) (string, error) {
	if strings.TrimSpace(cfg.Storage.SQLitePath) != "" {
		return cfg.Storage.SQLitePath, nil
	}

	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "prefs.db"), nil
}

// newPublisher builds the configured eventstream publisher.
func newPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	switch cfg.Events.Provider {
	case "", "nop":
		return nopstream.NewPublisher(), nil
	case "kafka":
		brokers := strings.Split(cfg.Events.Brokers, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		return kafkastream.NewPublisher(brokers, cfg.Events.Topic)
	default:
		return nil, fmt.Errorf("unknown events provider: %q", cfg.Events.Provider)
	}
}
