package config

const (
	defaultHubListen = ":8090"
	defaultHubStore  = "inmemory"

	defaultClientHubTarget = "http://localhost:8090"
	defaultClientIdentity  = "default"

	defaultSyncIntervalSeconds = 10
	defaultSyncMaxAttempts     = 0 // unbounded

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "prefs.changes"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Hub: HubConfig{
			Listen: defaultHubListen,
			Store:  defaultHubStore,
		},
		Client: ClientConfig{
			HubTarget: defaultClientHubTarget,
			Identity:  defaultClientIdentity,
		},
		Sync: SyncConfig{
			IntervalSeconds: defaultSyncIntervalSeconds,
			MaxAttempts:     defaultSyncMaxAttempts,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
