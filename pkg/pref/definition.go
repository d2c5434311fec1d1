package pref

import "fmt"

// StorageType classifies where a preference's durable value lives.
type StorageType int

const (
	// StorageLocal preferences persist to the local store.
	StorageLocal StorageType = iota

	// StorageRemote preferences sync through the remote backend.
	StorageRemote

	// StorageVolatile preferences live only in the cache for the session.
	StorageVolatile
)

// String returns the config-facing name of the storage type.
func (s StorageType) String() string {
	switch s {
	case StorageLocal:
		return "local"
	case StorageRemote:
		return "remote"
	case StorageVolatile:
		return "volatile"
	default:
		return fmt.Sprintf("storage(%d)", int(s))
	}
}

// ParseStorageType maps a config string to a StorageType.
func ParseStorageType(s string) (StorageType, error) {
	switch s {
	case "local":
		return StorageLocal, nil
	case "remote":
		return StorageRemote, nil
	case "volatile":
		return StorageVolatile, nil
	default:
		return 0, fmt.Errorf("unknown storage type: %q", s)
	}
}

// Definition declares a single preference: its key, where its value lives,
// and the default returned before anything has been stored. Definitions are
// registered once at Manager construction and are immutable for the process
// lifetime.
type Definition struct {
	Key     string
	Storage StorageType
	Default Value
}
