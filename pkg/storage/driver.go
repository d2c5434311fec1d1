// Package storage defines the persistence driver interface for preference
// values. The same interface backs two roles: the client-side local store
// (the durable home of local-typed preferences) and the hub server's store
// of remote preference sets, which is why every operation is scoped to an
// identity.
package storage

import (
	"github.com/papercomputeco/prefs/pkg/pref"
)

// Driver persists encoded preference values per identity. Implementations
// must be safe for concurrent use. It is an alias of [pref.Driver], defined
// there so the pref package can depend on the interface without importing
// this package.
type Driver = pref.Driver
