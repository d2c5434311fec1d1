package storage

import "github.com/papercomputeco/prefs/pkg/pref"

// NotFoundError is returned when a preference has never been stored for the
// requested identity. It is an alias of [pref.NotFoundError], defined there
// so the pref package can match it without importing this package.
type NotFoundError = pref.NotFoundError
