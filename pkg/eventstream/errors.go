package eventstream

import "errors"

// ErrNilChangeEvent indicates a nil change event payload was provided to a
// publisher.
var ErrNilChangeEvent = errors.New("nil change event")
