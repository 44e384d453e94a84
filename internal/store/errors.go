// Sentinel errors shared by every store implementation.  Higher layers use
// these to tell "the key was never written" (a normal first-run condition)
// apart from "the backing store is unreachable" (surfaced to callers as a
// store-unavailable outcome distinct from any domain error).
package store

import "errors"

// ErrNotFound is returned by Load when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// ErrUnavailable wraps persistence I/O failures.  Implementations return it
// via fmt.Errorf("%w: ...", ErrUnavailable) so callers can match with
// errors.Is regardless of the backing driver.
var ErrUnavailable = errors.New("store: unavailable")
