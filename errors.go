package redpanda

import "errors"

// ErrInitializationConflict reports an attempt to attach to a Redis
// database that already holds keys unrelated to redpanda. Callers can pick
// a different database index; see FreeDB.
var ErrInitializationConflict = errors.New("existing database is not compatible with redpanda")

// ErrInvalidLabel reports a row or column label that contains the cell-key
// divider token and would therefore produce ambiguous keys.
var ErrInvalidLabel = errors.New("label contains the reserved divider token")
