package entrylog

import "errors"

// ErrNotPersisted reports that the in-memory log changed but the store write failed.
var ErrNotPersisted = errors.New("entry log not persisted")

// ErrPassphraseMismatch is returned when delete-all is attempted with the wrong passphrase.
var ErrPassphraseMismatch = errors.New("incorrect passphrase")

// ErrCancelled is returned when the user declines a destructive operation.
var ErrCancelled = errors.New("cancelled")
