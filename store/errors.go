package store

import "errors"

var (
	// ErrAlreadyExists is returned when a first write finds the item already stored.
	ErrAlreadyExists = errors.New("dyndiff: item already exists")

	// ErrConcurrentModification is returned when the version lock fails.
	ErrConcurrentModification = errors.New("dyndiff: item was modified concurrently")

	// ErrNoChanges is returned when an unversioned update would write nothing.
	ErrNoChanges = errors.New("dyndiff: no changes")

	// ErrMissingKey is returned when a key attribute is absent from the item.
	ErrMissingKey = errors.New("dyndiff: missing key attribute")

	// ErrInvalidKey is returned when a key attribute is not a string, number or binary.
	ErrInvalidKey = errors.New("dyndiff: invalid key attribute")

	// ErrKeyChanged is returned when the original and modified items have different keys.
	ErrKeyChanged = errors.New("dyndiff: key attribute changed")

	// ErrNotVersioned is returned when a version lock is requested for an unversioned table.
	ErrNotVersioned = errors.New("dyndiff: table is not versioned")

	// ErrPlaceholderConflict is returned when an extra condition reuses a token
	// for a different name or value.
	ErrPlaceholderConflict = errors.New("dyndiff: placeholder conflict")

	// ErrTooManyItems is returned when a transaction exceeds MaxTransactionItems.
	ErrTooManyItems = errors.New("dyndiff: too many transaction items")
)
