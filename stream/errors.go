package stream

import "errors"

// ErrInvalidSource is returned when a record's event source ARN names no table.
var ErrInvalidSource = errors.New("dyndiff: invalid event source ARN")

// ErrUnversionedSource is returned when a modification reaches a versioned
// replica without the version the source item had before the change.
var ErrUnversionedSource = errors.New("dyndiff: source image carries no version for a versioned replica")
