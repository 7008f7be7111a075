package store

import (
	"errors"
	"fmt"
)

// ErrMissingGuildID is returned when a wheel is loaded or stored without a guild.
var ErrMissingGuildID = errors.New("guild id is required")

// UnknownBackendError is returned when a repository backend name is not recognised.
type UnknownBackendError struct {
	Backend string
}

// Error implements error.
func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown wheel store backend %q (expected sqlite, s3 or memory)", e.Backend)
}
