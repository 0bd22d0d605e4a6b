package core

import (
	"fmt"
)

// ConfigError is the only fatal error class: an unusable root or a
// malformed rule table. It always aborts before any filesystem
// mutation. Per-file problems are recorded in the relevant report or
// result structure instead of being returned.
type ConfigError struct {
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// LockedError reports that an apply run is already active against the
// same root. Concurrent applies are rejected, not serialized.
type LockedError struct {
	Root string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("another apply run is active against %s", e.Root)
}
