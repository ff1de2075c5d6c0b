package errs

import (
	"errors"
	"fmt"
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// NewConfigMissingError reports a required setting with no value. These are
// startup failures and never reach a client.
func NewConfigMissingError(key string) error {
	return fmt.Errorf("%w: %s must be set", ErrConfigMissing, key)
}

func NewConfigInvalidError(key, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfigInvalid, key, reason)
}

func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

func IsConfigInvalid(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}
