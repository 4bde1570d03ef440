package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidOptions   = errors.New("invalid job options")
	ErrRunnerMustBeSet  = errors.New("runner must be set")
	ErrPatchFailed      = errors.New("unable to patch generated file")
	ErrMissingPatchFile = errors.New("generated file to patch does not exist")
)

func invalidOptionsf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidOptions, format, args...)
}
