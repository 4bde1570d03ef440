package sequence

import "github.com/pkg/errors"

var (
	ErrCatalogMustBeSet = errors.New("catalog must be set")
	ErrEmptyName        = errors.New("module name must be set")
	ErrDuplicateModule  = errors.New("module already registered")
	ErrUnknownDetector  = errors.New("unknown detector")
	ErrUnknownLayer     = errors.New("unknown layer")
	ErrLayerTaken       = errors.New("layer already has a module")
	ErrMissingLayer     = errors.New("no module for layer")
)
