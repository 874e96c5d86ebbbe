package plan

import "errors"

var (
	ErrInvalidCatalog      = errors.New("invalid plan catalog configuration")
	ErrFailedToLoadCatalog = errors.New("failed to load plan catalog")
)
