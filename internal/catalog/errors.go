package catalog

import "errors"

// Sentinel causes wrapped by the classified errors this package returns.
var (
	ErrMissingProductDir    = errors.New("product directory not found")
	ErrMissingVersionConfig = errors.New("document version not declared in product configuration")
	ErrDuplicateProduct     = errors.New("duplicate product short name")
	ErrDuplicateVersion     = errors.New("duplicate document version")
)
