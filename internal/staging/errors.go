package staging

import "errors"

var (
	ErrStaging    = errors.New("staging failed")
	ErrEntryPoint = errors.New("entry point not found")
)
