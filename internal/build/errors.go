package build

import "errors"

var ErrConfig = errors.New("invalid build configuration")
