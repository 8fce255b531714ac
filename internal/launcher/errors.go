package launcher

import "errors"

var (
	ErrGenerate       = errors.New("launcher generation failed")
	ErrNoPlaceholder  = errors.New("template has no command placeholder")
	ErrCommandTooLong = errors.New("command exceeds placeholder capacity")
)
