package fetch

import "errors"

var (
	ErrDownload = errors.New("download failed")
	ErrExtract  = errors.New("extraction failed")
)
