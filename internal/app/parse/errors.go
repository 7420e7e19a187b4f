package parse

import "errors"

var ErrTargetRequired = errors.New("target directory is required")
var ErrSourcesRequired = errors.New("at least one source path is required")
var ErrInvalidPattern = errors.New("invalid file pattern")
var ErrStoreRequired = errors.New("index store is required")

// errStop ends a walk after the consumer stopped ranging.
var errStop = errors.New("stop")
