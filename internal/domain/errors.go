package domain

import "errors"

var ErrInvalidGrouping = errors.New("document has no usable source files")
var ErrNotConfigured = errors.New("index has no backing file")
var ErrPersistenceCorrupt = errors.New("index file is corrupt")
var ErrTransformationFailed = errors.New("transformation failed")
var ErrInvalidStrategy = errors.New("invalid parse strategy")
