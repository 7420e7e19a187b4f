package docforgesdk

import "errors"

var (
	ErrConfigDirRequired = errors.New("docforge-sdk: config dir required")
	ErrJournalNotOpen    = errors.New("docforge-sdk: run journal is not open")
	ErrClientClosed      = errors.New("docforge-sdk: client is closed")
	ErrIncomplete        = errors.New("docforge-sdk: some results were not saved")
)
