package ledger

import "errors"

var ErrCodecRequired = errors.New("index codec is required")
var ErrStoreClosed = errors.New("index store is closed")
