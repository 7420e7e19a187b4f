package prompt

import "errors"

var ErrPromptRequired = errors.New("prompt is required")
var ErrReaderRequired = errors.New("source reader is required")
var ErrTemplateLoaderRequired = errors.New("prompt loader is required")
