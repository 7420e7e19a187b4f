package run

import "errors"

var ErrBuilderRequired = errors.New("payload builder is required")
var ErrTransformerRequired = errors.New("transformer is required")
var ErrArtifactsRequired = errors.New("artifact store is required")
var ErrIncomplete = errors.New("some results were not saved")
