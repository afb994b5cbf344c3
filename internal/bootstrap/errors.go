package bootstrap

import "errors"

// ErrFatal marks a step failure that must fail the whole pipeline. Pipelines
// never write their marker when a fatal failure was recorded.
var ErrFatal = errors.New("fatal step failure")

// ErrUnknownStep is returned when a step is requested by a name no pipeline
// defines.
var ErrUnknownStep = errors.New("unknown step")
