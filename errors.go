package parallel

import "errors"

const Namespace = "parallel"

var (
	ErrInvalidConfig     = errors.New(Namespace + ": invalid configuration")
	ErrAdmissionDeferred = errors.New(
		Namespace + ": cannot admit an item while admission is deferred at the concurrency cap",
	)
	ErrInputExhausted    = errors.New(Namespace + ": input already exhausted")
	ErrStageFailed       = errors.New(Namespace + ": stage already failed")
	ErrTransformPanicked = errors.New(Namespace + ": transform panicked")
	ErrFlushPanicked     = errors.New(Namespace + ": flush panicked")
)
