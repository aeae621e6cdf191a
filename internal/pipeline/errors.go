package pipeline

import "errors"

var (
	// ErrParse marks a collaborator response that could not be interpreted in
	// the expected structured form. Hard stage failure.
	ErrParse = errors.New("malformed structured response")

	// ErrNoResult means the graph completed without the terminal stage
	// producing a final payload.
	ErrNoResult = errors.New("pipeline produced no result")
)
