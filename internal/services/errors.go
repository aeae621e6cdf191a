package services

import "errors"

var (
	// ErrContractViolation marks a malformed caller input, such as an empty
	// prompt. Never retried.
	ErrContractViolation = errors.New("contract violation")

	// ErrEmptyCompletion marks an LLM reply with no choices to read.
	ErrEmptyCompletion = errors.New("no response from LLM")
)
