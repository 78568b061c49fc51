package utils

import "errors"

var (
	ErrInvalidSuggestion = errors.New("suggestion index out of range")
	ErrInvalidWaitFlag   = errors.New("invalid wait parameter")
)
