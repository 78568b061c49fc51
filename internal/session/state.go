// Package session implements the per-visitor view state machine:
// IDLE -> LOADING -> SUCCESS | ERROR, and back to IDLE on reset.
package session

import (
	"errors"
	"time"

	"wisdomcard/internal/models/response_models"
)

type State string

const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StateSuccess State = "SUCCESS"
	StateError   State = "ERROR"
)

var (
	ErrResetRequired     = errors.New("reset required before asking again")
	ErrInvalidTransition = errors.New("invalid view transition")
)

// Snapshot is a consistent copy of a controller's state. Result is non-nil
// only when State is StateSuccess.
type Snapshot struct {
	State        State
	Input        string
	Question     string
	Result       *response_models.Wisdom
	Cycle        uint64
	LoadingSince time.Time
}
