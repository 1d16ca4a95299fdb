package usecase

import (
	"errors"

	"github.com/riskibarqy/rift-ledger/internal/domain/timeline"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
	ErrUnknownParticipant    = timeline.ErrUnknownParticipant
)
