package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPrivilegeDenied    = errors.New("privilege denied")
	ErrChannelUnavailable = errors.New("channel unavailable")
	ErrChannelClosed      = errors.New("channel closed")
	ErrNotPermitted       = errors.New("not permitted")
	ErrSessionBusy        = errors.New("session busy")

	ErrSessionNotOpen     = fmt.Errorf("session not open: %w", ErrChannelClosed)
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrUnsupportedVersion = errors.New("unsupported config schema version")
)
