package lifecycle

import "errors"

var (
	// ErrNotConnected means there is no tenant or identity to scope the
	// engine to. Presentation shows it as a blocking "not connected" state.
	ErrNotConnected = errors.New("not connected: no tenant for the current session")

	ErrEngineNotStarted     = errors.New("engine is not started")
	ErrEngineAlreadyStarted = errors.New("engine is already started")
)
