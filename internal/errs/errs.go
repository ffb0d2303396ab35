// Package errs holds the sentinel errors shared across the client.
package errs

import sterrors "errors"

var (
	ErrClosed         = sterrors.New("ami: connection closed")
	ErrEnding         = sterrors.New("ami: connection ending")
	ErrActionIDInUse  = sterrors.New("ami: action id already pending")
	ErrMissingAction  = sterrors.New("ami: action name is required")
	ErrResponse       = sterrors.New("ami: error response")
	ErrUnclassifiable = sterrors.New("ami: unclassifiable frame")
)
