package manager

import "github.com/voicebridge/ami/internal/errs"

// ResponseError is the failure outcome for an action the peer answered
// with "Response: Error". It is distinct from a transport or lifecycle
// error: the action round trip completed, the server just said no. The
// full Response stays attached so callers can inspect the server-reported
// reason. Unwraps to errs.ErrResponse.
type ResponseError struct {
	Response *Response
}

func (e *ResponseError) Error() string {
	if msg := e.Response.Message(); msg != "" {
		return "ami: error response: " + msg
	}
	return "ami: error response"
}

func (e *ResponseError) Unwrap() error { return errs.ErrResponse }
