package manager

import "github.com/voicebridge/ami/internal/errs"

// Classify determines the concrete message kind of a decoded frame. The
// wire tags messages by field rather than by a framing byte: a frame with
// a "Response" field is a Response, else one with an "Event" field is an
// Event. Anything else is unclassifiable and reported as
// errs.ErrUnclassifiable; the caller drops it and the connection
// continues.
func Classify(frame Fields) (Message, error) {
	if frame.Has("Response") {
		return newResponse(frame), nil
	}
	if frame.Has("Event") {
		return newEvent(frame), nil
	}
	return nil, errs.ErrUnclassifiable
}
