package manager

import "strings"

// actionIDField carries the correlation id that ties a Response back to
// the Action that caused it. Compared as an opaque string.
const actionIDField = "ActionID"

// Message is the read surface common to the three wire message kinds.
type Message interface {
	Fields() Fields
	Get(name string) (string, bool)
}

// Action is an outgoing command frame. The caller owns it until it is
// handed to Client.Send; after that the engine owns it until the matching
// response arrives or the connection dies.
type Action struct {
	fields Fields
}

// NewAction returns an Action with its "Action" field set to name.
func NewAction(name string) *Action {
	return &Action{fields: Fields{{Name: "Action", Value: name}}}
}

// Set appends a field. Repeated names are allowed and serialize as
// repeated lines ("Variable: a=1", "Variable: b=2").
func (a *Action) Set(name, value string) *Action {
	a.fields = append(a.fields, Field{Name: name, Value: value})
	return a
}

func (a *Action) Get(name string) (string, bool) { return a.fields.Get(name) }
func (a *Action) GetAll(name string) []string    { return a.fields.GetAll(name) }
func (a *Action) Fields() Fields                 { return a.fields }

// Name returns the value of the "Action" field.
func (a *Action) Name() string {
	name, _ := a.fields.Get("Action")
	return name
}

// ActionID returns the correlation id, or "" when none is set yet.
func (a *Action) ActionID() string {
	id, _ := a.fields.Get(actionIDField)
	return id
}

func (a *Action) marshal() []byte { return a.fields.marshal() }

// Response is an incoming frame answering a prior Action.
type Response struct {
	fields Fields
}

func newResponse(f Fields) *Response { return &Response{fields: f} }

func (r *Response) Get(name string) (string, bool) { return r.fields.Get(name) }
func (r *Response) GetAll(name string) []string    { return r.fields.GetAll(name) }
func (r *Response) Fields() Fields                 { return r.fields }

// ActionID returns the correlation id echoed by the peer, or "" for the
// rare out-of-band responses that carry none.
func (r *Response) ActionID() string {
	id, _ := r.fields.Get(actionIDField)
	return id
}

// Status returns the value of the "Response" field ("Success", "Error",
// "Follows", ...).
func (r *Response) Status() string {
	status, _ := r.fields.Get("Response")
	return status
}

// IsError reports whether the peer flagged this response as a failure.
func (r *Response) IsError() bool {
	return strings.EqualFold(r.Status(), "Error")
}

// Message returns the free-text "Message" field, or "".
func (r *Response) Message() string {
	msg, _ := r.fields.Get("Message")
	return msg
}

// Event is an incoming unsolicited notification. Events have no
// correlation relationship to any Action and are always broadcast.
type Event struct {
	fields Fields
}

func newEvent(f Fields) *Event { return &Event{fields: f} }

func (e *Event) Get(name string) (string, bool) { return e.fields.Get(name) }
func (e *Event) GetAll(name string) []string    { return e.fields.GetAll(name) }
func (e *Event) Fields() Fields                 { return e.fields }

// Name returns the value of the "Event" field.
func (e *Event) Name() string {
	name, _ := e.fields.Get("Event")
	return name
}
