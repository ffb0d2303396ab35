// Package ami is a client for the Asterisk Manager Interface (AMI): a
// line-oriented, asynchronous text protocol spoken over a persistent TCP
// or TLS connection. The peer receives named actions and answers, out of
// order and interleaved with unsolicited events, with responses correlated
// by ActionID. This package owns the part with real state: frame decoding
// across arbitrary chunk boundaries, pending-request correlation, event
// fan-out, and the connection lifecycle.
//
// Dial establishes the connection, consumes the protocol banner, and logs
// in; NewClient instead wraps any already-open duplex stream when the
// application manages the transport itself. Client.Send queues an action
// and returns a Future that resolves with the matching Response — or
// fails with a *ResponseError carrying the server's full answer when the
// peer reports "Response: Error". Client.On subscribes to events by name,
// to every event via "event", and to the synthetic "close" and "error"
// notifications.
//
// # Lifecycle
//
// A connection is Open until End or Close. End stops accepting new sends
// and closes once every pending action has resolved; Close fails all
// outstanding actions immediately. Responses that match nothing, and
// frames that classify as neither response nor event, are dropped with a
// diagnostic — the protocol is chatty and partially unspecified, and
// treating every oddity as fatal would make the client unusable against
// real deployments. The core imposes no per-request timeout: Future.Wait
// takes a context, so deadline policy stays with the caller.
//
// # Observability
//
// WithLogger attaches a structured logger (NewSlogLogger adapts a
// *slog.Logger), WithMetrics a Prometheus collector set, and
// WithTracerProvider an OpenTelemetry provider that records one span per
// action. The bridge subpackage republishes events onto a Watermill
// publisher; the actions subpackage provides builders for well-known
// actions.
package ami
