// Package bridge republishes classified manager events onto a Watermill
// publisher, so applications can fan AMI events into whatever broker they
// already run without writing glue per event.
package bridge

import (
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	ami "github.com/voicebridge/ami"
	"github.com/voicebridge/ami/internal/jsoncodec"
	"github.com/voicebridge/ami/internal/logging"
)

// MetadataEventKey is the message metadata key carrying the event name.
const MetadataEventKey = "ami_event"

// TopicFunc maps an event to the topic it is published on.
type TopicFunc func(*ami.Event) string

// DefaultTopic publishes every event to "ami.events.<lowercased name>".
func DefaultTopic(e *ami.Event) string {
	return "ami.events." + strings.ToLower(e.Name())
}

// Bridge forwards every classified event from a client to a publisher.
// Publish failures are logged and skipped; they never disturb the
// client's own dispatch.
type Bridge struct {
	pub   message.Publisher
	topic TopicFunc
	log   ami.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTopicFunc overrides the topic mapping.
func WithTopicFunc(fn TopicFunc) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.topic = fn
		}
	}
}

// WithLogger sets the logger used for encode and publish failures.
func WithLogger(log ami.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// New creates a Bridge over pub. The publisher's lifecycle stays with the
// caller.
func New(pub message.Publisher, opts ...Option) *Bridge {
	b := &Bridge{
		pub:   pub,
		topic: DefaultTopic,
		log:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach subscribes the bridge to every classified event on client.
func (b *Bridge) Attach(client *ami.Client) {
	client.On(ami.ChanEvent, func(e *ami.Event) {
		msg, err := b.message(e)
		if err != nil {
			b.log.Error("encode event", err, ami.LogFields{"event": e.Name()})
			return
		}
		if err := b.pub.Publish(b.topic(e), msg); err != nil {
			b.log.Error("publish event", err, ami.LogFields{"event": e.Name()})
		}
	})
}

// eventDocument is the JSON payload shape: the ordered field list is kept
// as a list, not a map, so repeated names and wire order survive.
type eventDocument struct {
	Event  string          `json:"event"`
	Fields []fieldDocument `json:"fields"`
}

type fieldDocument struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (b *Bridge) message(e *ami.Event) (*message.Message, error) {
	doc := eventDocument{Event: e.Name()}
	for _, f := range e.Fields() {
		doc.Fields = append(doc.Fields, fieldDocument{Name: f.Name, Value: f.Value})
	}

	payload, err := jsoncodec.Marshal(doc)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventKey, e.Name())
	return msg, nil
}
