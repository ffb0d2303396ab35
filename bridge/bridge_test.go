package bridge_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ami "github.com/voicebridge/ami"
	"github.com/voicebridge/ami/bridge"
	"github.com/voicebridge/ami/internal/jsoncodec"
)

type fakeConn struct {
	in     chan []byte
	closed chan struct{}
	once   sync.Once

	mu    sync.Mutex
	wrote bytes.Buffer
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 8), closed: make(chan struct{})}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	select {
	case b := <-c.in:
		return copy(p, b), nil
	case <-c.closed:
		return 0, errors.New("closed")
	}
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wrote.Write(p)
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type eventDocument struct {
	Event  string `json:"event"`
	Fields []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"fields"`
}

func TestBridgePublishesEvents(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := pubsub.Subscribe(ctx, "ami.events.hangup")
	require.NoError(t, err)

	conn := newFakeConn()
	client := ami.NewClient(conn)
	defer client.Close()

	bridge.New(pubsub).Attach(client)

	conn.in <- []byte("Event: Hangup\r\nChannel: SIP/100-0001\r\nCause: 16\r\n\r\n")

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "Hangup", msg.Metadata.Get(bridge.MetadataEventKey))

		var doc eventDocument
		require.NoError(t, jsoncodec.Unmarshal(msg.Payload, &doc))
		assert.Equal(t, "Hangup", doc.Event)
		require.Len(t, doc.Fields, 3)
		assert.Equal(t, "Channel", doc.Fields[1].Name)
		assert.Equal(t, "SIP/100-0001", doc.Fields[1].Value)
	case <-ctx.Done():
		t.Fatal("no message published")
	}
}

func TestBridgeCustomTopic(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := pubsub.Subscribe(ctx, "pbx")
	require.NoError(t, err)

	conn := newFakeConn()
	client := ami.NewClient(conn)
	defer client.Close()

	b := bridge.New(pubsub, bridge.WithTopicFunc(func(*ami.Event) string { return "pbx" }))
	b.Attach(client)

	conn.in <- []byte("Event: Reload\r\n\r\n")

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "Reload", msg.Metadata.Get(bridge.MetadataEventKey))
	case <-ctx.Done():
		t.Fatal("no message published")
	}
}

func TestDefaultTopic(t *testing.T) {
	conn := newFakeConn()
	client := ami.NewClient(conn)
	defer client.Close()

	got := make(chan string, 1)
	client.On(ami.ChanEvent, func(e *ami.Event) { got <- bridge.DefaultTopic(e) })
	conn.in <- []byte("Event: PeerStatus\r\n\r\n")

	select {
	case topic := <-got:
		assert.Equal(t, "ami.events.peerstatus", topic)
	case <-time.After(2 * time.Second):
		t.Fatal("event never dispatched")
	}
}

type failingPublisher struct{ calls chan string }

func (p *failingPublisher) Publish(topic string, _ ...*message.Message) error {
	p.calls <- topic
	return errors.New("broker unavailable")
}

func (p *failingPublisher) Close() error { return nil }

func TestBridgeSurvivesPublishFailure(t *testing.T) {
	pub := &failingPublisher{calls: make(chan string, 2)}

	conn := newFakeConn()
	client := ami.NewClient(conn)
	defer client.Close()

	bridge.New(pub).Attach(client)

	conn.in <- []byte("Event: Hangup\r\n\r\n")
	conn.in <- []byte("Event: Reload\r\n\r\n")

	for _, want := range []string{"ami.events.hangup", "ami.events.reload"} {
		select {
		case topic := <-pub.calls:
			assert.Equal(t, want, topic)
		case <-time.After(2 * time.Second):
			t.Fatal("publish never attempted")
		}
	}
	assert.Equal(t, ami.StateOpen, client.State())
}
