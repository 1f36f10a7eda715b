package stream_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedpulse/articles-api/internal/stream"
)

// recv waits for one message on the client's channel or fails the test.
func recv(t *testing.T, c *stream.Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// assertSilent verifies no message arrives within a short window.
func assertSilent(t *testing.T, c *stream.Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("unexpected event: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()

	ai := stream.NewClient("AI")
	firehose := stream.NewClient(stream.TopicFirehose)
	hub.Register(ai)
	hub.Register(firehose)

	hub.Broadcast([]string{"AI", "NLP", stream.TopicFirehose}, []byte(`{"action":"created"}`))

	assert.Equal(t, `{"action":"created"}`, string(recv(t, ai)))
	assert.Equal(t, `{"action":"created"}`, string(recv(t, firehose)))

	// Even though the event matched several topics, each client sees it once.
	assertSilent(t, ai)
	assertSilent(t, firehose)
}

func TestHubTopicIsolation(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()

	sports := stream.NewClient("Sports")
	hub.Register(sports)

	hub.Broadcast([]string{"AI", stream.TopicFirehose}, []byte("irrelevant"))

	assertSilent(t, sports)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()

	client := stream.NewClient("AI")
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "Send should be closed, not carrying data")
	case <-time.After(time.Second):
		t.Fatal("Send channel was not closed after unregister")
	}

	// Broadcasting after the client is gone must not panic or deliver.
	hub.Broadcast([]string{"AI"}, []byte("late"))
}

func TestHubSlowClientDropsEvents(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()

	client := stream.NewClient("AI")
	hub.Register(client)

	// Overfill the client's buffer; the extra events are dropped, not blocked on.
	for i := 0; i < cap(client.Send)+5; i++ {
		hub.Broadcast([]string{"AI"}, []byte("event"))
	}

	// The hub loop must still be responsive: a fresh client gets fresh events.
	fresh := stream.NewClient("AI")
	hub.Register(fresh)
	hub.Broadcast([]string{"AI"}, []byte("after"))
	require.Equal(t, "after", string(recv(t, fresh)))

	// The slow client kept its buffered events (a full buffer, no more).
	drained := 0
	for {
		select {
		case <-client.Send:
			drained++
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	assert.LessOrEqual(t, drained, cap(client.Send)+1)
	assert.Greater(t, drained, 0)
}
