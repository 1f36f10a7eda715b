package handlers

// White-box tests for the SSE plumbing: the frame writer and the topic choice
// are exercised directly, without a live HTTP connection.

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feedpulse/articles-api/internal/stream"
)

func TestStreamTopic(t *testing.T) {
	// No tag means the firehose; a tag means exactly that tag.
	assert.Equal(t, stream.TopicFirehose, streamTopic(""))
	assert.Equal(t, "AI", streamTopic("AI"))
}

func TestWriteEventStream(t *testing.T) {
	t.Run("FramesEventsUntilChannelCloses", func(t *testing.T) {
		client := stream.NewClient(stream.TopicFirehose)
		client.Send <- []byte(`{"action":"created"}`)
		client.Send <- []byte(`{"action":"deleted"}`)
		close(client.Send)

		var buf bytes.Buffer
		w := bufio.NewWriter(&buf)
		// Returns synchronously: both buffered events are framed, then the
		// closed channel ends the loop.
		writeEventStream(w, client, time.Hour)

		assert.Equal(t,
			"data: {\"action\":\"created\"}\n\ndata: {\"action\":\"deleted\"}\n\n",
			buf.String())
	})

	t.Run("HeartbeatOnIdleStream", func(t *testing.T) {
		client := stream.NewClient(stream.TopicFirehose)

		var buf bytes.Buffer
		w := bufio.NewWriter(&buf)

		done := make(chan struct{})
		go func() {
			defer close(done)
			writeEventStream(w, client, 5*time.Millisecond)
		}()

		// Let a few heartbeats fire, then end the stream.
		time.Sleep(30 * time.Millisecond)
		close(client.Send)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("writer did not stop after channel close")
		}

		assert.True(t, strings.Contains(buf.String(), ": ping\n\n"),
			"idle stream should carry heartbeat comments, got %q", buf.String())
	})
}
