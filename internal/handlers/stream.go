package handlers

// stream.go — Live article event stream.
// GET /api/v1/articles/stream keeps the connection open and delivers article
// lifecycle events (created/updated/deleted) as Server-Sent Events. SSE was
// chosen over WebSockets because the flow is strictly server-to-client: plain
// HTTP, works through proxies, and EventSource in the browser reconnects for
// free.

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/feedpulse/articles-api/internal/stream"
)

// heartbeatInterval is how often an SSE comment line is written to an idle
// stream. Proxies and load balancers close connections that stay silent too
// long; the comment is invisible to EventSource consumers.
const heartbeatInterval = 15 * time.Second

// StreamArticles returns a handler for GET /api/v1/articles/stream.
// With ?tag=NAME the stream carries only events for articles tagged NAME;
// without it, every event (the firehose).
//
// Each event is one SSE frame whose data line is a JSON object:
//
//	data: {"action":"created","article":{...}}
//
//	@Summary		Stream article events
//	@Description	Server-Sent Events stream of article create/update/delete events. Filter to a single tag with ?tag=; omit for all events.
//	@Tags			articles
//	@Produce		text/event-stream
//	@Param			tag	query	string	false	"Only stream events for articles carrying this tag"
//	@Success		200	{string}	string	"SSE stream"
//	@Security		BearerAuth
//	@Router			/api/v1/articles/stream [get]
func StreamArticles(hub *stream.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := stream.NewClient(streamTopic(c.Query("tag")))
		hub.Register(client)

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		// The stream writer runs after the handler returns, on fasthttp's side.
		// It owns the connection until the client goes away: a failed Flush is
		// the only reliable disconnect signal, at which point the client is
		// unregistered (which also closes its Send channel).
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer hub.Unregister(client)
			writeEventStream(w, client, heartbeatInterval)
		}))

		return nil
	}
}

// streamTopic picks the hub topic for a stream request: the requested tag when
// one was given, otherwise the firehose.
func streamTopic(tag string) string {
	if tag == "" {
		return stream.TopicFirehose
	}
	return tag
}

// writeEventStream drains the client's Send channel into SSE frames, writing a
// heartbeat when idle. It returns when the hub drops the client (channel
// closed) or the consumer disconnects (flush fails).
func writeEventStream(w *bufio.Writer, client *stream.Client, heartbeat time.Duration) {
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				// Hub closed the channel (client was dropped server-side)
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
		case <-ticker.C:
			// SSE comment line — ignored by consumers, keeps proxies happy
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := w.Flush(); err != nil {
			// Consumer disconnected
			return
		}
	}
}
