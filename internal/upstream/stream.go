package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/cenkalti/backoff.v1"

	"clinic-desk-backend/internal/dashboard"
)

// Event names the backend sends on each stream.
const (
	AddNumberEvent    = "add-number-updated"
	NotificationEvent = "notification-updated"
)

var errStreamEnded = errors.New("push stream ended")

type streamRoute struct {
	path  string
	event string
}

var streamRoutes = map[dashboard.Stream]streamRoute{
	dashboard.StreamAddNumber:     {path: "/add_number_notify_doctor", event: AddNumberEvent},
	dashboard.StreamNotifications: {path: "/notifications", event: NotificationEvent},
}

type subscription struct {
	id     uuid.UUID
	stream dashboard.Stream
	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops the stream and waits for its reader to exit.
func (s *subscription) Close() error {
	s.cancel()
	<-s.done
	log.Debug().Str("subscription", s.id.String()).Str("channel", string(s.stream)).Msg("push stream closed")
	return nil
}

// Subscribe opens the server-sent event stream for the given channel. The connection is
// made in the background; failures, including the stream ending, go to onError. The
// stream is not reopened by the client.
func (c *Client) Subscribe(stream dashboard.Stream, doctorID string, onFrame func([]byte), onError func(error)) (dashboard.Handle, error) {
	route, ok := streamRoutes[stream]
	if !ok {
		return nil, errors.New("unknown push channel " + string(stream))
	}

	query := url.Values{}
	if doctorID != "" {
		query.Set("docId", doctorID)
	}
	if c.token != "" {
		query.Set("token", c.token)
	}

	client := sse.NewClient(c.endpoint(route.path, query))
	client.Connection = &http.Client{Transport: c.transport}
	client.ReconnectStrategy = &backoff.StopBackOff{}
	for k, v := range c.authHeaders() {
		client.Headers[k] = v
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		id:     uuid.New(),
		stream: stream,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
			if string(msg.Event) != route.event {
				log.Debug().Str("channel", string(stream)).Str("event", string(msg.Event)).Msg("ignoring push event")
				return
			}
			onFrame(msg.Data)
		})
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errStreamEnded
		}
		onError(err)
	}()

	log.Debug().Str("subscription", sub.id.String()).Str("channel", string(stream)).Str("doctor_id", doctorID).Msg("push stream started")
	return sub, nil
}
