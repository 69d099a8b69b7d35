package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/namgiho96/giho-blog/internal/notifications"

	"github.com/gorilla/websocket"
)

// watch streams live events for slug until ctx is done or the server closes.
func (a *cli) watch(ctx context.Context, slug string) error {
	wsURL, err := a.api.EventsURL(slug, a.sessions.GetOrCreateSessionID())
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("live updates are not enabled for this reader")
		}
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	a.printf("watching %s\n", slug)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		var ev notifications.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			a.printf("unreadable event: %s\n", msg)
			continue
		}
		a.printf("%s\n", describe(ev))
	}
}

func describe(ev notifications.Event) string {
	payload, _ := ev.Payload.(map[string]any)
	switch ev.Type {
	case notifications.EventViewRecorded:
		return fmt.Sprintf("[%s] views: %v", ev.Slug, payload["viewCount"])
	case notifications.EventLikeToggled:
		return fmt.Sprintf("[%s] likes: %v", ev.Slug, payload["likeCount"])
	case notifications.EventCommentCreated, notifications.EventCommentUpdated, notifications.EventCommentDeleted:
		return fmt.Sprintf("[%s] %s %v", ev.Slug, ev.Type, commentID(payload))
	case notifications.EventMessagesDropped:
		return "some events were dropped, re-run to refresh counters"
	default:
		return fmt.Sprintf("[%s] %s", ev.Slug, ev.Type)
	}
}

// commentID reads the id from either {"id": ...} or {"comment": {"id": ...}}.
func commentID(payload map[string]any) any {
	if id, ok := payload["id"]; ok {
		return id
	}
	if c, ok := payload["comment"].(map[string]any); ok {
		return c["id"]
	}
	return nil
}
