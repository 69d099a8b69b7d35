// Package notifications fans live interaction events (views, likes, comments)
// out to websocket subscribers of a post, across API instances via Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/namgiho96/giho-blog/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "interactions:post:"

// Event types published after successful live mutations.
const (
	EventViewRecorded    = "view_recorded"
	EventLikeToggled     = "like_toggled"
	EventCommentCreated  = "comment_created"
	EventCommentUpdated  = "comment_updated"
	EventCommentDeleted  = "comment_deleted"
	EventMessagesDropped = "messages_dropped"
)

// Event is the envelope delivered to websocket subscribers.
type Event struct {
	Type    string    `json:"type"`
	Slug    string    `json:"slug"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// NewEvent stamps an event for slug.
func NewEvent(eventType, slug string, payload any) Event {
	return Event{Type: eventType, Slug: slug, Payload: payload, At: time.Now().UTC()}
}

// ChannelFor returns the Redis channel carrying events for a post.
func ChannelFor(slug string) string {
	return channelPrefix + slug
}

// SlugFromChannel extracts the post slug from a channel name.
func SlugFromChannel(channel string) (string, bool) {
	if !strings.HasPrefix(channel, channelPrefix) {
		return "", false
	}
	slug := strings.TrimPrefix(channel, channelPrefix)
	return slug, slug != ""
}

// Notifier publishes interaction events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier. A nil client yields a disabled notifier.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events travel through Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// Publish sends an event to the post's channel.
func (n *Notifier) Publish(ctx context.Context, event Event) error {
	if !n.Enabled() {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, ChannelFor(event.Slug), payload).Err()
}

// StartPatternSubscriber subscribes to every post channel and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, channelPrefix+"*")
	// Wait for the subscription confirmation so publishes right after start are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s*: %w", channelPrefix, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in interaction subscriber",
								"panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
