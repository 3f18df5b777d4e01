package domain

// ChatInfo identifies a chat as seen in a provider event.
type ChatInfo struct {
	ExtID int64
	Name  string
	Alias string // empty when the chat has no public handle
}

// UserInfo identifies a user as seen in a provider event. Providers with
// opaque string ids set Handle and leave ExtID zero; a negative synthetic id
// is allocated on first sight.
type UserInfo struct {
	ExtID  int64
	Handle string
	Name   string
}

// Event is a normalized ingestion event: MessageEvent or ReplyEvent.
type Event interface {
	eventKind() string
}

// MessageEvent records one posted message. Timestamp is in epoch seconds.
type MessageEvent struct {
	Chat      ChatInfo
	User      UserInfo
	Timestamp int64
}

func (MessageEvent) eventKind() string { return "message" }

// ReplyEvent records that Replier answered a message written by Author.
type ReplyEvent struct {
	Chat    ChatInfo
	Replier UserInfo
	Author  UserInfo
}

func (ReplyEvent) eventKind() string { return "reply" }

// EventKind returns a short label for ev, suitable for metrics.
func EventKind(ev Event) string {
	if ev == nil {
		return "none"
	}
	return ev.eventKind()
}
