package bot

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// Error kinds a Platform marks its native errors with.
var (
	// ErrPermissionDenied means the host refused the action for lack of rights.
	ErrPermissionDenied = errors.New("permission denied by host")
	// ErrMessageGone means the target message no longer exists or is unreachable.
	ErrMessageGone = errors.New("message gone")
	// ErrNotModified means an edit was refused because the message already
	// has the requested content.
	ErrNotModified = errors.New("message not modified")
)

// MessageRef identifies a published message.
type MessageRef struct {
	Chat string
	ID   string
}

// Key is the per-message lock key.
func (r MessageRef) Key() string {
	return r.Chat + ":" + r.ID
}

// Message is a snapshot of a published message as delivered with an event.
type Message struct {
	Ref   MessageRef
	Text  string
	Links []string
	// FromSelf is true when this bot authored the message.
	FromSelf bool
}

// User is the acting platform user.
type User struct {
	ID   reaction.UserID
	Name string
}

// Content is what gets published. When State is set its text and hidden
// link replace Text.
type Content struct {
	Text     string
	State    *reaction.Encoded
	Controls []reaction.Control
	Italic   bool
	Silent   bool
}

// Notice is ephemeral feedback on a control press.
type Notice struct {
	Text  string
	Alert bool
}

// InlineResult is one choice offered in answer to an inline query.
type InlineResult struct {
	ID      string
	Title   string
	Content Content
}

// Platform is the messaging host. Implementations must mark errors with
// ErrPermissionDenied, ErrMessageGone or ErrNotModified where the host
// reports them.
type Platform interface {
	Send(ctx context.Context, chat, replyTo string, c Content) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, c Content) error
	Delete(ctx context.Context, ref MessageRef) error
	AnswerPress(ctx context.Context, pressID string, n Notice) error
	DisplayName(ctx context.Context, chat string, user reaction.UserID) (string, error)
	AnswerInline(ctx context.Context, queryID string, results []InlineResult) error
}

// reactionContent renders a reaction message for s.
func reactionContent(s reaction.State) Content {
	enc := reaction.Encode(s)
	return Content{
		Text:     enc.Text,
		State:    &enc,
		Controls: reaction.Render(s),
		Silent:   true,
	}
}
