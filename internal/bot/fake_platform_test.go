package bot

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

type sentMessage struct {
	Ref     MessageRef
	ReplyTo string
	Content Content
}

type pressAnswer struct {
	PressID string
	Notice  Notice
}

// fakePlatform is an in-memory host. Published messages can be read back
// as the snapshot a later event would carry.
type fakePlatform struct {
	mu sync.Mutex

	nextID   int
	messages map[MessageRef]Content
	sent     []sentMessage
	edits    []sentMessage
	deleted  []MessageRef
	answers  []pressAnswer
	inline   map[string][]InlineResult
	names    map[reaction.UserID]string

	deleteErr error
	editErr   error
	lookupErr map[reaction.UserID]error

	// A lookup for a gated user waits until its channel is closed.
	gates map[reaction.UserID]chan struct{}
	// resolved lists users in the order their lookups returned.
	resolved   []reaction.UserID
	onResolved func(reaction.UserID)
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextID:    100,
		messages:  make(map[MessageRef]Content),
		inline:    make(map[string][]InlineResult),
		names:     make(map[reaction.UserID]string),
		lookupErr: make(map[reaction.UserID]error),
		gates:     make(map[reaction.UserID]chan struct{}),
	}
}

func (f *fakePlatform) Send(_ context.Context, chat, replyTo string, c Content) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	ref := MessageRef{Chat: chat, ID: strconv.Itoa(f.nextID)}
	f.messages[ref] = c
	f.sent = append(f.sent, sentMessage{Ref: ref, ReplyTo: replyTo, Content: c})
	return ref, nil
}

func (f *fakePlatform) Edit(_ context.Context, ref MessageRef, c Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.editErr != nil {
		return f.editErr
	}
	if _, ok := f.messages[ref]; !ok {
		return errors.Mark(errors.New("message to edit not found"), ErrMessageGone)
	}
	f.messages[ref] = c
	f.edits = append(f.edits, sentMessage{Ref: ref, Content: c})
	return nil
}

func (f *fakePlatform) Delete(_ context.Context, ref MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakePlatform) AnswerPress(_ context.Context, pressID string, n Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.answers = append(f.answers, pressAnswer{PressID: pressID, Notice: n})
	return nil
}

func (f *fakePlatform) DisplayName(ctx context.Context, _ string, user reaction.UserID) (string, error) {
	f.mu.Lock()
	gate := f.gates[user]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.resolved = append(f.resolved, user)
	if f.onResolved != nil {
		f.onResolved(user)
	}

	if err := f.lookupErr[user]; err != nil {
		return "", err
	}
	name, ok := f.names[user]
	if !ok {
		return "", errors.Newf("user %d not in chat", user)
	}
	return name, nil
}

func (f *fakePlatform) AnswerInline(_ context.Context, queryID string, results []InlineResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inline[queryID] = results
	return nil
}

// snapshot returns the message as the host would deliver it with an event.
func (f *fakePlatform) snapshot(ref MessageRef) *Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.messages[ref]
	if !ok {
		return nil
	}
	msg := &Message{Ref: ref, Text: c.Text, FromSelf: true}
	if c.State != nil {
		msg.Links = []string{c.State.URL}
	}
	return msg
}

func (f *fakePlatform) lastSent() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakePlatform) lastAnswer() pressAnswer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers[len(f.answers)-1]
}
