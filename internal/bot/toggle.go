package bot

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

const (
	unusableMessageNotice = "Something's wrong with that message. Try this on another message."
	unreadableStateNotice = "I couldn't read the reactions on that message."
)

// handlePress toggles the presser's vote and re-publishes the message.
func (b *Bot) handlePress(ctx context.Context, ev ControlPressed) error {
	if ev.Message == nil {
		return b.answer(ctx, ev.PressID, Notice{Text: unusableMessageNotice, Alert: true})
	}

	kind, err := reaction.ParseKind(ev.Payload)
	if err != nil {
		return errors.Wrapf(err, "press %s", ev.PressID)
	}

	var held *Held
	if b.cfg.SerializeToggles {
		held = b.locks.Lock(ev.Message.Ref.Key())
		defer held.Unlock()
	}

	state, err := b.currentState(held, ev.Message)
	if err != nil {
		return errors.CombineErrors(
			errors.Wrap(err, "decoding pressed message"),
			b.answer(ctx, ev.PressID, Notice{Text: unreadableStateNotice, Alert: true}),
		)
	}

	next, added := reaction.Toggle(state, kind, ev.From.ID)
	if err := b.platform.Edit(ctx, ev.Message.Ref, reactionContent(next)); err != nil {
		switch {
		case errors.Is(err, ErrNotModified):
			// The message already shows next.
		case errors.Is(err, ErrMessageGone):
			if held != nil {
				held.Forget()
			}
			b.log.Debug().Err(err).Str("message", ev.Message.Ref.Key()).Msg("pressed message is gone")
			return b.answer(ctx, ev.PressID, Notice{Text: unusableMessageNotice, Alert: true})
		default:
			return errors.Wrap(err, "editing reaction message")
		}
	}
	if held != nil {
		held.Publish(next)
	}

	ack := reaction.CancelGlyph
	if added {
		ack = kind.Glyph()
	}
	return b.answer(ctx, ev.PressID, Notice{Text: ack})
}

// currentState is the state a press applies to: the one last published
// under held when there is one, the delivered snapshot otherwise.
func (b *Bot) currentState(held *Held, msg *Message) (reaction.State, error) {
	if held != nil {
		if s, ok := held.State(); ok {
			return s, nil
		}
	}
	state, present, err := reaction.Decode(msg.Text, msg.Links)
	if err != nil {
		return nil, err
	}
	if !present {
		// Legacy or foreign messages start from no votes.
		return reaction.State{}, nil
	}
	return state, nil
}

func (b *Bot) answer(ctx context.Context, pressID string, n Notice) error {
	return errors.Wrap(b.platform.AnswerPress(ctx, pressID, n), "answering press")
}
