package bot

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// handleInline offers one reaction message per kind, each already carrying
// the querying user's vote.
func (b *Bot) handleInline(ctx context.Context, ev InlineQueried) error {
	kinds := reaction.Kinds()
	results := make([]InlineResult, 0, len(kinds))
	for _, k := range kinds {
		state, _ := reaction.Toggle(reaction.State{}, k, ev.From.ID)
		results = append(results, InlineResult{
			ID:      k.ID(),
			Title:   k.Glyph() + " " + k.Name(),
			Content: reactionContent(state),
		})
	}
	return errors.Wrap(b.platform.AnswerInline(ctx, ev.QueryID, results), "answering inline query")
}
