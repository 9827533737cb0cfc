package reaction

import (
	"github.com/cockroachdb/errors"
)

// Kind is one member of the fixed reaction enumeration.
type Kind int

const (
	Heart Kind = iota + 1
	Laugh
	Anger
	Sad
	Up
	Down
)

// ErrUnknownKind is returned when an identifier does not name a Catalog kind.
var ErrUnknownKind = errors.New("unknown reaction kind")

type kindInfo struct {
	id    string
	glyph string
	name  string
}

// The identifiers are a wire format: they are stored inside already-sent
// messages and must never change.
var catalog = map[Kind]kindInfo{
	Heart: {id: "love", glyph: "❤️", name: "heart"},
	Laugh: {id: "laugh", glyph: "😂", name: "laugh"},
	Anger: {id: "anger", glyph: "😡", name: "anger"},
	Sad:   {id: "sad", glyph: "😭", name: "sad"},
	Up:    {id: "up", glyph: "👍", name: "up"},
	Down:  {id: "down", glyph: "👎", name: "down"},
}

// displayOrder is independent of declaration order so button positions
// stay put across edits.
var displayOrder = []Kind{Heart, Laugh, Anger, Sad, Up, Down}

var byID = func() map[string]Kind {
	m := make(map[string]Kind, len(catalog))
	for k, info := range catalog {
		m[info.id] = k
	}
	return m
}()

// CancelGlyph acknowledges a removed vote.
const CancelGlyph = "❎"

// Kinds returns every kind in display order.
func Kinds() []Kind {
	out := make([]Kind, len(displayOrder))
	copy(out, displayOrder)
	return out
}

// ID returns the stable wire identifier of the kind.
func (k Kind) ID() string {
	return catalog[k].id
}

// Glyph returns the emoji shown for the kind.
func (k Kind) Glyph() string {
	return catalog[k].glyph
}

// Name returns the human name, also used as the shortcut command name.
func (k Kind) Name() string {
	return catalog[k].name
}

// Valid reports whether k is a Catalog member.
func (k Kind) Valid() bool {
	_, ok := catalog[k]
	return ok
}

func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(invalid)"
	}
	return k.Name()
}

// ParseKind resolves a wire identifier back into its kind.
func ParseKind(id string) (Kind, error) {
	k, ok := byID[id]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownKind, "identifier %q", id)
	}
	return k, nil
}
