package reaction

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// Marker prefixes every reaction message. It is a zero-width combining
	// character, so it identifies the message without showing anything.
	Marker = "\u034f"

	// Host and Path locate the state-carrying link. The URL is never fetched.
	Host = "reaxnbot.dev"
	Path = "/reactions"

	userDelimiter = ","
	tallySep      = "  "
)

// ErrCorruptState is matched by every CorruptStateError.
var ErrCorruptState = errors.New("corrupt reaction state")

// CorruptStateError reports a state link that matched Host and Path but
// could not be decoded. Decoding is aborted rather than dropping voters.
type CorruptStateError struct {
	Key   string
	Value string
	Err   error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt reaction state at %q=%q: %v", e.Key, e.Value, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorruptState) hold.
func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

// Encoded is the textual form of a State.
//
// Text is the visible message text. The link URL must be attached to the
// LinkLength UTF-16 code units starting at LinkOffset (the marker).
type Encoded struct {
	Text       string
	URL        string
	LinkOffset int
	LinkLength int
}

// Encode serializes s. Keys follow display order, user ids ascend, and
// kinds without votes are omitted.
func Encode(s State) Encoded {
	var params, tally []string
	for _, k := range Kinds() {
		users := s.Users(k)
		if len(users) == 0 {
			continue
		}
		ids := make([]string, len(users))
		for i, u := range users {
			ids[i] = u.String()
		}
		params = append(params, k.ID()+"="+strings.Join(ids, userDelimiter))
		tally = append(tally, fmt.Sprintf("%s %d", k.Glyph(), len(users)))
	}

	u := url.URL{Scheme: "https", Host: Host, Path: Path, RawQuery: strings.Join(params, "&")}

	text := Marker
	if len(tally) > 0 {
		text += " " + strings.Join(tally, tallySep)
	}
	return Encoded{
		Text:       text,
		URL:        u.String(),
		LinkOffset: 0,
		LinkLength: 1,
	}
}

// IsReactionText reports whether text carries the marker.
func IsReactionText(text string) bool {
	return strings.Contains(text, Marker)
}

// IsStateURL reports whether raw points at the state host and path.
func IsStateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return isStateURL(u)
}

func isStateURL(u *url.URL) bool {
	return strings.EqualFold(u.Hostname(), Host) && u.Path == Path
}

// Decode rebuilds the state from a message's text and the targets of its
// link annotations. Links to other hosts are ignored. The boolean is false
// when the message is not a reaction message at all: no matching link and
// no marker. Several matching links are merged.
func Decode(text string, links []string) (State, bool, error) {
	state := State{}
	matched := false
	for _, raw := range links {
		u, err := url.Parse(raw)
		if err != nil || !isStateURL(u) {
			continue
		}
		matched = true
		if err := decodeQuery(u.RawQuery, state); err != nil {
			return nil, false, err
		}
	}
	if !matched && !IsReactionText(text) {
		return nil, false, nil
	}
	return state, true, nil
}

func decodeQuery(rawQuery string, into State) error {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return &CorruptStateError{Key: rawKey, Value: rawValue, Err: err}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return &CorruptStateError{Key: key, Value: rawValue, Err: err}
		}
		k, err := ParseKind(key)
		if err != nil {
			return &CorruptStateError{Key: key, Value: value, Err: err}
		}
		for _, token := range strings.Split(value, userDelimiter) {
			u, err := ParseUserID(token)
			if err != nil {
				return &CorruptStateError{Key: key, Value: value, Err: err}
			}
			into.add(k, u)
		}
	}
	return nil
}
