package reaction

import (
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
)

// UserID is the host platform's numeric user identifier.
type UserID int64

// ParseUserID parses a decimal user identifier.
func ParseUserID(s string) (UserID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid user id %q", s)
	}
	return UserID(id), nil
}

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// Voters is the set of users that voted for one kind.
type Voters map[UserID]struct{}

// State maps each reaction kind to the users that voted for it.
//
// Empty voter sets are tolerated in memory but are treated exactly like an
// absent kind by Encode, Render and Equal.
type State map[Kind]Voters

// Count returns the number of votes for k.
func (s State) Count(k Kind) int {
	return len(s[k])
}

// Has reports whether user voted for k.
func (s State) Has(k Kind, user UserID) bool {
	_, ok := s[k][user]
	return ok
}

// Users returns the voters for k in ascending id order.
func (s State) Users(k Kind) []UserID {
	voters := s[k]
	out := make([]UserID, 0, len(voters))
	for u := range voters {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsEmpty reports whether no kind has any vote.
func (s State) IsEmpty() bool {
	for _, voters := range s {
		if len(voters) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, voters := range s {
		cp := make(Voters, len(voters))
		for u := range voters {
			cp[u] = struct{}{}
		}
		out[k] = cp
	}
	return out
}

// Equal compares two states as mappings of sets, ignoring empty sets.
func (s State) Equal(other State) bool {
	for _, k := range Kinds() {
		if len(s[k]) != len(other[k]) {
			return false
		}
		for u := range s[k] {
			if _, ok := other[k][u]; !ok {
				return false
			}
		}
	}
	return true
}

// add inserts a vote in place.
func (s State) add(k Kind, user UserID) {
	voters, ok := s[k]
	if !ok {
		voters = make(Voters)
		s[k] = voters
	}
	voters[user] = struct{}{}
}

// Toggle flips user's vote for k and reports whether the vote was added.
// The input state is never modified; other kinds are left untouched.
func Toggle(s State, k Kind, user UserID) (State, bool) {
	next := s.Clone()
	if next.Has(k, user) {
		delete(next[k], user)
		if len(next[k]) == 0 {
			delete(next, k)
		}
		return next, false
	}
	next.add(k, user)
	return next, true
}
