package ranking

import (
	"errors"
	"sort"

	"waitlistbot/internal/roster"
)

// ErrOutOfRange is returned when a position lookup falls outside
// the current waitlist
var ErrOutOfRange = errors.New("position is out of range")

// Profile bundles an eligibility filter with a comparator.
// The simple profile is the member-facing waitlist: invited, vip and
// resume.cv members are all excluded, and ordering is join date first.
// The priority profile keeps flagged members in and ranks them ahead.
type Profile int

const (
	Simple Profile = iota
	Priority
)

func (profile Profile) String() string {
	switch profile {
	case Simple:
		return "simple"
	case Priority:
		return "priority"
	default:
		return "unknown"
	}
}

// Rank filters the snapshot down to eligible members and sorts them.
// It does no I/O and never mutates its input: same snapshot in,
// same sequence out
func Rank(snapshot []roster.Member, profile Profile) []roster.Member {
	ranked := make([]roster.Member, 0, len(snapshot))
	for _, member := range snapshot {
		if profile.eligible(member) {
			ranked = append(ranked, member)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return profile.less(ranked[i], ranked[j])
	})
	return ranked
}

// PositionOf returns the 1-based rank of the identity in the sequence,
// or roster.ErrNotFound if the identity is not ranked
func PositionOf(ranked []roster.Member, id int64) (int, error) {
	for i, member := range ranked {
		if member.ID == id {
			return i + 1, nil
		}
	}
	return 0, roster.ErrNotFound
}

// MemberAt returns the member holding the given 1-based rank
func MemberAt(ranked []roster.Member, position int) (roster.Member, error) {
	if position < 1 || position > len(ranked) {
		return roster.Member{}, ErrOutOfRange
	}
	return ranked[position-1], nil
}

func (profile Profile) eligible(member roster.Member) bool {
	if member.Invited {
		return false
	}
	if profile == Simple {
		return !member.VIP && !member.ResumeCV
	}
	return true
}

// The final identity key guarantees a total order: no two records
// share an id, so no tie can survive the comparator
func (profile Profile) less(a, b roster.Member) bool {
	if profile == Priority {
		if a.VIP != b.VIP {
			return a.VIP
		}
		if a.ResumeCV != b.ResumeCV {
			return a.ResumeCV
		}
	}
	if !a.JoinedAt.Equal(b.JoinedAt) {
		return a.JoinedAt.Before(b.JoinedAt)
	}
	if a.MessageCount != b.MessageCount {
		return a.MessageCount > b.MessageCount
	}
	return a.ID < b.ID
}
