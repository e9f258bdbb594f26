package ranking

import (
	"testing"
	"time"

	"waitlistbot/internal/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPriorityProfileOrdering(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 1, Username: "a", JoinedAt: day("2024-01-01"), MessageCount: 5},
		{ID: 2, Username: "b", JoinedAt: day("2024-01-02"), VIP: true},
		{ID: 3, Username: "c", JoinedAt: day("2024-01-01"), Invited: true},
	}

	ranked := Rank(snapshot, Priority)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].ID, "vip member ranks first")
	assert.Equal(t, int64(1), ranked[1].ID)

	position, err := PositionOf(ranked, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, position)

	_, err = PositionOf(ranked, 3)
	assert.ErrorIs(t, err, roster.ErrNotFound, "invited member is excluded entirely")
}

func TestResumeCVBreaksVIPTie(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 1, JoinedAt: day("2024-01-01"), VIP: true},
		{ID: 2, JoinedAt: day("2024-01-02"), VIP: true, ResumeCV: true},
	}

	ranked := Rank(snapshot, Priority)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].ID)
}

func TestSimpleProfileExcludesFlagged(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 1, JoinedAt: day("2024-01-01")},
		{ID: 2, JoinedAt: day("2024-01-02"), VIP: true},
		{ID: 3, JoinedAt: day("2024-01-03"), ResumeCV: true},
		{ID: 4, JoinedAt: day("2024-01-04"), Invited: true},
		{ID: 5, JoinedAt: day("2024-01-05")},
	}

	ranked := Rank(snapshot, Simple)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.Equal(t, int64(5), ranked[1].ID)
}

func TestInvitedNeverRanked(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 1, JoinedAt: day("2024-01-01"), VIP: true, ResumeCV: true, Invited: true},
	}

	assert.Empty(t, Rank(snapshot, Simple))
	assert.Empty(t, Rank(snapshot, Priority))
}

func TestActivityBreaksJoinDateTie(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 1, JoinedAt: day("2024-01-01"), MessageCount: 3},
		{ID: 2, JoinedAt: day("2024-01-01"), MessageCount: 7},
	}

	for _, profile := range []Profile{Simple, Priority} {
		ranked := Rank(snapshot, profile)
		require.Len(t, ranked, 2)
		assert.Equal(t, int64(2), ranked[0].ID, "profile %s", profile)
	}
}

func TestIdentityBreaksFullTie(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 9, JoinedAt: day("2024-01-01"), MessageCount: 4},
		{ID: 4, JoinedAt: day("2024-01-01"), MessageCount: 4},
		{ID: 7, JoinedAt: day("2024-01-01"), MessageCount: 4},
	}

	ranked := Rank(snapshot, Simple)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(4), ranked[0].ID)
	assert.Equal(t, int64(7), ranked[1].ID)
	assert.Equal(t, int64(9), ranked[2].ID)
}

func TestDeterminism(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 3, JoinedAt: day("2024-02-01"), MessageCount: 1},
		{ID: 1, JoinedAt: day("2024-01-01"), MessageCount: 5, VIP: true},
		{ID: 2, JoinedAt: day("2024-01-01"), MessageCount: 5},
		{ID: 4, JoinedAt: day("2024-03-01"), ResumeCV: true},
	}

	first := Rank(snapshot, Priority)
	second := Rank(snapshot, Priority)
	assert.Equal(t, first, second)
}

func TestRankDoesNotMutateSnapshot(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 2, JoinedAt: day("2024-01-02")},
		{ID: 1, JoinedAt: day("2024-01-01")},
	}

	Rank(snapshot, Simple)
	assert.Equal(t, int64(2), snapshot[0].ID)
	assert.Equal(t, int64(1), snapshot[1].ID)
}

func TestRoundTripRankPosition(t *testing.T) {
	snapshot := []roster.Member{
		{ID: 1, JoinedAt: day("2024-01-01"), MessageCount: 2},
		{ID: 2, JoinedAt: day("2024-01-01"), MessageCount: 9},
		{ID: 3, JoinedAt: day("2024-02-01"), VIP: true},
		{ID: 4, JoinedAt: day("2024-03-01")},
	}

	ranked := Rank(snapshot, Priority)
	for _, member := range ranked {
		position, err := PositionOf(ranked, member.ID)
		require.NoError(t, err)
		got, err := MemberAt(ranked, position)
		require.NoError(t, err)
		assert.Equal(t, member.ID, got.ID)
	}
}

func TestMemberAtOutOfRange(t *testing.T) {
	ranked := Rank([]roster.Member{
		{ID: 1, JoinedAt: day("2024-01-01")},
	}, Simple)

	_, err := MemberAt(ranked, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = MemberAt(ranked, len(ranked)+1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
