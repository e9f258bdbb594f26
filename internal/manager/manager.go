package manager

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"waitlistbot/internal/ranking"
	"waitlistbot/internal/roster"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrAlreadyInvited reports that the member has already exited the
// waitlist. It is an informational outcome, not a failure
var ErrAlreadyInvited = errors.New("member has already been invited")

// ErrNotOnWaitlist reports that the member is in the roster but the
// requested profile does not rank them (a flagged member asking for
// the simple waitlist)
var ErrNotOnWaitlist = errors.New("member is not on the waitlist")

// LiveMember is the gateway's view of one current guild member,
// used for bulk initialization and resync
type LiveMember struct {
	ID       int64
	Username string
	JoinedAt time.Time
	RoleIDs  []string
}

// Manager keeps the roster consistent with the events delivered by
// the gateway and answers waitlist queries for the command surface.
// It assumes the caller has already verified permissions for any
// mutating operation
type Manager struct {
	store         *roster.Store
	vipRoleID     string
	invitedRoleID string
}

func New(store *roster.Store, vipRoleID string, invitedRoleID string) *Manager {
	return &Manager{
		store:         store,
		vipRoleID:     vipRoleID,
		invitedRoleID: invitedRoleID,
	}
}

// MemberJoined records a new guild member. Duplicate deliveries are
// harmless: the store keeps the original record and its join date
func (mgr *Manager) MemberJoined(id int64, username string, joinedAt time.Time) error {
	if err := mgr.store.Create(id, username, joinedAt); err != nil {
		return err
	}
	log.Debug().Msg(fmt.Sprintf("Member %s (%d) joined on %s", username, id, joinedAt))
	return nil
}

// MemberRemoved drops the member's record. Removing an identity that
// was never stored is a no-op
func (mgr *Manager) MemberRemoved(id int64) error {
	if err := mgr.store.Delete(id); err != nil {
		return err
	}
	log.Debug().Msg(fmt.Sprintf("Member %d removed from the roster", id))
	return nil
}

// ActivityObserved bumps the member's activity counter. A message can
// arrive before the corresponding join event has been processed; in
// that case the increment is dropped and logged, and the event stream
// keeps flowing
func (mgr *Manager) ActivityObserved(id int64) error {
	err := mgr.store.IncrementMessageCount(id)
	if errors.Is(err, roster.ErrNotFound) {
		log.Warn().Msg(fmt.Sprintf("Dropping activity for member %d, who is not in the roster", id))
		return nil
	}
	return err
}

// SetFlag sets one of the priority flags and returns the updated record
func (mgr *Manager) SetFlag(id int64, flag roster.Flag, value bool) (roster.Member, error) {
	if err := mgr.store.SetFlag(id, flag, value); err != nil {
		return roster.Member{}, err
	}
	log.Debug().Msg(fmt.Sprintf("Flag %s of member %d set to %t", flag, id, value))
	return mgr.store.Get(id)
}

// SetInvited marks the member as having exited the waitlist, or puts
// them back on it
func (mgr *Manager) SetInvited(id int64, value bool) (roster.Member, error) {
	return mgr.SetFlag(id, roster.FlagInvited, value)
}

// Member returns the stored record for the identity
func (mgr *Manager) Member(id int64) (roster.Member, error) {
	return mgr.store.Get(id)
}

// InitializeFromRoster creates a record for every live member that
// does not have one yet. Returns the number of members processed
func (mgr *Manager) InitializeFromRoster(live []LiveMember) (int, error) {
	for _, member := range live {
		if err := mgr.store.Create(member.ID, member.Username, member.JoinedAt); err != nil {
			return 0, err
		}
	}
	log.Info().Msg(fmt.Sprintf("Roster initialized with %d members", len(live)))
	return len(live), nil
}

// ResyncAll realigns the roster with the live member list: it creates
// missing records, refreshes display names, and forces flags on from
// role membership. The sync is one-directional: losing a role never
// clears the corresponding flag
func (mgr *Manager) ResyncAll(live []LiveMember) error {
	logger := log.With().Str("resync", uuid.NewString()).Logger()
	logger.Info().Msg(fmt.Sprintf("Resyncing roster against %d live members", len(live)))
	for _, member := range live {
		if err := mgr.store.Create(member.ID, member.Username, member.JoinedAt); err != nil {
			return err
		}
		if err := mgr.store.SetUsername(member.ID, member.Username); err != nil {
			return err
		}
		if mgr.vipRoleID != "" && slices.Contains(member.RoleIDs, mgr.vipRoleID) {
			if err := mgr.store.SetFlag(member.ID, roster.FlagVIP, true); err != nil {
				return err
			}
			logger.Debug().Msg(fmt.Sprintf("Member %d holds the vip role", member.ID))
		}
		if mgr.invitedRoleID != "" && slices.Contains(member.RoleIDs, mgr.invitedRoleID) {
			if err := mgr.store.SetFlag(member.ID, roster.FlagInvited, true); err != nil {
				return err
			}
			logger.Debug().Msg(fmt.Sprintf("Member %d holds the invited role", member.ID))
		}
	}
	logger.Info().Msg("Resync complete")
	return nil
}

// WaitlistPosition returns the member's 1-based rank under the given
// profile. Outcomes: roster.ErrNotFound when the member is not in the
// roster (or not ranked by the profile), ErrAlreadyInvited when the
// member has already exited the waitlist
func (mgr *Manager) WaitlistPosition(id int64, profile ranking.Profile) (int, error) {
	member, err := mgr.store.Get(id)
	if err != nil {
		return 0, err
	}
	if member.Invited {
		return 0, ErrAlreadyInvited
	}
	snapshot, err := mgr.store.Snapshot()
	if err != nil {
		return 0, err
	}
	position, err := ranking.PositionOf(ranking.Rank(snapshot, profile), id)
	if errors.Is(err, roster.ErrNotFound) {
		// The member exists but the profile filters them out
		return 0, ErrNotOnWaitlist
	}
	return position, err
}

// MemberAtPosition returns the member holding the given rank under the
// given profile, or ranking.ErrOutOfRange
func (mgr *Manager) MemberAtPosition(position int, profile ranking.Profile) (roster.Member, error) {
	snapshot, err := mgr.store.Snapshot()
	if err != nil {
		return roster.Member{}, err
	}
	return ranking.MemberAt(ranking.Rank(snapshot, profile), position)
}

// Stats counts the roster for the periodic housekeeping log
func (mgr *Manager) Stats() (total int, waiting int, invited int, err error) {
	snapshot, err := mgr.store.Snapshot()
	if err != nil {
		return 0, 0, 0, err
	}
	for _, member := range snapshot {
		if member.Invited {
			invited++
		} else {
			waiting++
		}
	}
	return len(snapshot), waiting, invited, nil
}
