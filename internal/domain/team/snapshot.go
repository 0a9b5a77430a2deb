// Package team contains the team-wide data graph: the full persisted snapshot
// and the fixed milestone ladder evaluated over it.
package team

import (
	"sort"

	"github.com/step-hub/team-step-hub/internal/domain/challenge"
	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/internal/domain/weeklygoal"
)

// Snapshot is the full data graph the Store persists and the read side
// computes over: every member's history plus the three team-wide records.
// The JSON field names are the external document shape; loading a document
// that predates a section synthesizes that section's defaults instead of
// failing.
type Snapshot struct {
	// Users maps username to member record.
	Users map[string]*member.Member `json:"users"`

	// Challenge is the single team challenge record.
	Challenge challenge.Challenge `json:"challenge"`

	// WeeklyGoal is the single retained weekly team goal.
	WeeklyGoal weeklygoal.WeeklyGoal `json:"weeklyGoal"`

	// AdminMessage is the team-wide announcement, empty when unset.
	AdminMessage string `json:"adminMessage"`
}

// NewSnapshot returns an empty snapshot with every section at its documented
// default.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:        make(map[string]*member.Member),
		Challenge:    challenge.Challenge{},
		WeeklyGoal:   weeklygoal.WeeklyGoal{},
		AdminMessage: "",
	}
}

// Clone returns a deep copy of the snapshot. Stores hand out clones so that
// read-side computations can never alias the persisted state.
func (s *Snapshot) Clone() *Snapshot {
	users := make(map[string]*member.Member, len(s.Users))
	for name, m := range s.Users {
		users[name] = m.Clone()
	}
	return &Snapshot{
		Users:        users,
		Challenge:    s.Challenge,
		WeeklyGoal:   s.WeeklyGoal,
		AdminMessage: s.AdminMessage,
	}
}

// Usernames returns all known usernames in sorted order. Go maps have no
// insertion order, so sorted order is the deterministic baseline every
// tie-break and export references.
func (s *Snapshot) Usernames() []string {
	names := make([]string, 0, len(s.Users))
	for name := range s.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Member returns the member record for a username, nil when unknown.
func (s *Snapshot) Member(name string) *member.Member {
	return s.Users[name]
}

// Normalize repairs a decoded snapshot in place: nil sections get their
// documented defaults and member records learn their map key and grow empty
// history maps. Applied once at load, not scattered through read paths.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = make(map[string]*member.Member)
	}
	for name, m := range s.Users {
		if m == nil {
			m = member.New(name)
			s.Users[name] = m
			continue
		}
		m.Name = name
		if m.History == nil {
			m.History = make(map[string]int)
		}
		if m.DailyGoal <= 0 {
			m.DailyGoal = member.DefaultDailyGoal
		}
	}
}
