package persistence

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/challenge"
	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/internal/domain/team"
	"github.com/step-hub/team-step-hub/internal/domain/weeklygoal"
	"github.com/step-hub/team-step-hub/pkg/logger"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

const storeDomain = "store"

// EventPublisher publishes domain events after successful mutations. The
// messaging package provides the in-process implementation.
type EventPublisher interface {
	Publish(event shared.Event)
}

// Options configures a Store.
type Options struct {
	// Bus receives one domain event per successful mutation (optional).
	Bus EventPublisher

	// Logger for structured logging (optional, defaults to the package
	// default logger).
	Logger *logger.Logger
}

// Store owns the persisted team snapshot. It keeps the current state in
// memory, serializes all access behind one mutex (the single-writer gate),
// and writes the whole document through the bound Backend on every mutation.
// A rejected operation never changes persisted state: mutations are applied
// to a working copy that only becomes current after the backend write
// succeeds.
type Store struct {
	mu      sync.Mutex
	backend Backend
	bus     EventPublisher
	log     *logger.Logger
	data    *team.Snapshot
}

// New creates a Store bound to the given backend, loading the stored snapshot
// or starting from defaults when nothing is stored yet. Documents that
// predate the challenge, weekly-goal, or announcement sections load fine:
// missing sections are materialized with their documented defaults here, once,
// not scattered through read paths.
func New(ctx context.Context, backend Backend, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	s := &Store{
		backend: backend,
		bus:     opts.Bus,
		log:     log.With(logger.String("component", storeDomain)),
	}

	raw, err := backend.Load(ctx)
	switch {
	case err == nil:
		snapshot, err := decodeSnapshot(raw.Data)
		if err != nil {
			return nil, shared.WrapError(storeDomain, "New", shared.ErrInvalidSnapshot, "stored snapshot is not decodable", err)
		}
		s.data = snapshot
	case err == ErrNoSnapshot:
		s.data = team.NewSnapshot()
	default:
		return nil, err
	}

	s.log.Info("store opened", logger.Int("members", len(s.data.Users)))
	return s, nil
}

// decodeSnapshot decodes a stored document and normalizes missing sections.
func decodeSnapshot(data []byte) (*team.Snapshot, error) {
	snapshot := team.NewSnapshot()
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, err
	}
	snapshot.Normalize()
	return snapshot, nil
}

// write persists a working copy and, only on success, makes it current.
func (s *Store) write(ctx context.Context, next *team.Snapshot) error {
	data, err := json.Marshal(next)
	if err != nil {
		return shared.WrapError(storeDomain, "write", shared.ErrInvalidSnapshot, "snapshot is not encodable", err)
	}
	if err := s.backend.Save(ctx, &RawSnapshot{Data: data}); err != nil {
		return err
	}
	s.data = next
	return nil
}

// publish emits a domain event after a successful mutation.
func (s *Store) publish(event shared.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MEMBERS
// ══════════════════════════════════════════════════════════════════════════════

// GetOrCreateMember returns the member with the given username, lazily
// creating it with the default daily goal. Creation is a persisted side
// effect. The returned member is a copy; mutating it does not touch the store.
func (s *Store) GetOrCreateMember(ctx context.Context, username string) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !member.Username(username).IsValid() {
		return nil, shared.NewDomainError(storeDomain, "GetOrCreateMember", shared.ErrEmptyUsername, "username is required")
	}

	if existing, ok := s.data.Users[username]; ok {
		return existing.Clone(), nil
	}

	next := s.data.Clone()
	created := member.New(username)
	next.Users[username] = created
	if err := s.write(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info("member created", logger.Username(username), logger.Goal(created.DailyGoal))
	s.publish(shared.MemberCreatedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventMemberCreated, username),
		Username:  username,
		DailyGoal: created.DailyGoal,
	})
	return created.Clone(), nil
}

// SetGoal sets a member's daily goal, creating the member if needed. Goals
// must be positive.
func (s *Store) SetGoal(ctx context.Context, username string, goal int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !member.Username(username).IsValid() {
		return shared.NewDomainError(storeDomain, "SetGoal", shared.ErrEmptyUsername, "username is required")
	}
	if goal <= 0 {
		return shared.NewDomainError(storeDomain, "SetGoal", shared.ErrInvalidGoal, "daily goal must be positive")
	}

	next := s.data.Clone()
	m, ok := next.Users[username]
	if !ok {
		m = member.New(username)
		next.Users[username] = m
	}
	oldGoal := m.DailyGoal
	m.DailyGoal = goal

	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("daily goal updated", logger.Username(username), logger.Goal(goal))
	s.publish(shared.GoalChangedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventGoalChanged, username),
		Username:  username,
		OldGoal:   oldGoal,
		NewGoal:   goal,
	})
	return nil
}

// LogSteps records a step count for a member on a date, overwriting any
// existing entry for that date. Steps must be non-negative and the date must
// be a valid ISO calendar date; the member is created lazily if unknown.
func (s *Store) LogSteps(ctx context.Context, username, date string, steps int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !member.Username(username).IsValid() {
		return shared.NewDomainError(storeDomain, "LogSteps", shared.ErrEmptyUsername, "username is required")
	}
	if steps < 0 {
		return shared.NewDomainError(storeDomain, "LogSteps", shared.ErrInvalidSteps, "steps cannot be negative")
	}
	if _, err := timeutil.ParseDay(date); err != nil {
		return shared.WrapError(storeDomain, "LogSteps", shared.ErrMalformedDate, "date is not an ISO calendar date", err)
	}

	next := s.data.Clone()
	m, ok := next.Users[username]
	if !ok {
		m = member.New(username)
		next.Users[username] = m
	}
	previous := m.StepsOn(date)
	m.SetSteps(date, steps)

	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("steps logged", logger.Username(username), logger.Day(date), logger.Steps(steps))
	s.publish(shared.StepsLoggedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventStepsLogged, username),
		Username:  username,
		Date:      date,
		Steps:     steps,
		Previous:  previous,
	})
	return nil
}

// ListUsernames returns all known usernames in sorted order.
func (s *Store) ListUsernames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Usernames()
}

// RemoveMember deletes a member and their whole history. Challenge,
// weekly-goal, and announcement state are unaffected.
func (s *Store) RemoveMember(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Users[username]; !ok {
		return shared.NewDomainError(storeDomain, "RemoveMember", shared.ErrNotFound, "unknown member")
	}

	next := s.data.Clone()
	delete(next.Users, username)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("member removed", logger.Username(username))
	s.publish(shared.MemberRemovedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventMemberRemoved, username),
		Username:  username,
	})
	return nil
}

// ClearAllMembers deletes every member. Challenge, weekly-goal, and
// announcement state are unaffected.
func (s *Store) ClearAllMembers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	removed := len(next.Users)
	next.Users = make(map[string]*member.Member)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Warn("all members cleared", logger.Int("removed", removed))
	s.publish(shared.MembersClearedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventMembersCleared, "team"),
		Removed:   removed,
	})
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TEAM-WIDE RECORDS
// ══════════════════════════════════════════════════════════════════════════════

// Challenge returns the current challenge record.
func (s *Store) Challenge() challenge.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Challenge
}

// StartChallenge starts (or restarts) the team challenge. The previous
// challenge's settings are discarded; step history is untouched.
func (s *Store) StartChallenge(ctx context.Context, teamGoal int, startDate, targetEndDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if teamGoal <= 0 {
		return shared.NewDomainError(storeDomain, "StartChallenge", shared.ErrInvalidGoal, "team goal must be positive")
	}
	if _, err := timeutil.ParseDay(startDate); err != nil {
		return shared.WrapError(storeDomain, "StartChallenge", shared.ErrMalformedDate, "start date is not an ISO calendar date", err)
	}
	if targetEndDate != "" {
		if _, err := timeutil.ParseDay(targetEndDate); err != nil {
			return shared.WrapError(storeDomain, "StartChallenge", shared.ErrMalformedDate, "target end date is not an ISO calendar date", err)
		}
	}

	next := s.data.Clone()
	next.Challenge = challenge.Start(teamGoal, startDate, targetEndDate)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("challenge started", logger.Goal(teamGoal), logger.String("start_date", startDate))
	s.publish(shared.ChallengeStartedEvent{
		BaseEvent:     shared.NewBaseEvent(shared.EventChallengeStarted, "team"),
		TeamGoal:      teamGoal,
		StartDate:     startDate,
		TargetEndDate: targetEndDate,
	})
	return nil
}

// EndChallenge marks the challenge inactive, stamping the end date. All
// challenge fields and all step history are retained.
func (s *Store) EndChallenge(ctx context.Context, endDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := timeutil.ParseDay(endDate); err != nil {
		return shared.WrapError(storeDomain, "EndChallenge", shared.ErrMalformedDate, "end date is not an ISO calendar date", err)
	}

	next := s.data.Clone()
	next.Challenge.End(endDate)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("challenge ended", logger.String("end_date", endDate))
	s.publish(shared.ChallengeEndedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventChallengeEnded, "team"),
		EndDate:   endDate,
	})
	return nil
}

// WeeklyGoal returns the current weekly goal record.
func (s *Store) WeeklyGoal() weeklygoal.WeeklyGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.WeeklyGoal
}

// SetWeeklyGoal sets the weekly team goal, stamping the Monday of the week
// containing today - always the current week, whatever week the caller had in
// mind.
func (s *Store) SetWeeklyGoal(ctx context.Context, goal int, today time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal < 0 {
		return shared.NewDomainError(storeDomain, "SetWeeklyGoal", shared.ErrInvalidGoal, "weekly goal cannot be negative")
	}

	next := s.data.Clone()
	next.WeeklyGoal = weeklygoal.Set(goal, today)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("weekly goal set", logger.Goal(goal), logger.String("week_start", next.WeeklyGoal.WeekStart))
	s.publish(shared.WeeklyGoalSetEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventWeeklyGoalSet, "team"),
		Goal:      goal,
		WeekStart: next.WeeklyGoal.WeekStart,
	})
	return nil
}

// Announcement returns the team-wide announcement, empty when unset.
func (s *Store) Announcement() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AdminMessage
}

// SetAnnouncement sets the team-wide announcement. The text is trimmed; an
// empty result clears the announcement.
func (s *Store) SetAnnouncement(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	next.AdminMessage = strings.TrimSpace(text)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.publish(shared.AnnouncementSetEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventAnnouncementSet, "team"),
		Cleared:   next.AdminMessage == "",
	})
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT EXPORT / IMPORT
// ══════════════════════════════════════════════════════════════════════════════

// ExportSnapshot returns a deep copy of the full data graph for backup.
func (s *Store) ExportSnapshot() *team.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// snapshotSections mirrors the snapshot document with presence-detectable
// sections, for backup import.
type snapshotSections struct {
	Users        map[string]*member.Member `json:"users"`
	Challenge    *challenge.Challenge      `json:"challenge"`
	WeeklyGoal   *weeklygoal.WeeklyGoal    `json:"weeklyGoal"`
	AdminMessage *string                   `json:"adminMessage"`
}

// ImportSnapshot restores state from a backup document. Each top-level
// section present in the document replaces the stored section wholesale;
// sections absent from the document are left untouched. A document with no
// users section is rejected with ErrInvalidSnapshot and nothing changes.
func (s *Store) ImportSnapshot(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sections snapshotSections
	if err := json.Unmarshal(doc, &sections); err != nil {
		return shared.WrapError(storeDomain, "ImportSnapshot", shared.ErrInvalidSnapshot, "document is not valid JSON", err)
	}
	if sections.Users == nil {
		return shared.NewDomainError(storeDomain, "ImportSnapshot", shared.ErrInvalidSnapshot, "document has no users section")
	}

	next := s.data.Clone()
	next.Users = sections.Users
	if sections.Challenge != nil {
		next.Challenge = *sections.Challenge
	}
	if sections.WeeklyGoal != nil {
		next.WeeklyGoal = *sections.WeeklyGoal
	}
	if sections.AdminMessage != nil {
		next.AdminMessage = *sections.AdminMessage
	}
	next.Normalize()

	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.log.Info("snapshot restored", logger.Int("members", len(next.Users)))
	s.publish(shared.SnapshotRestoredEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventSnapshotRestored, "team"),
		Members:   len(next.Users),
	})
	return nil
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
