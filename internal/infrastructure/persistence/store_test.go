package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), NewMemoryBackend(), Options{})
	require.NoError(t, err)
	return s
}

func TestNewStoreStartsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.ListUsernames())
	assert.False(t, s.Challenge().Configured())
	assert.False(t, s.WeeklyGoal().IsSet())
	assert.Equal(t, "", s.Announcement())
}

func TestGetOrCreateMember(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m, err := s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, member.DefaultDailyGoal, m.DailyGoal)

	// Second call returns the existing member, not a fresh one.
	_, err = s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, s.ListUsernames())
}

func TestGetOrCreateMemberEmptyUsername(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetOrCreateMember(context.Background(), "   ")
	assert.ErrorIs(t, err, shared.ErrEmptyUsername)
	assert.Empty(t, s.ListUsernames())
}

func TestGetOrCreateMemberReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m, err := s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	m.SetSteps("2024-06-10", 99999)

	fresh, err := s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.StepsOn("2024-06-10"))
}

func TestLogStepsAndReadBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))

	m, err := s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5000, m.StepsOn("2024-06-10"))
}

func TestLogStepsOverwritesNotAccumulates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))
	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 8000))

	m, _ := s.GetOrCreateMember(ctx, "alice")
	assert.Equal(t, 8000, m.StepsOn("2024-06-10"))
	assert.Equal(t, 1, m.DaysLogged())
}

func TestLogStepsRejections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	assert.ErrorIs(t, s.LogSteps(ctx, "alice", "2024-06-10", -1), shared.ErrInvalidSteps)
	assert.ErrorIs(t, s.LogSteps(ctx, "alice", "June 10th", 100), shared.ErrMalformedDate)
	assert.ErrorIs(t, s.LogSteps(ctx, "", "2024-06-10", 100), shared.ErrEmptyUsername)

	// A rejected log creates nothing.
	assert.Empty(t, s.ListUsernames())
}

func TestLogStepsZeroIsValid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 0))
	m, _ := s.GetOrCreateMember(ctx, "alice")
	assert.Equal(t, 1, m.DaysLogged())
}

func TestSetGoal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetGoal(ctx, "alice", 12000))
	m, _ := s.GetOrCreateMember(ctx, "alice")
	assert.Equal(t, 12000, m.DailyGoal)

	assert.ErrorIs(t, s.SetGoal(ctx, "alice", 0), shared.ErrInvalidGoal)
	assert.ErrorIs(t, s.SetGoal(ctx, "alice", -5), shared.ErrInvalidGoal)

	// The rejected goal left the old one in place.
	m, _ = s.GetOrCreateMember(ctx, "alice")
	assert.Equal(t, 12000, m.DailyGoal)
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, s.RemoveMember(ctx, "alice"))
	assert.Empty(t, s.ListUsernames())

	assert.ErrorIs(t, s.RemoveMember(ctx, "alice"), shared.ErrNotFound)
}

func TestClearAllMembersKeepsTeamRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, s.StartChallenge(ctx, 100000, "2024-06-01", ""))
	require.NoError(t, s.SetAnnouncement(ctx, "hello"))

	require.NoError(t, s.ClearAllMembers(ctx))
	assert.Empty(t, s.ListUsernames())
	assert.True(t, s.Challenge().Active)
	assert.Equal(t, "hello", s.Announcement())
}

func TestChallengeLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.StartChallenge(ctx, 100000, "2024-06-01", "2024-06-30"))
	c := s.Challenge()
	assert.True(t, c.Active)
	assert.Equal(t, 100000, c.TeamGoal)

	require.NoError(t, s.EndChallenge(ctx, "2024-06-20"))
	c = s.Challenge()
	assert.False(t, c.Active)
	assert.Equal(t, "2024-06-20", c.EndDate)
	assert.Equal(t, 100000, c.TeamGoal) // settings retained after end
}

func TestStartChallengeRejections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	assert.ErrorIs(t, s.StartChallenge(ctx, 0, "2024-06-01", ""), shared.ErrInvalidGoal)
	assert.ErrorIs(t, s.StartChallenge(ctx, 100, "junk", ""), shared.ErrMalformedDate)
	assert.ErrorIs(t, s.StartChallenge(ctx, 100, "2024-06-01", "junk"), shared.ErrMalformedDate)
	assert.False(t, s.Challenge().Configured())
}

func TestSetWeeklyGoal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	today, _ := timeutil.ParseDay("2024-06-12")

	require.NoError(t, s.SetWeeklyGoal(ctx, 70000, today))
	w := s.WeeklyGoal()
	assert.Equal(t, 70000, w.Goal)
	assert.Equal(t, "2024-06-10", w.WeekStart)

	assert.ErrorIs(t, s.SetWeeklyGoal(ctx, -1, today), shared.ErrInvalidGoal)

	// Zero clears the goal.
	require.NoError(t, s.SetWeeklyGoal(ctx, 0, today))
	assert.False(t, s.WeeklyGoal().IsSet())
}

func TestSetAnnouncementTrims(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetAnnouncement(ctx, "  Walk more!  "))
	assert.Equal(t, "Walk more!", s.Announcement())

	require.NoError(t, s.SetAnnouncement(ctx, "   "))
	assert.Equal(t, "", s.Announcement())
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	today, _ := timeutil.ParseDay("2024-06-12")

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))
	require.NoError(t, s.SetGoal(ctx, "alice", 12000))
	require.NoError(t, s.StartChallenge(ctx, 100000, "2024-06-01", ""))
	require.NoError(t, s.SetWeeklyGoal(ctx, 70000, today))
	require.NoError(t, s.SetAnnouncement(ctx, "hello team"))

	doc, err := json.Marshal(s.ExportSnapshot())
	require.NoError(t, err)

	other := newTestStore(t)
	require.NoError(t, other.ImportSnapshot(ctx, doc))

	m, err := other.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5000, m.StepsOn("2024-06-10"))
	assert.Equal(t, 12000, m.DailyGoal)
	assert.True(t, other.Challenge().Active)
	assert.Equal(t, 70000, other.WeeklyGoal().Goal)
	assert.Equal(t, "hello team", other.Announcement())
}

func TestImportUsersOnlyKeepsOtherSections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.StartChallenge(ctx, 100000, "2024-06-01", ""))
	require.NoError(t, s.SetAnnouncement(ctx, "keep me"))

	doc := []byte(`{"users": {"bob": {"dailyGoal": 9000, "history": {"2024-06-01": 1000}}}}`)
	require.NoError(t, s.ImportSnapshot(ctx, doc))

	assert.Equal(t, []string{"bob"}, s.ListUsernames())
	assert.True(t, s.Challenge().Active)
	assert.Equal(t, "keep me", s.Announcement())
}

func TestImportReplacesUsersWholesale(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))

	doc := []byte(`{"users": {"bob": {"dailyGoal": 9000, "history": {}}}}`)
	require.NoError(t, s.ImportSnapshot(ctx, doc))
	assert.Equal(t, []string{"bob"}, s.ListUsernames())
}

func TestImportRejectsMissingUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))

	err := s.ImportSnapshot(ctx, []byte(`{"challenge": {"active": true}}`))
	assert.ErrorIs(t, err, shared.ErrInvalidSnapshot)

	err = s.ImportSnapshot(ctx, []byte(`not json`))
	assert.ErrorIs(t, err, shared.ErrInvalidSnapshot)

	// Rejected imports change nothing.
	assert.Equal(t, []string{"alice"}, s.ListUsernames())
}

func TestImportNormalizesMembers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	doc := []byte(`{"users": {"bob": {"dailyGoal": 0}}}`)
	require.NoError(t, s.ImportSnapshot(ctx, doc))

	m, err := s.GetOrCreateMember(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, member.DefaultDailyGoal, m.DailyGoal)
	assert.NotNil(t, m.History)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	s, err := New(ctx, backend, Options{})
	require.NoError(t, err)
	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, backend, Options{})
	require.NoError(t, err)
	m, err := reopened.GetOrCreateMember(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5000, m.StepsOn("2024-06-10"))
}

func TestStoreLoadsLegacyDocument(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	// A document from before the team-wide sections existed.
	legacy := []byte(`{"users": {"alice": {"dailyGoal": 8000, "history": {"2024-06-10": 5000}}}}`)
	require.NoError(t, backend.Save(ctx, &RawSnapshot{Data: legacy}))

	s, err := New(ctx, backend, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, s.ListUsernames())
	assert.False(t, s.Challenge().Configured())
	assert.False(t, s.WeeklyGoal().IsSet())
	assert.Equal(t, "", s.Announcement())
}

func TestStoreRejectsCorruptDocument(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, &RawSnapshot{Data: []byte("{broken")}))

	_, err := New(ctx, backend, Options{})
	assert.ErrorIs(t, err, shared.ErrInvalidSnapshot)
}

// busRecorder collects published events for assertions.
type busRecorder struct {
	events []shared.Event
}

func (r *busRecorder) Publish(event shared.Event) {
	r.events = append(r.events, event)
}

func TestMutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	bus := &busRecorder{}

	s, err := New(ctx, NewMemoryBackend(), Options{Bus: bus})
	require.NoError(t, err)

	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 5000))
	require.NoError(t, s.LogSteps(ctx, "alice", "2024-06-10", 8000))

	require.Len(t, bus.events, 2)

	logged, ok := bus.events[0].(shared.StepsLoggedEvent)
	require.True(t, ok)
	assert.Equal(t, "alice", logged.Username)
	assert.Equal(t, 5000, logged.Steps)
	assert.Equal(t, 0, logged.Previous)

	relogged := bus.events[1].(shared.StepsLoggedEvent)
	assert.Equal(t, 8000, relogged.Steps)
	assert.Equal(t, 5000, relogged.Previous)
}

func TestRejectedMutationPublishesNothing(t *testing.T) {
	ctx := context.Background()
	bus := &busRecorder{}

	s, err := New(ctx, NewMemoryBackend(), Options{Bus: bus})
	require.NoError(t, err)

	assert.Error(t, s.LogSteps(ctx, "alice", "junk", 5000))
	assert.Empty(t, bus.events)
}
