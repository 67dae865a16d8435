package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/draftnight/go/internal/models"
)

// fakeStore is an in-memory Store for lifecycle tests.
type fakeStore struct {
	event  *models.DraftEvent
	teams  []models.Team
	picks  int
	purged bool
	outbox []string
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return fn(f)
}

func (f *fakeStore) CreateEvent(ctx context.Context, event models.DraftEvent) error {
	f.event = &event
	return nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error) {
	if f.event == nil || f.event.ID != id {
		return nil, ErrNotFound
	}
	ev := *f.event
	return &ev, nil
}

func (f *fakeStore) GetEventForUpdate(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error) {
	return f.GetEvent(ctx, id)
}

func (f *fakeStore) ListEvents(ctx context.Context) ([]models.DraftEvent, error) {
	if f.event == nil {
		return nil, nil
	}
	return []models.DraftEvent{*f.event}, nil
}

func (f *fakeStore) StartEvent(ctx context.Context, id uuid.UUID, clockEndsAt time.Time) error {
	f.event.Phase = models.EventPhaseLive
	f.event.ClockEndsAt = &clockEndsAt
	return nil
}

func (f *fakeStore) PauseEvent(ctx context.Context, id uuid.UUID, remainingSecs int) error {
	f.event.IsPaused = true
	f.event.ClockEndsAt = nil
	f.event.PauseRemainingSecs = remainingSecs
	return nil
}

func (f *fakeStore) ResumeEvent(ctx context.Context, id uuid.UUID, clockEndsAt time.Time) error {
	f.event.IsPaused = false
	f.event.ClockEndsAt = &clockEndsAt
	f.event.PauseRemainingSecs = 0
	return nil
}

func (f *fakeStore) CompleteEvent(ctx context.Context, id uuid.UUID) error {
	f.event.Phase = models.EventPhaseComplete
	f.event.IsPaused = false
	f.event.ClockEndsAt = nil
	f.event.PauseRemainingSecs = 0
	return nil
}

func (f *fakeStore) ResetEventState(ctx context.Context, id uuid.UUID) error {
	f.event.Phase = models.EventPhaseSetup
	f.event.CurrentPick = 1
	f.event.IsPaused = false
	f.event.ClockEndsAt = nil
	f.event.PauseRemainingSecs = 0
	return nil
}

func (f *fakeStore) PurgeEventData(ctx context.Context, id uuid.UUID) error {
	f.purged = true
	f.teams = nil
	f.picks = 0
	return nil
}

func (f *fakeStore) GetTeamsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeStore) RecentPicks(ctx context.Context, eventID uuid.UUID, limit int) ([]PickView, error) {
	return nil, nil
}

func (f *fakeStore) CountPicks(ctx context.Context, eventID uuid.UUID) (int, error) {
	return f.picks, nil
}

func (f *fakeStore) InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	f.outbox = append(f.outbox, eventType)
	return nil
}

func newLiveFixture(numTeams int) (*fakeStore, *App, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	store := &fakeStore{
		event: &models.DraftEvent{
			ID:            uuid.New(),
			Name:          "test",
			Phase:         models.EventPhaseLive,
			Rounds:        3,
			CurrentPick:   1,
			PickClockSecs: 60,
		},
	}
	for i := 0; i < numTeams; i++ {
		store.teams = append(store.teams, models.Team{ID: uuid.New(), DraftOrder: i + 1})
	}
	return store, NewApp(store, clock), clock
}

// TestCreateEventValidation rejects missing names and non-positive
// rounds or clocks.
func TestCreateEventValidation(t *testing.T) {
	app := NewApp(&fakeStore{}, clockwork.NewFakeClock())

	cases := []CreateEventRequest{
		{Name: "", Rounds: 3, PickClockSecs: 60},
		{Name: "d", Rounds: 0, PickClockSecs: 60},
		{Name: "d", Rounds: 3, PickClockSecs: 0},
	}
	for i, req := range cases {
		if _, err := app.CreateEvent(context.Background(), req); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

// TestCreateEvent starts in SETUP with the pointer at 1.
func TestCreateEvent(t *testing.T) {
	store := &fakeStore{}
	app := NewApp(store, clockwork.NewFakeClock())

	created, err := app.CreateEvent(context.Background(), CreateEventRequest{
		Name: "draft night", Rounds: 4, PickClockSecs: 90,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.Phase != models.EventPhaseSetup {
		t.Fatalf("phase = %s, want SETUP", created.Phase)
	}
	if created.CurrentPick != 1 {
		t.Fatalf("current pick = %d, want 1", created.CurrentPick)
	}
}

// TestStartDraft arms the clock and emits DraftStarted; starting twice
// is an invalid transition.
func TestStartDraft(t *testing.T) {
	store, app, clock := newLiveFixture(2)
	store.event.Phase = models.EventPhaseSetup

	if err := app.StartDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("StartDraft: %v", err)
	}
	if store.event.Phase != models.EventPhaseLive {
		t.Fatalf("phase = %s, want LIVE", store.event.Phase)
	}
	want := clock.Now().Add(60 * time.Second)
	if store.event.ClockEndsAt == nil || !store.event.ClockEndsAt.Equal(want) {
		t.Fatalf("deadline = %v, want %v", store.event.ClockEndsAt, want)
	}
	if len(store.outbox) != 1 || store.outbox[0] != "DraftStarted" {
		t.Fatalf("outbox = %v, want [DraftStarted]", store.outbox)
	}

	if err := app.StartDraft(context.Background(), store.event.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second start: err = %v, want ErrInvalidTransition", err)
	}
}

// TestStartDraftNoTeams refuses to start with an empty team list.
func TestStartDraftNoTeams(t *testing.T) {
	store, app, _ := newLiveFixture(0)
	store.event.Phase = models.EventPhaseSetup

	if err := app.StartDraft(context.Background(), store.event.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

// TestPauseBanksRemaining pauses 20s into a 60s clock and banks 40s;
// resuming restores a 40s deadline from the resume instant.
func TestPauseBanksRemaining(t *testing.T) {
	store, app, clock := newLiveFixture(2)
	deadline := clock.Now().Add(60 * time.Second)
	store.event.ClockEndsAt = &deadline

	clock.Advance(20 * time.Second)
	if err := app.PauseDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	if !store.event.IsPaused {
		t.Fatal("event not paused")
	}
	if store.event.PauseRemainingSecs != 40 {
		t.Fatalf("banked = %d, want 40", store.event.PauseRemainingSecs)
	}
	if store.event.ClockEndsAt != nil {
		t.Fatal("deadline should be cleared while paused")
	}

	clock.Advance(5 * time.Minute)
	if err := app.ResumeDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("ResumeDraft: %v", err)
	}
	want := clock.Now().Add(40 * time.Second)
	if store.event.ClockEndsAt == nil || !store.event.ClockEndsAt.Equal(want) {
		t.Fatalf("deadline = %v, want %v", store.event.ClockEndsAt, want)
	}
	if got := store.outbox; len(got) != 2 || got[0] != "DraftPaused" || got[1] != "DraftResumed" {
		t.Fatalf("outbox = %v, want [DraftPaused DraftResumed]", got)
	}
}

// TestPauseExpiredClockBanksZero pauses after the deadline passed and
// banks zero, never a negative remainder. Resume restores exactly the
// bank: the deadline lands on the resume instant and the turn stays
// expired rather than getting a fresh clock.
func TestPauseExpiredClockBanksZero(t *testing.T) {
	store, app, clock := newLiveFixture(2)
	deadline := clock.Now().Add(10 * time.Second)
	store.event.ClockEndsAt = &deadline

	clock.Advance(30 * time.Second)
	if err := app.PauseDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	if store.event.PauseRemainingSecs != 0 {
		t.Fatalf("banked = %d, want 0", store.event.PauseRemainingSecs)
	}

	clock.Advance(5 * time.Minute)
	if err := app.ResumeDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("ResumeDraft: %v", err)
	}
	want := clock.Now()
	if store.event.ClockEndsAt == nil || !store.event.ClockEndsAt.Equal(want) {
		t.Fatalf("deadline = %v, want resume instant %v", store.event.ClockEndsAt, want)
	}
}

// TestPauseResumeGuards rejects double pause and resume of a running
// clock.
func TestPauseResumeGuards(t *testing.T) {
	store, app, _ := newLiveFixture(2)

	if err := app.ResumeDraft(context.Background(), store.event.ID); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("resume running: err = %v, want ErrNotPaused", err)
	}
	if err := app.PauseDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("PauseDraft: %v", err)
	}
	if err := app.PauseDraft(context.Background(), store.event.ID); !errors.Is(err, ErrAlreadyPaused) {
		t.Fatalf("double pause: err = %v, want ErrAlreadyPaused", err)
	}
}

// TestStopDraftKeepsPicks completes a live draft and leaves the pick
// count untouched.
func TestStopDraftKeepsPicks(t *testing.T) {
	store, app, _ := newLiveFixture(2)
	store.picks = 3

	if err := app.StopDraft(context.Background(), store.event.ID); err != nil {
		t.Fatalf("StopDraft: %v", err)
	}
	if store.event.Phase != models.EventPhaseComplete {
		t.Fatalf("phase = %s, want COMPLETE", store.event.Phase)
	}
	if store.picks != 3 {
		t.Fatalf("picks = %d, want 3", store.picks)
	}
	if len(store.outbox) != 1 || store.outbox[0] != "DraftCompleted" {
		t.Fatalf("outbox = %v, want [DraftCompleted]", store.outbox)
	}
}

// TestResetEvent purges dependent data and returns the event to SETUP.
func TestResetEvent(t *testing.T) {
	store, app, _ := newLiveFixture(2)
	store.picks = 5

	if err := app.ResetEvent(context.Background(), store.event.ID); err != nil {
		t.Fatalf("ResetEvent: %v", err)
	}
	if !store.purged {
		t.Fatal("event data not purged")
	}
	if store.event.Phase != models.EventPhaseSetup || store.event.CurrentPick != 1 {
		t.Fatalf("event = %+v, want SETUP at pick 1", store.event)
	}
}

// TestReadState reports the on-clock team from snake order and computes
// remaining time from the wall-clock deadline.
func TestReadState(t *testing.T) {
	store, app, clock := newLiveFixture(4)
	store.event.CurrentPick = 6 // round 2 reversed: index 2
	deadline := clock.Now().Add(45 * time.Second)
	store.event.ClockEndsAt = &deadline

	state, err := app.ReadState(context.Background(), store.event.ID, 10)
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if state.CurrentRound != 2 {
		t.Fatalf("round = %d, want 2", state.CurrentRound)
	}
	if state.OnClockTeamID == nil || *state.OnClockTeamID != store.teams[2].ID {
		t.Fatalf("on clock = %v, want team index 2", state.OnClockTeamID)
	}
	if state.TimeRemainingSecs == nil || *state.TimeRemainingSecs != 45 {
		t.Fatalf("remaining = %v, want 45", state.TimeRemainingSecs)
	}
	if state.TotalPicks != 12 {
		t.Fatalf("total picks = %d, want 12", state.TotalPicks)
	}
}

// TestReadStatePaused reports the banked remainder, not a deadline
// delta.
func TestReadStatePaused(t *testing.T) {
	store, app, _ := newLiveFixture(2)
	store.event.IsPaused = true
	store.event.PauseRemainingSecs = 17

	state, err := app.ReadState(context.Background(), store.event.ID, 10)
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if state.TimeRemainingSecs == nil || *state.TimeRemainingSecs != 17 {
		t.Fatalf("remaining = %v, want 17", state.TimeRemainingSecs)
	}
}
