package pick

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/draftnight/go/internal/models"
)

// fakeStore is an in-memory Store. WithTx serializes callers under a
// mutex and snapshots state so a failed transaction leaves nothing
// behind, mirroring the row lock and rollback the SQL store relies on.
type fakeStore struct {
	mu sync.Mutex

	event   *models.DraftEvent
	teams   []models.Team
	players map[uuid.UUID]*models.Player
	picks   map[int]models.Pick // keyed by overall
	links   map[uuid.UUID]*models.SiblingLink
	outbox  []string
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

type fakeSnapshot struct {
	event   models.DraftEvent
	players map[uuid.UUID]models.Player
	picks   map[int]models.Pick
	outbox  []string
}

func (f *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		event:   *f.event,
		players: make(map[uuid.UUID]models.Player, len(f.players)),
		picks:   make(map[int]models.Pick, len(f.picks)),
		outbox:  append([]string(nil), f.outbox...),
	}
	for id, p := range f.players {
		snap.players[id] = *p
	}
	for ov, p := range f.picks {
		snap.picks[ov] = p
	}
	return snap
}

func (f *fakeStore) restore(snap fakeSnapshot) {
	ev := snap.event
	f.event = &ev
	f.players = make(map[uuid.UUID]*models.Player, len(snap.players))
	for id, p := range snap.players {
		cp := p
		f.players[id] = &cp
	}
	f.picks = snap.picks
	f.outbox = snap.outbox
}

func (f *fakeStore) GetEventForUpdate(ctx context.Context, eventID uuid.UUID) (*models.DraftEvent, error) {
	if f.event == nil || f.event.ID != eventID {
		return nil, ErrEventNotFound
	}
	ev := *f.event
	return &ev, nil
}

func (f *fakeStore) GetTeamsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeStore) GetPlayer(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	p, ok := f.players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CommittedOveralls(ctx context.Context, eventID uuid.UUID) (map[int]bool, error) {
	committed := make(map[int]bool, len(f.picks))
	for ov := range f.picks {
		committed[ov] = true
	}
	return committed, nil
}

func (f *fakeStore) InsertPick(ctx context.Context, pick models.Pick) error {
	if _, taken := f.picks[pick.OverallPick]; taken {
		return ErrSlotTaken
	}
	f.picks[pick.OverallPick] = pick
	return nil
}

func (f *fakeStore) MarkPlayerDrafted(ctx context.Context, playerID, teamID uuid.UUID, at time.Time) error {
	p, ok := f.players[playerID]
	if !ok || p.IsDrafted {
		return ErrPlayerDrafted
	}
	p.IsDrafted = true
	p.DraftedTeamID = &teamID
	p.DraftedAt = &at
	return nil
}

func (f *fakeStore) UpdateCurrentPick(ctx context.Context, eventID uuid.UUID, currentPick int) error {
	f.event.CurrentPick = currentPick
	return nil
}

func (f *fakeStore) UpdateClockDeadline(ctx context.Context, eventID uuid.UUID, endsAt time.Time) error {
	f.event.ClockEndsAt = &endsAt
	return nil
}

func (f *fakeStore) CompleteEvent(ctx context.Context, eventID uuid.UUID) error {
	f.event.Phase = models.EventPhaseComplete
	f.event.IsPaused = false
	f.event.ClockEndsAt = nil
	f.event.PauseRemainingSecs = 0
	return nil
}

func (f *fakeStore) GetSiblingLink(ctx context.Context, playerID uuid.UUID) (*models.SiblingLink, error) {
	return f.links[playerID], nil
}

func (f *fakeStore) NextUndraftedInGroup(ctx context.Context, eventID uuid.UUID, groupKey string, excludePlayerID uuid.UUID) (*models.Player, error) {
	var best *models.Player
	for id, link := range f.links {
		if link.GroupKey != groupKey || id == excludePlayerID {
			continue
		}
		p := f.players[id]
		if p == nil || !p.Eligible || p.IsDrafted {
			continue
		}
		if best == nil || p.CreatedAt.Before(best.CreatedAt) {
			cp := *p
			best = &cp
		}
	}
	return best, nil
}

func (f *fakeStore) InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	f.outbox = append(f.outbox, eventType)
	return nil
}

// newFixture builds a LIVE event with numTeams teams and one eligible
// player per team per round, current pick 1.
func newFixture(numTeams, rounds int) (*fakeStore, []uuid.UUID) {
	now := time.Now().UTC()
	store := &fakeStore{
		event: &models.DraftEvent{
			ID:            uuid.New(),
			Name:          "test draft",
			Phase:         models.EventPhaseLive,
			Rounds:        rounds,
			CurrentPick:   1,
			PickClockSecs: 60,
		},
		players: make(map[uuid.UUID]*models.Player),
		picks:   make(map[int]models.Pick),
		links:   make(map[uuid.UUID]*models.SiblingLink),
	}

	for i := 0; i < numTeams; i++ {
		store.teams = append(store.teams, models.Team{
			ID:         uuid.New(),
			EventID:    store.event.ID,
			Name:       "team",
			DraftOrder: i + 1,
		})
	}

	var playerIDs []uuid.UUID
	for i := 0; i < numTeams*rounds; i++ {
		id := uuid.New()
		store.players[id] = &models.Player{
			ID:        id,
			EventID:   store.event.ID,
			FullName:  "player",
			Eligible:  true,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		playerIDs = append(playerIDs, id)
	}
	return store, playerIDs
}

func admin() Actor {
	return Actor{Role: models.RoleAdmin}
}

func coach(teamID uuid.UUID) Actor {
	return Actor{Role: models.RoleCoach, TeamID: teamID}
}

// TestCommitPickOnClock commits the on-the-clock slot as the owning
// coach and checks the pointer and clock deadline advance.
func TestCommitPickOnClock(t *testing.T) {
	store, players := newFixture(4, 2)
	clock := clockwork.NewFakeClock()
	app := NewApp(store, clock)

	resp, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 1},
		Actor:    coach(store.teams[0].ID),
	})
	if err != nil {
		t.Fatalf("CommitPick: %v", err)
	}
	if resp.OverallPick != 1 {
		t.Fatalf("overall = %d, want 1", resp.OverallPick)
	}
	if store.event.CurrentPick != 2 {
		t.Fatalf("current pick = %d, want 2", store.event.CurrentPick)
	}
	if store.event.ClockEndsAt == nil {
		t.Fatal("clock deadline not set after advance")
	}
	if p := store.players[players[0]]; !p.IsDrafted || *p.DraftedTeamID != store.teams[0].ID {
		t.Fatalf("player not marked drafted for team: %+v", p)
	}
	if len(store.outbox) != 1 || store.outbox[0] != "PickMade" {
		t.Fatalf("outbox = %v, want [PickMade]", store.outbox)
	}
}

// TestCommitPickByTeamRound resolves a (team, round) selector onto the
// snake-order slot. Team at index 1 of 4 in round 2 holds overall 7.
func TestCommitPickByTeamRound(t *testing.T) {
	store, players := newFixture(4, 3)
	app := NewApp(store, clockwork.NewFakeClock())

	resp, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{TeamID: store.teams[1].ID, Round: 2},
		Actor:    admin(),
	})
	if err != nil {
		t.Fatalf("CommitPick: %v", err)
	}
	if resp.OverallPick != 7 {
		t.Fatalf("overall = %d, want 7", resp.OverallPick)
	}
	// Slot 7 is ahead of the pointer, so the pointer stays put.
	if store.event.CurrentPick != 1 {
		t.Fatalf("current pick = %d, want 1", store.event.CurrentPick)
	}
}

// TestCommitPickSelectorBothForms rejects a selector naming both an
// overall number and a team/round pair.
func TestCommitPickSelectorBothForms(t *testing.T) {
	store, players := newFixture(4, 2)
	app := NewApp(store, clockwork.NewFakeClock())

	_, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 1, TeamID: store.teams[0].ID, Round: 1},
		Actor:    admin(),
	})
	if !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("err = %v, want ErrInvalidSelector", err)
	}
}

// TestCommitPickEventNotLive rejects commits against SETUP and COMPLETE
// events for any role.
func TestCommitPickEventNotLive(t *testing.T) {
	for _, phase := range []models.EventPhase{models.EventPhaseSetup, models.EventPhaseComplete} {
		store, players := newFixture(4, 2)
		store.event.Phase = phase
		app := NewApp(store, clockwork.NewFakeClock())

		_, err := app.CommitPick(context.Background(), CommitPickRequest{
			EventID:  store.event.ID,
			PlayerID: players[0],
			Selector: Selector{Overall: 1},
			Actor:    admin(),
		})
		if !errors.Is(err, ErrEventNotLive) {
			t.Fatalf("phase %s: err = %v, want ErrEventNotLive", phase, err)
		}
	}
}

// TestCommitPickPausedCoach rejects coach commits while paused but lets
// the admin fill slots.
func TestCommitPickPausedCoach(t *testing.T) {
	store, players := newFixture(4, 2)
	store.event.IsPaused = true
	app := NewApp(store, clockwork.NewFakeClock())

	_, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 1},
		Actor:    coach(store.teams[0].ID),
	})
	if !errors.Is(err, ErrDraftPaused) {
		t.Fatalf("coach err = %v, want ErrDraftPaused", err)
	}

	if _, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 1},
		Actor:    admin(),
	}); err != nil {
		t.Fatalf("admin err = %v, want nil", err)
	}
	// Advancing while paused must not arm the clock.
	if store.event.ClockEndsAt != nil {
		t.Fatal("clock deadline set while paused")
	}
}

// TestCommitPickNotOnClock rejects a coach committing another team's
// slot or their own future slot.
func TestCommitPickNotOnClock(t *testing.T) {
	store, players := newFixture(4, 2)
	app := NewApp(store, clockwork.NewFakeClock())

	// Overall 2 belongs to team index 1; team 0's coach may not take it.
	_, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 2},
		Actor:    coach(store.teams[0].ID),
	})
	if !errors.Is(err, ErrNotOnClock) {
		t.Fatalf("other team's slot: err = %v, want ErrNotOnClock", err)
	}

	// Round 2 slot of team 0 is theirs but not on the clock yet.
	_, err = app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{TeamID: store.teams[0].ID, Round: 2},
		Actor:    coach(store.teams[0].ID),
	})
	if !errors.Is(err, ErrNotOnClock) {
		t.Fatalf("future own slot: err = %v, want ErrNotOnClock", err)
	}
}

// TestCommitPickIneligiblePlayer rejects ineligible and already-drafted
// players.
func TestCommitPickIneligiblePlayer(t *testing.T) {
	store, players := newFixture(4, 2)
	store.players[players[1]].Eligible = false
	app := NewApp(store, clockwork.NewFakeClock())

	_, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[1],
		Selector: Selector{Overall: 1},
		Actor:    admin(),
	})
	if !errors.Is(err, ErrPlayerIneligible) {
		t.Fatalf("err = %v, want ErrPlayerIneligible", err)
	}

	if _, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 1},
		Actor:    admin(),
	}); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	_, err = app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 2},
		Actor:    admin(),
	})
	if !errors.Is(err, ErrPlayerDrafted) {
		t.Fatalf("err = %v, want ErrPlayerDrafted", err)
	}
}

// TestCommitPickSlotTaken rejects a second commit into the same slot.
func TestCommitPickSlotTaken(t *testing.T) {
	store, players := newFixture(4, 2)
	app := NewApp(store, clockwork.NewFakeClock())

	if _, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 3},
		Actor:    admin(),
	}); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	_, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[1],
		Selector: Selector{Overall: 3},
		Actor:    admin(),
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

// TestCommitPickConcurrentSameSlot races several commits at one slot and
// requires exactly one winner.
func TestCommitPickConcurrentSameSlot(t *testing.T) {
	const racers = 8
	store, players := newFixture(4, 2)
	app := NewApp(store, clockwork.NewFakeClock())

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = app.CommitPick(context.Background(), CommitPickRequest{
				EventID:  store.event.ID,
				PlayerID: players[i],
				Selector: Selector{Overall: 1},
				Actor:    admin(),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if len(store.picks) != 1 {
		t.Fatalf("picks stored = %d, want 1", len(store.picks))
	}
}

// TestCommitPickSkipsFilledSlots advances the pointer past slots already
// filled out of order.
func TestCommitPickSkipsFilledSlots(t *testing.T) {
	store, players := newFixture(4, 2)
	app := NewApp(store, clockwork.NewFakeClock())

	// Admin pre-fills overall 2 and 3.
	for i, ov := range []int{2, 3} {
		if _, err := app.CommitPick(context.Background(), CommitPickRequest{
			EventID:  store.event.ID,
			PlayerID: players[i+1],
			Selector: Selector{Overall: ov},
			Actor:    admin(),
		}); err != nil {
			t.Fatalf("pre-fill %d: %v", ov, err)
		}
	}

	if _, err := app.CommitPick(context.Background(), CommitPickRequest{
		EventID:  store.event.ID,
		PlayerID: players[0],
		Selector: Selector{Overall: 1},
		Actor:    coach(store.teams[0].ID),
	}); err != nil {
		t.Fatalf("on-clock commit: %v", err)
	}
	if store.event.CurrentPick != 4 {
		t.Fatalf("current pick = %d, want 4", store.event.CurrentPick)
	}
}

// TestCommitPickCompletesDraft fills every slot and expects the event to
// flip COMPLETE with a DraftCompleted outbox row.
func TestCommitPickCompletesDraft(t *testing.T) {
	store, players := newFixture(2, 1)
	app := NewApp(store, clockwork.NewFakeClock())

	for i := 0; i < 2; i++ {
		if _, err := app.CommitPick(context.Background(), CommitPickRequest{
			EventID:  store.event.ID,
			PlayerID: players[i],
			Selector: Selector{Overall: i + 1},
			Actor:    admin(),
		}); err != nil {
			t.Fatalf("commit %d: %v", i+1, err)
		}
	}

	if store.event.Phase != models.EventPhaseComplete {
		t.Fatalf("phase = %s, want COMPLETE", store.event.Phase)
	}
	last := store.outbox[len(store.outbox)-1]
	if last != "DraftCompleted" {
		t.Fatalf("last outbox event = %s, want DraftCompleted", last)
	}
}
