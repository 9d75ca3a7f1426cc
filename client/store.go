package client

import (
	"context"
	"log"
	"sync"
	"time"

	"main/model"
	"main/utils"
)

// Action names a queued toggle direction.
type Action string

const (
	ActionMark   Action = "mark"
	ActionUnmark Action = "unmark"
)

// PendingMutation is one toggle recorded while disconnected, replayed FIFO
// on reconnect.
type PendingMutation struct {
	HabitID string `json:"habit_id"`
	Action  Action `json:"action"`
}

// recordState is the explicit per-(habit, date) state machine: a pair is
// absent (no record held), optimistic-pending (applied locally, not yet
// confirmed by the server) or confirmed (server truth).
type recordState int

const (
	stateConfirmed recordState = iota
	statePending
)

type record struct {
	entry model.Entry
	state recordState
}

// CompletionStore reconciles a client-held completion set with the remote
// source of truth. The effective view merges confirmed records with the
// optimistic overlay; derived streak state is recomputed from it on every
// evaluation, never stored.
//
// All state mutations run under one mutex and every continuation of a
// suspended remote call re-reads current state rather than closing over a
// stale snapshot.
type CompletionStore struct {
	remote Remote
	cache  Cache
	conn   Connectivity
	userID string

	mu        sync.Mutex
	habitIDs  []string
	startDate string
	endDate   string
	records   []record
	pending   []PendingMutation
	fetchSeq  uint64
}

func NewCompletionStore(remote Remote, cache Cache, conn Connectivity, userID string) *CompletionStore {
	s := &CompletionStore{
		remote: remote,
		cache:  cache,
		conn:   conn,
		userID: userID,
	}
	conn.OnReconnect(func() {
		s.ReconcileOnReconnect(context.Background())
	})
	return s
}

// Load initializes the store for the given habits over the today window.
// Online it fetches from the remote; offline (or on fetch failure) it
// starts from the durable cache, which may be stale or absent. Queued
// mutations persisted by an earlier session are restored either way.
func (s *CompletionStore) Load(ctx context.Context, habitIDs []string) error {
	today := utils.Today()

	s.mu.Lock()
	s.habitIDs = append([]string(nil), habitIDs...)
	s.startDate = today
	s.endDate = today
	var restored []PendingMutation
	if s.cache.Read(CacheKeyPending, &restored) {
		s.pending = restored
	}
	s.mu.Unlock()

	if s.conn.Online() {
		if err := s.Refresh(ctx); err == nil {
			return nil
		}
	}

	// Offline baseline: read-through, best-effort.
	var cached []model.Entry
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache.Read(CacheKeyEntries, &cached) {
		s.records = confirmedRecords(cached)
	} else {
		s.records = nil
	}
	return nil
}

// SetRange widens the fetch window (dashboards enumerate weeks, months and
// years). Only the today window is mirrored to the durable cache.
func (s *CompletionStore) SetRange(startDate, endDate string) {
	s.mu.Lock()
	s.startDate = startDate
	s.endDate = endDate
	s.mu.Unlock()
}

// Refresh fetches the current window from the remote and replaces the
// confirmed baseline. A refresh superseded by a newer one discards its
// result on arrival.
func (s *CompletionStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	habitIDs := append([]string(nil), s.habitIDs...)
	start, end := s.startDate, s.endDate
	s.mu.Unlock()

	entries, err := s.remote.FetchCompletions(ctx, s.userID, habitIDs, start, end)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		// A newer fetch is in flight; this result is stale.
		return nil
	}
	s.records = confirmedRecords(entries)
	s.writeTodayCacheLocked()
	return nil
}

// Entries returns the effective view: confirmed records merged with the
// optimistic overlay.
func (s *CompletionStore) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, len(s.records))
	for i, r := range s.records {
		out[i] = r.entry
	}
	return out
}

// IsCompleted reports whether (habit, date) is completed in the effective
// view, optimistic records included.
func (s *CompletionStore) IsCompleted(habitID, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfLocked(habitID, date) >= 0
}

// PendingCount reports queued offline mutations awaiting replay.
func (s *CompletionStore) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Toggle flips today's completion for the habit. The effective-state check
// and the optimistic effect happen synchronously against the latest view;
// the remote call settles afterwards. A transport failure rolls the
// optimistic change back to the exact pre-mutation state and surfaces the
// error so the UI can offer a retry.
func (s *CompletionStore) Toggle(ctx context.Context, habitID string) error {
	today := utils.Today()

	s.mu.Lock()
	idx := s.indexOfLocked(habitID, today)
	marking := idx < 0

	if !s.conn.Online() {
		// Offline: queue, persist, apply locally. No remote attempt.
		action := ActionMark
		if !marking {
			action = ActionUnmark
		}
		s.pending = append(s.pending, PendingMutation{HabitID: habitID, Action: action})
		s.cache.Write(CacheKeyPending, s.pending)

		if marking {
			s.records = append(s.records, record{
				entry: model.Entry{
					EntryID:     "offline-" + habitID,
					UserID:      s.userID,
					HabitID:     habitID,
					Date:        today,
					CompletedAt: time.Now(),
				},
				state: statePending,
			})
		} else {
			s.records = append(s.records[:idx], s.records[idx+1:]...)
		}
		s.writeTodayCacheLocked()
		s.mu.Unlock()
		return nil
	}

	// Online: optimistic effect first, then the suspending remote call.
	snapshot := append([]record(nil), s.records...)
	if marking {
		s.records = append(s.records, record{
			entry: model.Entry{
				EntryID:     "optimistic-" + habitID,
				UserID:      s.userID,
				HabitID:     habitID,
				Date:        today,
				CompletedAt: time.Now(),
			},
			state: statePending,
		})
	} else {
		s.records = append(s.records[:idx], s.records[idx+1:]...)
	}
	s.mu.Unlock()

	var err error
	if marking {
		var confirmed *model.Entry
		confirmed, err = s.remote.MarkComplete(ctx, s.userID, habitID, today)
		if err == nil {
			s.confirm(habitID, today, *confirmed)
		}
	} else {
		err = s.remote.UnmarkComplete(ctx, habitID, today)
	}

	if err != nil {
		s.mu.Lock()
		s.records = snapshot
		s.writeTodayCacheLocked()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.writeTodayCacheLocked()
	s.mu.Unlock()
	return nil
}

// MarkAndReturnRecord marks today complete and returns the server-confirmed
// record, for callers that need its identity immediately (attaching a
// note). The optimistic effect still applies first; a failure rolls it back
// and propagates.
func (s *CompletionStore) MarkAndReturnRecord(ctx context.Context, habitID string) (*model.Entry, error) {
	today := utils.Today()

	s.mu.Lock()
	if s.indexOfLocked(habitID, today) >= 0 {
		existing := s.records[s.indexOfLocked(habitID, today)].entry
		s.mu.Unlock()
		return &existing, nil
	}
	snapshot := append([]record(nil), s.records...)
	s.records = append(s.records, record{
		entry: model.Entry{
			EntryID:     "optimistic-" + habitID,
			UserID:      s.userID,
			HabitID:     habitID,
			Date:        today,
			CompletedAt: time.Now(),
		},
		state: statePending,
	})
	s.mu.Unlock()

	confirmed, err := s.remote.MarkComplete(ctx, s.userID, habitID, today)
	if err != nil {
		s.mu.Lock()
		s.records = snapshot
		s.writeTodayCacheLocked()
		s.mu.Unlock()
		return nil, err
	}

	s.confirm(habitID, today, *confirmed)
	s.mu.Lock()
	s.writeTodayCacheLocked()
	s.mu.Unlock()
	return confirmed, nil
}

// ReconcileOnReconnect drains the pending queue and replays it FIFO against
// the remote. The queue is cleared (and the cleared state persisted) before
// replay so replays cannot re-queue; individual failures are logged and
// skipped. Replay is literal: a queued mark followed by a queued unmark
// goes out as two calls. A full refresh runs last since replay outcomes are
// not folded back into the optimistic view.
func (s *CompletionStore) ReconcileOnReconnect(ctx context.Context) {
	s.mu.Lock()
	queue := s.pending
	s.pending = nil
	s.cache.Write(CacheKeyPending, []PendingMutation{})
	s.mu.Unlock()

	today := utils.Today()
	for _, m := range queue {
		var err error
		if m.Action == ActionMark {
			_, err = s.remote.MarkComplete(ctx, s.userID, m.HabitID, today)
		} else {
			err = s.remote.UnmarkComplete(ctx, m.HabitID, today)
		}
		if err != nil {
			log.Printf("replay %s for habit %s failed: %v", m.Action, m.HabitID, err)
		}
	}

	if err := s.Refresh(ctx); err != nil {
		log.Printf("post-replay refresh failed: %v", err)
	}
}

// confirm swaps the optimistic-pending record for the server-confirmed one.
// If the pair vanished in the meantime (rolled back or unmarked), the
// confirmation is dropped rather than resurrected; the next refresh settles
// it.
func (s *CompletionStore) confirm(habitID, date string, confirmed model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.entry.HabitID == habitID && r.entry.Date == date {
			s.records[i] = record{entry: confirmed, state: stateConfirmed}
			return
		}
	}
}

// indexOfLocked finds the effective record for (habit, date); -1 if absent.
func (s *CompletionStore) indexOfLocked(habitID, date string) int {
	for i, r := range s.records {
		if r.entry.HabitID == habitID && r.entry.Date == date {
			return i
		}
	}
	return -1
}

// writeTodayCacheLocked mirrors the today slice of the effective view into
// the durable cache. Best-effort by contract.
func (s *CompletionStore) writeTodayCacheLocked() {
	today := utils.Today()
	var todays []model.Entry
	for _, r := range s.records {
		if r.entry.Date == today {
			todays = append(todays, r.entry)
		}
	}
	if todays == nil {
		todays = []model.Entry{}
	}
	s.cache.Write(CacheKeyEntries, todays)
}

func confirmedRecords(entries []model.Entry) []record {
	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = record{entry: e, state: stateConfirmed}
	}
	return records
}
