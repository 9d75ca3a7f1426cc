package client

import (
	"context"
	"sync"

	"main/model"
)

// HabitRegistry is the client-side view of the user's habit definitions.
// Reads fall back to the durable cache when the remote is unreachable;
// mutations always go to the remote (habit edits are rare enough that
// offline queuing is not worth the conflict surface).
type HabitRegistry struct {
	remote Remote
	cache  Cache
	conn   Connectivity

	mu     sync.Mutex
	habits []model.Habit
}

func NewHabitRegistry(remote Remote, cache Cache, conn Connectivity) *HabitRegistry {
	return &HabitRegistry{remote: remote, cache: cache, conn: conn}
}

// Load fetches habit definitions, mirroring them to the cache; offline or
// on failure it degrades to the cached copy, or an empty list.
func (r *HabitRegistry) Load(ctx context.Context) error {
	if r.conn.Online() {
		habits, err := r.remote.FetchHabits(ctx)
		if err == nil {
			r.mu.Lock()
			r.habits = habits
			r.mu.Unlock()
			r.cache.Write(CacheKeyHabits, habits)
			return nil
		}
	}

	var cached []model.Habit
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache.Read(CacheKeyHabits, &cached) {
		r.habits = cached
	} else {
		r.habits = nil
	}
	return nil
}

func (r *HabitRegistry) Habits() []model.Habit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Habit(nil), r.habits...)
}

// HabitIDs returns the ids in display order, the shape CompletionStore.Load
// wants.
func (r *HabitRegistry) HabitIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.habits))
	for i, h := range r.habits {
		ids[i] = h.HabitID
	}
	return ids
}

// AtLimit reports whether adding another habit would exceed the cap.
func (r *HabitRegistry) AtLimit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.habits) >= model.MaxHabitsPerUser
}

// Add creates a habit. The cap is enforced server-side; model.ErrHabitLimit
// passes through untouched so the UI can name the condition.
func (r *HabitRegistry) Add(ctx context.Context, name, description string, color model.HabitColor, icon string) (*model.Habit, error) {
	created, err := r.remote.CreateHabit(ctx, &model.Habit{
		Name:        name,
		Description: description,
		Color:       color,
		Icon:        icon,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.habits = append(r.habits, *created)
	habits := append([]model.Habit(nil), r.habits...)
	r.mu.Unlock()
	r.cache.Write(CacheKeyHabits, habits)
	return created, nil
}

// Edit updates a habit's definition.
func (r *HabitRegistry) Edit(ctx context.Context, habitID, name, description string, color model.HabitColor, icon string) (*model.Habit, error) {
	updated, err := r.remote.UpdateHabit(ctx, &model.Habit{
		HabitID:     habitID,
		Name:        name,
		Description: description,
		Color:       color,
		Icon:        icon,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	for i, h := range r.habits {
		if h.HabitID == habitID {
			r.habits[i] = *updated
			break
		}
	}
	habits := append([]model.Habit(nil), r.habits...)
	r.mu.Unlock()
	r.cache.Write(CacheKeyHabits, habits)
	return updated, nil
}

// Remove deletes a habit; the server cascades its entries and notes.
func (r *HabitRegistry) Remove(ctx context.Context, habitID string) error {
	if err := r.remote.DeleteHabit(ctx, habitID); err != nil {
		return err
	}

	r.mu.Lock()
	kept := r.habits[:0]
	for _, h := range r.habits {
		if h.HabitID != habitID {
			kept = append(kept, h)
		}
	}
	r.habits = kept
	habits := append([]model.Habit(nil), r.habits...)
	r.mu.Unlock()
	r.cache.Write(CacheKeyHabits, habits)
	return nil
}
