package usecase

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/services"
	"main/utils"
)

// EntriesStore is the slice of the entries repository this service needs.
type EntriesStore interface {
	GetEntries(ctx context.Context, userID string, habitIDs []string, startDate, endDate string) ([]*model.Entry, error)
	FindByPair(ctx context.Context, habitID, date string) (*model.Entry, error)
	InsertEntry(ctx context.Context, entry *model.Entry) error
	DeleteByPair(ctx context.Context, habitID, date string) error
}

// HabitOwnership is the slice of the habits repository the entry service
// needs to scope every operation to the caller's own habits.
type HabitOwnership interface {
	GetHabit(ctx context.Context, habitID, userID string) (*model.Habit, error)
	GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error)
}

// TodayCache caches a user's full today-window entry list. Satisfied by
// services.CompletionCache.
type TodayCache interface {
	GetToday(ctx context.Context, userID, date string) ([]*model.Entry, bool)
	SetToday(ctx context.Context, userID, date string, entries []*model.Entry)
	Invalidate(ctx context.Context, userID, date string)
}

type EntryService struct {
	Entries EntriesStore
	Habits  HabitOwnership
	Notes   NotesCascade
	Media   services.MediaStore

	// Cache is optional; nil disables the today-window read-through.
	Cache TodayCache
}

// GetCompletions returns entries for the habits in [startDate, endDate].
// An empty habit set means all of the caller's habits. Only that full-set
// today window reads through the cache: the cache key is (user, date), so a
// subset result must never be stored or served there.
func (s *EntryService) GetCompletions(ctx context.Context, userID string, habitIDs []string, startDate, endDate string) ([]*model.Entry, error) {
	today := utils.Today()
	fullSet := len(habitIDs) == 0
	cacheable := s.Cache != nil && fullSet && startDate == today && endDate == today

	if cacheable {
		if entries, ok := s.Cache.GetToday(ctx, userID, today); ok {
			return entries, nil
		}
	}

	if fullSet {
		habits, err := s.Habits.GetUserHabits(ctx, userID)
		if err != nil {
			return nil, err
		}
		habitIDs = make([]string, 0, len(habits))
		for _, habit := range habits {
			habitIDs = append(habitIDs, habit.HabitID)
		}
	}

	entries, err := s.Entries.GetEntries(ctx, userID, habitIDs, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.Cache.SetToday(ctx, userID, today, entries)
	}
	return entries, nil
}

// MarkComplete records a completion for (habit, date). Marking an already
// completed day is a benign conflict: the existing record is returned and
// nothing is duplicated. The upsert semantics come from the unique
// (habit_id, date) index.
func (s *EntryService) MarkComplete(ctx context.Context, userID, habitID, date string) (*model.Entry, error) {
	// A habit id belonging to another user reads as not found.
	if _, err := s.Habits.GetHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	entry := &model.Entry{
		EntryID:     utils.NewID(),
		UserID:      userID,
		HabitID:     habitID,
		Date:        date,
		CompletedAt: time.Now(),
	}

	err := s.Entries.InsertEntry(ctx, entry)
	if errors.Is(err, model.ErrDuplicateEntry) {
		return s.Entries.FindByPair(ctx, habitID, date)
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID, date)
	utils.TrackEntryToggle("mark")
	return entry, nil
}

// UnmarkComplete removes the completion for (habit, date), cascading to its
// note and media object. Unmarking a day that was never marked is a no-op.
func (s *EntryService) UnmarkComplete(ctx context.Context, userID, habitID, date string) error {
	if _, err := s.Habits.GetHabit(ctx, habitID, userID); err != nil {
		return err
	}

	existing, err := s.Entries.FindByPair(ctx, habitID, date)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.Entries.DeleteByPair(ctx, habitID, date); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}

	// Cascade: the entry's note and media object go with it.
	notes, err := s.Notes.FindByEntries(ctx, []string{existing.EntryID})
	if err == nil {
		for _, note := range notes {
			if note.StoragePath != "" && s.Media != nil {
				if err := s.Media.Remove(note.StoragePath); err != nil {
					utils.TrackError("media", "cascade_remove_failed")
				}
			}
		}
		if err := s.Notes.DeleteByEntries(ctx, []string{existing.EntryID}); err != nil {
			utils.TrackError("database", "note_cascade_failed")
		}
	}

	s.invalidate(ctx, userID, date)
	utils.TrackEntryToggle("unmark")
	return nil
}

func (s *EntryService) invalidate(ctx context.Context, userID, date string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID, date)
	}
}
