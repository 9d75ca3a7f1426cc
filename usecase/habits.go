package usecase

import (
	"context"
	"strings"
	"time"

	"main/model"
	"main/services"
	"main/utils"
)

// HabitsStore is the slice of the habits repository this service needs.
type HabitsStore interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	CreateHabit(ctx context.Context, habit *model.Habit) error
	GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error)
	GetHabit(ctx context.Context, habitID, userID string) (*model.Habit, error)
	UpdateHabit(ctx context.Context, habitID, userID string, updates *model.Habit) error
	DeleteHabit(ctx context.Context, habitID, userID string) error
}

// EntriesCascade is what the habit delete cascade needs from the entries
// repository.
type EntriesCascade interface {
	DeleteByHabit(ctx context.Context, habitID string) ([]string, error)
}

// NotesCascade is what the cascades need from the notes repository.
type NotesCascade interface {
	FindByEntries(ctx context.Context, entryIDs []string) ([]*model.Note, error)
	DeleteByEntries(ctx context.Context, entryIDs []string) error
}

type HabitService struct {
	Habits  HabitsStore
	Entries EntriesCascade
	Notes   NotesCascade
	Media   services.MediaStore
}

func (s *HabitService) validateHabit(habit *model.Habit) error {
	habit.Name = strings.TrimSpace(habit.Name)
	if habit.Name == "" {
		return model.NewValidationError("name", "required")
	}
	if len(habit.Name) > model.MaxHabitNameLength {
		return model.NewValidationError("name", "exceeds maximum length")
	}

	habit.Description = strings.TrimSpace(habit.Description)
	if len(habit.Description) > model.MaxHabitDescriptionLength {
		return model.NewValidationError("description", "exceeds maximum length")
	}

	if habit.Color == "" {
		habit.Color = model.DefaultColor
	}
	if !model.ValidHabitColor(habit.Color) {
		return model.NewValidationError("color", "unknown palette key")
	}
	if habit.Icon == "" {
		habit.Icon = model.DefaultIcon
	}
	return nil
}

// CreateHabit validates input, enforces the per-user cap, then inserts.
// Validation and the cap are checked before any write is attempted.
func (s *HabitService) CreateHabit(ctx context.Context, habit *model.Habit) error {
	if err := s.validateHabit(habit); err != nil {
		return err
	}

	count, err := s.Habits.CountByUser(ctx, habit.UserID)
	if err != nil {
		return err
	}
	if count >= model.MaxHabitsPerUser {
		return model.ErrHabitLimit
	}

	habit.HabitID = utils.NewID()
	// Position is the insertion instant; monotonic enough for a sort key.
	habit.Position = time.Now().UnixMilli()
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = habit.CreatedAt

	if err := s.Habits.CreateHabit(ctx, habit); err != nil {
		return err
	}
	utils.TrackHabitOperation("create")
	return nil
}

func (s *HabitService) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	habits, err := s.Habits.GetUserHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []*model.Habit{}
	}
	return habits, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, habitID, userID string, updates *model.Habit) error {
	if err := s.validateHabit(updates); err != nil {
		return err
	}
	if err := s.Habits.UpdateHabit(ctx, habitID, userID, updates); err != nil {
		return err
	}
	utils.TrackHabitOperation("update")
	return nil
}

// DeleteHabit removes the habit and cascades to its entries, their notes
// and any media objects. The habit row goes first; a crash mid-cascade
// leaves orphans that no query path can reach.
func (s *HabitService) DeleteHabit(ctx context.Context, habitID, userID string) error {
	if err := s.Habits.DeleteHabit(ctx, habitID, userID); err != nil {
		return err
	}

	entryIDs, err := s.Entries.DeleteByHabit(ctx, habitID)
	if err != nil {
		return err
	}

	notes, err := s.Notes.FindByEntries(ctx, entryIDs)
	if err != nil {
		return err
	}
	for _, note := range notes {
		if note.StoragePath != "" && s.Media != nil {
			if err := s.Media.Remove(note.StoragePath); err != nil {
				utils.TrackError("media", "cascade_remove_failed")
			}
		}
	}
	if err := s.Notes.DeleteByEntries(ctx, entryIDs); err != nil {
		return err
	}

	utils.TrackHabitOperation("delete")
	return nil
}
