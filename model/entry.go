package model

import "time"

// Entry records one habit completed on one local calendar day. The date is
// a YYYY-MM-DD key in the user's device-local timezone, not a UTC instant.
// At most one entry exists per (habit, date); toggling is delete-or-create,
// never an in-place update.
type Entry struct {
	EntryID     string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	HabitID     string    `bson:"habit_id" json:"habit_id"`
	Date        string    `bson:"date" json:"date"`
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
}
