package model

import "time"

// HabitColor is a key into the fixed UI palette. The palette is enumerated
// here so the server can reject colors the clients cannot render.
type HabitColor string

const (
	ColorViolet  HabitColor = "violet"
	ColorTeal    HabitColor = "teal"
	ColorRose    HabitColor = "rose"
	ColorAmber   HabitColor = "amber"
	ColorSky     HabitColor = "sky"
	ColorEmerald HabitColor = "emerald"
	ColorPink    HabitColor = "pink"
	ColorOrange  HabitColor = "orange"

	DefaultColor HabitColor = ColorViolet
	DefaultIcon             = "⭐"

	// MaxHabitsPerUser caps live habits per user. Creating beyond the cap
	// fails with ErrHabitLimit.
	MaxHabitsPerUser = 10

	MaxHabitNameLength        = 100
	MaxHabitDescriptionLength = 500
)

// HabitColors lists every valid palette key.
var HabitColors = []HabitColor{
	ColorViolet, ColorTeal, ColorRose, ColorAmber,
	ColorSky, ColorEmerald, ColorPink, ColorOrange,
}

// ValidHabitColor reports whether c names a palette entry.
func ValidHabitColor(c HabitColor) bool {
	for _, known := range HabitColors {
		if c == known {
			return true
		}
	}
	return false
}

// Habit is the stable axis completion history accumulates against. Habits
// are only ever deleted by an explicit user action, which cascades to the
// habit's entries and notes.
type Habit struct {
	HabitID     string     `bson:"_id" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	Name        string     `bson:"name" json:"name" binding:"required"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Color       HabitColor `bson:"color" json:"color"`
	Icon        string     `bson:"icon" json:"icon"`
	Position    int64      `bson:"position" json:"position"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
