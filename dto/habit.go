package dto

import (
	"time"

	"main/model"
)

type CreateHabitRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,oneof=violet teal rose amber sky emerald pink orange"`
	Icon        string `json:"icon" binding:"max=16"`
}

type UpdateHabitRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,oneof=violet teal rose amber sky emerald pink orange"`
	Icon        string `json:"icon" binding:"max=16"`
}

type HabitResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Color       model.HabitColor `json:"color"`
	Icon        string           `json:"icon"`
	Position    int64            `json:"position"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func ToHabitResponse(habit *model.Habit) HabitResponse {
	return HabitResponse{
		ID:          habit.HabitID,
		Name:        habit.Name,
		Description: habit.Description,
		Color:       habit.Color,
		Icon:        habit.Icon,
		Position:    habit.Position,
		CreatedAt:   habit.CreatedAt,
		UpdatedAt:   habit.UpdatedAt,
	}
}

func ToHabitResponses(habits []*model.Habit) []HabitResponse {
	responses := make([]HabitResponse, len(habits))
	for i, habit := range habits {
		responses[i] = ToHabitResponse(habit)
	}
	return responses
}
