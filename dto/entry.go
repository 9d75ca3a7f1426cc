package dto

import (
	"time"

	"main/model"
)

type MarkEntryRequest struct {
	Date string `json:"date" binding:"required,datekey"`
}

type EntryResponse struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Date        string    `json:"date"`
	CompletedAt time.Time `json:"completed_at"`
}

func ToEntryResponse(entry *model.Entry) EntryResponse {
	return EntryResponse{
		ID:          entry.EntryID,
		HabitID:     entry.HabitID,
		Date:        entry.Date,
		CompletedAt: entry.CompletedAt,
	}
}

func ToEntryResponses(entries []*model.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToEntryResponse(entry)
	}
	return responses
}
