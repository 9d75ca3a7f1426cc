package dto

import (
	"time"

	"main/model"
)

type CreateNoteRequest struct {
	Type        string `json:"type" binding:"required,oneof=text audio video"`
	Content     string `json:"content" binding:"max=2000"`
	MediaBase64 string `json:"media_base64"`
	Ext         string `json:"ext" binding:"omitempty,oneof=webm mp4 ogg"`
	DurationSec int    `json:"duration_sec" binding:"min=0"`
}

type NoteResponse struct {
	ID          string         `json:"id"`
	EntryID     string         `json:"entry_id"`
	Type        model.NoteType `json:"type"`
	Content     string         `json:"content,omitempty"`
	StoragePath string         `json:"storage_path,omitempty"`
	DurationSec int            `json:"duration_sec,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:          note.NoteID,
		EntryID:     note.EntryID,
		Type:        note.Type,
		Content:     note.Content,
		StoragePath: note.StoragePath,
		DurationSec: note.DurationSec,
		CreatedAt:   note.CreatedAt,
	}
}
