package usecase

import (
	"context"
	"strings"
	"time"

	"main/model"
	"main/services"
	"main/utils"
)

// NotesStore is the slice of the notes repository this service needs.
type NotesStore interface {
	InsertNote(ctx context.Context, note *model.Note) error
	GetByEntry(ctx context.Context, entryID string) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID, userID string) error
}

type NoteService struct {
	Notes NotesStore
	Media services.MediaStore
}

// GetNote returns the entry's note, or model.ErrNotFound when the entry has
// none.
func (s *NoteService) GetNote(ctx context.Context, entryID string) (*model.Note, error) {
	return s.Notes.GetByEntry(ctx, entryID)
}

// CreateTextNote attaches a text note to a completion entry. An entry holds
// at most one note; a second insert reports the duplicate.
func (s *NoteService) CreateTextNote(ctx context.Context, entryID, userID, content string) (*model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.NewValidationError("content", "required")
	}
	if len(content) > model.MaxNoteContentLength {
		return nil, model.NewValidationError("content", "exceeds maximum length")
	}

	note := &model.Note{
		NoteID:    utils.NewID(),
		EntryID:   entryID,
		UserID:    userID,
		Type:      model.NoteTypeText,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.Notes.InsertNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// CreateMediaNote uploads the media object first and inserts the note row
// second; a failed insert removes the uploaded object so no orphan remains.
func (s *NoteService) CreateMediaNote(ctx context.Context, entryID, userID string, noteType model.NoteType, data []byte, ext string, durationSec int) (*model.Note, error) {
	if noteType != model.NoteTypeAudio && noteType != model.NoteTypeVideo {
		return nil, model.NewValidationError("type", "must be audio or video")
	}
	if len(data) == 0 {
		return nil, model.NewValidationError("media", "empty upload")
	}

	path := services.MediaPath(userID, entryID, ext)
	if err := s.Media.Put(path, data); err != nil {
		return nil, err
	}

	note := &model.Note{
		NoteID:      utils.NewID(),
		EntryID:     entryID,
		UserID:      userID,
		Type:        noteType,
		StoragePath: path,
		DurationSec: durationSec,
		CreatedAt:   time.Now(),
	}
	if err := s.Notes.InsertNote(ctx, note); err != nil {
		// Clean up the uploaded object on row insert failure
		if rmErr := s.Media.Remove(path); rmErr != nil {
			utils.TrackError("media", "orphan_cleanup_failed")
		}
		return nil, err
	}
	return note, nil
}

// DeleteByEntry removes the entry's note and its media object, if any.
func (s *NoteService) DeleteByEntry(ctx context.Context, entryID, userID string) error {
	note, err := s.Notes.GetByEntry(ctx, entryID)
	if err != nil {
		return err
	}

	if note.StoragePath != "" {
		if err := s.Media.Remove(note.StoragePath); err != nil {
			utils.TrackError("media", "remove_failed")
		}
	}
	return s.Notes.DeleteNote(ctx, note.NoteID, userID)
}
