package model

import "time"

// NoteType discriminates how a note's content is stored: text notes carry
// their content inline, audio/video notes reference an uploaded media
// object.
type NoteType string

const (
	NoteTypeText  NoteType = "text"
	NoteTypeAudio NoteType = "audio"
	NoteTypeVideo NoteType = "video"

	MaxNoteContentLength = 2000
)

// Note attaches to exactly one completion entry; an entry has at most one
// note. Deleting the entry cascades to the note and its media object.
type Note struct {
	NoteID      string    `bson:"_id" json:"id"`
	EntryID     string    `bson:"entry_id" json:"entry_id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Type        NoteType  `bson:"type" json:"type"`
	Content     string    `bson:"content,omitempty" json:"content,omitempty"`
	StoragePath string    `bson:"storage_path,omitempty" json:"storage_path,omitempty"`
	DurationSec int       `bson:"duration_sec,omitempty" json:"duration_sec,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
