package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"main/model"
)

type fakeNotesStore struct {
	byEntry   map[string]*model.Note
	insertErr error
	deleted   []string
}

func newFakeNotesStore() *fakeNotesStore {
	return &fakeNotesStore{byEntry: make(map[string]*model.Note)}
}

func (f *fakeNotesStore) InsertNote(ctx context.Context, note *model.Note) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.byEntry[note.EntryID]; ok {
		return model.ErrDuplicateEntry
	}
	f.byEntry[note.EntryID] = note
	return nil
}

func (f *fakeNotesStore) GetByEntry(ctx context.Context, entryID string) (*model.Note, error) {
	if n, ok := f.byEntry[entryID]; ok {
		return n, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeNotesStore) DeleteNote(ctx context.Context, noteID, userID string) error {
	for entryID, n := range f.byEntry {
		if n.NoteID == noteID {
			delete(f.byEntry, entryID)
			f.deleted = append(f.deleted, noteID)
			return nil
		}
	}
	return model.ErrNotFound
}

func TestCreateTextNote(t *testing.T) {
	store := newFakeNotesStore()
	service := &NoteService{Notes: store, Media: &fakeMediaStore{}}

	note, err := service.CreateTextNote(context.Background(), "e1", "u1", "  felt great today  ")
	if err != nil {
		t.Fatalf("CreateTextNote: %v", err)
	}
	if note.Content != "felt great today" {
		t.Errorf("content = %q, want trimmed", note.Content)
	}
	if note.Type != model.NoteTypeText {
		t.Errorf("type = %q, want text", note.Type)
	}
}

func TestCreateTextNoteValidation(t *testing.T) {
	service := &NoteService{Notes: newFakeNotesStore(), Media: &fakeMediaStore{}}

	if _, err := service.CreateTextNote(context.Background(), "e1", "u1", "   "); !model.IsValidation(err) {
		t.Errorf("blank content error = %v, want validation", err)
	}

	long := strings.Repeat("x", model.MaxNoteContentLength+1)
	if _, err := service.CreateTextNote(context.Background(), "e1", "u1", long); !model.IsValidation(err) {
		t.Errorf("oversized content error = %v, want validation", err)
	}
}

func TestOneNotePerEntry(t *testing.T) {
	store := newFakeNotesStore()
	service := &NoteService{Notes: store, Media: &fakeMediaStore{}}
	ctx := context.Background()

	if _, err := service.CreateTextNote(ctx, "e1", "u1", "first"); err != nil {
		t.Fatalf("first note: %v", err)
	}
	_, err := service.CreateTextNote(ctx, "e1", "u1", "second")
	if !errors.Is(err, model.ErrDuplicateEntry) {
		t.Errorf("second note error = %v, want ErrDuplicateEntry", err)
	}
}

func TestCreateMediaNote(t *testing.T) {
	store := newFakeNotesStore()
	media := &fakeMediaStore{}
	service := &NoteService{Notes: store, Media: media}

	note, err := service.CreateMediaNote(context.Background(), "e1", "u1", model.NoteTypeAudio, []byte("opus-bytes"), "webm", 12)
	if err != nil {
		t.Fatalf("CreateMediaNote: %v", err)
	}
	if note.StoragePath != "u1/e1.webm" {
		t.Errorf("storage path = %q", note.StoragePath)
	}
	if note.DurationSec != 12 {
		t.Errorf("duration = %d, want 12", note.DurationSec)
	}
}

func TestCreateMediaNoteRejectsTextType(t *testing.T) {
	service := &NoteService{Notes: newFakeNotesStore(), Media: &fakeMediaStore{}}

	_, err := service.CreateMediaNote(context.Background(), "e1", "u1", model.NoteTypeText, []byte("x"), "webm", 0)
	if !model.IsValidation(err) {
		t.Errorf("error = %v, want validation", err)
	}
}

// A failed row insert must not leave the uploaded object behind.
func TestCreateMediaNoteCleansUpOrphan(t *testing.T) {
	store := newFakeNotesStore()
	store.insertErr = errors.New("insert refused")
	media := &fakeMediaStore{}
	service := &NoteService{Notes: store, Media: media}

	_, err := service.CreateMediaNote(context.Background(), "e1", "u1", model.NoteTypeVideo, []byte("frames"), "mp4", 5)
	if err == nil {
		t.Fatal("CreateMediaNote succeeded against a failing store")
	}
	if len(media.removed) != 1 || media.removed[0] != "u1/e1.mp4" {
		t.Errorf("orphan cleanup removed %v, want the uploaded object", media.removed)
	}
}

func TestDeleteByEntry(t *testing.T) {
	store := newFakeNotesStore()
	media := &fakeMediaStore{}
	service := &NoteService{Notes: store, Media: media}
	ctx := context.Background()

	if _, err := service.CreateMediaNote(ctx, "e1", "u1", model.NoteTypeAudio, []byte("opus"), "webm", 3); err != nil {
		t.Fatalf("CreateMediaNote: %v", err)
	}

	if err := service.DeleteByEntry(ctx, "e1", "u1"); err != nil {
		t.Fatalf("DeleteByEntry: %v", err)
	}
	if len(store.byEntry) != 0 {
		t.Error("note row survived deletion")
	}
	if len(media.removed) != 1 {
		t.Errorf("media removed %v, want the note's object", media.removed)
	}

	if err := service.DeleteByEntry(ctx, "e1", "u1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
