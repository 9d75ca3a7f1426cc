package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type fakeEntriesStore struct {
	entries map[string]*model.Entry
}

func newFakeEntriesStore() *fakeEntriesStore {
	return &fakeEntriesStore{entries: make(map[string]*model.Entry)}
}

func (f *fakeEntriesStore) GetEntries(ctx context.Context, userID string, habitIDs []string, startDate, endDate string) ([]*model.Entry, error) {
	var out []*model.Entry
	for _, id := range habitIDs {
		for _, e := range f.entries {
			if e.HabitID == id && e.Date >= startDate && e.Date <= endDate {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (f *fakeEntriesStore) FindByPair(ctx context.Context, habitID, date string) (*model.Entry, error) {
	if e, ok := f.entries[habitID+"|"+date]; ok {
		return e, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeEntriesStore) InsertEntry(ctx context.Context, entry *model.Entry) error {
	key := entry.HabitID + "|" + entry.Date
	if _, ok := f.entries[key]; ok {
		return model.ErrDuplicateEntry
	}
	f.entries[key] = entry
	return nil
}

func (f *fakeEntriesStore) DeleteByPair(ctx context.Context, habitID, date string) error {
	key := habitID + "|" + date
	if _, ok := f.entries[key]; !ok {
		return model.ErrNotFound
	}
	delete(f.entries, key)
	return nil
}

func newEntryRouter(store *fakeEntriesStore) *gin.Engine {
	habits := &fakeHabitsStore{habits: []*model.Habit{
		{HabitID: "h1", UserID: "user-1"},
		{HabitID: "h2", UserID: "user-1"},
	}}
	service := &usecase.EntryService{
		Entries: store,
		Habits:  habits,
		Notes:   fakeNotesCascade{},
	}
	h := NewEntryHandler(service)

	router := gin.New()
	router.Use(asUser("user-1"))
	router.GET("/api/entries", h.GetEntries)
	router.POST("/api/habits/:id/entries", h.MarkEntry)
	router.DELETE("/api/habits/:id/entries/:date", h.UnmarkEntry)
	return router
}

func TestMarkEntryHandler(t *testing.T) {
	store := newFakeEntriesStore()
	router := newEntryRouter(store)

	w := doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": "2024-01-10"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(store.entries) != 1 {
		t.Fatalf("store holds %d entries, want 1", len(store.entries))
	}

	// Marking the same day again returns the existing record, still 200.
	w = doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": "2024-01-10"})
	if w.Code != http.StatusOK {
		t.Fatalf("repeat mark status = %d: %s", w.Code, w.Body.String())
	}
	if len(store.entries) != 1 {
		t.Errorf("repeat mark duplicated the entry")
	}
}

func TestMarkEntryHandlerRejectsBadDate(t *testing.T) {
	router := newEntryRouter(newFakeEntriesStore())

	for _, date := range []string{"tomorrow", "2024-13-40", ""} {
		w := doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": date})
		if w.Code != http.StatusBadRequest {
			t.Errorf("date %q: status = %d, want 400", date, w.Code)
		}
	}
}

func TestUnmarkEntryHandler(t *testing.T) {
	store := newFakeEntriesStore()
	router := newEntryRouter(store)

	doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": "2024-01-10"})

	w := doJSON(t, router, http.MethodDelete, "/api/habits/h1/entries/2024-01-10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(store.entries) != 0 {
		t.Error("entry not removed")
	}

	// Unmarking again is a no-op, not an error.
	w = doJSON(t, router, http.MethodDelete, "/api/habits/h1/entries/2024-01-10", nil)
	if w.Code != http.StatusOK {
		t.Errorf("repeat unmark status = %d, want 200", w.Code)
	}
}

func TestEntryHandlersScopeToOwnHabits(t *testing.T) {
	store := newFakeEntriesStore()
	store.entries["h9|2024-01-10"] = &model.Entry{
		EntryID: "e9",
		UserID:  "user-2",
		HabitID: "h9",
		Date:    "2024-01-10",
	}
	router := newEntryRouter(store)

	// user-1 does not own h9; both toggles read as not found.
	w := doJSON(t, router, http.MethodPost, "/api/habits/h9/entries", gin.H{"date": "2024-01-10"})
	if w.Code != http.StatusNotFound {
		t.Errorf("mark status = %d, want 404", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/api/habits/h9/entries/2024-01-10", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unmark status = %d, want 404", w.Code)
	}
	if _, ok := store.entries["h9|2024-01-10"]; !ok {
		t.Error("another user's entry was deleted")
	}
}

func TestGetEntriesHandler(t *testing.T) {
	store := newFakeEntriesStore()
	router := newEntryRouter(store)

	doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": "2024-01-09"})
	doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": "2024-01-10"})
	doJSON(t, router, http.MethodPost, "/api/habits/h2/entries", gin.H{"date": "2024-01-10"})

	w := doJSON(t, router, http.MethodGet, "/api/entries?habit_ids=h1&start=2024-01-09&end=2024-01-10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			HabitID string `json:"habit_id"`
			Date    string `json:"date"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("got %d entries, want 2 for h1", len(resp.Data))
	}
	for _, e := range resp.Data {
		if e.HabitID != "h1" {
			t.Errorf("entry for %q leaked into the h1 query", e.HabitID)
		}
	}
}

func TestGetEntriesHandlerRejectsBadRange(t *testing.T) {
	router := newEntryRouter(newFakeEntriesStore())

	w := doJSON(t, router, http.MethodGet, "/api/entries?habit_ids=h1&start=junk&end=2024-01-10", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetEntriesHandlerDefaultsToToday(t *testing.T) {
	store := newFakeEntriesStore()
	router := newEntryRouter(store)
	today := utils.Today()

	doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": today})
	doJSON(t, router, http.MethodPost, "/api/habits/h1/entries", gin.H{"date": "2020-01-01"})

	w := doJSON(t, router, http.MethodGet, "/api/entries?habit_ids=h1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			Date string `json:"date"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Date != today {
		t.Errorf("data = %+v, want only today's entry", resp.Data)
	}
}
