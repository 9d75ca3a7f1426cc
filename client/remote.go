package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"main/model"
)

// Remote is the server collaborator for completion and habit CRUD. Failures
// carry a tagged error: *TransportError for network/remote trouble,
// model.ErrNotFound for missing records, model.ErrHabitLimit for the cap.
type Remote interface {
	FetchCompletions(ctx context.Context, userID string, habitIDs []string, startDate, endDate string) ([]model.Entry, error)
	MarkComplete(ctx context.Context, userID, habitID, date string) (*model.Entry, error)
	UnmarkComplete(ctx context.Context, habitID, date string) error

	FetchHabits(ctx context.Context) ([]model.Habit, error)
	CreateHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error)
	UpdateHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error)
	DeleteHabit(ctx context.Context, habitID string) error
}

// TransportError is a network or server-side failure, distinguishable from
// a not-found condition. Status is the HTTP status when one was received,
// zero otherwise.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote request failed with status %d", e.Status)
	}
	return fmt.Sprintf("remote request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIClient talks to the habit service HTTP API.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope matches the server's response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		// The only conflict the API reports on these routes is the habit cap.
		return model.ErrHabitLimit
	case resp.StatusCode >= 400:
		return &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("%s", env.Error)}
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return &TransportError{Err: decodeErr}
	}
	return json.Unmarshal(env.Data, out)
}

func (c *APIClient) FetchCompletions(ctx context.Context, userID string, habitIDs []string, startDate, endDate string) ([]model.Entry, error) {
	if len(habitIDs) == 0 {
		return []model.Entry{}, nil
	}

	q := url.Values{}
	q.Set("habit_ids", strings.Join(habitIDs, ","))
	q.Set("start", startDate)
	q.Set("end", endDate)

	var entries []model.Entry
	if err := c.do(ctx, http.MethodGet, "/api/entries?"+q.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *APIClient) MarkComplete(ctx context.Context, userID, habitID, date string) (*model.Entry, error) {
	var entry model.Entry
	body := map[string]string{"date": date}
	if err := c.do(ctx, http.MethodPost, "/api/habits/"+habitID+"/entries", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *APIClient) UnmarkComplete(ctx context.Context, habitID, date string) error {
	return c.do(ctx, http.MethodDelete, "/api/habits/"+habitID+"/entries/"+date, nil, nil)
}

func (c *APIClient) FetchHabits(ctx context.Context) ([]model.Habit, error) {
	var habits []model.Habit
	if err := c.do(ctx, http.MethodGet, "/api/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (c *APIClient) CreateHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error) {
	var created model.Habit
	if err := c.do(ctx, http.MethodPost, "/api/habits", habit, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *APIClient) UpdateHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error) {
	var updated model.Habit
	if err := c.do(ctx, http.MethodPut, "/api/habits/"+habit.HabitID, habit, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *APIClient) DeleteHabit(ctx context.Context, habitID string) error {
	return c.do(ctx, http.MethodDelete, "/api/habits/"+habitID, nil, nil)
}
