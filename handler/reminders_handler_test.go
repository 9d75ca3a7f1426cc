package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"main/model"
	"main/usecase"

	"github.com/gin-gonic/gin"
)

type noopSubs struct{}

func (noopSubs) GetAll(ctx context.Context) ([]*model.PushSubscription, error) { return nil, nil }
func (noopSubs) DeleteByEndpoints(ctx context.Context, endpoints []string) error {
	return nil
}

type noopHabitLister struct{}

func (noopHabitLister) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	return nil, nil
}

type noopDayEntries struct{}

func (noopDayEntries) GetByUserAndDate(ctx context.Context, userID, date string) ([]*model.Entry, error) {
	return nil, nil
}

type noopPusher struct{}

func (noopPusher) Send(ctx context.Context, sub *model.PushSubscription, payload model.ReminderPayload) error {
	return nil
}

func newRemindersRouter() *gin.Engine {
	service := &usecase.ReminderService{
		Subs:    noopSubs{},
		Habits:  noopHabitLister{},
		Entries: noopDayEntries{},
		Pusher:  noopPusher{},
	}
	router := gin.New()
	router.POST("/api/internal/reminders/run", func(c *gin.Context) {
		RunReminders(c, service)
	})
	return router
}

func runReminders(t *testing.T, router *gin.Engine, path, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set("X-Service-Key", key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRunRemindersServiceKey(t *testing.T) {
	t.Setenv("REMINDER_SERVICE_KEY", "hourly-cron-secret")
	router := newRemindersRouter()

	if w := runReminders(t, router, "/api/internal/reminders/run", ""); w.Code != http.StatusForbidden {
		t.Errorf("missing key status = %d, want 403", w.Code)
	}
	if w := runReminders(t, router, "/api/internal/reminders/run", "wrong"); w.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", w.Code)
	}
	if w := runReminders(t, router, "/api/internal/reminders/run", "hourly-cron-secret"); w.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", w.Code)
	}
}

func TestRunRemindersRejectsWhenKeyUnset(t *testing.T) {
	t.Setenv("REMINDER_SERVICE_KEY", "")
	router := newRemindersRouter()

	// An empty configured key must not open the endpoint.
	if w := runReminders(t, router, "/api/internal/reminders/run", ""); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 with no key configured", w.Code)
	}
}

func TestRunRemindersHourValidation(t *testing.T) {
	t.Setenv("REMINDER_SERVICE_KEY", "hourly-cron-secret")
	router := newRemindersRouter()

	for _, hour := range []string{"-1", "24", "ten"} {
		w := runReminders(t, router, "/api/internal/reminders/run?hour="+hour, "hourly-cron-secret")
		if w.Code != http.StatusBadRequest {
			t.Errorf("hour %q: status = %d, want 400", hour, w.Code)
		}
	}

	if w := runReminders(t, router, "/api/internal/reminders/run?hour=22", "hourly-cron-secret"); w.Code != http.StatusOK {
		t.Errorf("hour 22: status = %d, want 200", w.Code)
	}
}
