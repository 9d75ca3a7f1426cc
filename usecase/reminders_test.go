package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"main/model"
)

type fakeSubsStore struct {
	subs    []*model.PushSubscription
	deleted []string
}

func (f *fakeSubsStore) GetAll(ctx context.Context) ([]*model.PushSubscription, error) {
	return f.subs, nil
}

func (f *fakeSubsStore) DeleteByEndpoints(ctx context.Context, endpoints []string) error {
	f.deleted = append(f.deleted, endpoints...)
	return nil
}

type fakeHabitLister struct {
	byUser map[string][]*model.Habit
}

func (f *fakeHabitLister) GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error) {
	return f.byUser[userID], nil
}

type fakeDayEntries struct {
	byUser map[string][]*model.Entry
}

func (f *fakeDayEntries) GetByUserAndDate(ctx context.Context, userID, date string) ([]*model.Entry, error) {
	return f.byUser[userID], nil
}

type fakePusher struct {
	sent    []model.ReminderPayload
	sentTo  []string
	goneFor map[string]bool
	failFor map[string]bool
}

func (f *fakePusher) Send(ctx context.Context, sub *model.PushSubscription, payload model.ReminderPayload) error {
	if f.goneFor[sub.Endpoint] {
		return model.ErrSubscriptionGone
	}
	if f.failFor[sub.Endpoint] {
		return errors.New("relay unreachable")
	}
	f.sent = append(f.sent, payload)
	f.sentTo = append(f.sentTo, sub.Endpoint)
	return nil
}

func pinnedClock(hourByTZ map[string]int, today string) (func(string) (int, error), func(string) (string, error)) {
	localHour := func(tz string) (int, error) {
		h, ok := hourByTZ[tz]
		if !ok {
			return 0, errors.New("unknown timezone")
		}
		return h, nil
	}
	todayIn := func(tz string) (string, error) { return today, nil }
	return localHour, todayIn
}

func TestDispatchDueRemindersHourFilter(t *testing.T) {
	subs := &fakeSubsStore{subs: []*model.PushSubscription{
		{SubscriptionID: "s1", UserID: "u1", Endpoint: "ep1", Timezone: "Europe/Berlin"},
		{SubscriptionID: "s2", UserID: "u2", Endpoint: "ep2", Timezone: "Asia/Tokyo"},
	}}
	pusher := &fakePusher{}

	localHour, todayIn := pinnedClock(map[string]int{
		"Europe/Berlin": 22,
		"Asia/Tokyo":    6,
	}, "2024-01-10")

	service := &ReminderService{
		Subs: subs,
		Habits: &fakeHabitLister{byUser: map[string][]*model.Habit{
			"u1": {{HabitID: "h1", Name: "Read"}},
			"u2": {{HabitID: "h2", Name: "Run"}},
		}},
		Entries:   &fakeDayEntries{byUser: map[string][]*model.Entry{}},
		Pusher:    pusher,
		LocalHour: localHour,
		TodayIn:   todayIn,
	}

	stats, err := service.DispatchDueReminders(context.Background(), 22)
	if err != nil {
		t.Fatalf("DispatchDueReminders: %v", err)
	}

	if stats.Selected != 1 || stats.Sent != 1 {
		t.Errorf("stats = %+v, want selected=1 sent=1", stats)
	}
	if len(pusher.sentTo) != 1 || pusher.sentTo[0] != "ep1" {
		t.Errorf("sent to %v, want only the Berlin subscriber", pusher.sentTo)
	}
}

func TestDispatchDueRemindersPayloadBody(t *testing.T) {
	subs := &fakeSubsStore{subs: []*model.PushSubscription{
		{SubscriptionID: "s1", UserID: "u1", Endpoint: "ep1", Timezone: "UTC"},
	}}
	pusher := &fakePusher{}
	localHour, todayIn := pinnedClock(map[string]int{"UTC": 22}, "2024-01-10")

	service := &ReminderService{
		Subs: subs,
		Habits: &fakeHabitLister{byUser: map[string][]*model.Habit{
			"u1": {
				{HabitID: "h1", Name: "Read"},
				{HabitID: "h2", Name: "Run"},
				{HabitID: "h3", Name: "Meditate"},
			},
		}},
		Entries: &fakeDayEntries{byUser: map[string][]*model.Entry{
			"u1": {{HabitID: "h2", Date: "2024-01-10"}},
		}},
		Pusher:    pusher,
		LocalHour: localHour,
		TodayIn:   todayIn,
	}

	if _, err := service.DispatchDueReminders(context.Background(), 22); err != nil {
		t.Fatalf("DispatchDueReminders: %v", err)
	}

	if len(pusher.sent) != 1 {
		t.Fatalf("sent %d payloads, want 1", len(pusher.sent))
	}
	body := pusher.sent[0].Body
	if !strings.HasPrefix(body, "2 habits left today:") {
		t.Errorf("body = %q, want count prefix for the incomplete pair", body)
	}
	if !strings.Contains(body, "Read") || !strings.Contains(body, "Meditate") {
		t.Errorf("body = %q, want incomplete habit names", body)
	}
	if strings.Contains(body, "Run") {
		t.Errorf("body = %q, completed habit leaked in", body)
	}
}

func TestDispatchSkipsAllCompleteAndNoHabits(t *testing.T) {
	subs := &fakeSubsStore{subs: []*model.PushSubscription{
		{SubscriptionID: "s1", UserID: "done", Endpoint: "ep1", Timezone: "UTC"},
		{SubscriptionID: "s2", UserID: "empty", Endpoint: "ep2", Timezone: "UTC"},
	}}
	pusher := &fakePusher{}
	localHour, todayIn := pinnedClock(map[string]int{"UTC": 22}, "2024-01-10")

	service := &ReminderService{
		Subs: subs,
		Habits: &fakeHabitLister{byUser: map[string][]*model.Habit{
			"done": {{HabitID: "h1", Name: "Read"}},
		}},
		Entries: &fakeDayEntries{byUser: map[string][]*model.Entry{
			"done": {{HabitID: "h1", Date: "2024-01-10"}},
		}},
		Pusher:    pusher,
		LocalHour: localHour,
		TodayIn:   todayIn,
	}

	stats, err := service.DispatchDueReminders(context.Background(), 22)
	if err != nil {
		t.Fatalf("DispatchDueReminders: %v", err)
	}

	if stats.Selected != 2 || stats.Sent != 0 {
		t.Errorf("stats = %+v, want selected=2 sent=0", stats)
	}
	if len(pusher.sent) != 0 {
		t.Error("payloads sent to users with nothing to nudge")
	}
}

func TestDispatchRemovesStaleSubscriptions(t *testing.T) {
	subs := &fakeSubsStore{subs: []*model.PushSubscription{
		{SubscriptionID: "s1", UserID: "u1", Endpoint: "gone-ep", Timezone: "UTC"},
		{SubscriptionID: "s2", UserID: "u1", Endpoint: "live-ep", Timezone: "UTC"},
	}}
	pusher := &fakePusher{goneFor: map[string]bool{"gone-ep": true}}
	localHour, todayIn := pinnedClock(map[string]int{"UTC": 22}, "2024-01-10")

	service := &ReminderService{
		Subs: subs,
		Habits: &fakeHabitLister{byUser: map[string][]*model.Habit{
			"u1": {{HabitID: "h1", Name: "Read"}},
		}},
		Entries:   &fakeDayEntries{byUser: map[string][]*model.Entry{}},
		Pusher:    pusher,
		LocalHour: localHour,
		TodayIn:   todayIn,
	}

	stats, err := service.DispatchDueReminders(context.Background(), 22)
	if err != nil {
		t.Fatalf("DispatchDueReminders: %v", err)
	}

	if stats.StaleRemoved != 1 {
		t.Errorf("StaleRemoved = %d, want 1", stats.StaleRemoved)
	}
	if len(subs.deleted) != 1 || subs.deleted[0] != "gone-ep" {
		t.Errorf("deleted endpoints = %v, want [gone-ep]", subs.deleted)
	}
	if stats.Sent != 1 {
		t.Errorf("Sent = %d, want the live subscriber still served", stats.Sent)
	}
}

func TestDispatchOtherFailuresLoggedNotFatal(t *testing.T) {
	subs := &fakeSubsStore{subs: []*model.PushSubscription{
		{SubscriptionID: "s1", UserID: "u1", Endpoint: "flaky-ep", Timezone: "UTC"},
		{SubscriptionID: "s2", UserID: "u1", Endpoint: "live-ep", Timezone: "UTC"},
	}}
	pusher := &fakePusher{failFor: map[string]bool{"flaky-ep": true}}
	localHour, todayIn := pinnedClock(map[string]int{"UTC": 22}, "2024-01-10")

	service := &ReminderService{
		Subs: subs,
		Habits: &fakeHabitLister{byUser: map[string][]*model.Habit{
			"u1": {{HabitID: "h1", Name: "Read"}},
		}},
		Entries:   &fakeDayEntries{byUser: map[string][]*model.Entry{}},
		Pusher:    pusher,
		LocalHour: localHour,
		TodayIn:   todayIn,
	}

	stats, err := service.DispatchDueReminders(context.Background(), 22)
	if err != nil {
		t.Fatalf("DispatchDueReminders: %v", err)
	}

	if stats.Failed != 1 || stats.Sent != 1 || stats.StaleRemoved != 0 {
		t.Errorf("stats = %+v, want failed=1 sent=1 staleRemoved=0", stats)
	}
	if len(subs.deleted) != 0 {
		t.Error("transient failure deleted a subscription")
	}
}
