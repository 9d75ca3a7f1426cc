package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"main/model"
	"main/utils"
)

// DefaultReminderHour is the local hour (0-23) at which subscribers with
// incomplete habits get nudged.
const DefaultReminderHour = 22

// Pusher is the delivery transport collaborator. A delivery failure with a
// gone/not-found status must surface as model.ErrSubscriptionGone.
type Pusher interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload model.ReminderPayload) error
}

// SubscriptionsStore is the slice of the subscriptions repository the
// reminder job needs.
type SubscriptionsStore interface {
	GetAll(ctx context.Context) ([]*model.PushSubscription, error)
	DeleteByEndpoints(ctx context.Context, endpoints []string) error
}

// HabitLister narrows HabitsStore to what the reminder job reads.
type HabitLister interface {
	GetUserHabits(ctx context.Context, userID string) ([]*model.Habit, error)
}

// DayEntryLister narrows EntriesStore to a single-day read.
type DayEntryLister interface {
	GetByUserAndDate(ctx context.Context, userID, date string) ([]*model.Entry, error)
}

type DispatchStats struct {
	Selected     int `json:"selected"`
	Sent         int `json:"sent"`
	StaleRemoved int `json:"stale_removed"`
	Failed       int `json:"failed"`
}

type ReminderService struct {
	Subs    SubscriptionsStore
	Habits  HabitLister
	Entries DayEntryLister
	Pusher  Pusher

	// Clock hooks; zero values use the real calendar. Tests pin these.
	LocalHour func(timezone string) (int, error)
	TodayIn   func(timezone string) (string, error)
}

func (s *ReminderService) localHour(tz string) (int, error) {
	if s.LocalHour != nil {
		return s.LocalHour(tz)
	}
	return utils.LocalHour(tz)
}

func (s *ReminderService) todayIn(tz string) (string, error) {
	if s.TodayIn != nil {
		return s.TodayIn(tz)
	}
	return utils.TodayInTimezone(tz)
}

// DispatchDueReminders fans one notification out to every subscriber whose
// local hour matches targetHour and who has incomplete habits today (their
// today, per stored timezone). Gone/not-found deliveries mark the
// subscription stale; stale rows are bulk-deleted after the loop. Every
// other delivery failure is logged and skipped, no retry.
func (s *ReminderService) DispatchDueReminders(ctx context.Context, targetHour int) (DispatchStats, error) {
	var stats DispatchStats

	subs, err := s.Subs.GetAll(ctx)
	if err != nil {
		return stats, err
	}

	var staleEndpoints []string
	for _, sub := range subs {
		hour, err := s.localHour(sub.Timezone)
		if err != nil {
			log.Printf("Skipping subscription %s: bad timezone %q: %v", sub.SubscriptionID, sub.Timezone, err)
			continue
		}
		if hour != targetHour {
			continue
		}
		stats.Selected++

		today, err := s.todayIn(sub.Timezone)
		if err != nil {
			continue
		}

		payload, ok, err := s.buildPayload(ctx, sub.UserID, today)
		if err != nil {
			log.Printf("Reminder lookup failed for user %s: %v", sub.UserID, err)
			stats.Failed++
			continue
		}
		if !ok {
			continue
		}

		if err := s.Pusher.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, model.ErrSubscriptionGone) {
				staleEndpoints = append(staleEndpoints, sub.Endpoint)
			} else {
				log.Printf("Push failed for subscription %s: %v", sub.SubscriptionID, err)
				stats.Failed++
			}
			continue
		}
		stats.Sent++
		utils.RemindersSentTotal.Inc()
	}

	if len(staleEndpoints) > 0 {
		if err := s.Subs.DeleteByEndpoints(ctx, staleEndpoints); err != nil {
			log.Printf("Failed to remove stale subscriptions: %v", err)
		} else {
			stats.StaleRemoved = len(staleEndpoints)
			utils.StaleSubscriptionsTotal.Add(float64(len(staleEndpoints)))
		}
	}

	return stats, nil
}

// buildPayload returns (payload, false, nil) when the user has no habits or
// nothing incomplete today.
func (s *ReminderService) buildPayload(ctx context.Context, userID, today string) (model.ReminderPayload, bool, error) {
	habits, err := s.Habits.GetUserHabits(ctx, userID)
	if err != nil {
		return model.ReminderPayload{}, false, err
	}
	if len(habits) == 0 {
		return model.ReminderPayload{}, false, nil
	}

	entries, err := s.Entries.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return model.ReminderPayload{}, false, err
	}

	completed := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		completed[e.HabitID] = struct{}{}
	}

	var incomplete []string
	for _, h := range habits {
		if _, done := completed[h.HabitID]; !done {
			incomplete = append(incomplete, h.Name)
		}
	}
	if len(incomplete) == 0 {
		return model.ReminderPayload{}, false, nil
	}

	plural := ""
	if len(incomplete) > 1 {
		plural = "s"
	}
	return model.ReminderPayload{
		Title: "Habit Tracker",
		Body:  fmt.Sprintf("%d habit%s left today: %s", len(incomplete), plural, strings.Join(incomplete, ", ")),
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/icon-192.png",
		Tag:   "habit-reminder",
	}, true, nil
}
