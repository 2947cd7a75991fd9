package journal

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/unowned-ai/eunoia/pkg/simulate"
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

type ReminderService struct {
	reminders ReminderRepository
	sim       Simulator
	opts      *options
}

func (s *ReminderService) List(ctx context.Context, userID uuid.UUID) ([]Reminder, error) {
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return nil, err
	}
	list, err := s.reminders.ListReminders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return list, nil
}

func (s *ReminderService) Create(ctx context.Context, userID uuid.UUID, in ReminderInput) (Reminder, error) {
	clock, err := normalizeClock(in.Time)
	if err != nil {
		return Reminder{}, err
	}
	days, err := NormalizeDays(in.Days)
	if err != nil {
		return Reminder{}, err
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	now := s.opts.clock()
	r := Reminder{
		ID:        uuid.New(),
		UserID:    userID,
		Time:      clock,
		Days:      days,
		Message:   strings.TrimSpace(in.Message),
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Reminder{}, err
	}
	if err := s.reminders.InsertReminder(ctx, r); err != nil {
		return Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	return r, nil
}

func (s *ReminderService) Update(ctx context.Context, id uuid.UUID, patch ReminderPatch) (Reminder, error) {
	r, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	if patch.Time != nil {
		if r.Time, err = normalizeClock(*patch.Time); err != nil {
			return Reminder{}, err
		}
	}
	if patch.Days != nil {
		if r.Days, err = NormalizeDays(*patch.Days); err != nil {
			return Reminder{}, err
		}
	}
	if patch.Message != nil {
		r.Message = strings.TrimSpace(*patch.Message)
	}
	if patch.Enabled != nil {
		r.Enabled = *patch.Enabled
	}
	if now := s.opts.clock(); now.After(r.UpdatedAt) {
		r.UpdatedAt = now
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Reminder{}, err
	}
	if err := s.reminders.UpdateReminder(ctx, r); err != nil {
		return Reminder{}, fmt.Errorf("update reminder: %w", err)
	}
	return r, nil
}

func (s *ReminderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.reminders.GetReminder(ctx, id); err != nil {
		return err
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return err
	}
	return s.reminders.DeleteReminder(ctx, id)
}

// Next reports when the reminder fires next after from.
func (s *ReminderService) Next(ctx context.Context, id uuid.UUID, from time.Time) (time.Time, error) {
	r, err := s.reminders.GetReminder(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	sched, err := Schedule(r)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// CronSpec renders the reminder as a five-field cron expression.
func CronSpec(r Reminder) (string, error) {
	clock, err := normalizeClock(r.Time)
	if err != nil {
		return "", err
	}
	days, err := NormalizeDays(r.Days)
	if err != nil {
		return "", err
	}
	hour, _ := strconv.Atoi(clock[:2])
	minute, _ := strconv.Atoi(clock[3:])

	dow := "*"
	if days[0] != Everyday {
		nums := make([]string, len(days))
		for i, d := range days {
			nums[i] = strconv.Itoa(int(weekdays[d]))
		}
		dow = strings.Join(nums, ",")
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, dow), nil
}

// Schedule parses the reminder into a cron schedule.
func Schedule(r Reminder) (cron.Schedule, error) {
	spec, err := CronSpec(r)
	if err != nil {
		return nil, err
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}
	return sched, nil
}

// NormalizeDays lowercases weekday names, expands abbreviations, orders them
// Sunday first and collapses an empty or full week to Everyday.
func NormalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return []string{Everyday}, nil
	}
	seen := make(map[time.Weekday]bool)
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == Everyday {
			if len(days) != 1 {
				return nil, fmt.Errorf("%w: %q cannot be combined with weekdays", ErrInvalidReminder, Everyday)
			}
			return []string{Everyday}, nil
		}
		wd, ok := weekdays[d]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidReminder, d)
		}
		seen[wd] = true
	}
	if len(seen) == 7 {
		return []string{Everyday}, nil
	}
	ordered := make([]time.Weekday, 0, len(seen))
	for wd := range seen {
		ordered = append(ordered, wd)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	out := make([]string, len(ordered))
	for i, wd := range ordered {
		out[i] = strings.ToLower(wd.String())
	}
	return out, nil
}

func normalizeClock(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: time must be HH:MM", ErrInvalidReminder)
	}
	return t.Format("15:04"), nil
}
