package journal_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

func TestReminderSchedules(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := uuid.New()

	inputs := []journal.ReminderInput{
		{Time: "07:30", Message: "Morning pages"},
		{Time: "21:00", Days: []string{"Friday", "mon"}, Message: "Evening review"},
		{Time: "12:00", Days: []string{"sun"}, Message: "Weekly reflection"},
		{Time: "9:05", Days: []string{"sat", "wednesday", "Sat"}, Message: "Gratitude"},
	}

	var buf bytes.Buffer
	for _, in := range inputs {
		r, err := f.svc.Reminders.Create(ctx, user, in)
		require.NoError(t, err)
		spec, err := journal.CronSpec(r)
		require.NoError(t, err)
		next, err := f.svc.Reminders.Next(ctx, r.ID, testNow)
		require.NoError(t, err)
		fmt.Fprintf(&buf, "%s [%s]\t%s\t%s\n", r.Time, strings.Join(r.Days, ","), spec, next.Format(time.RFC3339))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "reminder_schedules", buf.Bytes())
}

func TestNormalizeDays(t *testing.T) {
	tests := []struct {
		in      []string
		want    []string
		wantErr bool
	}{
		{nil, []string{journal.Everyday}, false},
		{[]string{"Everyday"}, []string{journal.Everyday}, false},
		{[]string{"thu", "TUESDAY"}, []string{"tuesday", "thursday"}, false},
		{[]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}, []string{journal.Everyday}, false},
		{[]string{"everyday", "monday"}, nil, true},
		{[]string{"funday"}, nil, true},
	}
	for _, tt := range tests {
		got, err := journal.NormalizeDays(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, journal.ErrInvalidReminder, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCreateReminder_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Reminders.Create(ctx, uuid.New(), journal.ReminderInput{Time: "25:00"})
	assert.ErrorIs(t, err, journal.ErrInvalidReminder)

	_, err = f.svc.Reminders.Create(ctx, uuid.New(), journal.ReminderInput{Time: "08:00", Days: []string{"someday"}})
	assert.ErrorIs(t, err, journal.ErrInvalidReminder)
}

func TestReminderLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := uuid.New()

	disabled := false
	r, err := f.svc.Reminders.Create(ctx, user, journal.ReminderInput{Time: "20:00", Message: " write ", Enabled: &disabled})
	require.NoError(t, err)
	assert.False(t, r.Enabled)
	assert.Equal(t, "write", r.Message)

	list, err := f.svc.Reminders.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)

	others, err := f.svc.Reminders.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)

	f.clock.Set(testNow.Add(time.Minute))
	enabled := true
	days := []string{"monday"}
	updated, err := f.svc.Reminders.Update(ctx, r.ID, journal.ReminderPatch{Enabled: &enabled, Days: &days})
	require.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.Equal(t, []string{"monday"}, updated.Days)
	assert.Equal(t, "20:00", updated.Time)
	assert.Equal(t, testNow.Add(time.Minute), updated.UpdatedAt)

	require.NoError(t, f.svc.Reminders.Delete(ctx, r.ID))
	assert.ErrorIs(t, f.svc.Reminders.Delete(ctx, r.ID), journal.ErrReminderNotFound)

	_, err = f.svc.Reminders.Update(ctx, r.ID, journal.ReminderPatch{Enabled: &enabled})
	assert.ErrorIs(t, err, journal.ErrReminderNotFound)
}
