package board

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/timeentry"
)

// Tracker derives time-entry side effects from task status transitions.
// Entering the in-progress status opens an entry; leaving it closes the
// open one. Entries are never user-edited; the only other producer is
// LogManual, which appends already-closed entries.
type Tracker struct {
	entries timeentry.Store
	bus     *eventbus.EventBus
	log     zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewTracker creates a time-tracking engine over the given entry store.
func NewTracker(entries timeentry.Store, bus *eventbus.EventBus, log zerolog.Logger) *Tracker {
	return &Tracker{
		entries: entries,
		bus:     bus,
		log:     log.With().Str("component", "tracker").Logger(),
		now:     time.Now,
	}
}

// ActualTime aggregates the closed entries of a task.
type ActualTime struct {
	TotalHours float64
	Sessions   int
}

// OnTransition reacts to a task moving from oldStatusID to newStatusID.
// inProgressID is the registry's in-progress status id; when empty, the
// workflow has no tracking stage and the call is a no-op.
//
// Transitions that neither enter nor leave in-progress have no side effect.
func (tr *Tracker) OnTransition(ctx context.Context, inProgressID, taskID, oldStatusID, newStatusID, userID string) error {
	if inProgressID == "" {
		return nil
	}

	wasInProgress := oldStatusID == inProgressID
	nowInProgress := newStatusID == inProgressID

	switch {
	case !wasInProgress && nowInProgress:
		return tr.open(ctx, taskID, userID)
	case wasInProgress && !nowInProgress:
		return tr.close(ctx, taskID)
	default:
		return nil
	}
}

// open creates a new open entry unless one already exists. Duplicate
// delivery of the same transition must not produce a second open entry.
func (tr *Tracker) open(ctx context.Context, taskID, userID string) error {
	_, err := tr.entries.FindOpen(ctx, taskID)
	switch {
	case err == nil:
		tr.log.Debug().Str("task", taskID).Msg("open entry already exists, skipping")
		return nil
	case !errors.Is(err, timeentry.ErrNoOpenEntry):
		return fmt.Errorf("check for open entry: %w", err)
	}

	entry := timeentry.Entry{
		TaskID:    taskID,
		UserID:    userID,
		StartTime: tr.now(),
		Duration:  0,
	}
	if err := tr.entries.Create(ctx, &entry); err != nil {
		return fmt.Errorf("start time tracking for task %s: %w", taskID, err)
	}

	tr.bus.PublishEntryOpened(eventbus.EntryOpenedPayload{Entry: entry})

	return nil
}

// close finds the most recent open entry and sets its elapsed duration.
// A missing open entry (e.g. opened by another client and not yet visible)
// is logged and swallowed; no synthetic entry is fabricated.
func (tr *Tracker) close(ctx context.Context, taskID string) error {
	entry, err := tr.entries.FindOpen(ctx, taskID)
	if errors.Is(err, timeentry.ErrNoOpenEntry) {
		tr.log.Warn().Str("task", taskID).Msg("no open entry to close")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find open entry: %w", err)
	}

	elapsed := RoundHours(tr.now().Sub(entry.StartTime).Hours())
	if err := tr.entries.Close(ctx, entry.ID, elapsed); err != nil {
		return fmt.Errorf("stop time tracking for task %s: %w", taskID, err)
	}

	entry.Duration = elapsed
	tr.bus.PublishEntryClosed(eventbus.EntryClosedPayload{Entry: entry})

	return nil
}

// ActualHours sums the closed entries for a task. Open entries do not
// contribute; an in-progress task's elapsing time is counted only once
// the entry closes.
func (tr *Tracker) ActualHours(ctx context.Context, taskID string) (ActualTime, error) {
	entries, err := tr.entries.ListByTask(ctx, taskID)
	if err != nil {
		return ActualTime{}, fmt.Errorf("list entries for task %s: %w", taskID, err)
	}

	var at ActualTime
	for _, e := range entries {
		if e.Duration > 0 {
			at.TotalHours += e.Duration
			at.Sessions++
		}
	}

	return at, nil
}

// ReportHours sums a task's tracked time for reporting. With includeLive,
// a still-open entry contributes its elapsed-so-far time.
func (tr *Tracker) ReportHours(ctx context.Context, taskID string, includeLive bool) (float64, error) {
	entries, err := tr.entries.ListByTask(ctx, taskID)
	if err != nil {
		return 0, fmt.Errorf("list entries for task %s: %w", taskID, err)
	}

	var total float64
	for _, e := range entries {
		switch {
		case e.Duration > 0:
			total += e.Duration
		case includeLive && !e.StartTime.IsZero():
			total += tr.now().Sub(e.StartTime).Hours()
		}
	}

	return total, nil
}

// LogManual appends a closed entry with a user-chosen date and duration.
// This is the manual time-log path; it never touches open entries.
func (tr *Tracker) LogManual(ctx context.Context, taskID, userID string, date time.Time, hours float64) (timeentry.Entry, error) {
	if hours <= 0 {
		return timeentry.Entry{}, fmt.Errorf("manual log duration must be positive, got %v", hours)
	}

	entry := timeentry.Entry{
		TaskID:    taskID,
		UserID:    userID,
		StartTime: date,
		Duration:  RoundHours(hours),
	}
	if err := tr.entries.Create(ctx, &entry); err != nil {
		return timeentry.Entry{}, fmt.Errorf("log manual entry for task %s: %w", taskID, err)
	}

	tr.bus.PublishEntryClosed(eventbus.EntryClosedPayload{Entry: entry})

	return entry, nil
}

// RoundHours rounds a fractional-hours value to 6 decimal places,
// roughly 3.6ms of precision.
func RoundHours(h float64) float64 {
	return math.Round(h*1e6) / 1e6
}
