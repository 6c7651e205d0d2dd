package board

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/taskboard/internal/core/auth"
	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/core/task"
	"github.com/hay-kot/taskboard/internal/core/timeentry"
)

// LoadLimits caps the full-load read paths.
type LoadLimits struct {
	Tasks   int
	Entries int
}

// Service is the authoritative in-process view of the board: a task map
// kept consistent with the store through optimistic updates plus realtime
// reconciliation, a status registry snapshot, and the ownership rule for
// status changes.
//
// The task map is entirely rebuildable from LoadAll and incrementally
// patchable from feed events.
type Service struct {
	store    task.Store
	statuses status.Store
	tracker  *Tracker
	oracle   auth.Oracle
	bus      *eventbus.EventBus
	log      zerolog.Logger
	limits   LoadLimits

	mu       sync.RWMutex
	tasks    map[string]task.Task
	registry *status.Registry
	entries  []timeentry.Entry
}

// NewService creates a board service. Call LoadAll before serving reads.
func NewService(
	store task.Store,
	statuses status.Store,
	tracker *Tracker,
	oracle auth.Oracle,
	bus *eventbus.EventBus,
	log zerolog.Logger,
	limits LoadLimits,
) *Service {
	if limits.Tasks == 0 {
		limits.Tasks = 200
	}
	if limits.Entries == 0 {
		limits.Entries = 500
	}
	return &Service{
		store:    store,
		statuses: statuses,
		tracker:  tracker,
		oracle:   oracle,
		bus:      bus,
		log:      log.With().Str("component", "board").Logger(),
		limits:   limits,
		tasks:    make(map[string]task.Task),
		registry: status.NewRegistry(nil),
	}
}

// LoadAll fetches the full task set, the status registry, and the most
// recent time entries, replacing the in-memory state. There are no
// partial-failure semantics; on error the previous state is kept and the
// caller retries the whole load.
func (s *Service) LoadAll(ctx context.Context) error {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return fmt.Errorf("load statuses: %w", err)
	}

	tasks, err := s.store.List(ctx, task.ListFilter{Limit: s.limits.Tasks})
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	entries, err := s.tracker.entries.List(ctx, s.limits.Entries)
	if err != nil {
		return fmt.Errorf("load time entries: %w", err)
	}

	m := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}

	s.mu.Lock()
	s.tasks = m
	s.registry = status.NewRegistry(statuses)
	s.entries = entries
	s.mu.Unlock()

	return nil
}

// RecentEntries returns the time entry snapshot from the last LoadAll,
// newest first, open entries included.
func (s *Service) RecentEntries() []timeentry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]timeentry.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ReloadRegistry refreshes only the status registry snapshot. Used after
// registry mutations so tasks keep their loaded state.
func (s *Service) ReloadRegistry(ctx context.Context) error {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return fmt.Errorf("reload statuses: %w", err)
	}

	s.mu.Lock()
	s.registry = status.NewRegistry(statuses)
	s.mu.Unlock()

	return nil
}

// SetRegistry replaces the registry snapshot directly, e.g. from a
// status.registry-changed event.
func (s *Service) SetRegistry(reg *status.Registry) {
	s.mu.Lock()
	s.registry = reg
	s.mu.Unlock()
}

// Registry returns the current registry snapshot.
func (s *Service) Registry() *status.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// ApplyRemoteEvent patches the task map from one feed event. Create and
// delete are idempotent against duplicate or late delivery; update is
// last-writer-wins regardless of arrival order.
func (s *Service) ApplyRemoteEvent(ev FeedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case FeedCreate:
		if _, ok := s.tasks[ev.TaskID]; ok {
			return
		}
		s.tasks[ev.TaskID] = ev.Task
	case FeedUpdate:
		if _, ok := s.tasks[ev.TaskID]; !ok {
			return
		}
		s.tasks[ev.TaskID] = ev.Task
	case FeedDelete:
		delete(s.tasks, ev.TaskID)
	}
}

// AttachFeed subscribes the service's reconciliation handler to a feed.
func (s *Service) AttachFeed(feed Feed) {
	feed.SubscribeTasks(s.ApplyRemoteEvent)
}

// Get returns a task from the in-memory map.
func (s *Service) Get(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns the raw unfiltered task snapshot, orphans included.
func (s *Service) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// CreateOptions holds the caller-supplied fields for a new task.
type CreateOptions struct {
	Title          string
	Description    string
	Priority       task.Priority
	EstimatedHours float64
	DueDate        *time.Time
	ProjectID      string
	AssigneeID     string
	AssigneeName   string
}

// Create persists a new task defaulted into the first registry status.
// The manager-capability check belongs to the caller; task creation is a
// privileged surface gated at the command layer.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (task.Task, error) {
	reg := s.Registry()
	if reg.Len() == 0 {
		return task.Task{}, ErrNoStatuses
	}
	first := reg.All()[0]

	user := s.oracle.CurrentUser()
	assigneeID, assigneeName := opts.AssigneeID, opts.AssigneeName
	if assigneeID == "" {
		assigneeID, assigneeName = user.ID, user.Name
	}

	priority := opts.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}

	t := task.Task{
		Title:          opts.Title,
		Description:    opts.Description,
		Priority:       priority,
		EstimatedHours: opts.EstimatedHours,
		DueDate:        opts.DueDate,
		StatusID:       first.ID,
		Status:         strings.ToLower(first.Name),
		CreatorID:      user.ID,
		CreatorName:    user.Name,
		AssigneeID:     assigneeID,
		AssigneeName:   assigneeName,
		ProjectID:      opts.ProjectID,
	}

	if err := s.store.Create(ctx, &t); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()

	s.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: t})

	return t, nil
}

// MoveStatus transitions a task to a new status on behalf of actorID.
//
// Only the task's current assignee may move it; any other actor is refused
// with ErrNotAssignee and no state changes. Moving to the current status is
// a no-op. The local state and the time-tracking hook are applied before
// the store write; a failed write rolls the local state back.
func (s *Service) MoveStatus(ctx context.Context, taskID, newStatusID, actorID string) error {
	s.mu.Lock()
	t, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return task.ErrNotFound
	}
	if t.AssigneeID != actorID {
		s.mu.Unlock()
		return ErrNotAssignee
	}

	oldStatusID, oldLabel := t.StatusID, t.Status
	if oldStatusID == newStatusID {
		s.mu.Unlock()
		return nil
	}

	reg := s.registry
	label := ""
	if st, found := reg.Get(newStatusID); found {
		label = strings.ToLower(st.Name)
	}

	// Optimistic local apply.
	t.StatusID = newStatusID
	t.Status = label
	s.tasks[taskID] = t
	s.mu.Unlock()

	// Tracking hook runs synchronously before the store write resolves.
	// Tracking failures do not fail the move.
	if err := s.tracker.OnTransition(ctx, reg.InProgressID(), taskID, oldStatusID, newStatusID, t.AssigneeID); err != nil {
		s.log.Error().Err(err).Str("task", taskID).Msg("time tracking transition failed")
	}

	if err := s.store.UpdateStatus(ctx, taskID, task.StatusUpdate{StatusID: newStatusID, Status: label}); err != nil {
		// Roll back the optimistic apply.
		s.mu.Lock()
		if cur, found := s.tasks[taskID]; found {
			cur.StatusID = oldStatusID
			cur.Status = oldLabel
			s.tasks[taskID] = cur
		}
		s.mu.Unlock()
		return fmt.Errorf("move task %s: %w", taskID, err)
	}

	s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: t})

	return nil
}

// CanDrag reports whether actorID may start dragging the task. The rule
// mirrors MoveStatus: only the assignee, managers included, may drag.
func (s *Service) CanDrag(taskID, actorID string) bool {
	t, ok := s.Get(taskID)
	return ok && t.AssigneeID == actorID
}

// Reassign sets a new assignee on a task. Capability checks belong to the
// caller. On write failure the optimistic state is corrected by a full
// reload rather than a precise rollback.
func (s *Service) Reassign(ctx context.Context, taskID, assigneeID, assigneeName string) error {
	s.mu.Lock()
	t, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return task.ErrNotFound
	}
	t.AssigneeID = assigneeID
	t.AssigneeName = assigneeName
	s.tasks[taskID] = t
	s.mu.Unlock()

	if err := s.store.UpdateAssignee(ctx, taskID, task.AssigneeUpdate{AssigneeID: assigneeID, AssigneeName: assigneeName}); err != nil {
		s.reloadAfterFailure(ctx, "reassign", taskID)
		return fmt.Errorf("reassign task %s: %w", taskID, err)
	}

	s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: t})

	return nil
}

// Rate records a quality rating on a completed task.
func (s *Service) Rate(ctx context.Context, taskID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	s.mu.Lock()
	t, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return task.ErrNotFound
	}
	if !s.registry.IsCompleted(t.StatusID) {
		s.mu.Unlock()
		return ErrNotCompleted
	}
	t.QualityRating = rating
	s.tasks[taskID] = t
	s.mu.Unlock()

	if err := s.store.UpdateRating(ctx, taskID, rating); err != nil {
		s.reloadAfterFailure(ctx, "rate", taskID)
		return fmt.Errorf("rate task %s: %w", taskID, err)
	}

	s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: t})

	return nil
}

// Remove deletes a task. The local removal is optimistic; a failed remote
// delete is reconciled by a full reload, not a rollback, since deletes are
// rarer and less reversible than updates.
func (s *Service) Remove(ctx context.Context, taskID string) error {
	s.mu.Lock()
	if _, ok := s.tasks[taskID]; !ok {
		s.mu.Unlock()
		return task.ErrNotFound
	}
	delete(s.tasks, taskID)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, taskID); err != nil {
		s.reloadAfterFailure(ctx, "remove", taskID)
		return fmt.Errorf("remove task %s: %w", taskID, err)
	}

	s.bus.PublishTaskDeleted(eventbus.TaskDeletedPayload{TaskID: taskID})

	return nil
}

// reloadAfterFailure reconciles local state with the store after a failed
// write. Reload errors are logged; the original failure is what surfaces.
func (s *Service) reloadAfterFailure(ctx context.Context, op, taskID string) {
	if err := s.LoadAll(ctx); err != nil {
		s.log.Error().Err(err).Str("op", op).Str("task", taskID).Msg("reload after failed write")
	}
}

// VisibleTasksFor returns the flat task list an actor may see: orphans
// (tasks whose status id is not in the registry) are excluded, and unless
// the actor holds the manage capability the list is restricted to their
// own tasks.
func (s *Service) VisibleTasksFor(actor auth.User, manager bool) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []task.Task
	for _, t := range s.tasks {
		if s.registry.Len() > 0 && !s.registry.IsValid(t.StatusID) {
			continue
		}
		if !manager && t.AssigneeID != actor.ID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Visible returns the visible tasks for the configured local user.
func (s *Service) Visible() []task.Task {
	actor := s.oracle.CurrentUser()
	return s.VisibleTasksFor(actor, s.oracle.HasCapability(auth.CapManageTasks))
}

// Column is one board column: a status and the visible tasks in it.
type Column struct {
	Status status.Status
	Tasks  []task.Task
}

// View is the grouped-by-status board presentation: ordered columns plus
// the orphan bucket of ownership-visible tasks hidden from every column.
type View struct {
	Columns []Column
	Orphans []task.Task
}

// ViewFor partitions the actor's tasks into registry-ordered columns.
// Tasks referencing a deleted status land in Orphans instead of a column.
func (s *Service) ViewFor(actor auth.User, manager bool) View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStatus := make(map[string][]task.Task)
	var orphans []task.Task
	for _, t := range s.tasks {
		if !manager && t.AssigneeID != actor.ID {
			continue
		}
		if s.registry.IsValid(t.StatusID) {
			byStatus[t.StatusID] = append(byStatus[t.StatusID], t)
		} else {
			orphans = append(orphans, t)
		}
	}

	view := View{Orphans: orphans}
	for _, st := range s.registry.All() {
		view.Columns = append(view.Columns, Column{Status: st, Tasks: byStatus[st.ID]})
	}
	return view
}
