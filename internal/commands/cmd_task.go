package commands

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskboard/internal/board"
	"github.com/hay-kot/taskboard/internal/core/auth"
	"github.com/hay-kot/taskboard/internal/core/styles"
	"github.com/hay-kot/taskboard/internal/core/task"
)

// TaskCmd implements the taskboard task command group.
type TaskCmd struct {
	flags *Flags
	app   *board.App

	// new flags
	newTitle       string
	newDescription string
	newPriority    string
	newHours       int64
	newMinutes     int64
	newDue         string
	newProject     string
	newAssigneeID  string
	newAssignee    string

	// list flags
	listAssignee string
	listPriority string
	listProject  string
	listSearch   string
	listAll      bool

	// reassign flags
	reassignName string
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags, app *board.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Manage board tasks",
		Description: `Task commands for listing, creating, and moving board tasks.

Only a task's assignee can move it between statuses; managers may
reassign and delete tasks but cannot drive someone else's card.

Examples:
  taskboard task list                         # list visible tasks
  taskboard task new --title "Fix login"      # create a task
  taskboard task move <id> "in progress"      # move a task by status name
  taskboard task rate <id> 4                  # rate a completed task`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.showCmd(),
			cmd.newCmd(),
			cmd.moveCmd(),
			cmd.reassignCmd(),
			cmd.rateCmd(),
			cmd.rmCmd(),
		},
	})

	return app
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "taskboard task list [--assignee <id>] [--priority <p>] [--project <glob>] [--search <text>] [--all]",
		Description: `Lists visible tasks grouped by status column.

Orphaned tasks (status deleted from the registry) are hidden from the
columns. Use --all for the raw, unpartitioned list including orphans.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "assignee", Usage: "filter by assignee id", Destination: &cmd.listAssignee},
			&cli.StringFlag{Name: "priority", Usage: "filter by priority (low, medium, high)", Destination: &cmd.listPriority},
			&cli.StringFlag{Name: "project", Usage: "filter by project id (glob patterns supported)", Destination: &cmd.listProject},
			&cli.StringFlag{Name: "search", Usage: "filter by title/description substring", Destination: &cmd.listSearch},
			&cli.BoolFlag{Name: "all", Usage: "raw list including orphaned tasks", Destination: &cmd.listAll},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			if cmd.listAll {
				for _, t := range cmd.app.Board.Tasks() {
					if !cmd.matches(t) {
						continue
					}
					fmt.Fprintf(c.Writer, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.Title)
				}
				return nil
			}

			actor := cmd.app.Oracle.CurrentUser()
			manager := cmd.app.Oracle.HasCapability(auth.CapManageTasks)
			view := cmd.app.Board.ViewFor(actor, manager)

			for _, col := range view.Columns {
				title := styles.ColumnTitle(col.Status.Color).Render(col.Status.Name)
				fmt.Fprintf(c.Writer, "%s (%d)\n", title, len(col.Tasks))
				for _, t := range col.Tasks {
					if !cmd.matches(t) {
						continue
					}
					cmd.printTask(ctx, c, t)
				}
				fmt.Fprintln(c.Writer)
			}

			if len(view.Orphans) > 0 {
				fmt.Fprintln(c.Writer, styles.Muted().Render(fmt.Sprintf("%d task(s) hidden: status no longer exists", len(view.Orphans))))
			}

			return nil
		},
	}
}

func (cmd *TaskCmd) printTask(ctx context.Context, c *cli.Command, t task.Task) {
	line := fmt.Sprintf("  %s  %s  %s",
		styles.Muted().Render(shortID(t.ID)),
		styles.PriorityStyle(t.Priority).Render(string(t.Priority)),
		t.Title,
	)

	if est := board.FormatEstimate(t); est != "" {
		line += styles.Muted().Render("  est " + est)
	}
	if actual, err := cmd.app.Tracker.ActualHours(ctx, t.ID); err == nil && actual.Sessions > 0 {
		line += styles.Muted().Render(fmt.Sprintf("  actual %s (%d session(s))", board.FormatHours(actual.TotalHours), actual.Sessions))
	}
	if t.AssigneeName != "" {
		line += styles.Muted().Render("  @" + t.AssigneeName)
	}

	fmt.Fprintln(c.Writer, line)
}

// matches applies the list filters to one task.
func (cmd *TaskCmd) matches(t task.Task) bool {
	if cmd.listAssignee != "" && t.AssigneeID != cmd.listAssignee {
		return false
	}
	if cmd.listPriority != "" && string(t.Priority) != cmd.listPriority {
		return false
	}
	if cmd.listProject != "" {
		ok, err := doublestar.Match(cmd.listProject, t.ProjectID)
		if err != nil || !ok {
			return false
		}
	}
	if cmd.listSearch != "" {
		q := strings.ToLower(cmd.listSearch)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

func (cmd *TaskCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a task with its tracked time",
		UsageText: "taskboard task show <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one task id")
			}
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			t, err := cmd.resolveTask(c.Args().First())
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "%s\n", t.Title)
			fmt.Fprintf(c.Writer, "id: %s  status: %s  priority: %s\n", t.ID, t.Status, t.Priority)
			fmt.Fprintf(c.Writer, "assignee: %s  creator: %s\n", orDash(t.AssigneeName), orDash(t.CreatorName))
			if t.DueDate != nil {
				fmt.Fprintf(c.Writer, "due: %s\n", t.DueDate.Format("2006-01-02"))
			}
			if est := board.FormatEstimate(t); est != "" {
				fmt.Fprintf(c.Writer, "estimated: %s\n", est)
			}

			actual, err := cmd.app.Tracker.ActualHours(ctx, t.ID)
			if err != nil {
				return err
			}
			if actual.Sessions > 0 {
				over := ""
				if board.OverEstimate(t, actual.TotalHours) {
					over = styles.PriorityStyle(task.PriorityHigh).Render("  over estimate")
				}
				fmt.Fprintf(c.Writer, "actual: %s across %d session(s)%s\n", board.FormatHours(actual.TotalHours), actual.Sessions, over)
			}
			if t.Rated() {
				fmt.Fprintf(c.Writer, "quality: %d/5\n", t.QualityRating)
			}

			if t.Description != "" {
				rendered, err := glamour.Render(t.Description, "dark")
				if err != nil {
					// Fall back to raw text when markdown rendering fails.
					rendered = t.Description + "\n"
				}
				fmt.Fprint(c.Writer, rendered)
			}

			return nil
		},
	}
}

func (cmd *TaskCmd) newCmd() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a task (requires the manage_tasks capability)",
		UsageText: "taskboard task new [--title <title>] [options]",
		Description: `Creates a task in the first status column. When --title is
omitted an interactive form collects the fields.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "task title", Destination: &cmd.newTitle},
			&cli.StringFlag{Name: "desc", Usage: "task description (markdown)", Destination: &cmd.newDescription},
			&cli.StringFlag{Name: "priority", Usage: "low, medium, or high", Value: "medium", Destination: &cmd.newPriority},
			&cli.Int64Flag{Name: "hours", Usage: "estimated hours", Destination: &cmd.newHours},
			&cli.Int64Flag{Name: "minutes", Usage: "estimated minutes", Destination: &cmd.newMinutes},
			&cli.StringFlag{Name: "due", Usage: "due date (YYYY-MM-DD)", Destination: &cmd.newDue},
			&cli.StringFlag{Name: "project", Usage: "project id", Destination: &cmd.newProject},
			&cli.StringFlag{Name: "assignee-id", Usage: "assignee user id (defaults to you)", Destination: &cmd.newAssigneeID},
			&cli.StringFlag{Name: "assignee-name", Usage: "assignee display name", Destination: &cmd.newAssignee},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if !cmd.app.Oracle.HasCapability(auth.CapManageTasks) {
				return fmt.Errorf("creating tasks requires the %s capability", auth.CapManageTasks)
			}
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			if cmd.newTitle == "" {
				if err := cmd.runNewForm(); err != nil {
					return err
				}
			}

			priority := task.Priority(cmd.newPriority)
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q", cmd.newPriority)
			}

			opts := board.CreateOptions{
				Title:          cmd.newTitle,
				Description:    cmd.newDescription,
				Priority:       priority,
				EstimatedHours: combineEstimate(cmd.newHours, cmd.newMinutes),
				ProjectID:      cmd.newProject,
				AssigneeID:     cmd.newAssigneeID,
				AssigneeName:   cmd.newAssignee,
			}

			if cmd.newDue != "" {
				due, err := time.Parse("2006-01-02", cmd.newDue)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", cmd.newDue, err)
				}
				opts.DueDate = &due
			}

			t, err := cmd.app.Board.Create(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "created %s (%s)\n", t.ID, t.Title)
			return nil
		},
	}
}

// runNewForm collects task fields interactively.
func (cmd *TaskCmd) runNewForm() error {
	var estimate string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&cmd.newTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&cmd.newDescription),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", "low"),
					huh.NewOption("Medium", "medium"),
					huh.NewOption("High", "high"),
				).
				Value(&cmd.newPriority),
			huh.NewInput().
				Title("Estimate (hours, e.g. 2.5)").
				Value(&estimate),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("task form: %w", err)
	}

	if estimate != "" {
		h, err := strconv.ParseFloat(estimate, 64)
		if err != nil {
			return fmt.Errorf("invalid estimate %q: %w", estimate, err)
		}
		cmd.newHours = int64(h)
		cmd.newMinutes = int64(math.Round((h - float64(int64(h))) * 60))
	}

	return nil
}

func (cmd *TaskCmd) moveCmd() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Aliases:   []string{"mv"},
		Usage:     "Move a task to another status",
		UsageText: "taskboard task move <id> <status name or id>",
		Description: `Moves a task across the board. Only the assignee may move their
own task. Entering "in progress" opens a time entry; leaving it closes
the open entry with its elapsed time.`,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected <task id> <status>")
			}
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			t, err := cmd.resolveTask(c.Args().First())
			if err != nil {
				return err
			}
			st, err := cmd.resolveStatus(c.Args().Get(1))
			if err != nil {
				return err
			}

			actor := cmd.app.Oracle.CurrentUser()
			if err := cmd.app.Board.MoveStatus(ctx, t.ID, st.ID, actor.ID); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "moved %q to %s\n", t.Title, st.Name)
			return nil
		},
	}
}

func (cmd *TaskCmd) reassignCmd() *cli.Command {
	return &cli.Command{
		Name:      "reassign",
		Usage:     "Reassign a task to another user (requires manage_tasks)",
		UsageText: "taskboard task reassign <id> <assignee id> [--name <display name>]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "assignee display name", Destination: &cmd.reassignName},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected <task id> <assignee id>")
			}
			if !cmd.app.Oracle.HasCapability(auth.CapManageTasks) {
				return fmt.Errorf("reassigning tasks requires the %s capability", auth.CapManageTasks)
			}
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			t, err := cmd.resolveTask(c.Args().First())
			if err != nil {
				return err
			}

			assigneeID := c.Args().Get(1)
			if err := cmd.app.Board.Reassign(ctx, t.ID, assigneeID, cmd.reassignName); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "reassigned %q to %s\n", t.Title, assigneeID)
			return nil
		},
	}
}

func (cmd *TaskCmd) rateCmd() *cli.Command {
	return &cli.Command{
		Name:      "rate",
		Usage:     "Rate the quality of a completed task (1-5)",
		UsageText: "taskboard task rate <id> <rating>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected <task id> <rating 1-5>")
			}
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			t, err := cmd.resolveTask(c.Args().First())
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid rating %q", c.Args().Get(1))
			}

			if err := cmd.app.Board.Rate(ctx, t.ID, rating); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "rated %q %d/5\n", t.Title, rating)
			return nil
		},
	}
}

func (cmd *TaskCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a task (requires manage_tasks)",
		UsageText: "taskboard task rm <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one task id")
			}
			if !cmd.app.Oracle.HasCapability(auth.CapManageTasks) {
				return fmt.Errorf("deleting tasks requires the %s capability", auth.CapManageTasks)
			}
			if err := cmd.app.Board.LoadAll(ctx); err != nil {
				return err
			}

			t, err := cmd.resolveTask(c.Args().First())
			if err != nil {
				return err
			}

			if err := cmd.app.Board.Remove(ctx, t.ID); err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "deleted %q\n", t.Title)
			return nil
		},
	}
}

// resolveTask finds a loaded task by full id or unique id prefix.
func (cmd *TaskCmd) resolveTask(ref string) (task.Task, error) {
	if t, ok := cmd.app.Board.Get(ref); ok {
		return t, nil
	}

	var matches []task.Task
	for _, t := range cmd.app.Board.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return task.Task{}, fmt.Errorf("no task matches %q", ref)
	default:
		return task.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveStatus finds a registry status by id or case-insensitive name.
func (cmd *TaskCmd) resolveStatus(ref string) (st statusEntry, err error) {
	reg := cmd.app.Board.Registry()
	if s, ok := reg.Get(ref); ok {
		return statusEntry{ID: s.ID, Name: s.Name}, nil
	}
	for _, s := range reg.All() {
		if strings.EqualFold(s.Name, ref) {
			return statusEntry{ID: s.ID, Name: s.Name}, nil
		}
	}
	return statusEntry{}, fmt.Errorf("no status matches %q", ref)
}

type statusEntry struct {
	ID   string
	Name string
}

// combineEstimate merges separate hour and minute inputs into decimal
// hours, rounded to 2 decimal places.
func combineEstimate(hours, minutes int64) float64 {
	total := float64(hours) + float64(minutes)/60
	return math.Round(total*100) / 100
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
