package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"jobdeck/cmd/jobdeck/commands"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to env file",
		Value: ".env",
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "jobdeck",
		Usage: "job application tracker with kanban, table, and calendar views",
		Commands: []*cli.Command{
			{
				Name:  "job",
				Usage: "manage job applications",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "create a job application",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "company", Usage: "company name", Required: true},
							&cli.StringFlag{Name: "position", Usage: "position title", Required: true},
							&cli.StringFlag{Name: "phase", Usage: "pipeline phase (applied/phone_screen/interview/final_round/offer/rejected/withdrawn)"},
							&cli.StringFlag{Name: "priority", Usage: "priority (low/medium/high)"},
							&cli.StringFlag{Name: "step", Usage: "free-form current step"},
							&cli.StringFlag{Name: "salary", Usage: "salary range"},
							&cli.StringFlag{Name: "location", Usage: "location"},
							&cli.StringFlag{Name: "next-task-date", Usage: "next task date (YYYY-MM-DD)"},
						},
						Action: commands.JobAddAction,
					},
					{
						Name:  "list",
						Usage: "list jobs as a table",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "sort", Usage: "sort key (company/position/phase/priority/location/next_task_date/created_at/updated_at)"},
							&cli.StringFlag{Name: "phase", Usage: "filter by phase"},
							&cli.BoolFlag{Name: "active", Usage: "only active applications"},
							&cli.StringFlag{Name: "query", Usage: "substring match on company or position"},
						},
						Action: commands.JobListAction,
					},
					{
						Name:  "show",
						Usage: "show one job in full",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "job id", Required: true},
						},
						Action: commands.JobShowAction,
					},
					{
						Name:  "edit",
						Usage: "update job fields",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "job id", Required: true},
							&cli.StringFlag{Name: "company", Usage: "company name"},
							&cli.StringFlag{Name: "position", Usage: "position title"},
							&cli.StringFlag{Name: "priority", Usage: "priority (low/medium/high)"},
							&cli.StringFlag{Name: "step", Usage: "free-form current step"},
							&cli.StringFlag{Name: "salary", Usage: "salary range"},
							&cli.StringFlag{Name: "location", Usage: "location"},
							&cli.StringFlag{Name: "next-task-date", Usage: "next task date (YYYY-MM-DD)"},
							&cli.BoolFlag{Name: "clear-next-task-date", Usage: "remove the next task date"},
						},
						Action: commands.JobEditAction,
					},
					{
						Name:  "move",
						Usage: "move a job to a phase column position",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "job id", Required: true},
							&cli.StringFlag{Name: "phase", Usage: "target phase", Required: true},
							&cli.IntFlag{Name: "index", Usage: "target position in the column"},
						},
						Action: commands.JobMoveAction,
					},
					{
						Name:  "delete",
						Usage: "delete a job and its tasks",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "job id", Required: true},
						},
						Action: commands.JobDeleteAction,
					},
					{
						Name:  "note",
						Usage: "append a note to a job",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "job id", Required: true},
							&cli.StringFlag{Name: "text", Usage: "note text", Required: true},
						},
						Action: commands.JobNoteAction,
					},
				},
			},
			{
				Name:  "task",
				Usage: "manage tasks",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "create a task",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "title", Usage: "task title", Required: true},
							&cli.StringFlag{Name: "job", Usage: "job id to link to"},
							&cli.StringFlag{Name: "status", Usage: "status (todo/in_progress/done)"},
							&cli.StringFlag{Name: "due", Usage: "due date (YYYY-MM-DD)"},
						},
						Action: commands.TaskAddAction,
					},
					{
						Name:   "list",
						Usage:  "list tasks grouped by status",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.TaskListAction,
					},
					{
						Name:  "edit",
						Usage: "update task fields",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "task id", Required: true},
							&cli.StringFlag{Name: "title", Usage: "task title"},
							&cli.StringFlag{Name: "job", Usage: "job id to link to"},
							&cli.BoolFlag{Name: "unlink", Usage: "detach from its job"},
							&cli.StringFlag{Name: "due", Usage: "due date (YYYY-MM-DD)"},
							&cli.BoolFlag{Name: "clear-due", Usage: "remove the due date"},
						},
						Action: commands.TaskEditAction,
					},
					{
						Name:  "move",
						Usage: "move a task to a status column position",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "task id", Required: true},
							&cli.StringFlag{Name: "status", Usage: "target status", Required: true},
							&cli.IntFlag{Name: "index", Usage: "target position in the column"},
						},
						Action: commands.TaskMoveAction,
					},
					{
						Name:  "delete",
						Usage: "delete a task",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "task id", Required: true},
						},
						Action: commands.TaskDeleteAction,
					},
				},
			},
			{
				Name:  "contact",
				Usage: "manage contacts",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "create a contact",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "name", Usage: "contact name", Required: true},
							&cli.StringFlag{Name: "email", Usage: "email address"},
							&cli.StringFlag{Name: "phone", Usage: "phone number"},
						},
						Action: commands.ContactAddAction,
					},
					{
						Name:   "list",
						Usage:  "list contacts",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.ContactListAction,
					},
					{
						Name:  "link",
						Usage: "link a contact to a job",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "id", Usage: "contact id", Required: true},
							&cli.StringFlag{Name: "job", Usage: "job id", Required: true},
						},
						Action: commands.ContactLinkAction,
					},
				},
			},
			{
				Name:   "board",
				Usage:  "render the kanban board",
				Flags:  []cli.Flag{envFlag()},
				Action: commands.BoardAction,
			},
			{
				Name:   "stats",
				Usage:  "show dashboard counters",
				Flags:  []cli.Flag{envFlag()},
				Action: commands.StatsAction,
			},
			{
				Name:  "calendar",
				Usage: "show dated jobs and tasks",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{Name: "date", Usage: "anchor date (YYYY-MM-DD, default today)"},
					&cli.StringFlag{Name: "span", Usage: "day, week, or month", Value: "month"},
				},
				Action: commands.CalendarAction,
			},
			{
				Name:   "seed",
				Usage:  "load the demo dataset",
				Flags:  []cli.Flag{envFlag()},
				Action: commands.SeedAction,
			},
			{
				Name:  "export",
				Usage: "archive the current document",
				Commands: []*cli.Command{
					{
						Name:  "save",
						Usage: "write the document to the archive",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "key", Usage: "archive key (default timestamped)"},
						},
						Action: commands.ExportAction,
					},
					{
						Name:  "list",
						Usage: "list archived exports",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "prefix", Usage: "key prefix filter"},
						},
						Action: commands.ExportListAction,
					},
					{
						Name:  "restore",
						Usage: "replace state with an archived export",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{Name: "key", Usage: "archive key", Required: true},
						},
						Action: commands.RestoreAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
