package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"jobdeck/internal/core"
)

// TaskAddAction creates a task, standalone or linked to a job.
func TaskAddAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	in := core.AddTaskInput{
		Title:  cmd.String("title"),
		Status: core.TaskStatus(cmd.String("status")),
	}
	if jobID := cmd.String("job"); jobID != "" {
		in.JobID = &jobID
	}
	if cmd.IsSet("due") {
		due, err := time.Parse("2006-01-02", cmd.String("due"))
		if err != nil {
			return fmt.Errorf("parse --due: %w", err)
		}
		in.DueDate = &due
	}

	out, err := appCtx.Service.Dispatch(ctx, core.AddTaskCommand{AddTaskInput: in})
	if err != nil {
		return err
	}
	fmt.Printf("created task %s (%s)\n", out.Task.ID, out.Task.Title)
	return nil
}

// TaskListAction renders the task board as one table.
func TaskListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	columns, err := appCtx.Service.GetTaskColumns(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Title", "Status", "Due", "Job")
	empty := true
	for _, col := range columns {
		for _, task := range col.Tasks {
			empty = false
			jobRef := "-"
			if task.JobID != nil {
				jobRef = *task.JobID
			}
			table.Append(task.ID, truncate(task.Title, 40), string(task.Status), formatDate(task.DueDate), jobRef)
		}
	}
	if empty {
		fmt.Println("no tasks")
		return nil
	}
	table.Render()
	return nil
}

// TaskEditAction patches a task from the flags that were set.
func TaskEditAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	var patch core.TaskPatch
	if cmd.IsSet("title") {
		v := cmd.String("title")
		patch.Title = &v
	}
	if cmd.Bool("unlink") {
		patch.ClearJobID = true
	} else if cmd.IsSet("job") {
		v := cmd.String("job")
		patch.JobID = &v
	}
	if cmd.Bool("clear-due") {
		patch.ClearDueDate = true
	} else if cmd.IsSet("due") {
		due, err := time.Parse("2006-01-02", cmd.String("due"))
		if err != nil {
			return fmt.Errorf("parse --due: %w", err)
		}
		patch.DueDate = &due
	}

	out, err := appCtx.Service.Dispatch(ctx, core.EditTaskCommand{ID: cmd.String("id"), Patch: patch})
	if err != nil {
		return err
	}
	fmt.Printf("updated task %s\n", out.Task.ID)
	return nil
}

// TaskDeleteAction removes a task.
func TaskDeleteAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if _, err := appCtx.Service.Dispatch(ctx, core.DeleteTaskCommand{ID: cmd.String("id")}); err != nil {
		return err
	}
	fmt.Printf("deleted task %s\n", cmd.String("id"))
	return nil
}

// TaskMoveAction moves a task to a status column position.
func TaskMoveAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	out, err := appCtx.Service.Dispatch(ctx, core.MoveTaskCommand{
		ID:          cmd.String("id"),
		Status:      core.TaskStatus(cmd.String("status")),
		TargetIndex: cmd.Int("index"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("moved task %s to %s\n", out.Task.ID, out.Task.Status)
	return nil
}
