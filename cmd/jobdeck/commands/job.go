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

// JobAddAction creates a job from flags.
func JobAddAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	in := core.AddJobInput{
		Company:     cmd.String("company"),
		Position:    cmd.String("position"),
		Priority:    core.Priority(cmd.String("priority")),
		Phase:       core.Phase(cmd.String("phase")),
		CurrentStep: cmd.String("step"),
		SalaryRange: cmd.String("salary"),
		Location:    cmd.String("location"),
	}
	if cmd.IsSet("next-task-date") {
		date, err := time.Parse("2006-01-02", cmd.String("next-task-date"))
		if err != nil {
			return fmt.Errorf("parse --next-task-date: %w", err)
		}
		in.NextTaskDate = &date
	}

	out, err := appCtx.Service.Dispatch(ctx, core.AddJobCommand{AddJobInput: in})
	if err != nil {
		return err
	}
	fmt.Printf("created job %s (%s at %s)\n", out.Job.ID, out.Job.Position, out.Job.Company)
	return nil
}

// JobListAction renders the table view with optional filters.
func JobListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	filter := core.TableFilter{
		ActiveOnly: cmd.Bool("active"),
		Query:      cmd.String("query"),
	}
	if phase := cmd.String("phase"); phase != "" {
		filter.Phases = []core.Phase{core.Phase(phase)}
	}

	rows, err := appCtx.Service.GetTableRows(ctx, core.TableSort(cmd.String("sort")), filter)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no jobs")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Company", "Position", "Phase", "Priority", "Next Task", "Open Tasks")
	for _, row := range rows {
		table.Append(
			row.ID,
			truncate(row.Company, 30),
			truncate(row.Position, 30),
			string(row.Phase),
			string(row.Priority),
			formatDate(row.NextTaskDate),
			fmt.Sprintf("%d", row.OpenTasks),
		)
	}
	table.Render()
	return nil
}

// JobEditAction patches a job from the flags that were set.
func JobEditAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	var patch core.JobPatch
	if cmd.IsSet("company") {
		v := cmd.String("company")
		patch.Company = &v
	}
	if cmd.IsSet("position") {
		v := cmd.String("position")
		patch.Position = &v
	}
	if cmd.IsSet("priority") {
		v := core.Priority(cmd.String("priority"))
		patch.Priority = &v
	}
	if cmd.IsSet("step") {
		v := cmd.String("step")
		patch.CurrentStep = &v
	}
	if cmd.IsSet("salary") {
		v := cmd.String("salary")
		patch.SalaryRange = &v
	}
	if cmd.IsSet("location") {
		v := cmd.String("location")
		patch.Location = &v
	}
	if cmd.Bool("clear-next-task-date") {
		patch.ClearNextTaskDate = true
	} else if cmd.IsSet("next-task-date") {
		date, err := time.Parse("2006-01-02", cmd.String("next-task-date"))
		if err != nil {
			return fmt.Errorf("parse --next-task-date: %w", err)
		}
		patch.NextTaskDate = &date
	}

	out, err := appCtx.Service.Dispatch(ctx, core.EditJobCommand{ID: cmd.String("id"), Patch: patch})
	if err != nil {
		return err
	}
	fmt.Printf("updated job %s\n", out.Job.ID)
	return nil
}

// JobDeleteAction removes a job; its tasks go with it and contacts are
// unlinked.
func JobDeleteAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if _, err := appCtx.Service.Dispatch(ctx, core.DeleteJobCommand{ID: cmd.String("id")}); err != nil {
		return err
	}
	fmt.Printf("deleted job %s\n", cmd.String("id"))
	return nil
}

// JobMoveAction moves a job to a phase column position.
func JobMoveAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	out, err := appCtx.Service.Dispatch(ctx, core.MoveJobCommand{
		ID:          cmd.String("id"),
		Phase:       core.Phase(cmd.String("phase")),
		TargetIndex: cmd.Int("index"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("moved job %s to %s\n", out.Job.ID, out.Job.Phase)
	return nil
}

// JobNoteAction appends a note to a job.
func JobNoteAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	out, err := appCtx.Service.Dispatch(ctx, core.AppendNoteCommand{
		JobID: cmd.String("id"),
		Text:  cmd.String("text"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("job %s now has %d notes\n", out.Job.ID, len(out.Job.Notes))
	return nil
}

// JobShowAction prints one job in full, notes included.
func JobShowAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	id := cmd.String("id")
	job, ok := appCtx.Service.Store().GetJob(id)
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	fmt.Printf("ID:        %s\n", job.ID)
	fmt.Printf("Company:   %s\n", job.Company)
	fmt.Printf("Position:  %s\n", job.Position)
	fmt.Printf("Phase:     %s\n", job.Phase)
	fmt.Printf("Priority:  %s\n", job.Priority)
	if job.CurrentStep != "" {
		fmt.Printf("Step:      %s\n", job.CurrentStep)
	}
	if job.Location != "" {
		fmt.Printf("Location:  %s\n", job.Location)
	}
	if job.SalaryRange != "" {
		fmt.Printf("Salary:    %s\n", job.SalaryRange)
	}
	fmt.Printf("Next task: %s\n", formatDate(job.NextTaskDate))
	fmt.Printf("Contacts:  %d\n", len(job.ContactIDs))
	for _, note := range job.Notes {
		fmt.Printf("  [%s] %s\n", note.CreatedAt.Format("2006-01-02 15:04"), note.Text)
	}
	return nil
}
