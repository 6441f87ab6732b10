package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"jobdeck/internal/core"
)

// BoardAction renders the kanban board, one section per phase column.
func BoardAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	columns, err := appCtx.Service.GetKanbanColumns(ctx)
	if err != nil {
		return err
	}

	for _, col := range columns {
		fmt.Printf("== %s (%d)\n", col.Phase, len(col.Cards))
		for _, job := range col.Cards {
			line := fmt.Sprintf("  %-12s %s at %s [%s]", job.ID, job.Position, job.Company, job.Priority)
			if job.NextTaskDate != nil {
				line += " next:" + job.NextTaskDate.Format("2006-01-02")
			}
			fmt.Println(line)
		}
	}
	return nil
}

// StatsAction prints the dashboard counters.
func StatsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	stats, err := appCtx.Service.GetDashboardStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Applications: %d total, %d active\n", stats.Total, stats.Active)
	fmt.Printf("Interviewing: %d\n", stats.Interviewing)
	fmt.Printf("Offers:       %d\n", stats.Offers)
	fmt.Printf("Rejections:   %d\n", stats.Rejections)
	fmt.Printf("Tasks:        %d open, %d done\n", stats.TasksOpen, stats.TasksDone)
	if saved := appCtx.Service.LastSavedAt(); !saved.IsZero() {
		fmt.Printf("Last saved:   %s\n", saved.Format(time.RFC3339))
	}
	return nil
}

// CalendarAction prints the calendar for a day, week, or month around the
// given date.
func CalendarAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	at := time.Now().UTC()
	if cmd.IsSet("date") {
		at, err = time.Parse("2006-01-02", cmd.String("date"))
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
	}

	var start, end time.Time
	switch span := cmd.String("span"); span {
	case "day":
		start, end = core.DayRange(at)
	case "week":
		start, end = core.WeekRange(at)
	case "month", "":
		start, end = core.MonthRange(at)
	default:
		return fmt.Errorf("unknown span %q (want day, week, or month)", span)
	}

	days, err := appCtx.Service.GetCalendarEvents(ctx, start, end)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Println("no events")
		return nil
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key)
		for _, event := range days[key] {
			fmt.Printf("  [%s] %s\n", event.Source, event.Title)
		}
	}
	return nil
}

// SeedAction loads the demo dataset, replacing current state.
func SeedAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := appCtx.Service.SeedDemoData(ctx); err != nil {
		return err
	}
	fmt.Println("demo data loaded")
	return nil
}
