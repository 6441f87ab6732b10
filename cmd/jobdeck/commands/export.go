package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// ExportAction writes the current document to the archive.
func ExportAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	store, err := appCtx.OpenArchive(ctx)
	if err != nil {
		return err
	}
	info, err := appCtx.Service.ExportToArchive(ctx, store, cmd.String("key"))
	if err != nil {
		return err
	}
	fmt.Printf("exported %s (%d bytes, driver %s)\n", info.Key, info.Size, store.Driver())
	return nil
}

// ExportListAction lists archived exports.
func ExportListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	store, err := appCtx.OpenArchive(ctx)
	if err != nil {
		return err
	}
	infos, err := appCtx.Service.ListExports(ctx, store, cmd.String("prefix"))
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no exports")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Size", "Last Modified")
	for _, info := range infos {
		table.Append(info.Key, fmt.Sprintf("%d", info.Size), info.LastModified.Format("2006-01-02 15:04:05"))
	}
	table.Render()
	return nil
}

// RestoreAction replaces current state with an archived export.
func RestoreAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	store, err := appCtx.OpenArchive(ctx)
	if err != nil {
		return err
	}
	key := cmd.String("key")
	if err := appCtx.Service.RestoreFromArchive(ctx, store, key); err != nil {
		return err
	}
	fmt.Printf("restored from %s\n", key)
	return nil
}
