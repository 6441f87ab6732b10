package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"jobdeck/internal/core"
)

// ContactAddAction creates a contact.
func ContactAddAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	out, err := appCtx.Service.Dispatch(ctx, core.AddContactCommand{AddContactInput: core.AddContactInput{
		Name:  cmd.String("name"),
		Email: cmd.String("email"),
		Phone: cmd.String("phone"),
	}})
	if err != nil {
		return err
	}
	fmt.Printf("created contact %s (%s)\n", out.Contact.ID, out.Contact.Name)
	return nil
}

// ContactListAction lists contacts with their linked job counts.
func ContactListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	contacts := appCtx.Service.Store().ListContacts()
	if len(contacts) == 0 {
		fmt.Println("no contacts")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Email", "Phone", "Jobs")
	for _, c := range contacts {
		table.Append(c.ID, truncate(c.Name, 30), c.Email, c.Phone, fmt.Sprintf("%d", len(c.JobIDs)))
	}
	table.Render()
	return nil
}

// ContactLinkAction links a contact to a job on both sides.
func ContactLinkAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	out, err := appCtx.Service.Dispatch(ctx, core.LinkContactToJobCommand{
		ContactID: cmd.String("id"),
		JobID:     cmd.String("job"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("linked contact %s to job %s\n", out.Contact.ID, cmd.String("job"))
	return nil
}
