package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"

	"github.com/temidaradev/retreat/internal/api"
)

func newEmailsCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	list := &ff.Command{
		Name:      "list",
		Usage:     "retreat emails list",
		ShortHelp: "List forwarding addresses",
		Flags:     ff.NewFlagSet("emails list").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.ListEmails(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tVERIFIED\tPRIMARY")
			for _, e := range resp.Emails {
				fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", e.ID, e.Email, e.Verified, e.IsPrimary)
			}
			w.Flush()
			return nil
		},
	}

	add := &ff.Command{
		Name:      "add",
		Usage:     "retreat emails add ADDRESS",
		ShortHelp: "Register a forwarding address (triggers a verification email)",
		Flags:     ff.NewFlagSet("emails add").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat emails add ADDRESS")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.AddEmail(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (id %s)\n", resp.Message, resp.Email.ID)
			return nil
		},
	}

	remove := &ff.Command{
		Name:      "remove",
		Usage:     "retreat emails remove ID",
		ShortHelp: "Delete a forwarding address",
		Flags:     ff.NewFlagSet("emails remove").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat emails remove ID")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.DeleteEmail(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	setPrimary := &ff.Command{
		Name:      "set-primary",
		Usage:     "retreat emails set-primary ID",
		ShortHelp: "Mark a verified address as primary",
		Flags:     ff.NewFlagSet("emails set-primary").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat emails set-primary ID")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.SetPrimaryEmail(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	resend := &ff.Command{
		Name:      "resend",
		Usage:     "retreat emails resend ID",
		ShortHelp: "Resend the verification email",
		Flags:     ff.NewFlagSet("emails resend").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat emails resend ID")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.ResendVerification(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	return &ff.Command{
		Name:        "emails",
		Usage:       "retreat emails SUBCOMMAND ...",
		ShortHelp:   "Manage forwarding addresses",
		Flags:       ff.NewFlagSet("emails").SetParent(parent),
		Subcommands: []*ff.Command{list, add, remove, setPrimary, resend},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}
}

func newVerifyEmailCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "verify-email",
		Usage:     "retreat verify-email TOKEN",
		ShortHelp: "Consume an email verification link token",
		Flags:     ff.NewFlagSet("verify-email").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat verify-email TOKEN")
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			message, err := api.VerifyEmail(ctx, cfg.apiURL, args[0])
			if err != nil {
				return err
			}
			fmt.Println(message)
			return nil
		},
	}
}
