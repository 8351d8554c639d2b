package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"
)

func newAdminCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	dashboard := &ff.Command{
		Name:      "dashboard",
		Usage:     "retreat admin dashboard",
		ShortHelp: "Show aggregate statistics",
		Flags:     ff.NewFlagSet("admin dashboard").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.AdminDashboard(ctx)
			if err != nil {
				return err
			}
			return printJSON(resp.Data)
		},
	}

	subsFlags := ff.NewFlagSet("admin subscriptions").SetParent(parent)
	status := subsFlags.StringLong("status", "", "Filter by status (active, cancelled, expired)")

	subscriptions := &ff.Command{
		Name:      "subscriptions",
		Usage:     "retreat admin subscriptions [--status S]",
		ShortHelp: "List subscriptions",
		Flags:     subsFlags,
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.AdminSubscriptions(ctx, *status)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCLERK USER\tPLAN\tSTATUS\tPERIOD END")
			for _, sub := range resp.Data {
				clerkUser := ""
				if sub.ClerkUserID != nil {
					clerkUser = *sub.ClerkUserID
				}
				periodEnd := ""
				if sub.CurrentPeriodEnd != nil {
					periodEnd = sub.CurrentPeriodEnd.Format(dateFormat)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sub.ID, clerkUser, sub.Plan, sub.Status, periodEnd)
			}
			w.Flush()
			return nil
		},
	}

	grantFlags := ff.NewFlagSet("admin grant").SetParent(parent)
	grantUser := grantFlags.StringLong("user", "", "Clerk user id")
	grantMonths := grantFlags.IntLong("months", 1, "Subscription duration in months")

	grant := &ff.Command{
		Name:      "grant",
		Usage:     "retreat admin grant --user ID [--months N]",
		ShortHelp: "Grant a premium subscription",
		Flags:     grantFlags,
		Exec: func(ctx context.Context, args []string) error {
			if *grantUser == "" {
				return fmt.Errorf("--user is required")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.GrantSubscription(ctx, *grantUser, *grantMonths)
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	revokeFlags := ff.NewFlagSet("admin revoke").SetParent(parent)
	revokeUser := revokeFlags.StringLong("user", "", "Clerk user id")

	revoke := &ff.Command{
		Name:      "revoke",
		Usage:     "retreat admin revoke --user ID",
		ShortHelp: "Revoke an active premium subscription",
		Flags:     revokeFlags,
		Exec: func(ctx context.Context, args []string) error {
			if *revokeUser == "" {
				return fmt.Errorf("--user is required")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.RevokeSubscription(ctx, *revokeUser)
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	bmcUsers := &ff.Command{
		Name:      "bmc-users",
		Usage:     "retreat admin bmc-users",
		ShortHelp: "List linked sponsor usernames",
		Flags:     ff.NewFlagSet("admin bmc-users").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.AdminBMCUsers(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLERK USER\tBMC USERNAME\tLINKED")
			for _, user := range resp.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\n", user.ClerkUserID, user.BMCUsername, user.CreatedAt.Format(dateFormat))
			}
			w.Flush()
			return nil
		},
	}

	bmcLinkFlags := ff.NewFlagSet("admin bmc-link").SetParent(parent)
	bmcLinkUser := bmcLinkFlags.StringLong("user", "", "Clerk user id")
	bmcLinkName := bmcLinkFlags.StringLong("username", "", "Buy Me a Coffee username")

	bmcLink := &ff.Command{
		Name:      "bmc-link",
		Usage:     "retreat admin bmc-link --user ID --username NAME",
		ShortHelp: "Link a sponsor username to a user",
		Flags:     bmcLinkFlags,
		Exec: func(ctx context.Context, args []string) error {
			if *bmcLinkUser == "" || *bmcLinkName == "" {
				return fmt.Errorf("--user and --username are required")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.AdminLinkBMCUsername(ctx, *bmcLinkUser, *bmcLinkName)
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	systemInfo := &ff.Command{
		Name:      "system-info",
		Usage:     "retreat admin system-info",
		ShortHelp: "Show environment diagnostics",
		Flags:     ff.NewFlagSet("admin system-info").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.AdminSystemInfo(ctx)
			if err != nil {
				return err
			}
			return printJSON(resp.Data)
		},
	}

	return &ff.Command{
		Name:        "admin",
		Usage:       "retreat admin SUBCOMMAND ...",
		ShortHelp:   "Privileged operations (backend authorizes)",
		Flags:       ff.NewFlagSet("admin").SetParent(parent),
		Subcommands: []*ff.Command{dashboard, subscriptions, grant, revoke, bmcUsers, bmcLink, systemInfo},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}
}
