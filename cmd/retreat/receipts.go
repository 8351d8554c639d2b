package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"

	"github.com/temidaradev/retreat/internal/api"
	"github.com/temidaradev/retreat/internal/media"
	"github.com/temidaradev/retreat/internal/vault"
)

const dateFormat = "2006-01-02"

func printReceiptTable(receipts []api.Receipt) {
	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].PurchaseDate.After(receipts[j].PurchaseDate)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTORE\tITEM\tPURCHASED\tWARRANTY\tAMOUNT\tSTATUS")
	for _, r := range receipts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f %s\t%s\n",
			r.ID,
			r.Store,
			r.Item,
			r.PurchaseDate.Format(dateFormat),
			r.WarrantyExpiry.Format(dateFormat),
			r.Amount,
			r.Currency,
			r.Status,
		)
	}
	w.Flush()
}

func newReceiptsCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	listFlags := ff.NewFlagSet("receipts list").SetParent(parent)
	cached := listFlags.BoolLong("cached", "Read from the offline vault instead of the backend")

	list := &ff.Command{
		Name:      "list",
		Usage:     "retreat receipts list [--cached]",
		ShortHelp: "List receipts",
		Flags:     listFlags,
		Exec: func(ctx context.Context, args []string) error {
			if *cached {
				v, err := vault.Open(cfg.vaultPath)
				if err != nil {
					return err
				}
				defer v.Close()
				receipts, err := v.Receipts()
				if err != nil {
					return err
				}
				if at, ok, err := v.LastSync(); err == nil && ok {
					fmt.Fprintf(os.Stderr, "cached snapshot from %s\n", at.Local().Format("2006-01-02 15:04"))
				}
				printReceiptTable(receipts)
				return nil
			}

			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.ListReceipts(ctx)
			if err != nil {
				return err
			}
			printReceiptTable(resp.Receipts)
			return nil
		},
	}

	get := &ff.Command{
		Name:      "get",
		Usage:     "retreat receipts get ID",
		ShortHelp: "Show a single receipt",
		Flags:     ff.NewFlagSet("receipts get").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat receipts get ID")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			receipt, err := client.GetReceipt(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(receipt)
		},
	}

	addFlags := ff.NewFlagSet("receipts add").SetParent(parent)
	var addReq api.CreateReceiptRequest
	addFlags.StringVar(&addReq.Store, 0, "store", "", "Store name")
	addFlags.StringVar(&addReq.Item, 0, "item", "", "Item description")
	addFlags.StringVar(&addReq.PurchaseDate, 0, "purchase-date", "", "Purchase date (YYYY-MM-DD)")
	addFlags.StringVar(&addReq.WarrantyExpiry, 0, "warranty-expiry", "", "Warranty expiry (YYYY-MM-DD)")
	addFlags.Float64Var(&addReq.Amount, 0, "amount", 0, "Amount paid")
	addFlags.StringVar(&addReq.Currency, 0, "currency", "USD", "Currency code")

	add := &ff.Command{
		Name:      "add",
		Usage:     "retreat receipts add --store S --item I --purchase-date D --warranty-expiry D --amount N",
		ShortHelp: "Create a receipt manually",
		Flags:     addFlags,
		Exec: func(ctx context.Context, args []string) error {
			if addReq.Store == "" || addReq.Item == "" || addReq.PurchaseDate == "" || addReq.WarrantyExpiry == "" {
				return fmt.Errorf("store, item, purchase-date and warranty-expiry are required")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			receipt, err := client.CreateReceipt(ctx, addReq)
			if err != nil {
				return err
			}
			fmt.Printf("created receipt %s\n", receipt.ID)
			return nil
		},
	}

	updateFlags := ff.NewFlagSet("receipts update").SetParent(parent)
	var updateReq api.CreateReceiptRequest
	updateFlags.StringVar(&updateReq.Store, 0, "store", "", "Store name")
	updateFlags.StringVar(&updateReq.Item, 0, "item", "", "Item description")
	updateFlags.StringVar(&updateReq.PurchaseDate, 0, "purchase-date", "", "Purchase date (YYYY-MM-DD)")
	updateFlags.StringVar(&updateReq.WarrantyExpiry, 0, "warranty-expiry", "", "Warranty expiry (YYYY-MM-DD)")
	updateFlags.Float64Var(&updateReq.Amount, 0, "amount", 0, "Amount paid")
	updateFlags.StringVar(&updateReq.Currency, 0, "currency", "USD", "Currency code")

	update := &ff.Command{
		Name:      "update",
		Usage:     "retreat receipts update ID [FLAGS]",
		ShortHelp: "Replace a receipt",
		Flags:     updateFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat receipts update ID [FLAGS]")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			receipt, err := client.UpdateReceipt(ctx, args[0], updateReq)
			if err != nil {
				return err
			}
			fmt.Printf("updated receipt %s\n", receipt.ID)
			return nil
		},
	}

	remove := &ff.Command{
		Name:      "delete",
		Usage:     "retreat receipts delete ID",
		ShortHelp: "Delete a receipt",
		Flags:     ff.NewFlagSet("receipts delete").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat receipts delete ID")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.DeleteReceipt(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	photo := &ff.Command{
		Name:      "photo",
		Usage:     "retreat receipts photo ID FILE",
		ShortHelp: "Attach a photo to a receipt (HEIC and PDF are converted)",
		Flags:     ff.NewFlagSet("receipts photo").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: retreat receipts photo ID FILE")
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading photo: %w", err)
			}
			prepared, filename, _, err := media.PreparePhoto(args[1], data)
			if err != nil {
				return err
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.UploadReceiptPhoto(ctx, args[0], filename, prepared)
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	return &ff.Command{
		Name:        "receipts",
		Usage:       "retreat receipts SUBCOMMAND ...",
		ShortHelp:   "Manage receipts",
		Flags:       ff.NewFlagSet("receipts").SetParent(parent),
		Subcommands: []*ff.Command{list, get, add, update, remove, photo},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}
}
