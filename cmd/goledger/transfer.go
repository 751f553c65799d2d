package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func transfer(args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	from := fs.String("from", "", "Sender address (hex); the spender when --owner is set")
	owner := fs.String("owner", "", "Source account for a delegated transfer (hex)")
	to := fs.String("to", "", "Recipient address (hex)")
	amount := fs.String("amount", "", "Amount to move (decimal)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger transfer [options]

Move funds from one account to another. With --owner set the transfer is
delegated: --from acts as the spender and consumes its allowance.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Direct transfer
  goledger transfer --db ledger.db --from 0x11... --to 0x22... --amount 1000

  # Delegated transfer consuming 0x33...'s allowance from 0x11...
  goledger transfer --db ledger.db --from 0x33... --owner 0x11... --to 0x22... --amount 500
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	caller, err := parseAddress("from", *from)
	if err != nil {
		return err
	}
	recipient, err := parseAddress("to", *to)
	if err != nil {
		return err
	}
	value, err := parseAmount("amount", *amount)
	if err != nil {
		return err
	}

	h, cleanup, err := openHost(*dbPath, *verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if *owner != "" {
		source, err := parseAddress("owner", *owner)
		if err != nil {
			return err
		}
		err = h.Execute(ctx, caller, "transfer_from", func(l *ledger.Ledger, call ledger.Call) error {
			return l.TransferFrom(call, source, recipient, value)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Transferred %s from %s to %s (spender %s)\n",
			value.Dec(), source.Hex(), recipient.Hex(), caller.Hex())
		return nil
	}

	err = h.Execute(ctx, caller, "transfer", func(l *ledger.Ledger, call ledger.Call) error {
		return l.Transfer(call, recipient, value)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Transferred %s from %s to %s\n", value.Dec(), caller.Hex(), recipient.Hex())
	return nil
}
