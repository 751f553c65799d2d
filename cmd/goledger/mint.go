package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func mint(args []string) error {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	caller := fs.String("caller", "", "Calling account: owner or minter-role holder (hex)")
	to := fs.String("to", "", "Recipient address (hex)")
	amount := fs.String("amount", "", "Amount to create (decimal)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger mint [options]

Create new supply for an account. The caller must be the owner or hold the
minter role; the supply cap, when set, still applies.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	callerAddr, err := parseAddress("caller", *caller)
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

	err = h.Execute(context.Background(), callerAddr, "mint", func(l *ledger.Ledger, call ledger.Call) error {
		return l.MintWithChecks(call, recipient, value)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Minted %s to %s\n", value.Dec(), recipient.Hex())
	return nil
}
