package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func approve(args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	owner := fs.String("owner", "", "Approving account (hex)")
	spender := fs.String("spender", "", "Spender address (hex)")
	amount := fs.String("amount", "", "Allowance to set (decimal)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger approve [options]

Set the allowance a spender may move on the owner's behalf. The new value
overwrites any previous allowance.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerAddr, err := parseAddress("owner", *owner)
	if err != nil {
		return err
	}
	spenderAddr, err := parseAddress("spender", *spender)
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

	err = h.Execute(context.Background(), ownerAddr, "approve", func(l *ledger.Ledger, call ledger.Call) error {
		return l.Approve(call, spenderAddr, value)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Approved %s: %s may spend %s\n", ownerAddr.Hex(), spenderAddr.Hex(), value.Dec())
	return nil
}
