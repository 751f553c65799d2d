package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func burn(args []string) error {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	from := fs.String("from", "", "Account to burn from (hex)")
	caller := fs.String("caller", "", "Spender burning via allowance (hex); defaults to --from")
	amount := fs.String("amount", "", "Amount to destroy (decimal)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger burn [options]

Destroy supply from an account. With --caller set to a different account the
burn consumes that caller's allowance from --from.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	fromAddr, err := parseAddress("from", *from)
	if err != nil {
		return err
	}
	callerAddr := fromAddr
	if *caller != "" {
		if callerAddr, err = parseAddress("caller", *caller); err != nil {
			return err
		}
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
	if callerAddr != fromAddr {
		err = h.Execute(ctx, callerAddr, "burn_from", func(l *ledger.Ledger, call ledger.Call) error {
			return l.BurnFrom(call, fromAddr, value)
		})
	} else {
		err = h.Execute(ctx, callerAddr, "burn", func(l *ledger.Ledger, call ledger.Call) error {
			return l.Burn(call, value)
		})
	}
	if err != nil {
		return err
	}
	fmt.Printf("Burned %s from %s\n", value.Dec(), fromAddr.Hex())
	return nil
}
