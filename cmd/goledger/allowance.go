package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func allowance(args []string) error {
	fs := flag.NewFlagSet("allowance", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	owner := fs.String("owner", "", "Owning account (hex)")
	spender := fs.String("spender", "", "Spender address (hex)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger allowance [options]

Show what a spender may still move on the owner's behalf.

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

	h, cleanup, err := openHost(*dbPath, false)
	if err != nil {
		return err
	}
	defer cleanup()

	h.View(func(l *ledger.Ledger) {
		fmt.Printf("%s -> %s: %s\n",
			ownerAddr.Hex(), spenderAddr.Hex(), l.Allowance(ownerAddr, spenderAddr).Dec())
	})
	return nil
}
