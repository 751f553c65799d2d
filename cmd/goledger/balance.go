package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func balance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	account := fs.String("account", "", "Account address (hex)")
	snapshotID := fs.Uint64("snapshot", 0, "Read from snapshot id instead of live state")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger balance [options]

Show an account's balance, live or as captured by a snapshot.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  goledger balance --db ledger.db --account 0x1111111111111111111111111111111111111111
  goledger balance --db ledger.db --account 0x1111111111111111111111111111111111111111 --snapshot 1
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := parseAddress("account", *account)
	if err != nil {
		return err
	}

	h, cleanup, err := openHost(*dbPath, false)
	if err != nil {
		return err
	}
	defer cleanup()

	var viewErr error
	h.View(func(l *ledger.Ledger) {
		if *snapshotID != 0 {
			bal, err := l.BalanceOfAt(addr, *snapshotID)
			if err != nil {
				viewErr = err
				return
			}
			fmt.Printf("%s @ snapshot %d: %s\n", addr.Hex(), *snapshotID, bal.Dec())
			return
		}
		fmt.Printf("%s: %s\n", addr.Hex(), l.BalanceOf(addr).Dec())
	})
	return viewErr
}
