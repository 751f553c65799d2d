package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func info(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger info [options]

Show ledger metadata, supply, and operational status.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	h, cleanup, err := openHost(*dbPath, false)
	if err != nil {
		return err
	}
	defer cleanup()

	h.View(func(l *ledger.Ledger) {
		fmt.Printf("Name:          %s\n", l.Name())
		fmt.Printf("Symbol:        %s\n", l.Symbol())
		fmt.Printf("Decimals:      %d\n", l.Decimals())
		fmt.Printf("Total supply:  %s\n", l.TotalSupply().Dec())
		fmt.Printf("Owner:         %s\n", l.Owner().Hex())
		fmt.Printf("Paused:        %v\n", l.Paused())
		fmt.Printf("Blacklist on:  %v\n", l.BlacklistEnabled())
		if cap, ok := l.SupplyCap(); ok {
			fmt.Printf("Supply cap:    %s\n", cap.Dec())
		}
		if t := l.LargeTransferThreshold(); t != nil {
			fmt.Printf("Monitor at:    %s\n", t.Dec())
		}
		if id := l.CurrentSnapshotID(); id != 0 {
			fmt.Printf("Open snapshot: %d\n", id)
		}
	})
	return nil
}
