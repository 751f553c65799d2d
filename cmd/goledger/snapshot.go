package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func snapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	caller := fs.String("caller", "", "Calling account: the owner (hex)")
	finalize := fs.Bool("finalize", false, "Finalize the open snapshot instead of taking a new one")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger snapshot [options]

Take a balance snapshot, or finalize the open one with --finalize. Only one
snapshot may be open at a time; query captured balances with
"goledger balance --snapshot <id>".

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

	h, cleanup, err := openHost(*dbPath, *verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if *finalize {
		err = h.Execute(ctx, callerAddr, "finalize_snapshot", func(l *ledger.Ledger, call ledger.Call) error {
			return l.FinalizeSnapshot(call)
		})
		if err != nil {
			return err
		}
		fmt.Println("Snapshot finalized")
		return nil
	}

	var id uint64
	err = h.Execute(ctx, callerAddr, "snapshot", func(l *ledger.Ledger, call ledger.Call) error {
		var serr error
		id, serr = l.Snapshot(call)
		return serr
	})
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot %d taken\n", id)
	return nil
}
