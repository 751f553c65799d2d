package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func pause(args []string) error {
	fs := flag.NewFlagSet("pause", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	caller := fs.String("caller", "", "Calling account: owner or pauser-role holder (hex)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger pause [options]

Suspend all value-moving operations.

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

	err = h.Execute(context.Background(), callerAddr, "pause", func(l *ledger.Ledger, call ledger.Call) error {
		return l.PauseWithRole(call)
	})
	if err != nil {
		return err
	}
	fmt.Println("Paused")
	return nil
}

func unpause(args []string) error {
	fs := flag.NewFlagSet("unpause", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	caller := fs.String("caller", "", "Calling account: owner or pauser-role holder (hex)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger unpause [options]

Resume value-moving operations.

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

	err = h.Execute(context.Background(), callerAddr, "unpause", func(l *ledger.Ledger, call ledger.Call) error {
		return l.UnpauseWithRole(call)
	})
	if err != nil {
		return err
	}
	fmt.Println("Unpaused")
	return nil
}
