package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func blacklistCmd(args []string) error {
	fs := flag.NewFlagSet("blacklist", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	caller := fs.String("caller", "", "Calling account: the owner (hex)")
	add := fs.String("add", "", "Address to add to the blacklist (hex)")
	remove := fs.String("remove", "", "Address to remove from the blacklist (hex)")
	enable := fs.Bool("enable", false, "Turn the blacklist gate on")
	disable := fs.Bool("disable", false, "Turn the blacklist gate off")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger blacklist [options]

Manage the transfer blacklist. Exactly one of --add, --remove, --enable,
--disable must be given.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  goledger blacklist --db ledger.db --caller 0x11... --enable
  goledger blacklist --db ledger.db --caller 0x11... --add 0x22...
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	actions := 0
	for _, set := range []bool{*add != "", *remove != "", *enable, *disable} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one of --add, --remove, --enable, --disable is required")
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
	switch {
	case *enable:
		err = h.Execute(ctx, callerAddr, "blacklist_enable", func(l *ledger.Ledger, call ledger.Call) error {
			return l.SetBlacklistEnabled(call, true)
		})
		if err == nil {
			fmt.Println("Blacklist enabled")
		}
	case *disable:
		err = h.Execute(ctx, callerAddr, "blacklist_disable", func(l *ledger.Ledger, call ledger.Call) error {
			return l.SetBlacklistEnabled(call, false)
		})
		if err == nil {
			fmt.Println("Blacklist disabled")
		}
	case *add != "":
		target, perr := parseAddress("add", *add)
		if perr != nil {
			return perr
		}
		err = h.Execute(ctx, callerAddr, "blacklist_add", func(l *ledger.Ledger, call ledger.Call) error {
			return l.Blacklist(call, target)
		})
		if err == nil {
			fmt.Printf("Blacklisted %s\n", target.Hex())
		}
	case *remove != "":
		target, perr := parseAddress("remove", *remove)
		if perr != nil {
			return perr
		}
		err = h.Execute(ctx, callerAddr, "blacklist_remove", func(l *ledger.Ledger, call ledger.Call) error {
			return l.Unblacklist(call, target)
		})
		if err == nil {
			fmt.Printf("Unblacklisted %s\n", target.Hex())
		}
	}
	return err
}
