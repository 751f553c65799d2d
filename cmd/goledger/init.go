package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/ledger"
)

func initCmd(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	name := fs.String("name", "", "Asset name")
	symbol := fs.String("symbol", "", "Asset symbol")
	decimals := fs.Uint("decimals", 18, "Display precision")
	owner := fs.String("owner", "", "Owner address (hex)")
	supply := fs.String("supply", "0", "Initial supply, minted to the owner")
	delay := fs.Uint64("ownership-delay", 0, "Ownership transfer time-lock in seconds (0 = default 48h)")
	threshold := fs.String("transfer-threshold", "", "Large-transfer monitoring threshold (empty = disabled)")
	verbose := fs.Bool("verbose", false, "Log operations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger init [options]

Create and initialize a new ledger database. Initialization runs once;
re-running against an initialized database fails.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  goledger init --db ledger.db --name "Demo Token" --symbol DMO \
    --owner 0x1111111111111111111111111111111111111111 --supply 1000000
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerAddr, err := parseAddress("owner", *owner)
	if err != nil {
		return err
	}
	initialSupply, err := parseAmount("supply", *supply)
	if err != nil {
		return err
	}
	var monitorAt *uint256.Int
	if *threshold != "" {
		if monitorAt, err = parseAmount("transfer-threshold", *threshold); err != nil {
			return err
		}
	}

	h, cleanup, err := openHost(*dbPath, *verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := ledger.Config{
		Name:                   *name,
		Symbol:                 *symbol,
		Decimals:               uint8(*decimals),
		InitialSupply:          initialSupply,
		Owner:                  ownerAddr,
		OwnershipTransferDelay: *delay,
		LargeTransferThreshold: monitorAt,
	}
	if err := h.Initialize(context.Background(), ownerAddr, cfg); err != nil {
		return err
	}

	fmt.Printf("Initialized %s (%s), supply %s, owner %s\n",
		*name, *symbol, initialSupply.Dec(), ownerAddr.Hex())
	return nil
}
