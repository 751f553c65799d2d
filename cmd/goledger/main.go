package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/pflow-xyz/go-ledger/host"
	"github.com/pflow-xyz/go-ledger/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init":
		if err := initCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "info":
		if err := info(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "balance":
		if err := balance(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "transfer":
		if err := transfer(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "approve":
		if err := approve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "allowance":
		if err := allowance(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mint":
		if err := mint(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "burn":
		if err := burn(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "pause":
		if err := pause(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "unpause":
		if err := unpause(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "blacklist":
		if err := blacklistCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "snapshot":
		if err := snapshot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "finalize":
		if err := snapshot(append([]string{"--finalize"}, args...)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "records":
		if err := records(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("goledger version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`goledger - fungible-asset ledger tool

Usage:
  goledger <command> [options]

Commands:
  init       Initialize a new ledger database
  info       Show ledger metadata, supply, and status
  balance    Show an account balance
  transfer   Move funds between accounts
  approve    Set a spending allowance
  allowance  Show a spending allowance
  mint       Create new supply
  burn       Destroy supply
  pause      Suspend value-moving operations
  unpause    Resume value-moving operations
  blacklist  Manage the transfer blacklist
  snapshot   Take a balance snapshot
  finalize   Finalize the open snapshot
  records    Show the ledger's event records
  help       Show this help message
  version    Show version information

Examples:
  # Create a ledger with an initial supply
  goledger init --db ledger.db --name "Demo Token" --symbol DMO \
    --owner 0x1111111111111111111111111111111111111111 --supply 1000000

  # Move funds
  goledger transfer --db ledger.db \
    --from 0x1111111111111111111111111111111111111111 \
    --to 0x2222222222222222222222222222222222222222 --amount 1000

For command-specific help, run:
  goledger <command> --help`)
}

// openHost opens the database and builds a host around it. The returned
// cleanup closes the store.
func openHost(dbPath string, verbose bool) (*host.Host, func(), error) {
	if dbPath == "" {
		return nil, nil, fmt.Errorf("--db is required")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	if !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	h, err := host.New(host.Config{Store: st, Logger: logger})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return h, func() { st.Close() }, nil
}

func parseAddress(flagName, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("--%s: %q is not a hex address", flagName, value)
	}
	return common.HexToAddress(value), nil
}

func parseAmount(flagName, value string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not a decimal amount: %w", flagName, value, err)
	}
	return v, nil
}
