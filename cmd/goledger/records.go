package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-ledger/store"
)

func records(args []string) error {
	fs := flag.NewFlagSet("records", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to the ledger database")
	after := fs.Uint64("after", 0, "Show records with sequence number greater than this")
	limit := fs.Int("limit", 0, "Maximum records to show (0 = all)")
	nameFilter := fs.String("name", "", "Filter by record name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goledger records [options]

Display the ledger's event records in sequence order.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Show everything
  goledger records --db ledger.db

  # Only transfers, resuming after sequence 100
  goledger records --db ledger.db --name Transfer --after 100
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		return fmt.Errorf("--db is required")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.Records(context.Background(), *after, *limit)
	if err != nil {
		return err
	}

	shown := 0
	for _, rec := range recs {
		if *nameFilter != "" && rec.Name != *nameFilter {
			continue
		}
		shown++
		fmt.Printf("#%-6d t=%-12d %s\n", rec.Seq, rec.Time, rec.Name)
		for key, value := range rec.Attributes {
			fmt.Printf("        %s: %v\n", key, value)
		}
	}
	if shown == 0 {
		fmt.Println("No records")
	}
	return nil
}
