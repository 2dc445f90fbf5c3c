package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/personal-finance-ledger/internal/client"
)

func printSummary(w io.Writer, s *client.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Balance\t%s\n", s.Balance)
	fmt.Fprintf(tw, "Income\t%s\n", s.Income)
	fmt.Fprintf(tw, "Expenses\t%s\n", s.Expenses)
	fmt.Fprintf(tw, "Transactions\t%d\n", s.TransactionCount)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(s.Recent) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nRecent"); err != nil {
		return err
	}
	return printTransactions(w, s.Recent)
}

func printTransactions(w io.Writer, txs []client.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, "no transactions")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDAY\tTYPE\tCATEGORY\tDESCRIPTION\tAMOUNT\t")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", tx.ID, tx.Day, tx.Type, tx.Category, tx.Description, signed(tx))
	}
	return tw.Flush()
}

func printGroups(w io.Writer, groups []client.DateGroup) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "no transactions")
		return err
	}
	for i, g := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, g.Date); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, tx := range g.Transactions {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", tx.ID, tx.Category, tx.Description, signed(tx))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// signed renders expenses with a leading minus
func signed(tx client.Transaction) string {
	if tx.Type == "expense" {
		return "-" + tx.Amount
	}
	return "+" + tx.Amount
}
