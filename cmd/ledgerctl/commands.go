package main

import (
	"fmt"

	"github.com/personal-finance-ledger/internal/client"
)

type summaryCmd struct {
	Recent int `help:"Number of recent transactions to show. Negative uses the server default." default:"-1"`
}

func (cmd *summaryCmd) Run(g *Globals) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	s, err := c.Summary(ctx, cmd.Recent)
	if err != nil {
		return err
	}
	return printSummary(g.Out, s)
}

type listCmd struct {
	Type    string `help:"Filter by type." enum:"all,income,expense" default:"all"`
	Grouped bool   `help:"Group transactions by day."`
}

func (cmd *listCmd) Run(g *Globals) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	if cmd.Grouped {
		groups, err := c.Grouped(ctx, cmd.Type)
		if err != nil {
			return err
		}
		return printGroups(g.Out, groups)
	}

	txs, err := c.List(ctx, cmd.Type)
	if err != nil {
		return err
	}
	return printTransactions(g.Out, txs)
}

type addCmd struct {
	Type        string `help:"Transaction type." enum:"income,expense" required:""`
	Amount      string `help:"Positive amount, e.g. 12.50." required:""`
	Category    string `help:"Category, e.g. Food." required:""`
	Description string `help:"Free text description." required:""`
	Date        string `help:"Date as YYYY-MM-DD or RFC3339. Defaults to now."`
}

func (cmd *addCmd) Run(g *Globals) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	tx, err := c.Add(ctx, client.NewTransaction{
		Type:        cmd.Type,
		Amount:      cmd.Amount,
		Category:    cmd.Category,
		Description: cmd.Description,
		Date:        cmd.Date,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.Out, "added %s\n", tx.ID)
	return err
}

type deleteCmd struct {
	ID string `arg:"" help:"Transaction ID."`
}

func (cmd *deleteCmd) Run(g *Globals) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	if err := c.Delete(ctx, cmd.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.Out, "deleted %s\n", cmd.ID)
	return err
}

type categoriesCmd struct {
	Type string `help:"Transaction type." enum:"income,expense" required:""`
}

func (cmd *categoriesCmd) Run(g *Globals) error {
	c, err := g.client()
	if err != nil {
		return err
	}
	ctx, cancel := g.context()
	defer cancel()

	cats, err := c.Categories(ctx, cmd.Type)
	if err != nil {
		return err
	}
	for _, name := range cats.Categories {
		if _, err := fmt.Fprintln(g.Out, name); err != nil {
			return err
		}
	}
	return nil
}
