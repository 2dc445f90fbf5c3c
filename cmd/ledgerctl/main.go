package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/personal-finance-ledger/internal/client"
)

// Globals holds options shared by every command
type Globals struct {
	Server  string        `help:"Ledger API base URL." default:"http://localhost:8080" env:"LEDGER_SERVER"`
	Timeout time.Duration `help:"Per-command timeout." default:"10s"`

	Out io.Writer `kong:"-"`
}

func (g *Globals) client() (*client.Client, error) {
	return client.New(g.Server)
}

func (g *Globals) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.Timeout)
}

type cli struct {
	Globals `embed:""`

	Summary    summaryCmd    `cmd:"" help:"Show balance, totals and recent transactions."`
	List       listCmd       `cmd:"" help:"List transactions, newest first."`
	Add        addCmd        `cmd:"" help:"Record a transaction."`
	Delete     deleteCmd     `cmd:"" help:"Delete a transaction by ID."`
	Categories categoriesCmd `cmd:"" help:"Show suggested categories for a transaction type."`
}

func newParser(c *cli, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("ledgerctl"),
		kong.Description("Command line client for the personal finance ledger."),
		kong.UsageOnError(),
	}, opts...)
	return kong.New(c, opts...)
}

func main() {
	var c cli
	c.Out = os.Stdout

	parser, err := newParser(&c)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(&c.Globals))
}
