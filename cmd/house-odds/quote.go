package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/house-odds/internal/builder"
	"github.com/yourusername/house-odds/internal/odds"
)

type quoteOptions struct {
	weights []string
	titles  []string
	margin  string
	stake   string
	alpha   float64
}

func newQuoteCmd() *cobra.Command {
	opts := &quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the odds preview for a set of weights",
		Example: `  house-odds quote --weights 90,10 --margin 0.05
  house-odds quote --weights 60,30,10 --titles Home,Draw,Away --stake 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.weights, "weights", "w", nil, "Comma-separated outcome weights (0-100)")
	cmd.Flags().StringSliceVarP(&opts.titles, "titles", "t", nil, "Comma-separated outcome titles")
	cmd.Flags().StringVarP(&opts.margin, "margin", "m", "0", "House margin as a fraction, e.g. 0.05")
	cmd.Flags().StringVar(&opts.stake, "stake", "", "Stake to price a potential payout per outcome")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", odds.DefaultAlpha, "Smoothing strength inside the compressed band")
	_ = cmd.MarkFlagRequired("weights")

	return cmd
}

func runQuote(w io.Writer, opts *quoteOptions) error {
	var stake *decimal.Decimal
	if opts.stake != "" {
		d, err := decimal.NewFromString(opts.stake)
		if err != nil {
			return fmt.Errorf("invalid stake %q: %w", opts.stake, err)
		}
		stake = &d
	}

	b := builder.New(builder.Config{Engine: odds.NewEngine(opts.alpha)})
	for i, raw := range opts.weights {
		title := ""
		if i < len(opts.titles) {
			title = opts.titles[i]
		}
		b.Add(title, builder.ParseWeight(raw))
	}
	b.SetMargin(opts.margin)

	quotes := b.Quotes()
	cards := builder.RenderCards(b.Outcomes(), quotes)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "#\tOUTCOME\tIMPLIED\tODDS"
	if stake != nil {
		header += "\tPAYOUT"
	}
	fmt.Fprintln(tw, header)
	for _, card := range cards {
		line := fmt.Sprintf("%d\t%s\t%s\t%s", card.Index+1, card.Title, card.ImpliedPercent, card.Odds)
		if stake != nil {
			line += "\t" + odds.FormatMoney(odds.PotentialPayout(*stake, card.Quote.DisplayOdds))
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nMargin: %s  Book: %s\n",
		odds.FormatPercent(b.Margin()), odds.FormatPercent(odds.BookPercent(quotes)/100))
	return nil
}
