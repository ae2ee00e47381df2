package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLexiconCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lexicon",
		Short: "List the material lexicon in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, lex, _, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEYWORD\tLBS/UNIT\tUNIT\tLABEL")
			for _, m := range lex.Entries() {
				fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", m.Keyword, m.WeightPerUnit, m.Unit, m.Label)
			}
			return tw.Flush()
		},
	}
}
