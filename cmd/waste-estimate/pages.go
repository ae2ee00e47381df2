package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/waste-estimator/internal/server"
)

func newPagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pages <file.pdf>",
		Short: "Print the text extracted from each page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, proc, _, _, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pages, err := proc.ExtractPages(cmd.Context(), data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, text := range pages {
				if strings.TrimSpace(text) == "" {
					text = server.NoTextPlaceholder
				}
				fmt.Fprintf(out, "--- page %d ---\n%s\n", i+1, text)
			}
			return nil
		},
	}
}
