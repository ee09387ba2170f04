package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dgallion1/bomdiff/internal/parser"
	"github.com/spf13/cobra"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available format profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("profiles")
			profiles, err := parser.LoadProfilesFile(path)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tANCHOR\tLEVEL\tITEM\tDESCRIPTION\tQTY\tREF DES\tSEQ")
			for _, name := range profiles.Names() {
				p := profiles[name]
				anchor := p.Anchor
				if anchor == "" {
					anchor = "-"
				}
				c := p.Columns
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					p.Name, anchor, c.Level, c.Item, c.Description, c.Quantity, c.RefDes, c.Seq)
			}
			return tw.Flush()
		},
	}
}
