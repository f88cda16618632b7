package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/storefront"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect the account directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered accounts (no credentials)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			accounts, err := storefront.New(e.store, storefront.Options{Logger: e.logger}).
				Directory().List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tADMIN\tCREATED")
			for _, a := range accounts {
				fmt.Fprintf(tw, "%s\t%s\t%s %s\t%t\t%s\n",
					a.ID, a.Email, a.FirstName, a.LastName, a.IsAdmin, a.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	})
	return cmd
}
