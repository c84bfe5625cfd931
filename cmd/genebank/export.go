package main

import (
	"fmt"

	"genebank/sqlexport"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var btreePath, dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy every entry into a SQLite table",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tree, err := a.openTree(btreePath)
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			c, err := sqlexport.Open(dbPath)
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Export(tree)
			if err != nil {
				return err
			}
			a.log.Info().Str("db", dbPath).Int("rows", n).Msg("export complete")
			fmt.Fprintf(out(cmd), "exported %d rows to %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file")
	cmd.Flags().StringVar(&dbPath, "db", "genebank.db", "SQLite database file")
	_ = cmd.MarkFlagRequired("btree")
	return cmd
}
