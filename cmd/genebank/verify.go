package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var btreePath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the B-tree invariants of a file",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tree, err := a.openTree(btreePath)
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			sum, err := tree.Verify()
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "ok: height=%d nodes=%d keys=%d occurrences=%d\n",
				sum.Height, sum.Nodes, sum.Keys, sum.Occurrences)
			return nil
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file")
	_ = cmd.MarkFlagRequired("btree")
	return cmd
}
