package main

import (
	"bufio"
	"errors"
	"os"

	"genebank/btree"
	"genebank/cli"

	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	var btreePath string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive session on a B-tree file",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var tree *btree.Tree
			if _, statErr := os.Stat(btreePath); errors.Is(statErr, os.ErrNotExist) {
				tree, err = btree.Create(btreePath, a.cfg.Degree, a.cfg.K, a.treeOptions()...)
			} else {
				tree, err = a.openTree(btreePath)
			}
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			session := cli.NewCli(scanner, out(cmd), tree)
			session.Start()
			return nil
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file, created if missing")
	cmd.Flags().Int("degree", 0, "degree for a new tree")
	cmd.Flags().Int("k", 6, "sequence length for a new tree")
	cmd.Flags().Int("cache", 0, "node cache size, 0 disables it")
	_ = cmd.MarkFlagRequired("btree")
	return cmd
}
