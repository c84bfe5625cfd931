package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var btreePath, queryPath string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the frequency of every sequence in a query file",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tree, err := a.openTree(btreePath)
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			f, err := os.Open(queryPath)
			if err != nil {
				return fmt.Errorf("open query file: %w", err)
			}
			defer f.Close()

			w := bufio.NewWriter(out(cmd))
			defer w.Flush()

			sc := bufio.NewScanner(f)
			sc.Split(bufio.ScanWords)
			for sc.Scan() {
				seq := sc.Text()
				freq, err := tree.Search(seq)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: %d\n", seq, freq)
			}
			return sc.Err()
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file")
	cmd.Flags().StringVar(&queryPath, "query", "", "file of whitespace-separated sequences")
	cmd.Flags().Int("cache", 0, "node cache size, 0 disables it")
	_ = cmd.MarkFlagRequired("btree")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
