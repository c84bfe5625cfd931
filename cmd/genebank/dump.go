package main

import (
	"fmt"
	"os"

	"genebank/dump"
	"genebank/sstable"

	"github.com/spf13/cobra"
)

func newDumpCmd(a *app) *cobra.Command {
	var btreePath, outPath string
	var compress, table bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every entry in sequence order, as text or as a sorted table",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if compress && table {
				return fmt.Errorf("--snappy and --table cannot be combined")
			}
			tree, err := a.openTree(btreePath)
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			if table {
				if outPath == "" {
					outPath = btreePath + ".sst"
				}
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				w := sstable.NewWriter(f, tree.K())
				if err := w.WriteFrom(tree); err != nil {
					f.Close()
					return err
				}
				if err := w.Close(); err != nil {
					return err
				}
				a.log.Info().Str("path", outPath).Int("entries", w.Count()).Msg("wrote table")
				return nil
			}

			if outPath == "" || outPath == "-" {
				_, err := dump.Write(out(cmd), tree, compress)
				return err
			}
			n, err := dump.WriteFile(outPath, tree, compress)
			if err != nil {
				return err
			}
			a.log.Info().Str("path", outPath).Int("entries", n).Bool("snappy", compress).Msg("wrote dump")
			return nil
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file")
	cmd.Flags().StringVar(&outPath, "out", "", "output file, - or empty for stdout (table default <btree>.sst)")
	cmd.Flags().BoolVar(&compress, "snappy", false, "snappy-frame the text dump")
	cmd.Flags().BoolVar(&table, "table", false, "write a binary sorted table instead of text")
	_ = cmd.MarkFlagRequired("btree")
	return cmd
}
