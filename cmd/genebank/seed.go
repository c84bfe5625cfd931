package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"genebank/btree"

	"github.com/go-faker/faker/v4"
	"github.com/spf13/cobra"
)

type fakeBase struct {
	Base string `faker:"oneof: a, c, g, t"`
}

// fakeSequence builds a random k-length sequence one base at a time.
func fakeSequence(k int) (string, error) {
	var sb strings.Builder
	sb.Grow(k)
	for i := 0; i < k; i++ {
		var b fakeBase
		if err := faker.FakeData(&b); err != nil {
			return "", err
		}
		sb.WriteString(b.Base)
	}
	return sb.String(), nil
}

func seedTree(t *btree.Tree, records int) error {
	for i := 0; i < records; i++ {
		seq, err := fakeSequence(t.K())
		if err != nil {
			return err
		}
		if err := t.Insert(seq); err != nil {
			return err
		}
	}
	return nil
}

func newSeedCmd(a *app) *cobra.Command {
	var btreePath string
	var records int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert random sequences created with go-faker",
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

			if err := seedTree(tree, records); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "seeded %d records into %s\n", records, tree)
			return nil
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file, created if missing")
	cmd.Flags().IntVar(&records, "records", 1000, "amount of records to insert")
	cmd.Flags().Int("degree", 0, "degree for a new tree")
	cmd.Flags().Int("k", 6, "sequence length for a new tree")
	_ = cmd.MarkFlagRequired("btree")
	return cmd
}
