package main

import (
	"fmt"
	"path/filepath"

	"genebank/btree"
	"genebank/dump"
	"genebank/gbk"

	"github.com/spf13/cobra"
)

func newCreateCmd(a *app) *cobra.Command {
	var gbkPath, outPath string
	var debug int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a B-tree of every k-length window in a GenBank file",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if debug != 0 && debug != 1 {
				return fmt.Errorf("--debug must be 0 or 1, got %d", debug)
			}
			degree := a.cfg.Degree
			if degree == 0 {
				degree = btree.OptimalDegree()
			}
			if outPath == "" {
				outPath = fmt.Sprintf("%s.btree.data.%d.%d", gbkPath, a.cfg.K, degree)
			}

			tree, err := btree.Create(outPath, degree, a.cfg.K, a.treeOptions()...)
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			counts, err := gbk.ScanFile(gbkPath, a.cfg.K, tree.Insert)
			if err != nil {
				return err
			}
			a.log.Info().
				Str("gbk", gbkPath).
				Str("btree", outPath).
				Int("regions", counts.Regions).
				Int64("bases", counts.Bases).
				Int64("windows", counts.Windows).
				Int64("skipped", counts.Skipped).
				Msg("scan complete")

			if debug == 1 {
				dumpPath := filepath.Join(filepath.Dir(outPath), dump.FileName)
				n, err := dump.WriteFile(dumpPath, tree, false)
				if err != nil {
					return err
				}
				a.log.Debug().Str("path", dumpPath).Int("entries", n).Msg("wrote dump")
			}

			fmt.Fprintf(out(cmd), "%s: %d windows from %d regions (%d skipped)\n",
				outPath, counts.Windows, counts.Regions, counts.Skipped)
			return nil
		},
	}

	cmd.Flags().Int("degree", 0, "B-tree degree, 0 picks the best fit for a 4 KiB block")
	cmd.Flags().Int("k", 6, "sequence length, 1 to 31")
	cmd.Flags().Int("cache", 0, "node cache size, 0 disables it")
	cmd.Flags().IntVar(&debug, "debug", 0, "1 enables debug logging and writes a dump file")
	cmd.Flags().StringVar(&gbkPath, "gbk", "", "GenBank input file")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default <gbk>.btree.data.<k>.<degree>)")
	_ = cmd.MarkFlagRequired("gbk")
	return cmd
}
