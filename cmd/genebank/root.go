package main

import (
	"io"

	"genebank/btree"
	"genebank/config"
	"genebank/logger"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has parsed flags.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var cfgPath string

	root := &cobra.Command{
		Use:          "genebank",
		Short:        "Count DNA k-mers from GenBank files in a disk B-tree",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, cfgPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.log == nil {
				return nil
			}
			return a.log.Close()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $GENEBANK_CONFIG or ./genebank.json)")

	root.AddCommand(
		newCreateCmd(a),
		newSearchCmd(a),
		newDumpCmd(a),
		newExportCmd(a),
		newSeedCmd(a),
		newReplCmd(a),
		newStatCmd(a),
		newVerifyCmd(a),
	)
	return root
}

// setup loads config, applies env and flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(config.EnvPrefix)

	flags := cmd.Flags()
	if flags.Changed("degree") {
		cfg.Degree, _ = flags.GetInt("degree")
	}
	if flags.Changed("k") {
		cfg.K, _ = flags.GetInt("k")
	}
	if flags.Changed("cache") {
		cfg.CacheSize, _ = flags.GetInt("cache")
	}
	if flags.Changed("debug") {
		debug, _ := flags.GetInt("debug")
		cfg.LogLevel = logger.DebugLevel(debug)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, l
	return nil
}

func (a *app) treeOptions() []btree.Option {
	return []btree.Option{
		btree.WithCache(a.cfg.CacheSize),
		btree.WithLogger(a.log.Logger),
		btree.WithSyncWrites(a.cfg.SyncWrites),
	}
}

// openTree opens an existing tree file with the configured options.
func (a *app) openTree(path string) (*btree.Tree, error) {
	return btree.Open(path, a.treeOptions()...)
}

// closeTree closes t and keeps the first error.
func closeTree(t *btree.Tree, err *error) {
	if cerr := t.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
