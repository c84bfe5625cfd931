package main

import (
	"fmt"
	"strings"

	"genebank/btree"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4589ff")).
			Padding(0, 1)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8d8d8d")).Width(12)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func renderStats(path string, st btree.Stats) string {
	rows := [][2]string{
		{"k", fmt.Sprint(st.K)},
		{"degree", fmt.Sprint(st.Degree)},
		{"record", fmt.Sprintf("%d bytes", st.RecordSize)},
		{"nodes", fmt.Sprint(st.Nodes)},
		{"root", fmt.Sprint(st.Root)},
		{"reads", fmt.Sprint(st.IO.Reads)},
	}
	lines := []string{titleStyle.Render(path)}
	for _, r := range rows {
		lines = append(lines, keyStyle.Render(r[0])+r[1])
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func newStatCmd(a *app) *cobra.Command {
	var btreePath string

	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Show a B-tree file's parameters and size",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tree, err := a.openTree(btreePath)
			if err != nil {
				return err
			}
			defer closeTree(tree, &err)

			fmt.Fprintln(out(cmd), renderStats(btreePath, tree.Stats()))
			return nil
		},
	}

	cmd.Flags().StringVar(&btreePath, "btree", "", "B-tree file")
	_ = cmd.MarkFlagRequired("btree")
	return cmd
}
