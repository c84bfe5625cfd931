package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"genebank/btree"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/google/shlex"
)

var (
	errColor = color.New(color.FgRed).SprintFunc()
	okColor  = color.New(color.FgGreen).SprintFunc()
	seqColor = color.New(color.FgCyan).SprintFunc()
)

type Cli struct {
	scanner    *bufio.Scanner
	out        io.Writer
	tree       *btree.Tree
	visualizer *btree.Visualizer
}

func NewCli(s *bufio.Scanner, out io.Writer, t *btree.Tree) *Cli {
	v := &btree.Visualizer{
		Tree:      t,
		MaxLevels: 4,
	}
	return &Cli{scanner: s, out: out, tree: t, visualizer: v}
}

// Start runs the session until EXIT or end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Fprintf(c.out, `
GeneBank B-Tree CLI (k=%d, degree=%d)

Available Commands:
  INSERT <seq>...  Add one occurrence of each sequence
  SEARCH <seq>...  Print how often each sequence was inserted
  SHOW             Print the tree level by level
  STATS            Print node, split and cache counters
  VERIFY           Check the B-tree invariants
  HELP             Print this message
  EXIT             Terminate this session
`, c.tree.K(), c.tree.Degree())
}

func (c *Cli) printPrompt() {
	fmt.Fprint(c.out, "> ")
}

// processInput runs one line and reports whether the session continues.
func (c *Cli) processInput(line string) bool {
	fields, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintln(c.out, errColor(err))
		return true
	}
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		fmt.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "insert":
		c.processInsertCommand(fields[1:])
	case "search":
		c.processSearchCommand(fields[1:])
	case "show":
		c.processShowCommand()
	case "stats":
		c.processStatsCommand()
	case "verify":
		c.processVerifyCommand()
	case "help":
		c.printHelp()
	case "exit", "quit":
		return false
	}
	return true
}

func (c *Cli) processInsertCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: INSERT <seq>...")
		return
	}
	for _, seq := range args {
		if err := c.tree.Insert(seq); err != nil {
			c.printError(seq, err)
			return
		}
	}
	fmt.Fprintln(c.out, c.tree)
}

func (c *Cli) processSearchCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: SEARCH <seq>...")
		return
	}
	for _, seq := range args {
		freq, err := c.tree.Search(seq)
		if err != nil {
			c.printError(seq, err)
			continue
		}
		fmt.Fprintf(c.out, "%s: %d\n", seqColor(strings.ToLower(seq)), freq)
	}
}

func (c *Cli) processShowCommand() {
	out, err := c.visualizer.Visualize()
	if err != nil {
		fmt.Fprintln(c.out, errColor(err))
		return
	}
	fmt.Fprint(c.out, out)
}

func (c *Cli) processStatsCommand() {
	st := c.tree.Stats()
	fmt.Fprintf(c.out, "nodes=%d root=%d splits=%d reads=%d writes=%d\n",
		st.Nodes, st.Root, st.Splits, st.IO.Reads, st.IO.Writes)
	if st.CacheEnabled {
		fmt.Fprintf(c.out, "cache %d/%d hits=%d misses=%d\n",
			st.CacheLen, st.CacheCap, st.CacheHits, st.CacheMisses)
	}
}

func (c *Cli) processVerifyCommand() {
	sum, err := c.tree.Verify()
	if err != nil {
		fmt.Fprintln(c.out, errColor(err))
		return
	}
	fmt.Fprintf(c.out, "%s height=%d nodes=%d keys=%d occurrences=%d\n",
		okColor("ok"), sum.Height, sum.Nodes, sum.Keys, sum.Occurrences)
}

func (c *Cli) printError(seq string, err error) {
	if errors.Is(err, btree.ErrInvalidInput) {
		fmt.Fprintf(c.out, "%s %q is not a %d-base sequence\n", errColor("invalid:"), seq, c.tree.K())
		return
	}
	fmt.Fprintln(c.out, errColor(err))
}
