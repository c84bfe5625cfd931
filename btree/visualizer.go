package btree

import (
	"fmt"
	"strings"

	"genebank/kmer"

	"github.com/fatih/color"
)

var (
	seqColor  = color.New(color.FgCyan).SprintFunc()
	freqColor = color.New(color.FgYellow).SprintFunc()
	levelTag  = color.New(color.FgHiBlack).SprintfFunc()
	leafColor = color.New(color.FgGreen).SprintFunc()
)

// Visualizer prints a tree level by level, one line per level. Nodes of a
// level are shown left to right as [seq:freq seq:freq].
type Visualizer struct {
	Tree *Tree
	// MaxLevels caps the output depth; 0 means no cap.
	MaxLevels int
}

func (v *Visualizer) Visualize() (string, error) {
	t := v.Tree
	if t.closed {
		return "", ErrClosed
	}
	var sb strings.Builder
	level := []*Node{t.root}
	for depth := 0; len(level) > 0; depth++ {
		if v.MaxLevels > 0 && depth >= v.MaxLevels {
			sb.WriteString(levelTag("... %d more level(s) not shown\n", v.remaining(level)))
			break
		}
		sb.WriteString(levelTag("L%d ", depth))
		var next []*Node
		for i, n := range level {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(v.renderNode(n))
			if n.Leaf {
				continue
			}
			for _, loc := range n.Children {
				child, err := t.store.Load(loc)
				if err != nil {
					return "", err
				}
				next = append(next, child)
			}
		}
		sb.WriteByte('\n')
		level = next
	}
	return sb.String(), nil
}

func (v *Visualizer) renderNode(n *Node) string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = fmt.Sprintf("%s:%s", seqColor(kmer.Decode(e.Key, v.Tree.K())), freqColor(e.Frequency))
	}
	body := "[" + strings.Join(parts, " ") + "]"
	if n.Leaf {
		return leafColor(body)
	}
	return body
}

// remaining counts the levels below a cut-off, following leftmost children.
func (v *Visualizer) remaining(level []*Node) int {
	count := 0
	n := level[0]
	for {
		count++
		if n.Leaf {
			return count
		}
		child, err := v.Tree.store.Load(n.Children[0])
		if err != nil {
			return count
		}
		n = child
	}
}
