package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/logs"
	"github.com/chainreactors/words/mask"
)

// TreeNode groups results by position then by status code
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Results  []*result.Result
}

func NewTreeNode(name string) *TreeNode {
	return &TreeNode{
		Name:     name,
		Children: make(map[string]*TreeNode),
	}
}

// Add files the result under the given path of group names
func (tn *TreeNode) Add(parts []string, r *result.Result) {
	if len(parts) == 0 {
		tn.Results = append(tn.Results, r)
		return
	}
	if _, exists := tn.Children[parts[0]]; !exists {
		tn.Children[parts[0]] = NewTreeNode(parts[0])
	}
	tn.Children[parts[0]].Add(parts[1:], r)
}

// RenderTree renders the tree structure
func (tn *TreeNode) RenderTree(prefix string, isLast bool, color bool) string {
	var sb strings.Builder

	childPrefix := prefix
	if tn.Name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}
		sb.WriteString(prefix + connector + tn.Name + "\n")
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	var keys []string
	for k := range tn.Children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return groupLess(keys[i], keys[j])
	})

	sort.Slice(tn.Results, func(i, j int) bool {
		return tn.Results[i].SequenceID < tn.Results[j].SequenceID
	})
	for i, r := range tn.Results {
		connector := "├── "
		if i == len(tn.Results)-1 && len(keys) == 0 {
			connector = "└── "
		}
		sb.WriteString(childPrefix + connector)
		if color {
			sb.WriteString(r.ColorString())
		} else {
			sb.WriteString(r.String())
		}
		sb.WriteString("\n")
	}

	for i, key := range keys {
		sb.WriteString(tn.Children[key].RenderTree(childPrefix, i == len(keys)-1, color))
	}
	return sb.String()
}

// groupLess orders "position N" groups numerically, "all" sorts last.
func groupLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a[strings.LastIndex(a, " ")+1:])
	bi, berr := strconv.Atoi(b[strings.LastIndex(b, " ")+1:])
	if aerr == nil && berr == nil {
		return ai < bi
	}
	if aerr == nil {
		return true
	}
	if berr == nil {
		return false
	}
	return a < b
}

// LoadResults parses a json lines result file, "stdin" reads from standard input.
func LoadResults(filename string) ([]*result.Result, error) {
	var content []byte
	var err error
	if filename == "stdin" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, err
	}

	var results []*result.Result
	for _, line := range bytes.Split(bytes.TrimSpace(content), []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		r := &result.Result{}
		if err := json.Unmarshal(line, r); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func Format(opts Option) {
	results, err := LoadResults(opts.Format)
	if err != nil {
		logs.Log.Error(err.Error())
		return
	}

	// Default to tree mode if not specified
	outputProbe := opts.OutputProbe
	if outputProbe == "" {
		outputProbe = "tree"
	}

	if outputProbe == "tree" {
		formatTree(results, opts)
	} else if outputProbe == "full" {
		formatFull(results, opts)
	} else {
		formatProbe(results, strings.Split(outputProbe, ","))
	}
}

func formatTree(results []*result.Result, opts Option) {
	root := NewTreeNode("")
	for _, r := range results {
		group := "all"
		if r.Position >= 0 {
			group = "position " + strconv.Itoa(r.Position)
		}
		status := "status " + strconv.Itoa(r.StatusCode)
		if r.Failed() {
			status = "failed"
		}
		root.Add([]string{group, status}, r)
	}
	logs.Log.Console(fmt.Sprintf("\n%s, %d results\n", opts.Format, len(results)))
	logs.Log.Console(root.RenderTree("", true, !opts.NoColor))
}

// formatFull prints every result with its request and response text
func formatFull(results []*result.Result, opts Option) {
	for _, r := range results {
		if !opts.NoColor {
			logs.Log.Console(r.ColorString() + "\n")
		} else {
			logs.Log.Console(r.String() + "\n")
		}
		logs.Log.Console(r.FullRequestText + "\n\n" + r.FullResponseText + "\n\n")
	}
}

func formatProbe(results []*result.Result, probes []string) {
	for _, r := range results {
		logs.Log.Console(r.ProbeOutput(probes) + "\n")
	}
}

// PrintPreset lists the keywords usable in the -w mask dsl.
func PrintPreset() {
	logs.Log.Console("internal words keyword:\n")
	var names []string
	for name := range mask.SpecialWords {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logs.Log.Consolef("\t%s\t%d words\n", name, len(mask.SpecialWords[name]))
	}

	logs.Log.Console("\nprobe fields:\n")
	logs.Log.Consolef("\t%s\n", strings.Join(ProbeFields, ","))
}
