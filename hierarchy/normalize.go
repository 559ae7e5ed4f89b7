// Package hierarchy renames the matched nodes of a freshly loaded model so
// that repeated parts get stable, order independent names.
package hierarchy

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/scene"
)

var (
	trailingNumber = regexp.MustCompile(`[-_](\d+)$`)
	numberSuffix   = regexp.MustCompile(`[-_]\d+`)
)

type member struct {
	node   *scene.Node
	base   string
	number int
}

type group struct {
	key     string
	members []*member
}

// SplitName returns name without its trailing "-N" or "_N" and the number N
// (0 when absent).
func SplitName(name string) (string, int) {
	loc := trailingNumber.FindStringSubmatchIndex(name)
	if loc == nil {
		return name, 0
	}
	n, err := strconv.Atoi(name[loc[2]:loc[3]])
	if err != nil {
		return name, 0
	}
	return name[:loc[0]], n
}

// Normalize renames the matched descendants of node in place and returns
// the number of renamed nodes. rootName is the name node is known by.
// A single member whose base still ends in a number, like "CMP_PUMP_2-1",
// loses one suffix per call.
func Normalize(node *scene.Node, rootName string, conv naming.Convention) int {
	suffix := numberSuffix.FindString(rootName)

	var groups []*group
	index := map[string]*group{}
	for _, c := range node.Children() {
		if !conv.Matches(c.Name) {
			continue
		}
		base, n := SplitName(c.Name)
		key := base + suffix
		g := index[key]
		if g == nil {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, &member{node: c, base: base, number: n})
	}

	renamed := 0
	for _, g := range groups {
		sort.SliceStable(g.members, func(i, j int) bool {
			return g.members[i].number < g.members[j].number
		})
		for i, m := range g.members {
			name := m.base
			if len(g.members) > 1 {
				name = fmt.Sprintf("%s_%d", m.base, i+1)
			}
			if m.node.Name != name {
				m.node.Name = name
				renamed++
			}
		}
		if asm := conv.AssemblyPrefix(); asm != "" && strings.Contains(g.key, asm) {
			for _, m := range g.members {
				renamed += Normalize(m.node, m.node.Name, conv)
			}
		}
	}
	return renamed
}
