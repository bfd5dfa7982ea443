package sidebar

import (
	"path"
	"sort"
	"strings"
)

type treeNode struct {
	label    string
	entries  []*treeEntry
	children map[string]*treeNode
}

type treeEntry struct {
	rank int
	link *Link
	node *treeNode
}

func newTreeNode(label string) *treeNode {
	return &treeNode{label: label, children: make(map[string]*treeNode)}
}

// child returns the nested directory node, creating it at the position of its first route.
func (n *treeNode) child(segment string, rank int) *treeNode {
	if existing, ok := n.children[segment]; ok {
		return existing
	}
	created := newTreeNode(segment)
	n.children[segment] = created
	n.entries = append(n.entries, &treeEntry{rank: rank, node: created})
	return created
}

// treeify nests routes below prefix by their remaining path segments. Siblings keep the
// order of the input sequence; with ranks they are additionally ordered by rank, a nested
// group taking the rank of its first route.
func treeify(routes []*Route, prefix string, ranks map[*Route]int, base string, collapsed bool) []Item {
	root := newTreeNode("")
	for seq, r := range routes {
		rank := seq
		if explicit, ok := ranks[r]; ok {
			rank = explicit
		}

		node := root
		for _, segment := range directorySegments(r, prefix) {
			node = node.child(segment, rank)
		}
		link := newLink(r.label(), Href(base, r.ID), r.ID)
		node.entries = append(node.entries, &treeEntry{rank: rank, link: link})
	}
	return root.items(ranks != nil, collapsed)
}

func directorySegments(r *Route, prefix string) []string {
	rel := r.ID
	if prefix != "" {
		rel = strings.TrimPrefix(strings.TrimPrefix(r.ID, prefix), "/")
	}
	if rel == "" {
		return nil
	}
	segments := strings.Split(rel, "/")
	if r.IsIndex() {
		return segments
	}
	return segments[:len(segments)-1]
}

func (n *treeNode) items(byRank bool, collapsed bool) []Item {
	if byRank {
		sort.SliceStable(n.entries, func(i, j int) bool {
			return n.entries[i].rank < n.entries[j].rank
		})
	}
	items := make([]Item, 0, len(n.entries))
	for _, entry := range n.entries {
		if entry.link != nil {
			items = append(items, entry.link)
			continue
		}
		group := newGroup(entry.node.label, collapsed)
		group.Items = entry.node.items(byRank, collapsed)
		items = append(items, group)
	}
	return items
}

// Href resolves a route id against the site base path.
func Href(base, routeID string) string {
	trimmedBase := strings.Trim(strings.TrimSpace(base), "/")
	trimmedRoute := strings.Trim(strings.TrimSpace(routeID), "/")
	switch {
	case trimmedBase == "" && trimmedRoute == "":
		return "/"
	case trimmedBase == "":
		return "/" + trimmedRoute
	case trimmedRoute == "":
		return "/" + trimmedBase
	default:
		return "/" + path.Join(trimmedBase, trimmedRoute)
	}
}
