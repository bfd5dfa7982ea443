package sidebar

// ItemType tags the kind of a sidebar node in templates and JSON.
type ItemType string

const (
	TypeLink  ItemType = "link"
	TypeGroup ItemType = "group"
)

// Item is a node of the navigation tree: a *Link or a *Group.
type Item interface {
	Kind() ItemType
}

// Link points at a single page or an external URL.
type Link struct {
	Type      ItemType `json:"type"`
	Label     string   `json:"label"`
	Href      string   `json:"href"`
	RouteID   string   `json:"routeId,omitempty"`
	IsCurrent bool     `json:"isCurrent"`
}

// Group is a labeled, ordered collection of links and nested groups.
type Group struct {
	Type      ItemType `json:"type"`
	Label     string   `json:"label"`
	Items     []Item   `json:"items"`
	Collapsed bool     `json:"collapsed"`
}

func (l *Link) Kind() ItemType  { return TypeLink }
func (g *Group) Kind() ItemType { return TypeGroup }

func newLink(label, href, routeID string) *Link {
	return &Link{Type: TypeLink, Label: label, Href: href, RouteID: routeID}
}

func newGroup(label string, collapsed bool) *Group {
	return &Group{Type: TypeGroup, Label: label, Items: []Item{}, Collapsed: collapsed}
}

// Flatten returns the links of the tree in display order.
func Flatten(items []Item) []*Link {
	links := make([]*Link, 0, len(items))
	var walk func([]Item)
	walk = func(nodes []Item) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *Link:
				links = append(links, n)
			case *Group:
				walk(n.Items)
			}
		}
	}
	walk(items)
	return links
}

// MarkCurrent returns a copy of the tree with the link of routeID flagged as current.
// Input items are left untouched so that a cached sidebar can be shared across pages.
func MarkCurrent(items []Item, routeID string) []Item {
	out := make([]Item, 0, len(items))
	for _, node := range items {
		switch n := node.(type) {
		case *Link:
			link := *n
			link.IsCurrent = n.RouteID != "" && n.RouteID == routeID
			out = append(out, &link)
		case *Group:
			group := *n
			group.Items = MarkCurrent(n.Items, routeID)
			out = append(out, &group)
		}
	}
	return out
}

// Pagination returns the links before and after routeID in display order.
func Pagination(items []Item, routeID string) (prev, next *Link) {
	links := Flatten(items)
	for i, link := range links {
		if link.RouteID == "" || link.RouteID != routeID {
			continue
		}
		if i > 0 {
			prev = links[i-1]
		}
		if i < len(links)-1 {
			next = links[i+1]
		}
		return prev, next
	}
	return nil, nil
}
