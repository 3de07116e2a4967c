package network

import "strings"

// Filters selects a subgraph. Empty slices mean "no restriction" for that
// dimension; multiple values within a dimension are OR-ed, dimensions are
// AND-ed together.
type Filters struct {
	Roles  []string            `json:"roles,omitempty"`
	Genres []string            `json:"genres,omitempty"`
	Styles []string            `json:"styles,omitempty"`
	Custom map[string][]string `json:"custom,omitempty"`
}

// Empty reports whether the filters select the whole graph.
func (f Filters) Empty() bool {
	return len(f.Roles) == 0 && len(f.Genres) == 0 && len(f.Styles) == 0 && len(f.Custom) == 0
}

// Apply returns the subgraph matching the filters.
//
// Links are kept when they match every active dimension; nodes left without
// any link are dropped. Filter vocabularies are recomputed from the survivors
// so dependent filter menus narrow along with the graph.
func Apply(graph *Graph, filters Filters) *Graph {
	if filters.Empty() {
		return graph
	}

	var links []Link
	connected := map[string]bool{}
	for _, link := range graph.Links {
		if !matchLink(link, filters) {
			continue
		}
		links = append(links, link)
		connected[link.Source] = true
		connected[link.Target] = true
	}

	var nodes []Node
	for _, node := range graph.Nodes {
		if connected[node.ID] {
			nodes = append(nodes, node)
		}
	}

	filtered := &Graph{
		Nodes:         nodes,
		Links:         links,
		Categories:    graph.Categories,
		CustomFilters: graph.CustomFilters,
	}

	genres := map[string]bool{}
	styles := map[string]bool{}
	roles := map[string]bool{}
	for _, node := range nodes {
		for _, genre := range node.Genres {
			genres[genre] = true
		}
		for _, style := range node.Styles {
			styles[style] = true
		}
		for _, role := range node.Roles {
			roles[role] = true
		}
	}
	filtered.Genres = sortedKeys(genres)
	filtered.Styles = sortedKeys(styles)
	filtered.CleanRoles = sortedKeys(roles)

	return filtered
}

func matchLink(link Link, filters Filters) bool {
	if len(filters.Roles) > 0 && !intersects(link.CleanRoles, filters.Roles) {
		return false
	}
	if len(filters.Genres) > 0 && !intersects(link.Genres, filters.Genres) {
		return false
	}
	if len(filters.Styles) > 0 && !intersects(link.Styles, filters.Styles) {
		return false
	}
	for field, wanted := range filters.Custom {
		if len(wanted) == 0 {
			continue
		}
		if !intersects(link.CustomData[field], wanted) {
			return false
		}
	}
	return true
}

func intersects(values, wanted []string) bool {
	for _, value := range values {
		for _, want := range wanted {
			if value == want {
				return true
			}
		}
	}
	return false
}

// Neighborhood is the highlight set for a focused node: the node itself, its
// direct neighbors, and the indexes of its incident links in Graph.Links.
type Neighborhood struct {
	Focus string          `json:"focus"`
	Nodes map[string]bool `json:"nodes"`
	Links []int           `json:"links"`
}

// Highlight computes the [Neighborhood] of a node, or nil when the node
// is not in the graph.
func Highlight(graph *Graph, nodeID string) *Neighborhood {
	found := false
	for _, node := range graph.Nodes {
		if node.ID == nodeID {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	neighborhood := &Neighborhood{
		Focus: nodeID,
		Nodes: map[string]bool{nodeID: true},
	}

	for i, link := range graph.Links {
		switch nodeID {
		case link.Source:
			neighborhood.Nodes[link.Target] = true
			neighborhood.Links = append(neighborhood.Links, i)
		case link.Target:
			neighborhood.Nodes[link.Source] = true
			neighborhood.Links = append(neighborhood.Links, i)
		}
	}

	return neighborhood
}

// SearchNodes returns nodes whose names contain the term, case-insensitively.
func SearchNodes(graph *Graph, term string) []Node {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var matches []Node
	for _, node := range graph.Nodes {
		if strings.Contains(strings.ToLower(node.Name), term) {
			matches = append(matches, node)
		}
	}
	return matches
}
