package network

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"crate/internal/models"
)

// creditPattern matches "Name (optional disambiguation number) (Role1, Role2)".
var creditPattern = regexp.MustCompile(`^([^(]+?)(?:\s*\((\d+)\))?\s*\(([^)]+)\)$`)

var bracketPattern = regexp.MustCompile(`\s*\[.*?\]`)

var parenPattern = regexp.MustCompile(`\s*\(.*?\)`)

// Credit is one parsed musician credit: a musician playing one role on one record.
type Credit struct {
	Musician  string
	Role      string
	CleanRole string
	Artist    string
	Album     string
	Genres    []string
	Styles    []string
	Custom    map[string]string
}

// Node is a graph node, either a main artist or a session musician.
//
// SymbolSize scales with the node's degree so heavily connected names render larger.
type Node struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	SymbolSize     float64  `json:"symbolSize"`
	Value          int      `json:"value"`
	Genres         []string `json:"genres"`
	Styles         []string `json:"styles"`
	Albums         []string `json:"albums,omitempty"`
	Collaborations []string `json:"collaborations,omitempty"`
	Roles          []string `json:"roles"`
}

// Link is a weighted musician-to-artist edge. One link aggregates every
// collaboration between the pair; Value counts the merged credits.
type Link struct {
	Source     string              `json:"source"`
	Target     string              `json:"target"`
	Value      int                 `json:"value"`
	Roles      []string            `json:"roles"`
	CleanRoles []string            `json:"clean_roles"`
	Albums     []string            `json:"albums"`
	Genres     []string            `json:"genres"`
	Styles     []string            `json:"styles"`
	CustomData map[string][]string `json:"custom_data,omitempty"`
}

// Category describes a node class and its display color.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Graph is the complete collaboration network plus the filter vocabularies
// the viewer offers.
type Graph struct {
	Nodes         []Node              `json:"nodes"`
	Links         []Link              `json:"links"`
	Categories    []Category          `json:"categories"`
	Genres        []string            `json:"genres"`
	Styles        []string            `json:"styles"`
	CleanRoles    []string            `json:"clean_roles"`
	CustomFilters map[string][]string `json:"custom_filters,omitempty"`
}

// CategoryMusician and CategoryArtist are the two node classes.
const (
	CategoryMusician = "musician"
	CategoryArtist   = "artist"
)

// ParseCredits expands a record's credit strings into per-role [Credit] entries.
//
// Each entry looks like "Name (Role1, Role2)" or "Name (2) (Role)" where the
// number disambiguates same-named Discogs artists and stays part of the name.
// Entries that don't match the pattern are skipped.
func ParseCredits(entries []string, mainArtist string) []Credit {
	var credits []Credit

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		match := creditPattern.FindStringSubmatch(entry)
		if match == nil {
			continue
		}

		name := strings.TrimSpace(match[1])
		if match[2] != "" {
			name = fmt.Sprintf("%s (%s)", name, match[2])
		}

		for _, role := range strings.Split(match[3], ",") {
			role = strings.TrimSpace(role)
			if role == "" {
				continue
			}
			credits = append(credits, Credit{
				Musician:  name,
				Role:      role,
				CleanRole: CleanRole(role),
				Artist:    mainArtist,
			})
		}
	}

	return credits
}

// CleanRole strips bracket and parenthesis qualifiers so similar roles group
// together, e.g. "Bass [Electric]" and "Bass (Upright)" both become "Bass".
func CleanRole(role string) string {
	cleaned := bracketPattern.ReplaceAllString(role, "")
	cleaned = parenPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// CreditsFromRecords parses every record's musician list and annotates each
// credit with the record's album, genres, styles, and custom column values.
//
// Column definitions map custom value IDs to display names so the filter
// vocabulary uses names the user recognizes.
func CreditsFromRecords(records []models.RecordData, columns []models.ColumnData) []Credit {
	columnNames := make(map[string]string, len(columns))
	for _, column := range columns {
		columnNames[column.ID] = column.Name
	}

	var credits []Credit
	for _, record := range records {
		parsed := ParseCredits(record.Musicians, record.Artist)
		for i := range parsed {
			parsed[i].Album = record.Album
			parsed[i].Genres = record.Genres
			parsed[i].Styles = record.Styles
			parsed[i].Custom = customFields(record, columnNames)
		}
		credits = append(credits, parsed...)
	}

	return credits
}

// customFields collects the record attributes available for custom filtering:
// label, year, and every named custom column value.
func customFields(record models.RecordData, columnNames map[string]string) map[string]string {
	fields := map[string]string{}
	if record.Label != "" {
		fields["Label"] = record.Label
	}
	if record.Year != 0 {
		fields["Year"] = strconv.Itoa(record.Year)
	}
	for columnID, value := range record.CustomValues {
		if value == "" {
			continue
		}
		name, ok := columnNames[columnID]
		if !ok {
			continue
		}
		fields[name] = value
	}
	return fields
}

// artistProfile accumulates per-artist metadata while building the graph.
type artistProfile struct {
	genres map[string]bool
	styles map[string]bool
	albums []string
}

// BuildGraph produces the collaboration graph for a collection.
//
// Main artists become artist nodes; credited musicians who are not themselves
// main artists become musician nodes. Links run musician to artist and merge
// repeat collaborations into a single weighted edge.
func BuildGraph(records []models.RecordData, columns []models.ColumnData) *Graph {
	credits := CreditsFromRecords(records, columns)

	profiles := map[string]*artistProfile{}
	for _, record := range records {
		profile, ok := profiles[record.Artist]
		if !ok {
			profile = &artistProfile{genres: map[string]bool{}, styles: map[string]bool{}}
			profiles[record.Artist] = profile
		}
		for _, genre := range record.Genres {
			profile.genres[genre] = true
		}
		for _, style := range record.Styles {
			profile.styles[style] = true
		}
		profile.albums = append(profile.albums, record.Album)
	}

	graph := &Graph{
		Categories: []Category{
			{Name: CategoryMusician, Color: "#ff7f0e"},
			{Name: CategoryArtist, Color: "#1f77b4"},
		},
		CustomFilters: map[string][]string{},
	}

	nodeIDs := map[string]bool{}
	graph.Nodes = append(graph.Nodes, buildArtistNodes(credits, profiles, nodeIDs)...)
	graph.Nodes = append(graph.Nodes, buildMusicianNodes(credits, profiles, nodeIDs)...)
	graph.Links = buildLinks(credits, profiles, nodeIDs)

	genres := map[string]bool{}
	styles := map[string]bool{}
	roles := map[string]bool{}
	for _, node := range graph.Nodes {
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
	graph.Genres = sortedKeys(genres)
	graph.Styles = sortedKeys(styles)
	graph.CleanRoles = sortedKeys(roles)

	customValues := map[string]map[string]bool{}
	for _, credit := range credits {
		for field, value := range credit.Custom {
			if customValues[field] == nil {
				customValues[field] = map[string]bool{}
			}
			customValues[field][value] = true
		}
	}
	for field, values := range customValues {
		graph.CustomFilters[field] = sortedKeys(values)
	}

	return graph
}

func buildArtistNodes(credits []Credit, profiles map[string]*artistProfile, nodeIDs map[string]bool) []Node {
	var order []string
	musicians := map[string]map[string]bool{}
	roles := map[string]map[string]bool{}

	for _, credit := range credits {
		if musicians[credit.Artist] == nil {
			order = append(order, credit.Artist)
			musicians[credit.Artist] = map[string]bool{}
			roles[credit.Artist] = map[string]bool{}
		}
		musicians[credit.Artist][credit.Musician] = true
		roles[credit.Artist][credit.CleanRole] = true
	}

	nodes := make([]Node, 0, len(order))
	for _, artist := range order {
		degree := len(musicians[artist])

		node := Node{
			ID:         artist,
			Name:       artist,
			Category:   CategoryArtist,
			SymbolSize: clampSize(12+float64(degree)*1.5, 35),
			Value:      degree,
			Genres:     []string{},
			Styles:     []string{},
			Roles:      sortedKeys(roles[artist]),
		}
		if profile, ok := profiles[artist]; ok {
			node.Genres = sortedKeys(profile.genres)
			node.Styles = sortedKeys(profile.styles)
			node.Albums = profile.albums
		}

		nodes = append(nodes, node)
		nodeIDs[artist] = true
	}

	return nodes
}

func buildMusicianNodes(credits []Credit, profiles map[string]*artistProfile, nodeIDs map[string]bool) []Node {
	var order []string
	artists := map[string]map[string]bool{}
	roles := map[string]map[string]bool{}

	for _, credit := range credits {
		if nodeIDs[credit.Musician] {
			continue
		}
		if artists[credit.Musician] == nil {
			order = append(order, credit.Musician)
			artists[credit.Musician] = map[string]bool{}
			roles[credit.Musician] = map[string]bool{}
		}
		artists[credit.Musician][credit.Artist] = true
		roles[credit.Musician][credit.CleanRole] = true
	}

	nodes := make([]Node, 0, len(order))
	for _, musician := range order {
		collaborations := sortedKeys(artists[musician])

		genres := map[string]bool{}
		styles := map[string]bool{}
		for _, artist := range collaborations {
			if profile, ok := profiles[artist]; ok {
				for genre := range profile.genres {
					genres[genre] = true
				}
				for style := range profile.styles {
					styles[style] = true
				}
			}
		}

		nodes = append(nodes, Node{
			ID:             musician,
			Name:           musician,
			Category:       CategoryMusician,
			SymbolSize:     clampSize(8+float64(len(collaborations))*2, 25),
			Value:          len(collaborations),
			Genres:         sortedKeys(genres),
			Styles:         sortedKeys(styles),
			Collaborations: collaborations,
			Roles:          sortedKeys(roles[musician]),
		})
		nodeIDs[musician] = true
	}

	return nodes
}

func buildLinks(credits []Credit, profiles map[string]*artistProfile, nodeIDs map[string]bool) []Link {
	var links []Link
	index := map[string]int{}

	for _, credit := range credits {
		if !nodeIDs[credit.Musician] || !nodeIDs[credit.Artist] {
			continue
		}

		key := credit.Musician + "\x00" + credit.Artist
		if i, ok := index[key]; ok {
			links[i].Value++
			links[i].Roles = append(links[i].Roles, credit.Role)
			links[i].CleanRoles = append(links[i].CleanRoles, credit.CleanRole)
			links[i].Albums = append(links[i].Albums, credit.Album)
			for field, value := range credit.Custom {
				links[i].CustomData[field] = appendUnique(links[i].CustomData[field], value)
			}
			continue
		}

		link := Link{
			Source:     credit.Musician,
			Target:     credit.Artist,
			Value:      1,
			Roles:      []string{credit.Role},
			CleanRoles: []string{credit.CleanRole},
			Albums:     []string{credit.Album},
			Genres:     []string{},
			Styles:     []string{},
			CustomData: map[string][]string{},
		}
		if profile, ok := profiles[credit.Artist]; ok {
			link.Genres = sortedKeys(profile.genres)
			link.Styles = sortedKeys(profile.styles)
		}
		for field, value := range credit.Custom {
			link.CustomData[field] = []string{value}
		}

		index[key] = len(links)
		links = append(links, link)
	}

	return links
}

func clampSize(size, max float64) float64 {
	if size > max {
		return max
	}
	return size
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
