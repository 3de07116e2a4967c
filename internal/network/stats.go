package network

import (
	"sort"
	"strings"
)

// MusicianStats summarizes one musician's presence across the collection.
//
// Records are "Artist - Album" strings; a record counts as main-artist work
// when the musician is the record's main artist, session work otherwise.
type MusicianStats struct {
	Musician          string   `json:"musician"`
	TotalRecords      int      `json:"total_records"`
	AsMainArtist      int      `json:"as_main_artist"`
	AsSessionMusician int      `json:"as_session_musician"`
	SessionRatio      float64  `json:"session_ratio"`
	Records           []string `json:"records"`
}

// CollaborationStats are collection-wide network aggregates.
type CollaborationStats struct {
	TotalConnections          int    `json:"total_connections"`
	UniqueMusicians           int    `json:"unique_musicians"`
	UniqueArtists             int    `json:"unique_artists"`
	UniqueAlbums              int    `json:"unique_albums"`
	UniqueRoles               int    `json:"unique_roles"`
	MostCollaborativeMusician string `json:"most_collaborative_musician"`
	MostCollaborativeArtist   string `json:"most_collaborative_artist"`
}

// MusicianDetail is the drill-down view for one musician.
type MusicianDetail struct {
	Musician           string        `json:"musician"`
	Albums             []string      `json:"albums"`
	Collaborators      []string      `json:"collaborators"`
	Roles              []string      `json:"roles"`
	Stats              MusicianStats `json:"stats"`
	TotalRecords       int           `json:"total_records"`
	TotalCollaborators int           `json:"total_collaborators"`
}

// AnalyzeMusicians computes per-musician statistics from the credit list,
// sorted by total record count descending, name ascending on ties.
func AnalyzeMusicians(credits []Credit) []MusicianStats {
	var order []string
	records := map[string][]string{}

	for _, credit := range credits {
		record := credit.Artist + " - " + credit.Album
		if _, ok := records[credit.Musician]; !ok {
			order = append(order, credit.Musician)
		}
		records[credit.Musician] = appendUnique(records[credit.Musician], record)
	}

	stats := make([]MusicianStats, 0, len(order))
	for _, musician := range order {
		owned := records[musician]

		mainCount := 0
		for _, record := range owned {
			if strings.HasPrefix(record, musician+" - ") {
				mainCount++
			}
		}

		sessionCount := len(owned) - mainCount
		ratio := 0.0
		if len(owned) > 0 {
			ratio = float64(sessionCount) / float64(len(owned))
		}

		stats = append(stats, MusicianStats{
			Musician:          musician,
			TotalRecords:      len(owned),
			AsMainArtist:      mainCount,
			AsSessionMusician: sessionCount,
			SessionRatio:      ratio,
			Records:           owned,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalRecords != stats[j].TotalRecords {
			return stats[i].TotalRecords > stats[j].TotalRecords
		}
		return stats[i].Musician < stats[j].Musician
	})

	return stats
}

// SessionMusicians selects musicians who appear across the collection but
// rarely as the main artist, sorted by session work descending.
//
// Defaults when zero: minRecords 2, minRatio 0.7. At least two session
// appearances are always required.
func SessionMusicians(stats []MusicianStats, minRecords int, minRatio float64) []MusicianStats {
	if minRecords <= 0 {
		minRecords = 2
	}
	if minRatio <= 0 {
		minRatio = 0.7
	}

	var session []MusicianStats
	for _, stat := range stats {
		if stat.TotalRecords >= minRecords && stat.SessionRatio >= minRatio && stat.AsSessionMusician >= 2 {
			session = append(session, stat)
		}
	}

	sort.Slice(session, func(i, j int) bool {
		if session[i].AsSessionMusician != session[j].AsSessionMusician {
			return session[i].AsSessionMusician > session[j].AsSessionMusician
		}
		return session[i].Musician < session[j].Musician
	})

	return session
}

// TopMusicians returns the first limit entries of an already-sorted stats list.
func TopMusicians(stats []MusicianStats, limit int) []MusicianStats {
	if limit <= 0 || limit > len(stats) {
		limit = len(stats)
	}
	return stats[:limit]
}

// Collaboration computes collection-wide aggregates over the credit list.
func Collaboration(credits []Credit) CollaborationStats {
	musicians := map[string]int{}
	artists := map[string]int{}
	albums := map[string]bool{}
	roles := map[string]bool{}

	for _, credit := range credits {
		musicians[credit.Musician]++
		artists[credit.Artist]++
		albums[credit.Album] = true
		roles[credit.Role] = true
	}

	return CollaborationStats{
		TotalConnections:          len(credits),
		UniqueMusicians:           len(musicians),
		UniqueArtists:             len(artists),
		UniqueAlbums:              len(albums),
		UniqueRoles:               len(roles),
		MostCollaborativeMusician: mostFrequent(musicians),
		MostCollaborativeArtist:   mostFrequent(artists),
	}
}

// mostFrequent breaks count ties alphabetically so results are deterministic.
func mostFrequent(counts map[string]int) string {
	best := ""
	bestCount := 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || name < best)) {
			best = name
			bestCount = count
		}
	}
	return best
}

// Detail assembles the drill-down view for a musician, or nil when the
// musician has no credits.
func Detail(musician string, credits []Credit, stats []MusicianStats) *MusicianDetail {
	var albums []string
	var roles []string
	albumSet := map[string]bool{}

	for _, credit := range credits {
		if credit.Musician != musician {
			continue
		}
		if !albumSet[credit.Album] {
			albumSet[credit.Album] = true
			albums = append(albums, credit.Album)
		}
		roles = appendUnique(roles, credit.Role)
	}

	if len(albums) == 0 {
		return nil
	}

	collaborators := map[string]bool{}
	for _, credit := range credits {
		if credit.Musician != musician && albumSet[credit.Album] {
			collaborators[credit.Musician] = true
		}
	}

	detail := &MusicianDetail{
		Musician:           musician,
		Albums:             albums,
		Collaborators:      sortedKeys(collaborators),
		Roles:              roles,
		TotalRecords:       len(albums),
		TotalCollaborators: len(collaborators),
	}

	for _, stat := range stats {
		if stat.Musician == musician {
			detail.Stats = stat
			break
		}
	}

	return detail
}

// SearchMusicians filters stats by a case-insensitive name match, keeping the
// incoming order and returning at most limit entries.
func SearchMusicians(stats []MusicianStats, term string, limit int) []MusicianStats {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var matches []MusicianStats
	for _, stat := range stats {
		if strings.Contains(strings.ToLower(stat.Musician), term) {
			matches = append(matches, stat)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}
