// package formatter renders records, releases and network statistics for terminal output
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"crate/internal/models"
	"crate/internal/network"
)

// RecordsToText renders records as an aligned table for plain terminal output.
func RecordsToText(records []models.RecordData) []byte {
	var buf bytes.Buffer

	writer := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ARTIST\tALBUM\tYEAR\tLABEL\tGENRES")
	for _, record := range records {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			record.Artist,
			record.Album,
			yearString(record.Year),
			record.Label,
			strings.Join(record.Genres, ", "),
		)
	}
	writer.Flush()

	fmt.Fprintf(&buf, "\n%d records\n", len(records))

	return buf.Bytes()
}

// RecordsToMarkdown renders records as a Markdown table.
func RecordsToMarkdown(records []models.RecordData) []byte {
	var buf bytes.Buffer

	buf.WriteString("| Artist | Album | Year | Label | Genres |\n")
	buf.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, record := range records {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n",
			record.Artist,
			record.Album,
			yearString(record.Year),
			record.Label,
			strings.Join(record.Genres, ", "),
		)
	}

	return buf.Bytes()
}

// RecordsToJSON renders records as indented JSON.
func RecordsToJSON(records []models.RecordData) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

// ReleaseToText renders a lookup result as a preview block.
func ReleaseToText(release *models.Release) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Artist:  %s\n", release.Artist)
	fmt.Fprintf(&buf, "Album:   %s\n", release.Album)
	if release.Year != 0 {
		fmt.Fprintf(&buf, "Year:    %d\n", release.Year)
	}
	if release.Label != "" {
		fmt.Fprintf(&buf, "Label:   %s\n", release.Label)
	}
	if len(release.Genres) > 0 {
		fmt.Fprintf(&buf, "Genres:  %s\n", strings.Join(release.Genres, ", "))
	}
	if len(release.Styles) > 0 {
		fmt.Fprintf(&buf, "Styles:  %s\n", strings.Join(release.Styles, ", "))
	}
	if release.Barcode != "" {
		fmt.Fprintf(&buf, "Barcode: %s\n", release.Barcode)
	}
	if release.ReleaseURL != "" {
		fmt.Fprintf(&buf, "Discogs: %s\n", release.ReleaseURL)
	}

	if len(release.Musicians) > 0 {
		buf.WriteString("\nMusicians:\n")
		for _, musician := range release.Musicians {
			fmt.Fprintf(&buf, "  - %s\n", musician)
		}
	}

	return buf.Bytes()
}

// StatsToText renders collection-wide network statistics with the top
// musicians and identified session players.
func StatsToText(stats network.CollaborationStats, top, session []network.MusicianStats) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Connections: %d\n", stats.TotalConnections)
	fmt.Fprintf(&buf, "Musicians:   %d\n", stats.UniqueMusicians)
	fmt.Fprintf(&buf, "Artists:     %d\n", stats.UniqueArtists)
	fmt.Fprintf(&buf, "Albums:      %d\n", stats.UniqueAlbums)
	fmt.Fprintf(&buf, "Roles:       %d\n", stats.UniqueRoles)
	if stats.MostCollaborativeMusician != "" {
		fmt.Fprintf(&buf, "Most collaborative musician: %s\n", stats.MostCollaborativeMusician)
	}
	if stats.MostCollaborativeArtist != "" {
		fmt.Fprintf(&buf, "Most collaborative artist:   %s\n", stats.MostCollaborativeArtist)
	}

	if len(top) > 0 {
		buf.WriteString("\nTop musicians:\n")
		writer := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "  MUSICIAN\tRECORDS\tSESSION")
		for _, stat := range top {
			fmt.Fprintf(writer, "  %s\t%d\t%d\n", stat.Musician, stat.TotalRecords, stat.AsSessionMusician)
		}
		writer.Flush()
	}

	if len(session) > 0 {
		buf.WriteString("\nSession musicians:\n")
		for _, stat := range session {
			fmt.Fprintf(&buf, "  - %s (%d session appearances)\n", stat.Musician, stat.AsSessionMusician)
		}
	}

	return buf.Bytes()
}

// DetailToText renders a musician drill-down.
func DetailToText(detail *network.MusicianDetail) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Musician: %s\n", detail.Musician)
	fmt.Fprintf(&buf, "Records:  %d\n", detail.TotalRecords)
	fmt.Fprintf(&buf, "Roles:    %s\n", strings.Join(detail.Roles, ", "))

	if len(detail.Albums) > 0 {
		buf.WriteString("\nAlbums:\n")
		for _, album := range detail.Albums {
			fmt.Fprintf(&buf, "  - %s\n", album)
		}
	}

	if len(detail.Collaborators) > 0 {
		fmt.Fprintf(&buf, "\nCollaborators (%d):\n", detail.TotalCollaborators)
		for _, collaborator := range detail.Collaborators {
			fmt.Fprintf(&buf, "  - %s\n", collaborator)
		}
	}

	return buf.Bytes()
}

// GraphToJSON renders a collaboration graph as indented JSON.
func GraphToJSON(graph *network.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return data, nil
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}
