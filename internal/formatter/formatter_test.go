package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"crate/internal/models"
	"crate/internal/network"
	crtest "crate/internal/testing"
)

func testRecords() []models.RecordData {
	return []models.RecordData{
		{
			ID:     "rec-1",
			Artist: "John Coltrane",
			Album:  "Blue Train",
			Year:   1957,
			Label:  "Blue Note",
			Genres: []string{"Jazz"},
		},
		{
			ID:     "rec-2",
			Artist: "Miles Davis",
			Album:  "Kind of Blue",
			Genres: []string{"Jazz", "Modal"},
		},
	}
}

func TestRecordsToText(t *testing.T) {
	output := string(RecordsToText(testRecords()))

	t.Run("Has Header", func(t *testing.T) {
		if !strings.Contains(output, "ARTIST") || !strings.Contains(output, "ALBUM") {
			t.Errorf("missing header columns in output: %s", output)
		}
	})

	t.Run("Has Rows", func(t *testing.T) {
		for _, want := range []string{"John Coltrane", "Blue Train", "1957", "Blue Note", "Kind of Blue"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("Joins Genres", func(t *testing.T) {
		if !strings.Contains(output, "Jazz, Modal") {
			t.Errorf("expected joined genres, got: %s", output)
		}
	})

	t.Run("Has Count Footer", func(t *testing.T) {
		if !strings.Contains(output, "2 records") {
			t.Errorf("expected record count footer, got: %s", output)
		}
	})
}

func TestRecordsToMarkdown(t *testing.T) {
	output := string(RecordsToMarkdown(testRecords()))

	t.Run("Has Table Header", func(t *testing.T) {
		if !strings.Contains(output, "| Artist | Album | Year | Label | Genres |") {
			t.Errorf("missing markdown header: %s", output)
		}
		if !strings.Contains(output, "| --- |") {
			t.Errorf("missing markdown separator: %s", output)
		}
	})

	t.Run("Has Rows", func(t *testing.T) {
		if !strings.Contains(output, "| John Coltrane | Blue Train | 1957 | Blue Note | Jazz |") {
			t.Errorf("missing record row: %s", output)
		}
	})

	t.Run("Blank Year When Unset", func(t *testing.T) {
		if !strings.Contains(output, "| Miles Davis | Kind of Blue |  |  | Jazz, Modal |") {
			t.Errorf("expected blank year and label cells: %s", output)
		}
	})
}

func TestRecordsToJSON(t *testing.T) {
	data, err := RecordsToJSON(testRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []models.RecordData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded) != 2 || decoded[0].Artist != "John Coltrane" {
		t.Errorf("unexpected decoded records: %+v", decoded)
	}
}

func TestReleaseToText(t *testing.T) {
	release := crtest.TestRelease()
	output := string(ReleaseToText(release))

	t.Run("Has Core Fields", func(t *testing.T) {
		for _, want := range []string{"Artist:", release.Artist, "Album:", release.Album} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got: %s", want, output)
			}
		}
	})

	t.Run("Lists Musicians", func(t *testing.T) {
		if len(release.Musicians) == 0 {
			t.Fatal("fixture should carry musicians")
		}
		if !strings.Contains(output, "Musicians:") {
			t.Errorf("missing musician section: %s", output)
		}
		if !strings.Contains(output, "  - "+release.Musicians[0]) {
			t.Errorf("expected musician bullet for %q", release.Musicians[0])
		}
	})

	t.Run("Omits Empty Fields", func(t *testing.T) {
		bare := &models.Release{Artist: "Unknown Artist", Album: "Untitled"}
		got := string(ReleaseToText(bare))
		for _, absent := range []string{"Year:", "Label:", "Barcode:", "Musicians:"} {
			if strings.Contains(got, absent) {
				t.Errorf("expected %q to be omitted, got: %s", absent, got)
			}
		}
	})
}

func TestStatsToText(t *testing.T) {
	stats := network.CollaborationStats{
		TotalConnections:          12,
		UniqueMusicians:           7,
		UniqueArtists:             3,
		UniqueAlbums:              3,
		UniqueRoles:               5,
		MostCollaborativeMusician: "Paul Chambers",
		MostCollaborativeArtist:   "Miles Davis",
	}
	top := []network.MusicianStats{
		{Musician: "Paul Chambers", TotalRecords: 2, AsSessionMusician: 2},
	}
	session := []network.MusicianStats{
		{Musician: "Paul Chambers", TotalRecords: 2, AsSessionMusician: 2, SessionRatio: 1.0},
	}

	output := string(StatsToText(stats, top, session))

	for _, want := range []string{
		"Connections: 12",
		"Musicians:   7",
		"Most collaborative musician: Paul Chambers",
		"Top musicians:",
		"Session musicians:",
		"Paul Chambers (2 session appearances)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}

	t.Run("Skips Empty Sections", func(t *testing.T) {
		got := string(StatsToText(network.CollaborationStats{}, nil, nil))
		if strings.Contains(got, "Top musicians:") || strings.Contains(got, "Session musicians:") {
			t.Errorf("expected empty sections to be skipped, got: %s", got)
		}
		if strings.Contains(got, "Most collaborative") {
			t.Errorf("expected collaborative lines to be skipped, got: %s", got)
		}
	})
}

func TestDetailToText(t *testing.T) {
	detail := &network.MusicianDetail{
		Musician:           "Paul Chambers",
		Albums:             []string{"Blue Train", "Kind of Blue"},
		Collaborators:      []string{"Bill Evans", "Lee Morgan"},
		Roles:              []string{"Bass"},
		TotalRecords:       2,
		TotalCollaborators: 2,
	}

	output := string(DetailToText(detail))

	for _, want := range []string{
		"Musician: Paul Chambers",
		"Records:  2",
		"Roles:    Bass",
		"  - Blue Train",
		"Collaborators (2):",
		"  - Bill Evans",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestGraphToJSON(t *testing.T) {
	records := []models.RecordData{
		{
			ID:        "rec-1",
			Artist:    "John Coltrane",
			Album:     "Blue Train",
			Musicians: []string{"Paul Chambers (Bass)"},
		},
	}

	data, err := GraphToJSON(network.BuildGraph(records, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded network.Graph
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded.Nodes) != 2 || len(decoded.Links) != 1 {
		t.Errorf("expected 2 nodes and 1 link, got %d nodes and %d links", len(decoded.Nodes), len(decoded.Links))
	}
}
