package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"crate/internal/models"
	"crate/internal/network"
)

var (
	_ list.Item = recordItem{}
	_ list.Item = musicianItem{}
)

// recordItem wraps [models.RecordData] to implement [list.Item].
type recordItem struct {
	record models.RecordData
}

func (i recordItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.record.Artist, i.record.Album)
}

func (i recordItem) Title() string {
	return fmt.Sprintf("%s — %s", i.record.Artist, i.record.Album)
}

func (i recordItem) Description() string {
	parts := []string{}
	if i.record.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", i.record.Year))
	}
	if i.record.Label != "" {
		parts = append(parts, i.record.Label)
	}
	if len(i.record.Genres) > 0 {
		parts = append(parts, strings.Join(i.record.Genres, ", "))
	}
	if i.record.Notes != "" {
		parts = append(parts, i.record.Notes)
	}
	if len(parts) == 0 {
		return "no details"
	}
	return strings.Join(parts, " • ")
}

// musicianItem wraps [network.MusicianStats] to implement [list.Item].
type musicianItem struct {
	stats network.MusicianStats
}

func (i musicianItem) FilterValue() string { return i.stats.Musician }
func (i musicianItem) Title() string       { return i.stats.Musician }
func (i musicianItem) Description() string {
	desc := fmt.Sprintf("%d records", i.stats.TotalRecords)
	if i.stats.AsSessionMusician > 0 {
		desc = fmt.Sprintf("%s • %d as session musician", desc, i.stats.AsSessionMusician)
	}
	return desc
}
