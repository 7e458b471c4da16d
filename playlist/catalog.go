// Package playlist holds the song catalog and the terminal song picker
package playlist

import (
	"fmt"
	"slices"
)

// Song is one selectable background track
// ID doubles as the audio track id; Path, when set, overrides directory lookup
type Song struct {
	ID    string `toml:"id" yaml:"id" json:"id"`
	Title string `toml:"title" yaml:"title" json:"title"`
	Path  string `toml:"path,omitempty" yaml:"path,omitempty" json:"path,omitempty"`
}

// DefaultSongs returns the stock catalog
func DefaultSongs() []Song {
	return []Song{
		{ID: "song1", Title: "Turning Page"},
		{ID: "song2", Title: "Can't take my eyes off you"},
		{ID: "song3", Title: "La mujer perfecta"},
	}
}

// Catalog is an ordered, id-unique song list
type Catalog struct {
	songs []Song
}

// NewCatalog validates songs; an empty list yields the defaults
func NewCatalog(songs []Song) (*Catalog, error) {
	if len(songs) == 0 {
		songs = DefaultSongs()
	}
	songs = slices.Clone(songs)
	seen := make(map[string]struct{}, len(songs))
	for i, s := range songs {
		if s.ID == "" {
			return nil, fmt.Errorf("playlist: song %d has no id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("playlist: duplicate song id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Title == "" {
			songs[i].Title = s.ID
		}
	}
	return &Catalog{songs: songs}, nil
}

// Songs returns a copy of the catalog in display order
func (c *Catalog) Songs() []Song {
	return slices.Clone(c.songs)
}

func (c *Catalog) Len() int { return len(c.songs) }

// Find looks a song up by id
func (c *Catalog) Find(id string) (Song, bool) {
	i := slices.IndexFunc(c.songs, func(s Song) bool { return s.ID == id })
	if i < 0 {
		return Song{}, false
	}
	return c.songs[i], true
}

// Tracks maps ids to explicit paths for the audio player
func (c *Catalog) Tracks() map[string]string {
	out := make(map[string]string)
	for _, s := range c.songs {
		if s.Path != "" {
			out[s.ID] = s.Path
		}
	}
	return out
}
