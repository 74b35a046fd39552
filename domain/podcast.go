package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Podcast is a show from the metadata provider.
type Podcast struct {
	ID            string
	Title         string
	Author        string
	Description   string
	ImageURL      string
	TotalEpisodes int
	Genres        []string
}

// Episode is a single podcast episode.
type Episode struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Duration    time.Duration
	AudioURL    string // Preview clip URL, may be empty
	ImageURL    string
	PodcastID   string
}

// DurationLabel renders the duration as whole minutes, e.g. "42 min".
func (e Episode) DurationLabel() string {
	return FormatDuration(e.Duration)
}

// FormatDuration truncates d to whole minutes.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d min", int(d/time.Minute))
}

// Genre is a discovery filter.
type Genre struct {
	ID   string // snake_case, e.g. "true_crime"
	Name string // display form, e.g. "True Crime"
}

// AllGenresID selects the unfiltered podcast listing.
const AllGenresID = "all_podcasts"

// DefaultGenres is used when the provider sample yields no genres.
var DefaultGenres = []Genre{
	{ID: "news_talk", Name: "News & Talk"},
	{ID: "comedy", Name: "Comedy"},
	{ID: "education", Name: "Education"},
	{ID: "society_culture", Name: "Society & Culture"},
	{ID: "technology", Name: "Technology"},
	{ID: "business", Name: "Business"},
	{ID: "health_wellness", Name: "Health & Wellness"},
	{ID: "entertainment", Name: "Entertainment"},
	{ID: "true_crime", Name: "True Crime"},
}

// GenreFromRaw converts a provider genre like "true_crime" into a Genre.
func GenreFromRaw(raw string) (Genre, bool) {
	words := strings.FieldsFunc(raw, func(r rune) bool { return r == '_' || unicode.IsSpace(r) })
	if len(words) == 0 {
		return Genre{}, false
	}
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	name := strings.Join(words, " ")
	return Genre{ID: strings.ToLower(strings.Join(words, "_")), Name: name}, true
}

// SearchTerm returns the provider search term for a genre ID.
func SearchTerm(genreID string) string {
	if genreID == "" || genreID == AllGenresID {
		return "podcast"
	}
	return "genre:" + strings.ReplaceAll(genreID, "_", " ") + " podcast"
}

// IsProviderEpisodeID reports whether id looks like a provider episode ID:
// exactly 22 characters and no dashes.
func IsProviderEpisodeID(id string) bool {
	return len(id) == 22 && !strings.Contains(id, "-")
}
