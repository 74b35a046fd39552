package spotify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/domain"
)

const (
	pageSize = 20
	// The search endpoint stops at offset 1000, i.e. 50 pages of 20.
	maxPage = 50

	genreSampleSize = 50
	episodesLimit   = 50
	idsPerRequest   = 50
)

type image struct {
	URL string `json:"url"`
}

type show struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Publisher     string   `json:"publisher"`
	Description   string   `json:"description"`
	Images        []image  `json:"images"`
	TotalEpisodes int      `json:"total_episodes"`
	Genres        []string `json:"genres"`
}

type episode struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ReleaseDate     string  `json:"release_date"`
	DurationMS      int64   `json:"duration_ms"`
	AudioPreviewURL string  `json:"audio_preview_url"`
	Images          []image `json:"images"`
	Show            *show   `json:"show"`
}

type searchResponse struct {
	Shows struct {
		Items []*show `json:"items"`
		Total int     `json:"total"`
	} `json:"shows"`
}

func firstImage(images []image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

func mapShow(s *show) domain.Podcast {
	return domain.Podcast{
		ID:            s.ID,
		Title:         s.Name,
		Author:        s.Publisher,
		Description:   s.Description,
		ImageURL:      firstImage(s.Images),
		TotalEpisodes: s.TotalEpisodes,
		Genres:        append([]string{}, s.Genres...),
	}
}

func mapEpisode(e *episode, podcastID string) domain.Episode {
	ep := domain.Episode{
		ID:          e.ID,
		Title:       e.Name,
		Description: e.Description,
		Date:        parseReleaseDate(e.ReleaseDate),
		Duration:    time.Duration(e.DurationMS) * time.Millisecond,
		AudioURL:    e.AudioPreviewURL,
		ImageURL:    firstImage(e.Images),
		PodcastID:   podcastID,
	}
	if e.Show != nil {
		if ep.PodcastID == "" {
			ep.PodcastID = e.Show.ID
		}
		if ep.ImageURL == "" {
			ep.ImageURL = firstImage(e.Show.Images)
		}
	}
	return ep
}

// parseReleaseDate accepts day, month or year precision dates.
func parseReleaseDate(raw string) time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c *Client) search(ctx context.Context, query string, limit, offset int) ([]*show, error) {
	var out searchResponse
	err := c.get(ctx, "/search", map[string]string{
		"type":   "show",
		"q":      query,
		"market": c.market,
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}, &out)
	if err != nil {
		return nil, err
	}
	return lo.Filter(out.Shows.Items, func(s *show, _ int) bool { return s != nil }), nil
}

// Genres extracts genres from a sample of popular shows, falling back to
// the default list when the sample has none or the request fails.
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	shows, err := c.search(ctx, "podcast", genreSampleSize, 0)
	if err != nil {
		log.Warn().Err(err).Msg("genre sample failed, using defaults")
		return append([]domain.Genre{}, domain.DefaultGenres...), nil
	}
	var genres []domain.Genre
	seen := make(map[string]struct{})
	for _, s := range shows {
		for _, raw := range s.Genres {
			g, ok := domain.GenreFromRaw(raw)
			if !ok {
				continue
			}
			if _, dup := seen[g.ID]; dup {
				continue
			}
			seen[g.ID] = struct{}{}
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return append([]domain.Genre{}, domain.DefaultGenres...), nil
	}
	return genres, nil
}

// BestPodcasts returns one page of shows for a genre. Pages beyond the
// provider's result window are empty.
func (c *Client) BestPodcasts(ctx context.Context, genreID string, page int) ([]domain.Podcast, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return []domain.Podcast{}, nil
	}
	shows, err := c.search(ctx, domain.SearchTerm(genreID), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return lo.Map(shows, func(s *show, _ int) domain.Podcast { return mapShow(s) }), nil
}

// Search returns shows matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Podcast, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Podcast{}, nil
	}
	shows, err := c.search(ctx, query, pageSize, 0)
	if err != nil {
		return nil, err
	}
	return lo.Map(shows, func(s *show, _ int) domain.Podcast { return mapShow(s) }), nil
}

// Podcast returns a single show.
func (c *Client) Podcast(ctx context.Context, id string) (domain.Podcast, error) {
	var s show
	if err := c.get(ctx, "/shows/"+id, map[string]string{"market": c.market}, &s); err != nil {
		return domain.Podcast{}, err
	}
	return mapShow(&s), nil
}

// Episodes returns the most recent episodes of a show.
func (c *Client) Episodes(ctx context.Context, podcastID string) ([]domain.Episode, error) {
	var out struct {
		Items []*episode `json:"items"`
	}
	err := c.get(ctx, "/shows/"+podcastID+"/episodes", map[string]string{
		"market": c.market,
		"limit":  strconv.Itoa(episodesLimit),
	}, &out)
	if err != nil {
		return nil, err
	}
	eps := make([]domain.Episode, 0, len(out.Items))
	for _, e := range out.Items {
		if e == nil {
			continue
		}
		eps = append(eps, mapEpisode(e, podcastID))
	}
	return eps, nil
}

// EpisodesByIDs resolves provider episode IDs in batches. IDs that do not
// look like provider IDs, and IDs the provider no longer knows, are skipped.
func (c *Client) EpisodesByIDs(ctx context.Context, ids []string) ([]domain.Episode, error) {
	valid := lo.Uniq(lo.Filter(ids, func(id string, _ int) bool { return domain.IsProviderEpisodeID(id) }))
	eps := make([]domain.Episode, 0, len(valid))
	for _, batch := range lo.Chunk(valid, idsPerRequest) {
		var out struct {
			Episodes []*episode `json:"episodes"`
		}
		err := c.get(ctx, "/episodes", map[string]string{
			"ids":    strings.Join(batch, ","),
			"market": c.market,
		}, &out)
		if err != nil {
			return nil, err
		}
		for _, e := range out.Episodes {
			if e == nil {
				continue
			}
			eps = append(eps, mapEpisode(e, ""))
		}
	}
	return eps, nil
}
