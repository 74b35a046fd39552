package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/CrestNiraj12/podrant/domain"
)

const (
	keyEpisodeLikes       = "v1/episodeLikes"
	keySavedEpisodes      = "v1/savedEpisodes"
	keySubscriptions      = "v1/podcastSubscriptions"
	keySubscribersPrefix  = "v1/podcastSubscribers/"
	legacySubscribersHead = "podcastSubscribers-"
)

var legacyKeys = map[string]string{
	"episodeLikes":         keyEpisodeLikes,
	"savedEpisodes":        keySavedEpisodes,
	"podcastSubscriptions": keySubscriptions,
}

// likeStatus is the persisted thumbs tally for one episode.
type likeStatus struct {
	Likes    int     `json:"likes"`
	Dislikes int     `json:"dislikes"`
	UserVote *string `json:"userVote"` // "like", "dislike" or null
}

func (s likeStatus) engagement() domain.Engagement {
	e := domain.Engagement{Up: max(0, s.Likes), Down: max(0, s.Dislikes)}
	if s.UserVote != nil {
		switch *s.UserVote {
		case "like":
			e.Vote = domain.ChoiceUp
		case "dislike":
			e.Vote = domain.ChoiceDown
		}
	}
	return e
}

func statusFrom(e domain.Engagement) likeStatus {
	s := likeStatus{Likes: e.Up, Dislikes: e.Down}
	switch e.Vote {
	case domain.ChoiceUp:
		v := "like"
		s.UserVote = &v
	case domain.ChoiceDown:
		v := "dislike"
		s.UserVote = &v
	}
	return s
}

// Store is a single JSON document of versioned keys. Every mutation
// rewrites the file atomically; the last writer wins across processes.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store at path, migrating unversioned keys. A missing file
// starts empty; an unreadable one is logged and replaced on the next write.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading library: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("library file corrupt, starting empty")
		s.data = map[string]json.RawMessage{}
		return s, nil
	}
	if s.migrate() {
		if err := s.flush(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// migrate moves legacy keys onto their v1 names. Existing v1 values win.
func (s *Store) migrate() bool {
	changed := false
	for old, current := range legacyKeys {
		v, ok := s.data[old]
		if !ok {
			continue
		}
		if _, exists := s.data[current]; !exists {
			s.data[current] = v
		}
		delete(s.data, old)
		changed = true
	}
	for k, v := range s.data {
		id, ok := strings.CutPrefix(k, legacySubscribersHead)
		if !ok {
			continue
		}
		current := keySubscribersPrefix + id
		if _, exists := s.data[current]; !exists {
			s.data[current] = v
		}
		delete(s.data, k)
		changed = true
	}
	return changed
}

func (s *Store) get(key string, out any) {
	raw, ok := s.data[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable library value")
	}
}

func (s *Store) put(key string, v any) error {
	return s.putAll(map[string]any{key: v})
}

// putAll writes every value in one flush. The in-memory document only
// changes once the file has been replaced.
func (s *Store) putAll(values map[string]any) error {
	next := maps.Clone(s.data)
	if next == nil {
		next = map[string]json.RawMessage{}
	}
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		next[key] = raw
	}
	if err := writeFile(s.path, next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *Store) flush() error { return writeFile(s.path, s.data) }

func writeFile(path string, data map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding library: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating library dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("writing library: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing library: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing library: %w", err)
	}
	return nil
}

func (s *Store) ids(key string) []string {
	var ids []string
	s.get(key, &ids)
	return ids
}

// Save adds id to the saved set once.
func (s *Store) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.ids(keySavedEpisodes)
	if lo.Contains(saved, id) {
		return nil
	}
	return s.put(keySavedEpisodes, append(saved, id))
}

// Unsave removes every occurrence of id.
func (s *Store) Unsave(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.ids(keySavedEpisodes)
	if !lo.Contains(saved, id) {
		return nil
	}
	return s.put(keySavedEpisodes, lo.Without(saved, id))
}

func (s *Store) IsSaved(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Contains(s.ids(keySavedEpisodes), id)
}

// ToggleSaved saves or unsaves id and returns the new state.
func (s *Store) ToggleSaved(id string) (bool, error) {
	if s.IsSaved(id) {
		return false, s.Unsave(id)
	}
	return true, s.Save(id)
}

// Saved returns saved episode IDs in the order they were saved.
func (s *Store) Saved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Uniq(s.ids(keySavedEpisodes))
}

func (s *Store) likes() map[string]likeStatus {
	out := map[string]likeStatus{}
	s.get(keyEpisodeLikes, &out)
	return out
}

// EpisodeVotes returns the local thumbs tally for an episode.
func (s *Store) EpisodeVotes(id string) domain.Engagement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes()[id].engagement()
}

// VoteEpisode toggles the local thumbs vote and persists the new tally.
func (s *Store) VoteEpisode(id string, requested domain.Choice) (domain.Engagement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.likes()
	current := all[id].engagement()
	if requested == domain.ChoiceNone {
		return current, domain.ErrUnsupportedChoice
	}
	next := current.Apply(current.Vote, domain.Next(current.Vote, requested))
	all[id] = statusFrom(next)
	if err := s.put(keyEpisodeLikes, all); err != nil {
		return current, err
	}
	return next, nil
}

func (s *Store) IsSubscribed(podcastID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Contains(s.ids(keySubscriptions), podcastID)
}

// Subscriptions returns subscribed podcast IDs.
func (s *Store) Subscriptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Uniq(s.ids(keySubscriptions))
}

// SubscriberCount returns the cached subscriber count for a podcast.
func (s *Store) SubscriberCount(podcastID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriberCount(podcastID)
}

// subscriberCount accepts both numbers and the legacy numeric strings.
func (s *Store) subscriberCount(podcastID string) int {
	raw, ok := s.data[keySubscribersPrefix+podcastID]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return max(0, n)
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return max(0, n)
		}
	}
	return 0
}

// ToggleSubscription flips the subscription and adjusts the cached
// subscriber count, never below zero.
func (s *Store) ToggleSubscription(podcastID string) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.ids(keySubscriptions)
	subscribed := !lo.Contains(subs, podcastID)
	count := s.subscriberCount(podcastID)
	if subscribed {
		subs = append(subs, podcastID)
		count++
	} else {
		subs = lo.Without(subs, podcastID)
		count = max(0, count-1)
	}

	err := s.putAll(map[string]any{
		keySubscribersPrefix + podcastID: count,
		keySubscriptions:                 subs,
	})
	if err != nil {
		return !subscribed, s.subscriberCount(podcastID), err
	}
	return subscribed, count, nil
}
