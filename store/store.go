package store

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"seat-reserve-cli/model"
)

const (
	appDir           = "seat-reserve-cli"
	seatCacheTTL     = time.Hour
	maxRecentSources = 8
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source,omitempty"`
	Data      T         `json:"data"`
}

type RecentSource struct {
	Source   string    `json:"source"`
	OpenedAt time.Time `json:"opened_at"`
}

type sourceHistory struct {
	Sources []RecentSource `json:"sources"`
}

type starredSeats struct {
	BySource map[string][]string `json:"by_source"`
}

// LoadSeatCache returns the cached seats for source and whether they are
// still fresh. A missing cache is not an error.
func LoadSeatCache(source string) ([]model.Seat, bool, error) {
	path, err := cachePath(seatCacheName(source))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Seat](path)
	if err != nil {
		return nil, false, err
	}
	if cache.UpdatedAt.IsZero() {
		return nil, false, nil
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= seatCacheTTL, nil
}

func SaveSeatCache(source string, seats []model.Seat) error {
	path, err := cachePath(seatCacheName(source))
	if err != nil {
		return err
	}
	return saveCache(path, source, seats)
}

func LoadRecentSources() ([]RecentSource, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history sourceHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid source history format")
	}
	return history.Sources, nil
}

// RememberSource moves source to the front of the recent list.
func RememberSource(source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return errors.New("source is required")
	}
	history, _ := LoadRecentSources()
	next := []RecentSource{{Source: source, OpenedAt: time.Now()}}

	for _, existing := range history {
		if existing.Source == "" || existing.Source == source {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentSources {
			break
		}
	}

	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	return writeJSON(path, sourceHistory{Sources: next})
}

func LoadStarredSeats(source string) (map[string]bool, error) {
	result := map[string]bool{}
	if strings.TrimSpace(source) == "" {
		return result, nil
	}

	starred, err := loadStarred()
	if err != nil {
		return nil, err
	}
	for _, id := range starred.BySource[source] {
		if id != "" {
			result[id] = true
		}
	}
	return result, nil
}

func SetSeatStarred(source string, seatID string, star bool) error {
	source = strings.TrimSpace(source)
	seatID = strings.TrimSpace(seatID)
	if source == "" || seatID == "" {
		return errors.New("source and seat id are required")
	}

	starred, err := loadStarred()
	if err != nil {
		return err
	}

	current := starred.BySource[source]
	index := -1
	for i, id := range current {
		if id == seatID {
			index = i
			break
		}
	}

	if star {
		if index < 0 {
			current = append(current, seatID)
		}
	} else if index >= 0 {
		current = append(current[:index], current[index+1:]...)
	}

	if len(current) == 0 {
		delete(starred.BySource, source)
	} else {
		sort.Strings(current)
		starred.BySource[source] = current
	}

	path, err := configPath("starred.json")
	if err != nil {
		return err
	}
	return writeJSON(path, starred)
}

func loadStarred() (starredSeats, error) {
	path, err := configPath("starred.json")
	if err != nil {
		return starredSeats{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return starredSeats{BySource: map[string][]string{}}, nil
		}
		return starredSeats{}, err
	}

	var starred starredSeats
	if err := json.Unmarshal(data, &starred); err != nil {
		return starredSeats{}, errors.New("invalid starred seats format")
	}
	if starred.BySource == nil {
		starred.BySource = map[string][]string{}
	}
	return starred, nil
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, source string, data T) error {
	return writeJSON(path, cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Source:    source,
		Data:      data,
	})
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// seatCacheName maps a source (path or URL) to a stable file name.
func seatCacheName(source string) string {
	sum := sha1.Sum([]byte(source))
	return "seats_" + hex.EncodeToString(sum[:8]) + ".json"
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}
