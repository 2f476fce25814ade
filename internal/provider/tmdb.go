// Package provider resolves movie and TV show titles to YouTube trailer
// URLs through the TMDB API.
package provider

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	tmdb "github.com/ryanbradynd05/go-tmdb"
)

// Sentinel errors returned by trailer lookups. Callers match them with
// errors.Is.
var (
	ErrNoResults      = errors.New("no results found")
	ErrInvalidAPIKey  = errors.New("invalid TMDB API key")
	ErrRateLimited    = errors.New("TMDB rate limit exceeded")
	ErrAPIUnavailable = errors.New("TMDB service unavailable")
)

// DefaultLanguages is the lookup order used when no languages are
// configured.
var DefaultLanguages = []string{"fr-FR", "en-US"}

const (
	youtubeWatchURL = "https://www.youtube.com/watch?v="

	cacheTTL     = time.Hour
	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// TMDBClient is the subset of the TMDB API needed for trailer lookups.
// It matches *tmdb.TMDb exactly so the real client satisfies it.
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
	GetMovieVideos(id int, options map[string]string) (*tmdb.MovieVideos, error)
	GetTvVideos(id int, options map[string]string) (*tmdb.TvVideos, error)
}

// TMDBProvider looks up YouTube trailer URLs, trying each configured
// language in order until one yields trailers.
type TMDBProvider struct {
	client      TMDBClient
	cache       *gocache.Cache
	languages   []string
	rateLimiter *rateLimiter
	sleep       func(time.Duration)
}

// NewTMDBProvider creates a provider for the given API key. A nil or
// empty language list falls back to DefaultLanguages.
func NewTMDBProvider(apiKey string, languages []string) (*TMDBProvider, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	client := tmdb.Init(tmdb.Config{
		APIKey:   apiKey,
		Proxies:  nil,
		UseProxy: false,
	})
	return &TMDBProvider{
		client:      client,
		cache:       gocache.New(cacheTTL, 10*time.Minute),
		languages:   languages,
		rateLimiter: newRateLimiter(38, 10*time.Second), // 38 requests per 10 seconds
		sleep:       time.Sleep,
	}, nil
}

// SetClient replaces the TMDB client. Tests use it to inject fakes.
func (p *TMDBProvider) SetClient(c TMDBClient) {
	p.client = c
}

// MovieTrailers returns YouTube trailer URLs for a movie title. A nil
// year searches without a release year constraint. ErrNoResults is
// returned when no language yields any trailer.
func (p *TMDBProvider) MovieTrailers(title string, year *int) ([]string, error) {
	for _, lang := range p.languages {
		urls, err := p.movieTrailersIn(title, year, lang)
		if err != nil {
			if errors.Is(err, ErrNoResults) {
				continue
			}
			return nil, err
		}
		if len(urls) > 0 {
			return urls, nil
		}
	}
	return nil, ErrNoResults
}

// ShowTrailers returns YouTube trailer URLs for a TV show title. A nil
// year searches without a first air date constraint.
func (p *TMDBProvider) ShowTrailers(title string, year *int) ([]string, error) {
	for _, lang := range p.languages {
		urls, err := p.showTrailersIn(title, year, lang)
		if err != nil {
			if errors.Is(err, ErrNoResults) {
				continue
			}
			return nil, err
		}
		if len(urls) > 0 {
			return urls, nil
		}
	}
	return nil, ErrNoResults
}

func (p *TMDBProvider) movieTrailersIn(title string, year *int, lang string) ([]string, error) {
	cacheKey := buildCacheKey("movietrailers", title, year, lang)
	if cached, found := p.cache.Get(cacheKey); found {
		if urls, ok := cached.([]string); ok {
			return urls, nil
		}
	}

	options := map[string]string{"language": lang}
	if year != nil {
		options["year"] = strconv.Itoa(*year)
	}

	var results *tmdb.MovieSearchResults
	err := p.withRetry(func() error {
		var err error
		results, err = p.client.SearchMovie(title, options)
		return err
	})
	if err != nil {
		return nil, err
	}
	if results == nil || len(results.Results) == 0 {
		return nil, fmt.Errorf("%w for movie %q", ErrNoResults, title)
	}

	id := results.Results[0].ID
	var videos *tmdb.MovieVideos
	err = p.withRetry(func() error {
		var err error
		videos, err = p.client.GetMovieVideos(id, options)
		return err
	})
	if err != nil {
		return nil, err
	}

	urls := movieTrailerURLs(videos)
	p.cache.Set(cacheKey, urls, gocache.DefaultExpiration)
	return urls, nil
}

func (p *TMDBProvider) showTrailersIn(title string, year *int, lang string) ([]string, error) {
	cacheKey := buildCacheKey("tvtrailers", title, year, lang)
	if cached, found := p.cache.Get(cacheKey); found {
		if urls, ok := cached.([]string); ok {
			return urls, nil
		}
	}

	options := map[string]string{"language": lang}
	if year != nil {
		options["first_air_date_year"] = strconv.Itoa(*year)
	}

	var results *tmdb.TvSearchResults
	err := p.withRetry(func() error {
		var err error
		results, err = p.client.SearchTv(title, options)
		return err
	})
	if err != nil {
		return nil, err
	}
	if results == nil || len(results.Results) == 0 {
		return nil, fmt.Errorf("%w for show %q", ErrNoResults, title)
	}

	id := results.Results[0].ID
	var videos *tmdb.TvVideos
	err = p.withRetry(func() error {
		var err error
		videos, err = p.client.GetTvVideos(id, options)
		return err
	})
	if err != nil {
		return nil, err
	}

	urls := tvTrailerURLs(videos)
	p.cache.Set(cacheKey, urls, gocache.DefaultExpiration)
	return urls, nil
}

// withRetry invokes call under the rate limiter, retrying transient
// failures with a fixed backoff.
func (p *TMDBProvider) withRetry(call func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			p.sleep(retryBackoff)
		}
		if rlErr := p.rateLimiter.wait(); rlErr != nil {
			return mapError(rlErr)
		}
		err = mapError(call())
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrAPIUnavailable) {
			return err
		}
	}
	return err
}

func movieTrailerURLs(videos *tmdb.MovieVideos) []string {
	urls := []string{}
	if videos == nil {
		return urls
	}
	for _, v := range videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			urls = append(urls, youtubeWatchURL+v.Key)
		}
	}
	return urls
}

func tvTrailerURLs(videos *tmdb.TvVideos) []string {
	urls := []string{}
	if videos == nil {
		return urls
	}
	for _, v := range videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			urls = append(urls, youtubeWatchURL+v.Key)
		}
	}
	return urls
}

func buildCacheKey(kind, title string, year *int, lang string) string {
	y := ""
	if year != nil {
		y = strconv.Itoa(*year)
	}
	return strings.Join([]string{kind, title, y, lang}, ":")
}

// mapError converts raw TMDB client errors to sentinel errors where the
// failure mode is recognizable from the message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case strings.Contains(msg, "503") || strings.Contains(msg, "unavailable"):
		return fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	default:
		return fmt.Errorf("TMDB API error: %w", err)
	}
}
