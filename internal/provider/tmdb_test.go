package provider

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	tmdb "github.com/ryanbradynd05/go-tmdb"
)

// mockTMDBClient implements TMDBClient with overridable functions.
type mockTMDBClient struct {
	searchMovie    func(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	searchTv       func(name string, options map[string]string) (*tmdb.TvSearchResults, error)
	getMovieVideos func(id int, options map[string]string) (*tmdb.MovieVideos, error)
	getTvVideos    func(id int, options map[string]string) (*tmdb.TvVideos, error)
}

func (m *mockTMDBClient) SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
	if m.searchMovie == nil {
		return nil, errors.New("unexpected SearchMovie call")
	}
	return m.searchMovie(name, options)
}

func (m *mockTMDBClient) SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error) {
	if m.searchTv == nil {
		return nil, errors.New("unexpected SearchTv call")
	}
	return m.searchTv(name, options)
}

func (m *mockTMDBClient) GetMovieVideos(id int, options map[string]string) (*tmdb.MovieVideos, error) {
	if m.getMovieVideos == nil {
		return nil, errors.New("unexpected GetMovieVideos call")
	}
	return m.getMovieVideos(id, options)
}

func (m *mockTMDBClient) GetTvVideos(id int, options map[string]string) (*tmdb.TvVideos, error) {
	if m.getTvVideos == nil {
		return nil, errors.New("unexpected GetTvVideos call")
	}
	return m.getTvVideos(id, options)
}

func newTestProvider(t *testing.T, client TMDBClient, languages []string) *TMDBProvider {
	t.Helper()
	p, err := NewTMDBProvider("test-api-key", languages)
	if err != nil {
		t.Fatalf("NewTMDBProvider() = %v", err)
	}
	p.SetClient(client)
	p.sleep = func(time.Duration) {}
	return p
}

// Video list payloads use the raw API shape so fixtures decode into the
// client's result structs.
func movieVideosFixture(t *testing.T, payload string) *tmdb.MovieVideos {
	t.Helper()
	var v tmdb.MovieVideos
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		t.Fatalf("unmarshal movie videos fixture: %v", err)
	}
	return &v
}

func tvVideosFixture(t *testing.T, payload string) *tmdb.TvVideos {
	t.Helper()
	var v tmdb.TvVideos
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		t.Fatalf("unmarshal tv videos fixture: %v", err)
	}
	return &v
}

func tvSearchFixture(t *testing.T, payload string) *tmdb.TvSearchResults {
	t.Helper()
	var v tmdb.TvSearchResults
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		t.Fatalf("unmarshal tv search fixture: %v", err)
	}
	return &v
}

func TestNewTMDBProviderEmptyKey(t *testing.T) {
	t.Parallel()
	if _, err := NewTMDBProvider("", nil); !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("NewTMDBProvider(\"\") = %v, want ErrInvalidAPIKey", err)
	}
}

func TestMovieTrailers(t *testing.T) {
	t.Parallel()
	year := 1999
	var gotSearchOpts map[string]string
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			gotSearchOpts = options
			if name != "The Matrix" {
				t.Errorf("SearchMovie name = %q, want %q", name, "The Matrix")
			}
			return &tmdb.MovieSearchResults{
				Results: []tmdb.MovieShort{{ID: 603, Title: "The Matrix"}},
			}, nil
		},
		getMovieVideos: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			if id != 603 {
				t.Errorf("GetMovieVideos id = %d, want 603", id)
			}
			return movieVideosFixture(t, `{
				"id": 603,
				"results": [
					{"key": "vKQi3bBA1y8", "site": "YouTube", "type": "Trailer", "name": "Official Trailer"},
					{"key": "teaser123", "site": "YouTube", "type": "Teaser", "name": "Teaser"},
					{"key": "vimeo456", "site": "Vimeo", "type": "Trailer", "name": "Vimeo Trailer"},
					{"key": "m8e-FF8MsqU", "site": "YouTube", "type": "Trailer", "name": "Trailer 2"}
				]
			}`), nil
		},
	}

	p := newTestProvider(t, client, nil)
	got, err := p.MovieTrailers("The Matrix", &year)
	if err != nil {
		t.Fatalf("MovieTrailers() = %v", err)
	}
	want := []string{
		"https://www.youtube.com/watch?v=vKQi3bBA1y8",
		"https://www.youtube.com/watch?v=m8e-FF8MsqU",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MovieTrailers mismatch (-want +got):\n%s", diff)
	}
	if gotSearchOpts["language"] != "fr-FR" {
		t.Errorf("search language = %q, want %q", gotSearchOpts["language"], "fr-FR")
	}
	if gotSearchOpts["year"] != "1999" {
		t.Errorf("search year = %q, want %q", gotSearchOpts["year"], "1999")
	}
}

func TestMovieTrailersNoYear(t *testing.T) {
	t.Parallel()
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			if _, ok := options["year"]; ok {
				t.Error("search options contain a year for a year-less lookup")
			}
			return &tmdb.MovieSearchResults{
				Results: []tmdb.MovieShort{{ID: 1, Title: "Plain Movie"}},
			}, nil
		},
		getMovieVideos: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			return movieVideosFixture(t, `{"results": [{"key": "k1", "site": "YouTube", "type": "Trailer"}]}`), nil
		},
	}

	p := newTestProvider(t, client, nil)
	got, err := p.MovieTrailers("Plain Movie", nil)
	if err != nil {
		t.Fatalf("MovieTrailers() = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("MovieTrailers returned %d urls, want 1", len(got))
	}
}

func TestMovieTrailersLanguageFallback(t *testing.T) {
	t.Parallel()
	var langs []string
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			langs = append(langs, options["language"])
			return &tmdb.MovieSearchResults{
				Results: []tmdb.MovieShort{{ID: 42, Title: name}},
			}, nil
		},
		getMovieVideos: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			if options["language"] == "fr-FR" {
				// French page exists but carries no trailers.
				return movieVideosFixture(t, `{"results": []}`), nil
			}
			return movieVideosFixture(t, `{"results": [{"key": "en1", "site": "YouTube", "type": "Trailer"}]}`), nil
		},
	}

	p := newTestProvider(t, client, nil)
	got, err := p.MovieTrailers("Some Movie", nil)
	if err != nil {
		t.Fatalf("MovieTrailers() = %v", err)
	}
	want := []string{"https://www.youtube.com/watch?v=en1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MovieTrailers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fr-FR", "en-US"}, langs); diff != "" {
		t.Errorf("language order mismatch (-want +got):\n%s", diff)
	}
}

func TestMovieTrailersNoResults(t *testing.T) {
	t.Parallel()
	searches := 0
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			searches++
			return &tmdb.MovieSearchResults{}, nil
		},
	}

	p := newTestProvider(t, client, nil)
	if _, err := p.MovieTrailers("Unknown Movie", nil); !errors.Is(err, ErrNoResults) {
		t.Errorf("MovieTrailers() = %v, want ErrNoResults", err)
	}
	if searches != 2 {
		t.Errorf("SearchMovie called %d times, want 2 (one per language)", searches)
	}
}

func TestMovieTrailersCaching(t *testing.T) {
	t.Parallel()
	year := 2010
	calls := 0
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			calls++
			return &tmdb.MovieSearchResults{
				Results: []tmdb.MovieShort{{ID: 27205, Title: "Inception"}},
			}, nil
		},
		getMovieVideos: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			calls++
			return movieVideosFixture(t, `{"results": [{"key": "YoHD9XEInc0", "site": "YouTube", "type": "Trailer"}]}`), nil
		},
	}

	p := newTestProvider(t, client, nil)
	first, err := p.MovieTrailers("Inception", &year)
	if err != nil {
		t.Fatalf("MovieTrailers(first) = %v", err)
	}
	callsAfterFirst := calls

	second, err := p.MovieTrailers("Inception", &year)
	if err != nil {
		t.Fatalf("MovieTrailers(second) = %v", err)
	}
	if calls != callsAfterFirst {
		t.Errorf("API called %d more times on cached lookup, want 0", calls-callsAfterFirst)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached result mismatch (-first +second):\n%s", diff)
	}
}

func TestMovieTrailersAuthError(t *testing.T) {
	t.Parallel()
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			return nil, errors.New("401 Unauthorized")
		},
	}

	p := newTestProvider(t, client, nil)
	if _, err := p.MovieTrailers("Any", nil); !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("MovieTrailers() = %v, want ErrInvalidAPIKey", err)
	}
}

func TestMovieTrailersRetriesTransientErrors(t *testing.T) {
	t.Parallel()
	attempts := 0
	sleeps := 0
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("503 Service Unavailable")
			}
			return &tmdb.MovieSearchResults{
				Results: []tmdb.MovieShort{{ID: 1, Title: name}},
			}, nil
		},
		getMovieVideos: func(id int, options map[string]string) (*tmdb.MovieVideos, error) {
			return movieVideosFixture(t, `{"results": [{"key": "k", "site": "YouTube", "type": "Trailer"}]}`), nil
		},
	}

	p := newTestProvider(t, client, []string{"en-US"})
	p.sleep = func(d time.Duration) {
		sleeps++
		if d != retryBackoff {
			t.Errorf("sleep duration = %v, want %v", d, retryBackoff)
		}
	}

	if _, err := p.MovieTrailers("Flaky", nil); err != nil {
		t.Fatalf("MovieTrailers() = %v", err)
	}
	if attempts != 3 {
		t.Errorf("SearchMovie attempted %d times, want 3", attempts)
	}
	if sleeps != 2 {
		t.Errorf("slept %d times between attempts, want 2", sleeps)
	}
}

func TestMovieTrailersRetryExhausted(t *testing.T) {
	t.Parallel()
	attempts := 0
	client := &mockTMDBClient{
		searchMovie: func(name string, options map[string]string) (*tmdb.MovieSearchResults, error) {
			attempts++
			return nil, errors.New("429 rate limit exceeded")
		},
	}

	p := newTestProvider(t, client, []string{"en-US"})
	if _, err := p.MovieTrailers("Any", nil); !errors.Is(err, ErrRateLimited) {
		t.Errorf("MovieTrailers() = %v, want ErrRateLimited", err)
	}
	if attempts != maxAttempts {
		t.Errorf("SearchMovie attempted %d times, want %d", attempts, maxAttempts)
	}
}

func TestShowTrailers(t *testing.T) {
	t.Parallel()
	year := 2008
	var gotSearchOpts map[string]string
	client := &mockTMDBClient{
		searchTv: func(name string, options map[string]string) (*tmdb.TvSearchResults, error) {
			gotSearchOpts = options
			return tvSearchFixture(t, `{"results": [{"id": 1396, "name": "Breaking Bad"}]}`), nil
		},
		getTvVideos: func(id int, options map[string]string) (*tmdb.TvVideos, error) {
			if id != 1396 {
				t.Errorf("GetTvVideos id = %d, want 1396", id)
			}
			return tvVideosFixture(t, `{
				"id": 1396,
				"results": [
					{"key": "HhesaQXLuRY", "site": "YouTube", "type": "Trailer", "name": "Series Trailer"},
					{"key": "clip1", "site": "YouTube", "type": "Clip", "name": "Clip"}
				]
			}`), nil
		},
	}

	p := newTestProvider(t, client, nil)
	got, err := p.ShowTrailers("Breaking Bad", &year)
	if err != nil {
		t.Fatalf("ShowTrailers() = %v", err)
	}
	want := []string{"https://www.youtube.com/watch?v=HhesaQXLuRY"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ShowTrailers mismatch (-want +got):\n%s", diff)
	}
	if gotSearchOpts["first_air_date_year"] != "2008" {
		t.Errorf("first_air_date_year = %q, want %q", gotSearchOpts["first_air_date_year"], "2008")
	}
}

func TestShowTrailersNoResults(t *testing.T) {
	t.Parallel()
	client := &mockTMDBClient{
		searchTv: func(name string, options map[string]string) (*tmdb.TvSearchResults, error) {
			return tvSearchFixture(t, `{"results": []}`), nil
		},
	}

	p := newTestProvider(t, client, nil)
	if _, err := p.ShowTrailers("Unknown Show", nil); !errors.Is(err, ErrNoResults) {
		t.Errorf("ShowTrailers() = %v, want ErrNoResults", err)
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"auth status", errors.New("401 Unauthorized"), ErrInvalidAPIKey},
		{"auth text", errors.New("request unauthorized"), ErrInvalidAPIKey},
		{"rate status", errors.New("429 Too Many Requests: rate limit"), ErrRateLimited},
		{"unavailable", errors.New("503 Service Unavailable"), ErrAPIUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Errorf("mapError(%v) = %v, want nil", tc.in, got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Errorf("mapError(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	unknown := mapError(errors.New("connection reset"))
	for _, sentinel := range []error{ErrInvalidAPIKey, ErrRateLimited, ErrAPIUnavailable, ErrNoResults} {
		if errors.Is(unknown, sentinel) {
			t.Errorf("mapError(unknown) matched sentinel %v", sentinel)
		}
	}
}
