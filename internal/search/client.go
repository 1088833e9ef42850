// Package search runs one catalog search per category and normalizes the
// results into core records. Remote failures are logged and produce an
// empty list, so callers cannot tell them apart from a search without matches.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/metadata/googlebooks"
	"github.com/vadimtrunov/PickSomething/internal/metadata/tmdb"
)

const (
	unknownAuthor  = "Unknown Author"
	noDescription  = "No description available."
	bookMaxResults = googlebooks.MaxResults
)

// MovieCatalog searches movies and TV shows.
type MovieCatalog interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.Movie, error)
	SearchTV(ctx context.Context, query string) ([]tmdb.TVShow, error)
}

// BookCatalog searches book volumes.
type BookCatalog interface {
	SearchVolumes(ctx context.Context, query string, maxResults int) ([]googlebooks.Volume, error)
}

// Client dispatches keyword searches to the catalog that serves a category.
type Client struct {
	movies MovieCatalog
	books  BookCatalog
	logger *slog.Logger
}

// compile-time checks.
var (
	_ MovieCatalog = (*tmdb.Client)(nil)
	_ BookCatalog  = (*googlebooks.Client)(nil)
)

// New creates a search client.
func New(movies MovieCatalog, books BookCatalog, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{movies: movies, books: books, logger: logger}
}

// Movies returns movies matching keyword in API order, or an empty slice on failure.
func (c *Client) Movies(ctx context.Context, keyword string) []core.Movie {
	results, err := c.movies.SearchMovies(ctx, keyword)
	if err != nil {
		c.logFailure(core.CategoryMovie, err)
		return []core.Movie{}
	}
	movies := make([]core.Movie, 0, len(results))
	for _, m := range results {
		movies = append(movies, core.Movie{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			PosterPath:  m.PosterPath,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
		})
	}
	return movies
}

// TVShows returns shows matching keyword in API order, or an empty slice on failure.
func (c *Client) TVShows(ctx context.Context, keyword string) []core.TvShow {
	results, err := c.movies.SearchTV(ctx, keyword)
	if err != nil {
		c.logFailure(core.CategoryTV, err)
		return []core.TvShow{}
	}
	shows := make([]core.TvShow, 0, len(results))
	for _, s := range results {
		shows = append(shows, core.TvShow{
			ID:           s.ID,
			Name:         s.Name,
			Overview:     s.Overview,
			PosterPath:   s.PosterPath,
			FirstAirDate: s.FirstAirDate,
			VoteAverage:  s.VoteAverage,
		})
	}
	return shows
}

// Books returns up to 40 books matching keyword, or an empty slice on failure.
func (c *Client) Books(ctx context.Context, keyword string) []core.Book {
	volumes, err := c.books.SearchVolumes(ctx, keyword, bookMaxResults)
	if err != nil {
		c.logFailure(core.CategoryBook, err)
		return []core.Book{}
	}
	books := make([]core.Book, 0, len(volumes))
	for _, v := range volumes {
		books = append(books, toBook(v))
	}
	return books
}

// toBook maps a volume, filling in the author and description placeholders.
func toBook(v googlebooks.Volume) core.Book {
	info := v.VolumeInfo
	b := core.Book{
		ID:            v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   info.Description,
		PublishedDate: info.PublishedDate,
		InfoLink:      info.InfoLink,
	}
	if len(b.Authors) == 0 {
		b.Authors = []string{unknownAuthor}
	}
	if b.Description == "" {
		b.Description = noDescription
	}
	if info.ImageLinks != nil {
		b.Thumbnail = info.ImageLinks.Thumbnail
	}
	return b
}

// Search runs the search for category. The error is reserved for faults that
// are not remote failures: an unknown category or a canceled caller context.
func (c *Client) Search(ctx context.Context, category core.Category, keyword string) ([]core.Recommendation, error) {
	var recs []core.Recommendation
	switch category {
	case core.CategoryMovie:
		recs = toRecommendations(c.Movies(ctx, keyword))
	case core.CategoryTV:
		recs = toRecommendations(c.TVShows(ctx, keyword))
	case core.CategoryBook:
		recs = toRecommendations(c.Books(ctx, keyword))
	default:
		return nil, fmt.Errorf("search: %w: %q", core.ErrUnknownCategory, category)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", category, err)
	}
	return recs, nil
}

func toRecommendations[T core.Recommendation](items []T) []core.Recommendation {
	recs := make([]core.Recommendation, len(items))
	for i, it := range items {
		recs[i] = it
	}
	return recs
}

func (c *Client) logFailure(category core.Category, err error) {
	c.logger.Error("search failed",
		slog.String("category", category.String()),
		slog.String("error", err.Error()),
	)
}
