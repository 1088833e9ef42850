package core

import (
	"errors"
	"fmt"
	"strings"
)

// Category selects which catalog is searched and how a result is rendered.
type Category string

// Supported categories.
const (
	CategoryMovie Category = "movie"
	CategoryTV    Category = "tv"
	CategoryBook  Category = "book"
)

// ErrUnknownCategory is returned for a category outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryMovie, CategoryTV, CategoryBook}
}

// ParseCategory converts user input ("movie", "TV", " book ") into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMovie, CategoryTV, CategoryBook:
		return true
	}
	return false
}

// String returns the category name.
func (c Category) String() string { return string(c) }

// Recommendation is one search result of any category.
// The concrete type is Movie, TvShow or Book.
type Recommendation interface {
	Category() Category
}

// Movie is a TMDb movie search result.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// Category implements Recommendation.
func (Movie) Category() Category { return CategoryMovie }

// TvShow is a TMDb TV search result.
type TvShow struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path,omitempty"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// Category implements Recommendation.
func (TvShow) Category() Category { return CategoryTV }

// Book is a Google Books volume. Authors is never empty once produced by the search client.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PublishedDate string   `json:"publishedDate"`
	InfoLink      string   `json:"infoLink"`
}

// Category implements Recommendation.
func (Book) Category() Category { return CategoryBook }

// compile-time checks.
var (
	_ Recommendation = Movie{}
	_ Recommendation = TvShow{}
	_ Recommendation = Book{}
)
