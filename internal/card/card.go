// Package card derives the display fields of a recommendation card.
// Nothing is stored: every field is computed from the raw record on demand.
package card

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/metadata/tmdb"
)

const (
	// PlaceholderImage is shown when a record has no artwork.
	PlaceholderImage = "https://via.placeholder.com/500x750?text=No+Image+Available"

	// DescriptionLimit is the number of characters kept before "..." is appended.
	DescriptionLimit = 150

	posterSize      = "w500"
	tmdbSiteURL     = "https://www.themoviedb.org"
	justWatchURL    = "https://www.justwatch.com/us/search?q="
	amazonSearchURL = "https://www.amazon.com/s?k="
	amazonTag       = "picksomethi0a-20"
	noDescription   = "No description available."
	unknown         = "Unknown"
)

// Link is a labelled outbound URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Detail is one metadata line, e.g. "Rating: 8.0/10".
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// String renders the detail as "Label: Value".
func (d Detail) String() string { return d.Label + ": " + d.Value }

// Card is everything a frontend needs to render a recommendation.
type Card struct {
	Category    core.Category `json:"category"`
	ImageURL    string        `json:"image_url"`
	Title       string        `json:"title"`
	Details     []Detail      `json:"details"`
	Description string        `json:"description"`
	Primary     Link          `json:"primary"`
	Secondary   Link          `json:"secondary"`
}

// Build derives the card for rec.
func Build(rec core.Recommendation) (Card, error) {
	switch r := rec.(type) {
	case core.Movie:
		return Card{
			Category: core.CategoryMovie,
			ImageURL: posterImage(r.PosterPath),
			Title:    r.Title,
			Details: []Detail{
				{Label: "Released", Value: Year(r.ReleaseDate)},
				{Label: "Rating", Value: Rating(r.VoteAverage)},
			},
			Description: describe(r.Overview),
			Primary:     Link{Label: "View Details", URL: fmt.Sprintf("%s/movie/%d", tmdbSiteURL, r.ID)},
			Secondary:   WhereToWatch(r.Title),
		}, nil
	case core.TvShow:
		return Card{
			Category: core.CategoryTV,
			ImageURL: posterImage(r.PosterPath),
			Title:    r.Name,
			Details: []Detail{
				{Label: "First aired", Value: Year(r.FirstAirDate)},
				{Label: "Rating", Value: Rating(r.VoteAverage)},
			},
			Description: describe(r.Overview),
			Primary:     Link{Label: "View Details", URL: fmt.Sprintf("%s/tv/%d", tmdbSiteURL, r.ID)},
			Secondary:   WhereToWatch(r.Name),
		}, nil
	case core.Book:
		authors := strings.Join(r.Authors, ", ")
		if authors == "" {
			authors = unknown
		}
		return Card{
			Category: core.CategoryBook,
			ImageURL: bookImage(r.Thumbnail),
			Title:    r.Title,
			Details: []Detail{
				{Label: "Authors", Value: authors},
				{Label: "Published", Value: Year(r.PublishedDate)},
			},
			Description: describe(r.Description),
			Primary:     Link{Label: "View Details", URL: r.InfoLink},
			Secondary:   BuyOnAmazon(r.Title, r.Authors),
		}, nil
	case nil:
		return Card{}, fmt.Errorf("card: nil recommendation")
	default:
		return Card{}, fmt.Errorf("card: unsupported recommendation %T", rec)
	}
}

func posterImage(path string) string {
	if u := tmdb.PosterURL(path, posterSize); u != "" {
		return u
	}
	return PlaceholderImage
}

// bookImage upgrades the first "http:" to "https:" so thumbnails load on secure pages.
func bookImage(thumbnail string) string {
	if thumbnail == "" {
		return PlaceholderImage
	}
	return strings.Replace(thumbnail, "http:", "https:", 1)
}

func describe(text string) string {
	if text == "" {
		return noDescription
	}
	return Truncate(text, DescriptionLimit)
}

// Truncate keeps the first n characters of s and appends "..." when s is longer.
// A string of exactly n characters is returned unchanged.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// Year extracts the year from an ISO-like date ("2021-10-22", "1951", "1951-05").
// Empty or unparseable dates yield "Unknown".
func Year(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return unknown
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return strconv.Itoa(t.Year())
		}
	}
	return unknown
}

// Rating formats a vote average as "8.0/10". Zero means no votes and yields "N/A".
func Rating(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f/10", v)
}

// WhereToWatch links to a streaming availability search for title.
func WhereToWatch(title string) Link {
	return Link{Label: "Where to Watch", URL: justWatchURL + EncodeComponent(title)}
}

// BuyOnAmazon links to an Amazon search for the book, tagged with the affiliate id.
func BuyOnAmazon(title string, authors []string) Link {
	q := EncodeComponent(title + " " + strings.Join(authors, " "))
	return Link{Label: "Buy on Amazon", URL: amazonSearchURL + q + "&tag=" + amazonTag}
}

// componentReplacer undoes the QueryEscape escapes that a URI component keeps literal.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for use inside a query value, with spaces as %20.
func EncodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}
