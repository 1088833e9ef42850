package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownShape is returned by DecodeItem when an item matches none of the known shapes.
var ErrUnknownShape = errors.New("item is not a movie, tv show or book")

// bookImageLinks mirrors the nested thumbnail object clients may send for books.
type bookImageLinks struct {
	Thumbnail string `json:"thumbnail"`
}

// DecodeItem classifies an untagged JSON object by the fields it carries:
// title+release_date is a movie, name+first_air_date is a show and
// authors+infoLink is a book. The checks run in that order, so an object
// matching several shapes resolves to the first.
func DecodeItem(raw []byte) (Recommendation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := fields[k]; !ok {
				return false
			}
		}
		return true
	}

	switch {
	case has("title", "release_date"):
		var m Movie
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode movie: %w", err)
		}
		return m, nil
	case has("name", "first_air_date"):
		var s TvShow
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode tv show: %w", err)
		}
		return s, nil
	case has("authors", "infoLink"):
		var b struct {
			Book
			ImageLinks *bookImageLinks `json:"imageLinks"`
		}
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		if b.Thumbnail == "" && b.ImageLinks != nil {
			b.Thumbnail = b.ImageLinks.Thumbnail
		}
		return b.Book, nil
	}
	return nil, ErrUnknownShape
}
