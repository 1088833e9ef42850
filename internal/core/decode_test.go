package core

import (
	"errors"
	"testing"
)

func TestDecodeItem(t *testing.T) {
	t.Parallel()

	t.Run("movie", func(t *testing.T) {
		t.Parallel()
		rec, err := DecodeItem([]byte(`{"id":1,"title":"Dune","release_date":"2021-10-22","vote_average":8}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m, ok := rec.(Movie)
		if !ok {
			t.Fatalf("expected Movie, got %T", rec)
		}
		if m.ID != 1 || m.Title != "Dune" || m.VoteAverage != 8 {
			t.Errorf("unexpected movie: %+v", m)
		}
	})

	t.Run("tv show", func(t *testing.T) {
		t.Parallel()
		rec, err := DecodeItem([]byte(`{"id":2,"name":"Dark","first_air_date":"2017-12-01"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := rec.(TvShow); !ok {
			t.Fatalf("expected TvShow, got %T", rec)
		}
	})

	t.Run("book with image links", func(t *testing.T) {
		t.Parallel()
		rec, err := DecodeItem([]byte(`{"id":"abc","title":"Foundation","authors":["Isaac Asimov"],` +
			`"infoLink":"https://books.example/abc","imageLinks":{"thumbnail":"http://img/x.jpg"}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, ok := rec.(Book)
		if !ok {
			t.Fatalf("expected Book, got %T", rec)
		}
		if b.Thumbnail != "http://img/x.jpg" {
			t.Errorf("thumbnail = %q", b.Thumbnail)
		}
		if len(b.Authors) != 1 || b.Authors[0] != "Isaac Asimov" {
			t.Errorf("authors = %v", b.Authors)
		}
	})

	t.Run("movie wins over show", func(t *testing.T) {
		t.Parallel()
		rec, err := DecodeItem([]byte(`{"id":3,"title":"X","release_date":"2020-01-01","name":"Y","first_air_date":"2019-01-01"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Category() != CategoryMovie {
			t.Errorf("category = %q, want movie", rec.Category())
		}
	})

	t.Run("show wins over book", func(t *testing.T) {
		t.Parallel()
		rec, err := DecodeItem([]byte(`{"name":"Y","first_air_date":"2019","authors":["a"],"infoLink":"x"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Category() != CategoryTV {
			t.Errorf("category = %q, want tv", rec.Category())
		}
	})

	t.Run("title alone is not a movie", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeItem([]byte(`{"title":"Foundation"}`))
		if !errors.Is(err, ErrUnknownShape) {
			t.Errorf("expected ErrUnknownShape, got %v", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		if _, err := DecodeItem([]byte(`[`)); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}
