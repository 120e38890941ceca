package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendMapsUpstreamDocs(t *testing.T) {
	var gotQuery, gotLimit string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs":[
			{"title":"Dune","author_name":["Frank Herbert","Someone Else"],"cover_i":42},
			{"author_name":[]},
			{"title":"Third"}
		]}`))
	}))
	defer upstream.Close()

	rec := NewRecommender(upstream.URL, "https://covers.test/b/id/%v-M.jpg", 2)
	books, err := rec.Recommend(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "books", gotQuery)
	assert.Equal(t, "2", gotLimit)

	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Frank Herbert", books[0].AuthorName)
	assert.Equal(t, "https://covers.test/b/id/42-M.jpg", books[0].ImageURL)
	assert.Equal(t, "N/A", books[0].CategoryName)
	assert.Equal(t, "N/A", books[0].Genre)
	assert.Nil(t, books[0].Price)
	assert.Zero(t, books[0].ID)

	assert.Equal(t, "Unknown Title", books[1].Title)
	assert.Equal(t, "Unknown Author", books[1].AuthorName)
	assert.Empty(t, books[1].ImageURL)
}

func TestRecommendCapsResultsAtDefaultLimit(t *testing.T) {
	var gotLimit string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		docs := make([]string, 0, 8)
		for i := 1; i <= 8; i++ {
			docs = append(docs, fmt.Sprintf(`{"title":"Book %d"}`, i))
		}
		_, _ = w.Write([]byte(`{"docs":[` + strings.Join(docs, ",") + `]}`))
	}))
	defer upstream.Close()

	rec := NewRecommender(upstream.URL, "%v", 0) // Non-positive limit falls back to 5
	books, err := rec.Recommend(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "5", gotLimit)
	require.Len(t, books, 5)
	assert.Equal(t, "Book 1", books[0].Title)
	assert.Equal(t, "Book 5", books[4].Title)
}

func TestRecommendUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	rec := NewRecommender(upstream.URL, "%v", 5)
	books, err := rec.Recommend(context.Background(), "go")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, books)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer broken.Close()
	_, err = NewRecommender(broken.URL, "%v", 5).Recommend(context.Background(), "go")
	assert.ErrorIs(t, err, ErrUpstream)
}
