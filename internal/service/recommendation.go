package service

import (
	"context"       // Request scoped operations
	"encoding/json" // Upstream payload
	"fmt"           // Error wrapping
	"net/http"      // Upstream client
	"net/url"       // Query building
	"strconv"       // Limit formatting
	"strings"       // Query normalization
	"time"          // Client timeout

	"github.com/sirupsen/logrus" // Logging library
)

const defaultRecommendationQuery = "books" // Used when the caller sends no query

// Recommender proxies an external catalog search (Open Library search.json)
type Recommender struct {
	baseURL    string       // Search endpoint
	coverURL   string       // Cover URL pattern, %v is the cover id
	limit      int          // Results mapped per call
	httpClient *http.Client // Upstream client
}

// NewRecommender builds the proxy; limit <= 0 means 5
func NewRecommender(baseURL, coverURL string, limit int) *Recommender {
	if limit <= 0 {
		limit = 5
	}
	return &Recommender{
		baseURL:    baseURL,
		coverURL:   coverURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Docs []struct {
		Title      string   `json:"title"`
		AuthorName []string `json:"author_name"`
		CoverID    *int64   `json:"cover_i"`
	} `json:"docs"`
}

// Recommend searches upstream and maps results to the book shape with a null price
func (r *Recommender) Recommend(ctx context.Context, query string) ([]BookDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = defaultRecommendationQuery
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(r.limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("Recommendation upstream unreachable")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.WithField("status", resp.StatusCode).Warn("Recommendation upstream returned an error")
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstream, resp.StatusCode)
	}
	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	out := make([]BookDTO, 0, r.limit)
	for _, doc := range payload.Docs {
		if len(out) == r.limit {
			break
		}
		b := BookDTO{
			Title:        doc.Title,
			AuthorName:   "Unknown Author",
			CategoryName: "N/A",
			Genre:        "N/A",
		}
		if b.Title == "" {
			b.Title = "Unknown Title"
		}
		if len(doc.AuthorName) > 0 && doc.AuthorName[0] != "" {
			b.AuthorName = doc.AuthorName[0]
		}
		if doc.CoverID != nil {
			b.ImageURL = fmt.Sprintf(r.coverURL, *doc.CoverID)
		}
		out = append(out, b)
	}
	return out, nil
}
