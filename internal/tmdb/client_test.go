package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotwist/importer/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.TMDB{
		Token:   "test-token",
		BaseURL: serverURL,
		Timeout: 2 * time.Second,
	})
}

func TestMatchMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Arrival", r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":329865,"title":"Arrival"},{"id":8681,"title":"The Arrival"}]}`))
	}))
	defer server.Close()

	id, err := testClient(server.URL).MatchMovie(context.Background(), "Arrival")

	require.NoError(t, err)
	assert.Equal(t, int64(329865), id)
}

func TestMatchSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":37854,"name":"One Piece"}]}`))
	}))
	defer server.Close()

	id, err := testClient(server.URL).MatchSeries(context.Background(), "One Piece")

	require.NoError(t, err)
	assert.Equal(t, int64(37854), id)
}

func TestMatch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).MatchMovie(context.Background(), "no such movie")

	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).MatchMovie(context.Background(), "Arrival")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
