package rating

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Caymus Cabernet", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"matches":[{"wine":{"average_rating":4.3,"ratings_count":1234}}]}`)
	}))
	defer server.Close()

	p := NewVivinoProvider(WithEndpoints(server.URL))
	result, err := p.Search(context.Background(), "Caymus Cabernet")
	require.NoError(t, err)
	require.NotNil(t, result.JSON)
	assert.Empty(t, result.HTML)

	matches := result.JSON["matches"].([]any)
	assert.Len(t, matches, 1)
}

func TestSearchHTMLResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<div class="wine-card">4.3/5 from 1,234 ratings</div>`)
	}))
	defer server.Close()

	p := NewVivinoProvider(WithEndpoints(server.URL))
	result, err := p.Search(context.Background(), "Caymus Cabernet")
	require.NoError(t, err)
	assert.Nil(t, result.JSON)
	assert.Contains(t, result.HTML, "4.3/5")
}

func TestSearchFallbackEndpoint(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"matches":[]}`)
	}))
	defer fallback.Close()

	p := NewVivinoProvider(
		WithEndpoints(primary.URL, fallback.URL),
		withRetryWait(time.Millisecond),
	)

	result, err := p.Search(context.Background(), "Barolo")
	require.NoError(t, err)
	require.NotNil(t, result.JSON)
}

func TestSearchAllEndpointsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewVivinoProvider(
		WithEndpoints(server.URL),
		withRetryWait(time.Millisecond),
	)

	_, err := p.Search(context.Background(), "Barolo")
	assert.Error(t, err)
}

func TestSearchRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		io.WriteString(w, "late")
	}))
	defer server.Close()

	p := NewVivinoProvider(WithEndpoints(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Search(ctx, "Barolo")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}
