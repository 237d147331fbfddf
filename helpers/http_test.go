package helpers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "WineDealWorker/1.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept-Language"), "en-US")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<html><body><h1>Caymus Cabernet 2019</h1></body></html>")
	}))
	defer server.Close()

	body, err := FetchPage(server.URL, "WineDealWorker/1.0")
	assert.NoError(t, err)

	data, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "Caymus Cabernet 2019")
}

func TestFetchPageRandomUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	_, err := FetchPage(server.URL, "")
	assert.NoError(t, err)
}

func TestFetchPageRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := FetchPage(server.URL, "")
	assert.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestFetchPageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FetchPage(server.URL, "")
	assert.Error(t, err)
	assert.False(t, IsRateLimited(err))
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsRateLimited(errors.New("boom")))
	assert.True(t, IsRateLimited(errors.New("rate limited; retry after 30")))
}
