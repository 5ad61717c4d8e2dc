package linkpreview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_OpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
<title>Fallback</title>
<meta property="og:title" content=" Go 1.25 is released ">
<meta property="og:description" content="What's new">
<meta property="og:image" content="https://go.dev/img.png">
<meta property="og:site_name" content="go.dev">
</head><body></body></html>`))
	}))
	defer srv.Close()

	p, err := NewFetcher(srv.Client(), nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Go 1.25 is released", p.Title)
	assert.Equal(t, "What's new", p.Description)
	assert.Equal(t, "https://go.dev/img.png", p.Image)
	assert.Equal(t, "go.dev", p.SiteName)
}

func TestFetch_Fallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title> Plain page </title>
<meta name="description" content="A description"></head></html>`))
	}))
	defer srv.Close()

	p, err := NewFetcher(srv.Client(), nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain page", p.Title)
	assert.Equal(t, "A description", p.Description)
}

func TestFetch_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "404")

	_, err = f.Fetch(context.Background(), "ftp://example.com/file")
	assert.ErrorContains(t, err, "invalid URL")
}
