package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStreamsBodySlowerThanHeaderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		for i := 0; i < 3; i++ {
			time.Sleep(60 * time.Millisecond)
			_, _ = io.WriteString(w, "chunk")
			w.(http.Flusher).Flush()
		}
	}))
	defer server.Close()

	s := &CloudinaryStorage{client: newDownloadClient(100 * time.Millisecond)}
	body, err := s.Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("chunk", 3), string(data))
}

func TestOpenTimesOutWaitingForHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := &CloudinaryStorage{client: newDownloadClient(50 * time.Millisecond)}
	_, err := s.Open(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestOpenRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := &CloudinaryStorage{client: newDownloadClient(time.Second)}
	_, err := s.Open(context.Background(), server.URL)
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestNewCloudinaryStorageRequiresURL(t *testing.T) {
	_, err := NewCloudinaryStorage("", "media")
	assert.Error(t, err)
}
