package httpcheck

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fundix_e2e/infrastructure/browser/testsite"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fastOptions(client *http.Client) Options {
	return Options{
		RetryMax:     2,
		Timeout:      time.Second,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
		HTTPClient:   client,
	}
}

func TestClient_StatusAgainstFixtureSite(t *testing.T) {
	c := NewClient(fastOptions(testsite.Client()), quietLogger())
	ctx := context.Background()

	tests := []struct {
		url  string
		code int
	}{
		{"https://fundix.pro/", http.StatusOK},
		{"https://fundix.pro/legal", http.StatusOK},
		{"https://fundix.pro/old-blog", http.StatusMovedPermanently},
		{"https://fundix.pro/missing-page", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			code, err := c.Status(ctx, tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestClient_FallsBackToGetOn405(t *testing.T) {
	var (
		mu      sync.Mutex
		methods []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.Client()), quietLogger())
	code, err := c.Status(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.Client()), quietLogger())
	code, err := c.Status(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ReportsLastServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.Client()), quietLogger())
	code, err := c.Status(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestClient_DoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/moved" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.Client()), quietLogger())
	code, err := c.Status(context.Background(), srv.URL+"/moved")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, code)
}

func TestClient_InvalidURL(t *testing.T) {
	c := NewClient(fastOptions(nil), quietLogger())
	_, err := c.Status(context.Background(), "://bad")
	assert.Error(t, err)
}
