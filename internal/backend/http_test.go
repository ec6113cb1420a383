package backend

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Timeout:       5 * time.Second,
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
		MaxSize:       1024,
	}
}

func TestHTTPLoad(t *testing.T) {
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	be := NewHTTP(testOptions())
	buf, err := be.Load(context.Background(), srv.URL+"/file")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf))
	assert.Equal(t, "mman", agent.Load())
}

func TestHTTPRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	be := NewHTTP(testOptions())
	buf, err := be.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(buf))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPRetryBounded(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	be := NewHTTP(testOptions())
	_, err := be.Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPNotFoundIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	be := NewHTTP(testOptions())
	_, err := be.Load(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, IsNotExist(err), "unexpected error %v", err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{'x'}, 2048))
	}))
	defer srv.Close()

	be := NewHTTP(testOptions())
	_, err := be.Get(context.Background(), srv.URL)
	require.Error(t, err)

	opts := testOptions()
	opts.MaxSize = 2048
	buf, err := NewHTTP(opts).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, buf, 2048)
}

func TestHTTPCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTP(testOptions()).Load(ctx, srv.URL)
	require.Error(t, err)
}

func TestGzip(t *testing.T) {
	data := []byte("ls - list directory contents\n")

	buf, err := Gzip(data)
	require.NoError(t, err)
	assert.NotEqual(t, data, buf)

	out, err := Gunzip(buf)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = Gunzip(data)
	assert.Error(t, err)

	assert.True(t, IsGzipName("abc123.1.gz"))
	assert.False(t, IsGzipName("ls.1"))
}
