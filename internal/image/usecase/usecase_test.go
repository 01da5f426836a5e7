package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/cache"
	"github.com/fekuna/omnipos-picklist-service/internal/image"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// fakeCDN serves a photo for one padded EAN and 404 for everything else.
func fakeCDN(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "picklist-test", r.Header.Get("User-Agent"))
		if r.URL.Path != "/0000000004011.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("banana"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetImageFetchesPaddedEANAndCaches(t *testing.T) {
	var hits int32
	srv := fakeCDN(t, &hits)
	codec := image.NewCodec("")
	cdn := image.NewCDNClient(&image.Config{BaseURL: srv.URL, UserAgent: "picklist-test", Timeout: time.Second})
	uc := NewImageUseCase(codec, cdn, newMemCache(), time.Hour, logger.NewNop())

	for i := 0; i < 2; i++ {
		img, err := uc.GetImage(context.Background(), codec.Encode("4011"))
		require.NoError(t, err)
		assert.Equal(t, "image/webp", img.ContentType)
		assert.Equal(t, []byte("banana"), img.Data)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second read is served from cache")
}

func TestGetImageMissingIsNotFound(t *testing.T) {
	var hits int32
	srv := fakeCDN(t, &hits)
	codec := image.NewCodec("")
	cdn := image.NewCDNClient(&image.Config{BaseURL: srv.URL, UserAgent: "picklist-test"})
	uc := NewImageUseCase(codec, cdn, nil, 0, logger.NewNop())

	_, err := uc.GetImage(context.Background(), codec.Encode("7300156486101"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGetImageRejectsBadIDWithoutFetching(t *testing.T) {
	var hits int32
	srv := fakeCDN(t, &hits)
	cdn := image.NewCDNClient(&image.Config{BaseURL: srv.URL, UserAgent: "picklist-test"})
	uc := NewImageUseCase(image.NewCodec(""), cdn, nil, 0, logger.NewNop())

	_, err := uc.GetImage(context.Background(), "b3RoZXJfc2FsdF8xMjM")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestGetImageUpstreamFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	codec := image.NewCodec("")
	cdn := image.NewCDNClient(&image.Config{BaseURL: srv.URL})
	uc := NewImageUseCase(codec, cdn, nil, 0, logger.NewNop())

	_, err := uc.GetImage(context.Background(), codec.Encode("4011"))
	assert.True(t, apperr.IsKind(err, apperr.KindTransient))
}
