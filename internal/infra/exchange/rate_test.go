package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	calls int
	rate  *Rate
	err   error
}

func (s *stubSource) FetchRate(ctx context.Context) (*Rate, error) {
	s.calls++
	return s.rate, s.err
}

func TestRateCache_TTL(t *testing.T) {
	source := &stubSource{rate: &Rate{KrwToUsd: 0.00077, UsdToKrw: 1300, Base: "KRW"}}
	cache := NewRateCache(source, 5*time.Minute)

	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	// Within the TTL the slot is served without refetching.
	current = current.Add(4 * time.Minute)
	second, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, source.calls)

	// Past expiry the next read refreshes.
	current = current.Add(2 * time.Minute)
	_, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestRateCache_Clear(t *testing.T) {
	source := &stubSource{rate: &Rate{UsdToKrw: 1300}}
	cache := NewRateCache(source, time.Hour)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	cache.Clear()
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestClient_FetchRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"base":"KRW","date":"2026-08-28","rates":{"USD":0.00072}}`)
	}))
	defer srv.Close()

	rate, err := NewClient(srv.URL, 1300).FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.00072, rate.KrwToUsd)
	assert.Equal(t, "KRW", rate.Base)
	assert.InDelta(t, 1388.9, rate.UsdToKrw, 0.1)
}

// A dead rate API must not break checkout: the client reports the fixed
// fallback rate instead of an error.
func TestClient_FetchRate_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rate, err := NewClient(srv.URL, 1300).FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(1300), rate.UsdToKrw)
}

func TestConvertKrwToUsd(t *testing.T) {
	rate := &Rate{KrwToUsd: 0.00077}
	assert.Equal(t, 13.86, ConvertKrwToUsd(18000, rate))
}
