package geocoding_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/geocoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Query().Get("address") {
		case "1 Main St, Springfield, IL 62701, US":
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":39.78,"lng":-89.65}}}]}`))
		case "Nowhere":
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		default:
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
		}
	}))
	defer srv.Close()

	g := geocoding.NewGoogleGeocoder(srv.URL, "test-key")
	require.NotNil(t, g)
	ctx := context.Background()

	t.Run("resolves an address", func(t *testing.T) {
		c, err := g.Geocode(ctx, domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"})
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.InDelta(t, 39.78, c.Lat, 1e-9)
		assert.InDelta(t, -89.65, c.Lng, 1e-9)
	})

	t.Run("no match is nil without error", func(t *testing.T) {
		c, err := g.Geocode(ctx, domain.Address{Street: "Nowhere"})
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("service failure is nil without error", func(t *testing.T) {
		c, err := g.Geocode(ctx, domain.Address{Street: "Elsewhere"})
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := g.Geocode(cctx, domain.Address{Street: "Nowhere"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no api key disables the client", func(t *testing.T) {
		assert.Nil(t, geocoding.NewGoogleGeocoder("", ""))
	})
}
