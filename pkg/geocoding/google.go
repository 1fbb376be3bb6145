// Package geocoding resolves postal addresses with the Google Geocoding API.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/logger"

	"go.uber.org/zap"
)

const DefaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

type GoogleGeocoder struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewGoogleGeocoder returns nil when apiKey is empty; callers treat a nil
// geocoder as geocoding being disabled.
func NewGoogleGeocoder(endpoint, apiKey string) *GoogleGeocoder {
	if apiKey == "" {
		return nil
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GoogleGeocoder{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the coordinates of the best match, or nil when the address
// cannot be resolved or the service fails. Only context errors are returned.
func (g *GoogleGeocoder) Geocode(ctx context.Context, addr domain.Address) (*domain.Coordinates, error) {
	coords, err := g.lookup(ctx, addr.Formatted())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Log.Warn("Geocoding failed", zap.String("city", addr.City), zap.Error(err))
		return nil, nil
	}
	return coords, nil
}

func (g *GoogleGeocoder) lookup(ctx context.Context, address string) (*domain.Coordinates, error) {
	q := url.Values{"address": {address}, "key": {g.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode: decode: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("geocode: %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return nil, nil
	}
	loc := body.Results[0].Geometry.Location
	return &domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
