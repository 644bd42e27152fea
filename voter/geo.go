// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const maxGeoResponse = 64 << 10

// GeoLocator resolves an IP address to an ISO country code over HTTP.
// The endpoint must answer with a geoplugin-style JSON document.
type GeoLocator struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewGeoLocator returns a locator for endpoint. An empty endpoint disables lookups.
func NewGeoLocator(endpoint string, timeout time.Duration, logger *slog.Logger) *GeoLocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoLocator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("module", "voter"),
	}
}

type geoResponse struct {
	CountryCode string `json:"geoplugin_countryCode"`
}

// Country returns the country code for ip, or "" when the lookup fails.
// Local addresses are not sent; the service then locates the caller itself.
func (g *GeoLocator) Country(ctx context.Context, ip string) string {
	if g == nil || g.endpoint == "" {
		return ""
	}

	country, err := g.lookup(ctx, ip)
	if err != nil {
		g.logger.Warn("geolocation failed", "event", "voter.geo", "error", err)
		return ""
	}
	return country
}

func (g *GeoLocator) lookup(ctx context.Context, ip string) (string, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse geolocation endpoint")
	}
	if ip != "" && !IsLocalIP(ip) {
		q := u.Query()
		q.Set("ip", ip)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", errors.Wrap(err, "build geolocation request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "geolocation request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("geolocation status %d", resp.StatusCode)
	}

	var body geoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxGeoResponse)).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decode geolocation response")
	}
	return sanitizeText(body.CountryCode), nil
}
