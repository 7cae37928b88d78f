package enrichers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GeoLocation is the coarse result of a geo-IP lookup.
type GeoLocation struct {
	CountryCode string `json:"country_code"`
	City        string `json:"city"`
}

// GeoResolver resolves an IP address to a coarse location. Implementations
// must honor the context deadline; callers treat every failure as "no geo".
//
//go:generate mockgen -source=geo.go -destination=./mocks/geo_resolver_mock.go -package=mocks
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (*GeoLocation, error)
}

// GeoResolverFunc adapts a function to the GeoResolver interface.
type GeoResolverFunc func(ctx context.Context, ip string) (*GeoLocation, error)

func (f GeoResolverFunc) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	return f(ctx, ip)
}

// NoopGeoResolver returns empty locations; used when no geo endpoint is
// configured.
func NoopGeoResolver() GeoResolver {
	return GeoResolverFunc(func(ctx context.Context, ip string) (*GeoLocation, error) {
		return &GeoLocation{}, nil
	})
}

type httpGeoResolver struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewHTTPGeoResolver calls an external lookup service at
// GET <endpoint>?ip=<ip>, expecting a GeoLocation JSON body. The per-lookup
// timeout bounds how long an event can wait on geo.
func NewHTTPGeoResolver(endpoint string, timeout time.Duration) GeoResolver {
	return &httpGeoResolver{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *httpGeoResolver) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lookupURL := fmt.Sprintf("%s?ip=%s", r.endpoint, url.QueryEscape(ip))
	req, err := http.NewRequestWithContext(lookupCtx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geo lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		metricGeoLookupsTotal.WithLabelValues(geoFailed).Inc()
		return nil, fmt.Errorf("geo lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metricGeoLookupsTotal.WithLabelValues(geoFailed).Inc()
		return nil, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var location GeoLocation
	if err := json.NewDecoder(resp.Body).Decode(&location); err != nil {
		metricGeoLookupsTotal.WithLabelValues(geoFailed).Inc()
		return nil, fmt.Errorf("failed to decode geo lookup response: %w", err)
	}

	metricGeoLookupsTotal.WithLabelValues(geoResolved).Inc()
	return &location, nil
}
