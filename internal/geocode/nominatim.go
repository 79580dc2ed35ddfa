package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "maintain-ai-backend"
)

// NominatimGeocoder proxies OpenStreetMap Nominatim. Upstream calls are paced
// by a shared limiter, identical in-flight lookups are coalesced and results
// are cached for the life of the process.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client

	limiter *rate.Limiter
	group   singleflight.Group

	mu    sync.Mutex
	cache map[string]Place
}

// NewNominatim builds a geocoder allowing one upstream request per interval.
func NewNominatim(baseURL, userAgent string, interval time.Duration) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &NominatimGeocoder{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		cache:     map[string]Place{},
	}
}

type nominatimItem struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
	Error       string  `json:"error"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, ErrInvalidQuery
	}
	if lat, lon, ok := ParseCoordinates(query); ok {
		return Place{Lat: lat, Lon: lon, DisplayName: query, Confidence: 1}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	return g.lookup(ctx, "search:"+strings.ToLower(query), "/search?"+params.Encode(), func(body []byte) (Place, error) {
		var items []nominatimItem
		if err := json.Unmarshal(body, &items); err != nil {
			return Place{}, err
		}
		return parseNominatimItems(items)
	})
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	if !ValidCoordinates(lat, lon) {
		return Place{}, ErrInvalidQuery
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("format", "json")
	key := "reverse:" + params.Get("lat") + "," + params.Get("lon")
	return g.lookup(ctx, key, "/reverse?"+params.Encode(), func(body []byte) (Place, error) {
		var item nominatimItem
		if err := json.Unmarshal(body, &item); err != nil {
			return Place{}, err
		}
		if item.Error != "" {
			return Place{}, ErrNotFound
		}
		return parseNominatimItems([]nominatimItem{item})
	})
}

func (g *NominatimGeocoder) lookup(ctx context.Context, key, path string, decode func([]byte) (Place, error)) (Place, error) {
	g.mu.Lock()
	if cached, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return cached, nil
	}
	g.mu.Unlock()

	v, err, _ := g.group.Do(key, func() (any, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return Place{}, err
		}
		body, err := g.get(ctx, path)
		if err != nil {
			return Place{}, err
		}
		place, err := decode(body)
		if err != nil {
			return Place{}, err
		}
		g.mu.Lock()
		g.cache[key] = place
		g.mu.Unlock()
		return place, nil
	})
	if err != nil {
		return Place{}, err
	}
	return v.(Place), nil
}

func (g *NominatimGeocoder) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nominatim http error: %s", resp.Status)
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func parseNominatimItems(items []nominatimItem) (Place, error) {
	if len(items) == 0 {
		return Place{}, ErrNotFound
	}
	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return Place{}, err
	}
	lon, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return Place{}, err
	}
	place := Place{
		Lat:         lat,
		Lon:         lon,
		DisplayName: items[0].DisplayName,
		Confidence:  items[0].Importance,
	}
	if place.Lat == 0 && place.Lon == 0 && place.DisplayName == "" {
		return Place{}, ErrNotFound
	}
	return place, nil
}
