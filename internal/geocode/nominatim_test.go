package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseNominatimItems(t *testing.T) {
	items := []nominatimItem{
		{
			Lat:         "17.5326",
			Lon:         "78.3849",
			DisplayName: "Nizampet, Hyderabad, Telangana, India",
			Importance:  0.52,
		},
	}
	res, err := parseNominatimItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Lat != 17.5326 || res.Lon != 78.3849 {
		t.Fatalf("unexpected coordinates: %+v", res)
	}
	if res.DisplayName != "Nizampet, Hyderabad, Telangana, India" {
		t.Fatalf("unexpected display name: %s", res.DisplayName)
	}
	if res.Confidence != 0.52 {
		t.Fatalf("unexpected confidence: %f", res.Confidence)
	}
}

func TestParseNominatimItemsEmpty(t *testing.T) {
	if _, err := parseNominatimItems(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGeocodeCachesAndCoalesces(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("missing user agent")
		}
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"17.49","lon":"78.39","display_name":"Bachupally","importance":0.4}]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "test-agent", time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			place, err := g.Geocode(context.Background(), "Bachupally")
			if err != nil {
				t.Errorf("geocode: %v", err)
				return
			}
			if place.DisplayName != "Bachupally" {
				t.Errorf("unexpected place %+v", place)
			}
		}()
	}
	wg.Wait()

	if _, err := g.Geocode(context.Background(), "bachupally"); err != nil {
		t.Fatalf("cached geocode: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestGeocodeCoordinatesShortCircuit(t *testing.T) {
	g := NewNominatim("http://127.0.0.1:1", "", time.Second)
	place, err := g.Geocode(context.Background(), "17.5, 78.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Lat != 17.5 || place.Lon != 78.4 {
		t.Fatalf("unexpected place %+v", place)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "", time.Millisecond)
	if _, err := g.Geocode(context.Background(), "nowhere at all"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := g.Geocode(context.Background(), "  "); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("lat") != "17.500000" {
			t.Errorf("unexpected lat %s", r.URL.Query().Get("lat"))
		}
		_, _ = w.Write([]byte(`{"lat":"17.5","lon":"78.4","display_name":"Nizampet Main Road"}`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "", time.Millisecond)
	place, err := g.Reverse(context.Background(), 17.5, 78.4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.DisplayName != "Nizampet Main Road" {
		t.Fatalf("unexpected place %+v", place)
	}
	if _, err := g.Reverse(context.Background(), 91, 0); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestReverseUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "", time.Millisecond)
	if _, err := g.Reverse(context.Background(), 0, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
