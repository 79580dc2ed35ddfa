package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound     = errors.New("geocode not found")
	ErrInvalidQuery = errors.New("invalid geocode query")
)

type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
	Confidence  float64 `json:"confidence"`
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// ParseCoordinates reads the coordinates embedded in an issue location.
// Accepted forms are "lat,lng" and "lat,lng | address".
func ParseCoordinates(location string) (lat, lon float64, ok bool) {
	head, _, _ := strings.Cut(location, "|")
	latRaw, lonRaw, found := strings.Cut(head, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return 0, 0, false
	}
	if !ValidCoordinates(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// FormatLocation renders coordinates, and an optional address, in the form
// ParseCoordinates accepts.
func FormatLocation(lat, lon float64, address string) string {
	coords := fmt.Sprintf("%.6f, %.6f", lat, lon)
	if strings.TrimSpace(address) == "" {
		return coords
	}
	return coords + " | " + strings.TrimSpace(address)
}
