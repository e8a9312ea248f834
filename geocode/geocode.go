package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/evkuzin/wxled/weather_station"
	"github.com/kelvins/geocoder"
	"github.com/sirupsen/logrus"
)

// Stub ignores the query and always answers with the same coordinates.
type Stub struct {
	coords weather_station.Coordinates
	logger *logrus.Logger
}

func NewStub(coords weather_station.Coordinates, logger *logrus.Logger) *Stub {
	return &Stub{coords: coords, logger: logger}
}

func (s *Stub) Geocode(_ context.Context, query string) (weather_station.Coordinates, error) {
	s.logger.Warnf("no geocoding service configured, using %v,%v for %q",
		s.coords.Latitude, s.coords.Longitude, query)
	return s.coords, nil
}

// geocoder keeps its API key in a package variable.
var googleMu sync.Mutex

// Google resolves a postal code through the Google Geocoding API.
type Google struct {
	apiKey  string
	country string
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogle(apiKey, country string) *Google {
	return &Google{apiKey: apiKey, country: country, lookup: geocoder.Geocoding}
}

func (g *Google) Geocode(ctx context.Context, query string) (weather_station.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather_station.Coordinates{}, err
	}
	googleMu.Lock()
	geocoder.ApiKey = g.apiKey
	loc, err := g.lookup(geocoder.Address{PostalCode: query, Country: g.country})
	googleMu.Unlock()
	if err != nil {
		return weather_station.Coordinates{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	return weather_station.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}
