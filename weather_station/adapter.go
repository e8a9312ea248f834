package weather_station

import (
	"context"
	"net/http"
	"time"

	"github.com/evkuzin/wxled/color"
)

// Coordinates of the observed location, resolved once at startup.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Observation is the current forecast period. Temperature is in °F and
// nil when the forecast carries none.
type Observation struct {
	Condition   string
	Temperature *int
	Time        time.Time
}

// Record is a journaled observation together with the colour it produced.
type Record struct {
	Observation
	Color color.Triple
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Coordinates, error)
}

type Forecaster interface {
	// ForecastURL resolves the forecast endpoint for a location.
	ForecastURL(ctx context.Context, coords Coordinates) (string, error)
	// Current fetches the first forecast period from the endpoint.
	Current(ctx context.Context, forecastURL string) (Observation, error)
}

// Device is the LED. Release switches it off and frees the hardware.
type Device interface {
	SetColor(c color.Triple) error
	Release() error
}

// Delay blocks for d or until ctx is done, in which case it returns ctx.Err().
type Delay interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type Notifier interface {
	Notify(obs Observation, c color.Triple) error
}

type WeatherStation interface {
	ServeHTTP(w http.ResponseWriter, _ *http.Request)
	Run(ctx context.Context) error
}
