// Package nws talks to the api.weather.gov forecast service.
package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/evkuzin/wxled/weather_station"
	"github.com/sony/gobreaker"
)

const DefaultBaseURL = "https://api.weather.gov"

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNoForecastURL    = errors.New("points response has no forecast url")
	ErrNoPeriods        = errors.New("forecast has no periods")
	ErrNoCondition      = errors.New("forecast period has no short forecast")
)

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	circuit   *gobreaker.CircuitBreaker
	now       func() time.Time
}

// New returns a client whose every request is bounded by timeout.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		circuit:   gobreaker.NewCircuitBreaker(breakerSettings()),
		now:       time.Now,
	}
}

// tripAfter consecutive failures open the breaker. Polls are minutes apart,
// so closed-state counts are never reset by time, only by a success.
const tripAfter = 3

func breakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "nws",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
	}
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			ShortForecast string `json:"shortForecast"`
			Temperature   *int   `json:"temperature"`
		} `json:"periods"`
	} `json:"properties"`
}

func (c *Client) ForecastURL(ctx context.Context, coords weather_station.Coordinates) (string, error) {
	u := fmt.Sprintf("%s/points/%s,%s", c.baseURL,
		strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
		strconv.FormatFloat(coords.Longitude, 'f', -1, 64))

	var payload pointsResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return "", fmt.Errorf("points %s: %w", u, err)
	}
	if payload.Properties.Forecast == "" {
		return "", ErrNoForecastURL
	}
	return payload.Properties.Forecast, nil
}

func (c *Client) Current(ctx context.Context, forecastURL string) (weather_station.Observation, error) {
	var payload forecastResponse
	if err := c.getJSON(ctx, forecastURL, &payload); err != nil {
		return weather_station.Observation{}, fmt.Errorf("forecast: %w", err)
	}
	if len(payload.Properties.Periods) == 0 {
		return weather_station.Observation{}, ErrNoPeriods
	}
	period := payload.Properties.Periods[0]
	if period.ShortForecast == "" {
		return weather_station.Observation{}, ErrNoCondition
	}
	return weather_station.Observation{
		Condition:   period.ShortForecast,
		Temperature: period.Temperature,
		Time:        c.now(),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v interface{}) error {
	_, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		return nil, json.NewDecoder(resp.Body).Decode(v)
	})
	return err
}
