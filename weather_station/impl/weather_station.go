package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evkuzin/wxled/color"
	"github.com/evkuzin/wxled/storage"
	"github.com/evkuzin/wxled/weather_station"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/sirupsen/logrus"
)

const graphWindow = 24 * time.Hour

// Options control the polling cadence.
type Options struct {
	// Location is the query handed to the geocoder, usually a ZIP code.
	Location       string
	UpdateInterval time.Duration
	// ErrorCooldown replaces UpdateInterval after an unexpected failure.
	ErrorCooldown time.Duration
	// BlinkPeriod is how long each half of the error blink lasts.
	BlinkPeriod time.Duration
}

// Components are the collaborators of the station. Delay, Storage and
// Notifier are optional.
type Components struct {
	Geocoder   weather_station.Geocoder
	Forecaster weather_station.Forecaster
	Device     weather_station.Device
	Resolver   *color.Resolver
	Delay      weather_station.Delay
	Storage    storage.Adapter
	Notifier   weather_station.Notifier
}

// weatherStationImpl polls the forecast and keeps the LED in step with it.
type weatherStationImpl struct {
	opts       Options
	logger     *logrus.Logger
	geocoder   weather_station.Geocoder
	forecaster weather_station.Forecaster
	device     weather_station.Device
	resolver   *color.Resolver
	delay      weather_station.Delay
	Storage    storage.Adapter
	notifier   weather_station.Notifier

	lastCondition string
}

// Run locates the station, resolves its forecast endpoint and polls until
// ctx is cancelled. Only the setup phase returns an error. The device is
// released once on every return.
func (ws *weatherStationImpl) Run(ctx context.Context) error {
	defer ws.release()
	ws.logger.Infof("Weather station starting for %s", ws.opts.Location)

	coords, err := ws.geocoder.Geocode(ctx, ws.opts.Location)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		ws.logger.Errorf("Failed to get coordinates: %s", err)
		return fmt.Errorf("locate %q: %w", ws.opts.Location, err)
	}

	forecastURL, err := ws.forecaster.ForecastURL(ctx, coords)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		ws.logger.Errorf("Failed to get forecast URL: %s", err)
		return fmt.Errorf("forecast endpoint for %v,%v: %w", coords.Latitude, coords.Longitude, err)
	}
	ws.logger.Infof("Forecast for %v,%v from %s", coords.Latitude, coords.Longitude, forecastURL)

	for ctx.Err() == nil {
		wait := ws.opts.UpdateInterval
		if err := ws.cycle(ctx, forecastURL); err != nil {
			if ctx.Err() != nil {
				break
			}
			ws.logger.Errorf("Error in main loop: %s", err)
			wait = ws.opts.ErrorCooldown
		}
		if err := ws.delay.Sleep(ctx, wait); err != nil {
			break
		}
	}
	ws.logger.Info("Stopping weather station")
	return nil
}

// cycle is one fetch and display. A failed fetch is handled here with a
// blink; the returned error is anything else that went wrong.
func (ws *weatherStationImpl) cycle(ctx context.Context, forecastURL string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	obs, err := ws.fetch(ctx, forecastURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ws.logger.Warnf("Error getting weather: %s", err)
		return ws.blink(ctx)
	}
	return ws.show(obs)
}

// fetch turns a panicking forecaster into an ordinary fetch failure.
func (ws *weatherStationImpl) fetch(ctx context.Context, forecastURL string) (obs weather_station.Observation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return ws.forecaster.Current(ctx, forecastURL)
}

func (ws *weatherStationImpl) show(obs weather_station.Observation) error {
	c := ws.resolver.Resolve(obs.Condition, obs.Temperature)
	if err := ws.device.SetColor(c); err != nil {
		return fmt.Errorf("cannot set led color: %w", err)
	}
	ws.logger.Infof("LED updated - Condition: %s, Temperature: %s, RGB: %s",
		obs.Condition, formatTemperature(obs.Temperature), c)

	if ws.Storage != nil {
		if err := ws.Storage.Put(&obs, c); err != nil {
			ws.logger.Warnf("cannot write to storage: %s", err.Error())
		}
	}
	if ws.notifier != nil && obs.Condition != ws.lastCondition {
		if err := ws.notifier.Notify(obs, c); err != nil {
			ws.logger.Warnf("cannot send notification: %s", err)
		} else {
			ws.lastCondition = obs.Condition
		}
	}
	return nil
}

func (ws *weatherStationImpl) blink(ctx context.Context) error {
	for _, c := range []color.Triple{color.Error, color.Off} {
		if err := ws.device.SetColor(c); err != nil {
			return fmt.Errorf("cannot blink led: %w", err)
		}
		if err := ws.delay.Sleep(ctx, ws.opts.BlinkPeriod); err != nil {
			return err
		}
	}
	return nil
}

func (ws *weatherStationImpl) release() {
	if err := ws.device.Release(); err != nil {
		ws.logger.Warnf("Error during led release: %s", err)
	}
}

func (ws *weatherStationImpl) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if ws.Storage == nil {
		http.Error(w, "no observation journal configured", http.StatusNotFound)
		return
	}
	samples, err := ws.Storage.GetEvents(graphWindow)
	if err != nil {
		ws.logger.Warnf("cannot read observations: %s", err)
		http.Error(w, "cannot read observations", http.StatusInternalServerError)
		return
	}
	ws.createGraph(w, samples)
}

func (ws *weatherStationImpl) createGraph(w io.Writer, samples []weather_station.Record) {
	line := ws.createBaseGraph(samples)
	err := line.Render(w)
	if err != nil {
		ws.logger.Infof("Unable to render graph. %v", err.Error())
	}
}

func (ws *weatherStationImpl) createBaseGraph(samples []weather_station.Record) *charts.Line {
	line := charts.NewLine()
	xTime := make([]time.Time, 0, len(samples))
	yTemperature := make([]opts.LineData, 0, len(samples))
	for _, sample := range samples {
		if sample.Temperature == nil {
			continue
		}
		symbol := "circle"
		if sample.Color == color.Off {
			symbol = "emptyCircle"
		}
		xTime = append(xTime, sample.Time)
		yTemperature = append(yTemperature, opts.LineData{Value: *sample.Temperature, Symbol: symbol})
	}
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithDataZoomOpts(opts.DataZoom{}),
		charts.WithTitleOpts(opts.Title{Title: "Temperature graph"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      true,
			Trigger:   "axis",
			TriggerOn: "mousemove",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
				Snap: true,
			},
		}))
	line.SetXAxis(xTime).
		AddSeries("Temperature", yTemperature)
	ws.logger.Infof("build graph based on %d observations from last %s", len(yTemperature), graphWindow)
	return line
}

// NewWeatherStation return a new instance of a WeatherStation daemon
func NewWeatherStation(o Options, c Components, logger *logrus.Logger) (weather_station.WeatherStation, error) {
	if c.Geocoder == nil || c.Forecaster == nil || c.Device == nil || c.Resolver == nil {
		return nil, errors.New("geocoder, forecaster, device and resolver are required")
	}
	delay := c.Delay
	if delay == nil {
		delay = timerDelay{}
	}
	return &weatherStationImpl{
		opts:       o,
		logger:     logger,
		geocoder:   c.Geocoder,
		forecaster: c.Forecaster,
		device:     c.Device,
		resolver:   c.Resolver,
		delay:      delay,
		Storage:    c.Storage,
		notifier:   c.Notifier,
	}, nil
}
