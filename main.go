package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evkuzin/wxled/color"
	"github.com/evkuzin/wxled/config"
	"github.com/evkuzin/wxled/geocode"
	"github.com/evkuzin/wxled/led"
	"github.com/evkuzin/wxled/nws"
	"github.com/evkuzin/wxled/storage"
	"github.com/evkuzin/wxled/weather_station"
	"github.com/evkuzin/wxled/weather_station/impl"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type options struct {
	Config   string `short:"c" long:"config" description:"path to the yaml config"`
	EnvFile  string `long:"env-file" default:".env" description:"dotenv file with overrides"`
	Location string `long:"location" description:"ZIP code to watch"`
	Interval int    `long:"interval" description:"seconds between updates"`
	Verbose  bool   `short:"v" long:"verbose" description:"debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := &logrus.Logger{
		Out:          os.Stdout,
		Formatter:    &logrus.TextFormatter{},
		Hooks:        make(logrus.LevelHooks),
		Level:        logrus.InfoLevel,
		ReportCaller: true,
	}

	if err := godotenv.Load(opts.EnvFile); err != nil {
		logger.Infof("no env file loaded: %s", err)
	}

	conf, err := loadConfig(opts)
	if err != nil {
		logger.Errorf("cannot load config: %s", err)
		os.Exit(1)
	}
	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		logger.Errorf("cannot parse log level: %s", err)
		os.Exit(1)
	}
	logger.SetLevel(level)
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	device, err := led.Open(conf.LED, logger)
	if err != nil {
		logger.Errorf("cannot init periph: %s", err.Error())
		os.Exit(1)
	}

	components := impl.Components{
		Geocoder:   newGeocoder(conf, logger),
		Forecaster: nws.New(conf.APIBase, conf.UserAgent, conf.RequestTimeout()),
		Device:     device,
		Resolver:   color.NewResolver(conf.Color),
	}
	if conf.Database != nil {
		s := storage.NewStorage()
		if err := s.Init(conf.Database, logger); err != nil {
			logger.Warnf("observation journal disabled: %s", err)
		} else {
			components.Storage = s
		}
	}
	if conf.Telegram.Enable {
		n, err := impl.NewTelegramNotifier(conf.Telegram.Key, conf.Telegram.ChatID, conf.Telegram.Debug, logger)
		if err != nil {
			logger.Warnf("telegram notifications disabled: %s", err)
		} else {
			components.Notifier = n
		}
	}

	ws, err := impl.NewWeatherStation(impl.Options{
		Location:       conf.Location,
		UpdateInterval: conf.UpdateEvery(),
		ErrorCooldown:  conf.CooldownAfterError(),
		BlinkPeriod:    conf.Blink(),
	}, components, logger)
	if err != nil {
		logger.Errorf("cannot create weather station: %s", err)
		_ = device.Release()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Listen != "" {
		srv := &http.Server{Addr: conf.Listen, Handler: ws, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warnf("Cannot start stats server. %v", err.Error())
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := ws.Run(ctx); err != nil {
		logger.Errorf("weather station stopped: %s", err)
		stop()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func loadConfig(opts options) (*config.Config, error) {
	conf, err := config.NewConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	if err := conf.LoadEnv(); err != nil {
		return nil, err
	}
	if opts.Location != "" {
		conf.Location = opts.Location
	}
	if opts.Interval > 0 {
		conf.UpdateInterval = opts.Interval
	}
	return conf, conf.Validate()
}

func newGeocoder(conf *config.Config, logger *logrus.Logger) weather_station.Geocoder {
	if conf.Geocoder.GoogleAPIKey != "" {
		return geocode.NewGoogle(conf.Geocoder.GoogleAPIKey, conf.Geocoder.Country)
	}
	return geocode.NewStub(weather_station.Coordinates{
		Latitude:  conf.Geocoder.Latitude,
		Longitude: conf.Geocoder.Longitude,
	}, logger)
}
