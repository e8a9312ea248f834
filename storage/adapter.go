package storage

import (
	"time"

	"github.com/evkuzin/wxled/color"
	"github.com/evkuzin/wxled/config"
	"github.com/evkuzin/wxled/weather_station"
	"github.com/sirupsen/logrus"
)

type Adapter interface {
	Init(config *config.Database, logger *logrus.Logger) error
	Put(event *weather_station.Observation, c color.Triple) error
	GetEvents(t time.Duration) ([]weather_station.Record, error)
}
