package storage

import (
	"fmt"
	"time"

	"github.com/evkuzin/wxled/color"
	"github.com/evkuzin/wxled/config"
	"github.com/evkuzin/wxled/weather_station"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Observation struct {
	ID          uint `gorm:"primaryKey"`
	Condition   string
	Temperature *int
	Red         float64
	Green       float64
	Blue        float64
	Time        time.Time `gorm:"index"`
}

type Storage struct {
	db *gorm.DB
}

func (s *Storage) Init(config *config.Database, log *logrus.Logger) error {
	newLogger := logger.New(
		log,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		config.Host,
		config.User,
		config.Password,
		config.Name,
		config.Port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	s.db = db
	err = s.db.AutoMigrate(&Observation{})
	if err != nil {
		return fmt.Errorf("cannot migrate database: %w", err)
	}
	return nil
}

func (s *Storage) Put(event *weather_station.Observation, c color.Triple) error {
	tx := s.db.Create(&Observation{
		Condition:   event.Condition,
		Temperature: event.Temperature,
		Red:         c.R,
		Green:       c.G,
		Blue:        c.B,
		Time:        event.Time,
	})
	return tx.Error
}

// GetEvents returns the records of the last t, oldest first.
func (s *Storage) GetEvents(t time.Duration) ([]weather_station.Record, error) {
	var rows []Observation
	tx := s.db.Where("time > ?", time.Now().Add(-t)).Order("time").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	events := make([]weather_station.Record, 0, len(rows))
	for _, row := range rows {
		events = append(events, weather_station.Record{
			Observation: weather_station.Observation{
				Condition:   row.Condition,
				Temperature: row.Temperature,
				Time:        row.Time,
			},
			Color: color.Triple{R: row.Red, G: row.Green, B: row.Blue},
		})
	}
	return events, nil
}

func NewStorage() Adapter {
	return &Storage{}
}
