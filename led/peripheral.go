package led

import (
	"fmt"

	"github.com/evkuzin/wxled/config"
	"github.com/evkuzin/wxled/weather_station"
	"github.com/sirupsen/logrus"
	"periph.io/x/host/v3"
)

// Init loads the periph host drivers.
func Init(logger *logrus.Logger) error {
	state, err := host.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	logger.Debugf("Using drivers:")
	for _, driver := range state.Loaded {
		logger.Debugf("- %s", driver)
	}

	logger.Debugf("Drivers skipped:")
	for _, failure := range state.Skipped {
		logger.Debugf("- %s: %s", failure.D, failure.Err)
	}

	// Having drivers failing to load may not require process termination. It
	// is possible to continue to run in partial failure mode.
	logger.Debugf("Drivers failed to load:")
	for _, failure := range state.Failed {
		logger.Debugf("- %s: %v", failure.D, failure.Err)
	}
	return nil
}

// Open initialises the host and opens the configured driver.
func Open(cfg config.LED, logger *logrus.Logger) (weather_station.Device, error) {
	if cfg.Driver != "gpio" && cfg.Driver != "apa102" {
		return nil, fmt.Errorf("unknown led driver %q", cfg.Driver)
	}
	if err := Init(logger); err != nil {
		return nil, err
	}
	if cfg.Driver == "apa102" {
		strip, err := OpenAPA102(cfg.SPIPort, cfg.NumPixels, cfg.Intensity, logger)
		if err != nil {
			return nil, err
		}
		return strip, nil
	}
	rgb, err := OpenGPIO(cfg.RedPin, cfg.GreenPin, cfg.BluePin, cfg.PWMFrequency, logger)
	if err != nil {
		return nil, err
	}
	return rgb, nil
}
