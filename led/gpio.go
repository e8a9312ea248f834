package led

import (
	"fmt"
	"math"
	"strconv"

	"github.com/evkuzin/wxled/color"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// GPIO is a common-cathode RGB LED with one PWM pin per channel.
type GPIO struct {
	pins   [3]gpio.PinOut
	freq   physic.Frequency
	logger *logrus.Logger
}

func OpenGPIO(red, green, blue, freqHz int, logger *logrus.Logger) (*GPIO, error) {
	var pins [3]gpio.PinOut
	for i, n := range []int{red, green, blue} {
		p := gpioreg.ByName(strconv.Itoa(n))
		if p == nil {
			return nil, fmt.Errorf("no such gpio pin: %d", n)
		}
		logger.Debugf("led channel %d on %s", i, p)
		pins[i] = p
	}
	return NewGPIO(pins, physic.Frequency(freqHz)*physic.Hertz, logger), nil
}

func NewGPIO(pins [3]gpio.PinOut, freq physic.Frequency, logger *logrus.Logger) *GPIO {
	return &GPIO{pins: pins, freq: freq, logger: logger}
}

func (l *GPIO) SetColor(c color.Triple) error {
	for i, v := range []float64{c.R, c.G, c.B} {
		if err := l.set(l.pins[i], v); err != nil {
			return fmt.Errorf("set %s: %w", l.pins[i], err)
		}
	}
	return nil
}

func (l *GPIO) set(p gpio.PinOut, v float64) error {
	switch {
	case v <= 0:
		return p.Out(gpio.Low)
	case v >= 1:
		return p.Out(gpio.High)
	default:
		return p.PWM(gpio.Duty(math.Round(v*float64(gpio.DutyMax))), l.freq)
	}
}

func (l *GPIO) Release() error {
	var firstErr error
	for _, p := range l.pins {
		if err := p.Out(gpio.Low); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := p.Halt(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.logger.Debugf("gpio led released")
	return firstErr
}
