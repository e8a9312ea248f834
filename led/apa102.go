package led

import (
	"fmt"
	"math"

	"github.com/evkuzin/wxled/color"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"
)

// APA102 is a strip of addressable LEDs on SPI, all showing the same colour.
type APA102 struct {
	dev    *apa102.Dev
	port   spi.PortCloser
	pixels int
	logger *logrus.Logger
}

func OpenAPA102(port string, pixels int, intensity uint8, logger *logrus.Logger) (*APA102, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("cannot open spi port %q: %w", port, err)
	}
	opts := apa102.DefaultOpts
	opts.NumPixels = pixels
	opts.Intensity = intensity
	dev, err := apa102.New(p, &opts)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("cannot open apa102: %w", err)
	}
	logger.Debugf("apa102 strip with %d pixels on %s", pixels, p)
	return &APA102{dev: dev, port: p, pixels: pixels, logger: logger}, nil
}

func (l *APA102) SetColor(c color.Triple) error {
	_, err := l.dev.Write(frame(c, l.pixels))
	return err
}

func (l *APA102) Release() error {
	_, err := l.dev.Write(frame(color.Off, l.pixels))
	if herr := l.dev.Halt(); err == nil {
		err = herr
	}
	if cerr := l.port.Close(); err == nil {
		err = cerr
	}
	l.logger.Debugf("apa102 strip released")
	return err
}

// frame repeats c as 8 bit RGB for every pixel.
func frame(c color.Triple, pixels int) []byte {
	rgb := [3]byte{channel(c.R), channel(c.G), channel(c.B)}
	buf := make([]byte, 0, 3*pixels)
	for i := 0; i < pixels; i++ {
		buf = append(buf, rgb[:]...)
	}
	return buf
}

func channel(v float64) byte {
	return byte(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
