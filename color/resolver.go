package color

import (
	"fmt"
	"strings"
)

// Triple is an RGB colour with every channel in [0,1].
type Triple struct {
	R float64
	G float64
	B float64
}

func (t Triple) String() string {
	return fmt.Sprintf("(%g, %g, %g)", t.R, t.G, t.B)
}

var (
	// Off is shown for conditions missing from the table.
	Off = Triple{0, 0, 0}
	// Error is the blink colour used when no observation could be fetched.
	Error = Triple{1, 0, 0}
)

var conditions = map[string]Triple{
	"clear":         {1, 0.8, 0},
	"sunny":         {1, 0.8, 0},
	"mostly clear":  {0.8, 0.6, 0},
	"partly cloudy": {0.8, 0.8, 0.8},
	"mostly cloudy": {0.5, 0.5, 0.5},
	"cloudy":        {0.4, 0.4, 0.4},
	"rain":          {0, 0.4, 1},
	"snow":          {0.8, 0.8, 1},
	"thunderstorm":  {1, 0, 1},
	"fog":           {0.7, 0.7, 0.7},
	"wind":          {0, 1, 0.4},
}

// Options tunes the temperature adjustment, in °F.
type Options struct {
	HotAbove  int     `yaml:"hot_above"`
	ColdBelow int     `yaml:"cold_below"`
	Boost     float64 `yaml:"boost" validate:"gte=0,lte=1"`
}

// DefaultOptions adds 0.2 red above 30°F and 0.2 blue below 0°F.
var DefaultOptions = Options{
	HotAbove:  30,
	ColdBelow: 0,
	Boost:     0.2,
}

type Resolver struct {
	opts Options
}

func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Resolve maps a forecast condition and an optional temperature to a colour.
// Only exact case-insensitive matches against the table are recognised,
// so "Rain Likely" resolves to Off.
func (r *Resolver) Resolve(condition string, temperature *int) Triple {
	c, ok := conditions[strings.ToLower(condition)]
	if !ok {
		c = Off
	}
	if temperature == nil {
		return c
	}
	if *temperature > r.opts.HotAbove {
		c.R = boost(c.R, r.opts.Boost)
	} else if *temperature < r.opts.ColdBelow {
		c.B = boost(c.B, r.opts.Boost)
	}
	return c
}

func boost(v, by float64) float64 {
	v += by
	if v > 1 {
		return 1
	}
	return v
}

// Conditions lists the recognised condition names.
func Conditions() []string {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	return names
}
