package color

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func temp(v int) *int {
	return &v
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(DefaultOptions)

	tests := []struct {
		name        string
		condition   string
		temperature *int
		want        Triple
	}{
		{name: "rain upper case", condition: "RAIN", want: Triple{0, 0.4, 1}},
		{name: "partly cloudy mixed case", condition: "Partly Cloudy", want: Triple{0.8, 0.8, 0.8}},
		{name: "sunny", condition: "Sunny", want: Triple{1, 0.8, 0}},
		{name: "thunderstorm", condition: "thunderstorm", want: Triple{1, 0, 1}},
		{name: "unknown", condition: "Tornado", want: Off},
		{name: "phrase is not a key", condition: "Rain Likely", want: Off},
		{name: "empty", condition: "", want: Off},
		{name: "unknown but hot", condition: "Tornado", temperature: temp(35), want: Triple{0.2, 0, 0}},
		{name: "hot clear capped", condition: "clear", temperature: temp(35), want: Triple{1, 0.8, 0}},
		{name: "cold snow capped", condition: "snow", temperature: temp(-5), want: Triple{0.8, 0.8, 1}},
		{name: "cold fog", condition: "fog", temperature: temp(-1), want: Triple{0.7, 0.7, 0.9}},
		{name: "mild", condition: "fog", temperature: temp(15), want: Triple{0.7, 0.7, 0.7}},
		{name: "at hot threshold", condition: "cloudy", temperature: temp(30), want: Triple{0.4, 0.4, 0.4}},
		{name: "at cold threshold", condition: "cloudy", temperature: temp(0), want: Triple{0.4, 0.4, 0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.condition, tt.temperature)
			require.InDelta(t, tt.want.R, got.R, 1e-9)
			require.InDelta(t, tt.want.G, got.G, 1e-9)
			require.InDelta(t, tt.want.B, got.B, 1e-9)
		})
	}
}

func TestResolver_HotAddsRed(t *testing.T) {
	r := NewResolver(DefaultOptions)

	base := r.Resolve("cloudy", nil)
	hot := r.Resolve("cloudy", temp(35))

	require.InDelta(t, 0.4, base.R, 1e-9)
	require.InDelta(t, 0.6, hot.R, 1e-9)
	require.Equal(t, base.G, hot.G)
	require.Equal(t, base.B, hot.B)
}

func TestResolver_AllConditionsCaseInsensitive(t *testing.T) {
	r := NewResolver(DefaultOptions)

	for _, name := range Conditions() {
		want := conditions[name]
		require.Equal(t, want, r.Resolve(strings.ToUpper(name), nil), name)
		require.Equal(t, want, r.Resolve(name, temp(15)), name)
	}
}

func TestResolver_CustomOptions(t *testing.T) {
	r := NewResolver(Options{HotAbove: 90, ColdBelow: 32, Boost: 0.5})

	require.Equal(t, Triple{0, 0.4, 1}, r.Resolve("rain", temp(85)))
	require.Equal(t, Triple{0.5, 1, 0.4}, r.Resolve("wind", temp(95)))
	require.Equal(t, Triple{0.5, 0.5, 1}, r.Resolve("mostly cloudy", temp(20)))
}

func TestTriple_String(t *testing.T) {
	require.Equal(t, "(1, 0.8, 0)", Triple{1, 0.8, 0}.String())
}
