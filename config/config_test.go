package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "wxled.yaml")
	require.NoError(t, os.WriteFile(f, []byte(body), 0o600))
	return f
}

func TestNewConfig_Defaults(t *testing.T) {
	conf, err := NewConfig("")
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	require.Equal(t, "28711", conf.Location)
	require.Equal(t, "(WxLED, wxled@cogbill.co)", conf.UserAgent)
	require.Equal(t, 5*time.Minute, conf.UpdateEvery())
	require.Equal(t, time.Minute, conf.CooldownAfterError())
	require.Equal(t, 500*time.Millisecond, conf.Blink())
	require.Equal(t, 10*time.Second, conf.RequestTimeout())
	require.Equal(t, 17, conf.LED.RedPin)
	require.Equal(t, 27, conf.LED.GreenPin)
	require.Equal(t, 22, conf.LED.BluePin)
	require.Nil(t, conf.Database)
}

func TestNewConfig_File(t *testing.T) {
	f := writeConfig(t, `
location: "94105"
update_interval: 120
led:
  driver: apa102
  num_pixels: 8
color:
  hot_above: 85
database:
  host: localhost
  port: 5432
  user: wxled
  name: wxled
telegram:
  enable: true
  key: secret
  chat_id: 42
`)
	conf, err := NewConfig(f)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	require.Equal(t, "94105", conf.Location)
	require.Equal(t, 2*time.Minute, conf.UpdateEvery())
	require.Equal(t, "apa102", conf.LED.Driver)
	require.Equal(t, 8, conf.LED.NumPixels)
	// untouched keys keep their defaults
	require.Equal(t, 17, conf.LED.RedPin)
	require.Equal(t, 85, conf.Color.HotAbove)
	require.Equal(t, 0.2, conf.Color.Boost)
	require.NotNil(t, conf.Database)
	require.Equal(t, "wxled", conf.Database.Name)
	require.Equal(t, int64(42), conf.Telegram.ChatID)
}

func TestNewConfig_Missing(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfig_LoadEnv(t *testing.T) {
	t.Setenv("NWS_USER_AGENT", "(test, test@example.com)")
	t.Setenv("ZIP_CODE", "10001")
	t.Setenv("UPDATE_INTERVAL", "60")
	t.Setenv("RED_PIN", "5")
	t.Setenv("GREEN_PIN", "6")
	t.Setenv("BLUE_PIN", "13")

	conf := Default()
	require.NoError(t, conf.LoadEnv())

	require.Equal(t, "(test, test@example.com)", conf.UserAgent)
	require.Equal(t, "10001", conf.Location)
	require.Equal(t, time.Minute, conf.UpdateEvery())
	require.Equal(t, 5, conf.LED.RedPin)
	require.Equal(t, 6, conf.LED.GreenPin)
	require.Equal(t, 13, conf.LED.BluePin)
}

func TestConfig_LoadEnvBadInt(t *testing.T) {
	t.Setenv("UPDATE_INTERVAL", "soon")

	require.Error(t, Default().LoadEnv())
}

func TestConfig_LogLevelCase(t *testing.T) {
	for _, level := range []string{"WARN", "Debug", "error", "warning"} {
		t.Setenv("LOG_LEVEL", level)
		conf := Default()
		require.NoError(t, conf.LoadEnv())
		require.NoError(t, conf.Validate(), level)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "no location", modify: func(c *Config) { c.Location = "" }},
		{name: "no user agent", modify: func(c *Config) { c.UserAgent = "" }},
		{name: "zero interval", modify: func(c *Config) { c.UpdateInterval = 0 }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "loud" }},
		{name: "unknown driver", modify: func(c *Config) { c.LED.Driver = "neopixel" }},
		{name: "boost too large", modify: func(c *Config) { c.Color.Boost = 2 }},
		{name: "telegram without key", modify: func(c *Config) { c.Telegram.Enable = true; c.Telegram.ChatID = 1 }},
		{name: "database without host", modify: func(c *Config) { c.Database = &Database{Port: 5432, User: "u", Name: "n"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.modify(conf)
			require.Error(t, conf.Validate())
		})
	}
}
