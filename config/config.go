package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/evkuzin/wxled/color"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type telegram struct {
	Key    string `yaml:"key" validate:"required_if=Enable true"`
	ChatID int64  `yaml:"chat_id" validate:"required_if=Enable true"`
	Debug  bool   `yaml:"debug"`
	Enable bool   `yaml:"enable"`
}

type Database struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"gt=0"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" validate:"required"`
}

// LED selects and wires the light. Pins are BCM numbers.
type LED struct {
	Driver       string `yaml:"driver" validate:"oneof=gpio apa102"`
	RedPin       int    `yaml:"red_pin" validate:"gte=0"`
	GreenPin     int    `yaml:"green_pin" validate:"gte=0"`
	BluePin      int    `yaml:"blue_pin" validate:"gte=0"`
	PWMFrequency int    `yaml:"pwm_frequency" validate:"gt=0"`
	SPIPort      string `yaml:"spi_port"`
	NumPixels    int    `yaml:"num_pixels" validate:"gt=0"`
	Intensity    uint8  `yaml:"intensity"`
}

type Geocoder struct {
	GoogleAPIKey string  `yaml:"google_api_key"`
	Country      string  `yaml:"country"`
	Latitude     float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `yaml:"longitude" validate:"gte=-180,lte=180"`
}

type Config struct {
	Location  string `yaml:"location" validate:"required"`
	UserAgent string `yaml:"user_agent" validate:"required"`
	APIBase   string `yaml:"api_base" validate:"required,url"`
	LogLevel  string `yaml:"log_level" validate:"loglevel"`
	Listen    string `yaml:"listen"`

	// intervals, in seconds
	UpdateInterval int `yaml:"update_interval" validate:"gt=0"`
	ErrorCooldown  int `yaml:"error_cooldown" validate:"gt=0"`
	HTTPTimeout    int `yaml:"http_timeout" validate:"gt=0"`
	// BlinkPeriod is in milliseconds.
	BlinkPeriod int `yaml:"blink_period" validate:"gt=0"`

	LED      LED           `yaml:"led"`
	Color    color.Options `yaml:"color"`
	Geocoder Geocoder      `yaml:"geocoder"`
	Database *Database     `yaml:"database"`
	Telegram telegram      `yaml:"telegram"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Location:       "28711",
		UserAgent:      "(WxLED, wxled@cogbill.co)",
		APIBase:        "https://api.weather.gov",
		LogLevel:       "info",
		UpdateInterval: 300,
		ErrorCooldown:  60,
		HTTPTimeout:    10,
		BlinkPeriod:    500,
		LED: LED{
			Driver:       "gpio",
			RedPin:       17,
			GreenPin:     27,
			BluePin:      22,
			PWMFrequency: 1000,
			NumPixels:    1,
			Intensity:    255,
		},
		Color: color.DefaultOptions,
		Geocoder: Geocoder{
			Country:   "US",
			Latitude:  37.7749,
			Longitude: -122.4194,
		},
	}
}

// NewConfig reads f over the defaults. An empty f yields the defaults.
func NewConfig(f string) (*Config, error) {
	conf := Default()
	if f == "" {
		return conf, nil
	}
	rawConf, err := ioutil.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("cannot open a Config: %w", err)
	}
	err = yaml.Unmarshal(rawConf, conf)
	if err != nil {
		return nil, fmt.Errorf("cannot unmarshall a Config: %w", err)
	}
	return conf, nil
}

// LoadEnv applies environment overrides.
func (c *Config) LoadEnv() error {
	if v := os.Getenv("NWS_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("ZIP_CODE"); v != "" {
		c.Location = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Geocoder.GoogleAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_KEY"); v != "" {
		c.Telegram.Key = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"UPDATE_INTERVAL", &c.UpdateInterval},
		{"RED_PIN", &c.LED.RedPin},
		{"GREEN_PIN", &c.LED.GreenPin},
		{"BLUE_PIN", &c.LED.BluePin},
	}
	for _, i := range ints {
		v := os.Getenv(i.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", i.key, err)
		}
		*i.dst = n
	}
	return nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logrus.ParseLevel(fl.Field().String())
		return err == nil
	})
	if err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) UpdateEvery() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

func (c *Config) CooldownAfterError() time.Duration {
	return time.Duration(c.ErrorCooldown) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

func (c *Config) Blink() time.Duration {
	return time.Duration(c.BlinkPeriod) * time.Millisecond
}
