package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type WS struct {
	PingInterval    string `yaml:"pingInterval"`    // default 15s
	MaxMessageBytes int64  `yaml:"maxMessageBytes"` // default 64KiB
}

type Room struct {
	IDLength   int `yaml:"idLength"`   // длина идентификатора комнаты
	MaxChatLen int `yaml:"maxChatLen"` // лимит длины сообщения в чате
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // sync-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	WS      WS      `yaml:"ws"`
	Room    Room    `yaml:"room"`
	Logging Logging `yaml:"logging"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	// установка дефолтов, если значения не указаны
	if c.WS.MaxMessageBytes <= 0 {
		c.WS.MaxMessageBytes = 64 << 10
	}
	if c.Room.IDLength <= 0 {
		c.Room.IDLength = 7
	}
	if c.Room.MaxChatLen <= 0 {
		c.Room.MaxChatLen = 4000
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "sync-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}

// PingEvery парсит ws.pingInterval с дефолтом 15s.
func (c *Config) PingEvery() time.Duration {
	return parseDurationOr(15*time.Second, c.WS.PingInterval)
}

func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
