package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/bookbase/ledger-service/pkg/kafka"
	"github.com/bookbase/ledger-service/pkg/logger"
	"github.com/bookbase/ledger-service/pkg/postgres"
)

type StoreKind string

const (
	StoreRedis    StoreKind = "redis"
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

type HTTPServer struct {
	Host         string        `envconfig:"LEDGER_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"LEDGER_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB"`
}

type Config struct {
	Server   HTTPServer
	Store    StoreKind `envconfig:"LEDGER_STORE" default:"redis"`
	Redis    Redis
	Database postgres.Config
	Kafka    kafka.Config
	Log      logger.Log
}

var (
	once sync.Once
	cfg  Config
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
