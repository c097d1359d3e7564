package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime knob, populated from the environment.
type Config struct {
	Port          string        `envconfig:"PORT" default:":8080"`
	MongoURI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB       string        `envconfig:"MONGO_DB" default:"gasbookingdb"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	MerchantVPA   string        `envconfig:"MERCHANT_VPA" default:"agnigas@okaxis"`
	PendingTTL    time.Duration `envconfig:"PENDING_TTL" default:"60m"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"60m"`
}

// Load reads .env if present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Port == "" {
		cfg.Port = ":8080"
	} else if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}
