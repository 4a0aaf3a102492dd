package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	GenAI GenAIConfig
}

// StoreConfig selects the record store backend. "file" keeps everything in
// a local directory; "redis" and "mongo" persist the same envelopes in the
// respective database.
type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=file"`
	Dir     string `env:"STORE_DIR,     default=./data"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=spectra"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type GenAIConfig struct {
	BaseURL    string        `env:"GENAI_BASE_URL,    default=https://generativelanguage.googleapis.com"`
	APIKey     string        `env:"GENAI_API_KEY"`
	TextModel  string        `env:"GENAI_TEXT_MODEL,  default=gemini-2.0-flash"`
	ImageModel string        `env:"GENAI_IMAGE_MODEL, default=gemini-2.0-flash-exp"`
	Timeout    time.Duration `env:"GENAI_TIMEOUT,     default=60s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
