package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"dev"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET_KEY,required"`

	Redis    Redis    `envPrefix:"REDIS_"`
	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Mail     Mail     `envPrefix:"SPARKPOST_"`
	Google   Google   `envPrefix:"GOOGLE_"`
	Apple    Apple    `envPrefix:"APPLE_"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Razorpay struct {
	KeyID     string `env:"KEY_ID"`
	KeySecret string `env:"KEY_SECRET"`
}

type Telegram struct {
	BotToken string `env:"BOT_TOKEN"`
}

type Mail struct {
	APIKey string `env:"API_KEY"`
}

type Google struct {
	ClientID string `env:"CLIENT_ID"`
}

type Apple struct {
	ClientID string `env:"CLIENT_ID"`
	KeysURL  string `env:"KEYS_URL" envDefault:"https://appleid.apple.com/auth/keys"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
