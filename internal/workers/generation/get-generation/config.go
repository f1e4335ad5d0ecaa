package getgeneration

import "time"

type Config struct {
	Timeout    time.Duration
	MaxRetries int // caps STORE_READ_FAILED retries
}

func LoadConfig() *Config {
	return &Config{Timeout: 10 * time.Second, MaxRetries: 2}
}
