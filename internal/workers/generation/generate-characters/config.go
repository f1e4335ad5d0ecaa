package generatecharacters

import (
	"time"

	"character-workers/internal/models"
)

type Config struct {
	Timeout     time.Duration
	DefaultMode models.Mode
	MaxRetries  int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     180 * time.Second,
		DefaultMode: models.ModeYCCompany,
	}
}
