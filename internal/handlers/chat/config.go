package chat

import "time"

type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}
