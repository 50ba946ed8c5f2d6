package marketanalyze

import "time"

type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxTokens:   1024,
		Temperature: 0.2,
		Timeout:     60 * time.Second,
	}
}
